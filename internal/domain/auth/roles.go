package auth

import "context"

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RolePayroll  = "payroll"
	RoleEmployee = "employee"
)

const (
	PermEmployeesRead   = "employees.read"
	PermEmployeesWrite  = "employees.write"
	PermAttendanceRead  = "attendance.read"
	PermAttendanceWrite = "attendance.write"
	PermLeaveRead       = "leave.read"
	PermLeaveWrite      = "leave.write"
	PermLeaveApprove    = "leave.approve"
	PermPayrollRead     = "payroll.read"
	PermPayrollProcess  = "payroll.process"
	PermSettingsRead    = "payroll.settings.read"
	PermSettingsWrite   = "payroll.settings.write"
	PermPayslipRead     = "payslip.read"
	PermAuditRead       = "audit.read"
)

var RolePermissions = map[string][]string{
	RoleAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermPayrollRead,
		PermPayrollProcess,
		PermSettingsRead,
		PermSettingsWrite,
		PermPayslipRead,
		PermAuditRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermPayrollRead,
		PermPayrollProcess,
		PermSettingsRead,
		PermSettingsWrite,
		PermPayslipRead,
		PermAuditRead,
	},
	RolePayroll: {
		PermEmployeesRead,
		PermAttendanceRead,
		PermLeaveRead,
		PermPayrollRead,
		PermPayrollProcess,
		PermSettingsRead,
		PermSettingsWrite,
		PermPayslipRead,
	},
	RoleEmployee: {
		PermEmployeesRead,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermPayslipRead,
	},
}

func ValidRole(role string) bool {
	switch role {
	case RoleHR, RolePayroll, RoleEmployee:
		return true
	}
	return false
}

// Permissions answers role-permission checks from the static table above.
type Permissions struct{}

func (Permissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	for _, candidate := range RolePermissions[role] {
		if candidate == permission {
			return true, nil
		}
	}
	return false, nil
}

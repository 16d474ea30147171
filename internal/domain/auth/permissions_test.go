package auth

import (
	"context"
	"testing"
)

func TestHRHasPayrollProcess(t *testing.T) {
	allowed, err := Permissions{}.HasPermission(context.Background(), RoleHR, PermPayrollProcess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Fatal("expected hr to process payroll")
	}
}

func TestEmployeeCannotWriteEmployees(t *testing.T) {
	allowed, err := Permissions{}.HasPermission(context.Background(), RoleEmployee, PermEmployeesWrite)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("expected employee to be denied employees.write")
	}
}

func TestPayrollOfficerCannotApproveLeave(t *testing.T) {
	allowed, err := Permissions{}.HasPermission(context.Background(), RolePayroll, PermLeaveApprove)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("expected payroll officer to be denied leave.approve")
	}
}

func TestUnknownRoleDenied(t *testing.T) {
	allowed, err := Permissions{}.HasPermission(context.Background(), "intern", PermEmployeesRead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("expected unknown role to be denied")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleHR, RolePayroll, RoleEmployee} {
		if !ValidRole(role) {
			t.Fatalf("expected %s to be a valid assignable role", role)
		}
	}
	if ValidRole(RoleAdmin) {
		t.Fatal("admin is a company principal, not an assignable user role")
	}
	if ValidRole("manager") {
		t.Fatal("unexpected valid role")
	}
}

package payroll

import "math"

const (
	DefaultPFPercent  = 12.0
	DefaultTaxPercent = 10.0
)

const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
)

const (
	CycleMonthly  = "monthly"
	CycleBiweekly = "biweekly"
	CycleWeekly   = "weekly"
)

func ValidCycle(c string) bool {
	switch c {
	case CycleMonthly, CycleBiweekly, CycleWeekly:
		return true
	}
	return false
}

type Breakdown struct {
	Gross      float64 `json:"gross"`
	PFPercent  float64 `json:"pfPercent"`
	TaxPercent float64 `json:"taxPercent"`
	PFAmount   float64 `json:"pfAmount"`
	TaxAmount  float64 `json:"taxAmount"`
	Deductions float64 `json:"deductions"`
	NetPay     float64 `json:"netPay"`
}

// Compute applies the flat percentage model. Amounts are rounded to
// cents and net pay is derived from the rounded deduction so the two
// always sum back to gross.
func Compute(gross, pfPercent, taxPercent float64) Breakdown {
	pf := round2(gross * pfPercent / 100)
	tax := round2(gross * taxPercent / 100)
	deductions := round2(pf + tax)
	return Breakdown{
		Gross:      gross,
		PFPercent:  pfPercent,
		TaxPercent: taxPercent,
		PFAmount:   pf,
		TaxAmount:  tax,
		Deductions: deductions,
		NetPay:     round2(gross - deductions),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

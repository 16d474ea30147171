package payroll

import (
	"math"
	"testing"
)

func TestComputeDefaults(t *testing.T) {
	b := Compute(50000, DefaultPFPercent, DefaultTaxPercent)
	if b.PFAmount != 6000 {
		t.Fatalf("pf = %v", b.PFAmount)
	}
	if b.TaxAmount != 5000 {
		t.Fatalf("tax = %v", b.TaxAmount)
	}
	if b.Deductions != 11000 {
		t.Fatalf("deductions = %v", b.Deductions)
	}
	if b.NetPay != 39000 {
		t.Fatalf("net = %v", b.NetPay)
	}
}

func TestComputeZeroRates(t *testing.T) {
	b := Compute(42000, 0, 0)
	if b.Deductions != 0 || b.NetPay != 42000 {
		t.Fatalf("zero rates: %+v", b)
	}
}

func TestDeductionsPlusNetEqualsGross(t *testing.T) {
	grosses := []float64{1, 999.99, 50000, 123456.78, 0.01}
	rates := [][2]float64{{12, 10}, {7.5, 3.25}, {0, 18}, {100, 0}}
	for _, g := range grosses {
		for _, r := range rates {
			b := Compute(g, r[0], r[1])
			if diff := math.Abs(b.Deductions + b.NetPay - g); diff > 0.005 {
				t.Fatalf("gross %v rates %v: deductions %v + net %v != gross", g, r, b.Deductions, b.NetPay)
			}
		}
	}
}

func TestComputeRoundsToCents(t *testing.T) {
	b := Compute(1000.01, 12, 10)
	if b.PFAmount != 120.00 {
		t.Fatalf("pf = %v", b.PFAmount)
	}
	if b.Deductions != 220.00 {
		t.Fatalf("deductions = %v", b.Deductions)
	}
	if b.NetPay != 780.01 {
		t.Fatalf("net = %v", b.NetPay)
	}
}

func TestValidCycle(t *testing.T) {
	if !ValidCycle(CycleMonthly) || ValidCycle("annual") {
		t.Fatal("cycle validation broken")
	}
}

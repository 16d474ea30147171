package reports

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
)

func TestMonthLabel(t *testing.T) {
	cases := map[int]string{1: "Jan", 6: "Jun", 12: "Dec", 0: "Unknown", 13: "Unknown", -3: "Unknown"}
	for month, want := range cases {
		if got := MonthLabel(month); got != want {
			t.Fatalf("MonthLabel(%d) = %q, want %q", month, got, want)
		}
	}
}

func TestLastNTruncatesOldest(t *testing.T) {
	buckets := make([]TrendBucket, 9)
	for i := range buckets {
		buckets[i] = TrendBucket{Year: 2026, Month: i + 1}
	}
	got := LastN(buckets, 6)
	if len(got) != 6 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Month != 4 || got[5].Month != 9 {
		t.Fatalf("window = %v", got)
	}

	short := buckets[:2]
	if len(LastN(short, 6)) != 2 {
		t.Fatal("short input should pass through")
	}
}

func TestBuildSummaryAveragesPerBucket(t *testing.T) {
	trend := []TrendBucket{
		{Month: 1, Count: 2, Total: 78000, Deductions: 22000},
		{Month: 2, Count: 1, Total: 39000, Deductions: 11000},
	}
	s := BuildSummary(trend, nil)
	if s.TotalPayout != 117000 {
		t.Fatalf("total = %v", s.TotalPayout)
	}
	// Average payout per month bucket, not per payroll record.
	if s.AveragePayout != 58500 {
		t.Fatalf("avg = %v", s.AveragePayout)
	}
}

func TestMonthlyTrendSumsNetPayAndDeductions(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SUM\(deductions\)`).
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows([]string{"year", "month", "count", "total", "deductions"}).
			AddRow(2026, 7, 2, 78000.0, 22000.0).
			AddRow(2026, 8, 1, 39000.0, 11000.0))

	s := NewStore(mock)
	trend, err := s.MonthlyTrend(context.Background(), "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(trend) != 2 {
		t.Fatalf("len = %d", len(trend))
	}
	if trend[0].Deductions != 22000 || trend[1].Deductions != 11000 {
		t.Fatalf("deductions not carried: %+v", trend)
	}
	if trend[1].Label != "Aug" {
		t.Fatalf("label = %q", trend[1].Label)
	}
}

func TestBuildSummaryEmptyTrend(t *testing.T) {
	s := BuildSummary(nil, nil)
	if s.AveragePayout != 0 || s.TotalPayout != 0 {
		t.Fatalf("empty trend should produce zeros: %+v", s)
	}
}

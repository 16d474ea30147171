package reports

import "time"

type TrendBucket struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Total      float64 `json:"total"`
	Deductions float64 `json:"deductions"`
}

type DeptSlice struct {
	Department string  `json:"department"`
	Count      int     `json:"count"`
	TotalNet   float64 `json:"totalNet"`
}

type Summary struct {
	Trend         []TrendBucket `json:"trend"`
	Departments   []DeptSlice   `json:"departments"`
	TotalPayout   float64       `json:"totalPayout"`
	AveragePayout float64       `json:"averagePayout"`
}

// MonthLabel maps 1..12 to the short month name. Anything outside the
// range reports as Unknown rather than panicking on bad data.
func MonthLabel(month int) string {
	if month < 1 || month > 12 {
		return "Unknown"
	}
	return time.Month(month).String()[:3]
}

// LastN keeps the newest n buckets, preserving ascending order.
func LastN(buckets []TrendBucket, n int) []TrendBucket {
	if len(buckets) <= n {
		return buckets
	}
	return buckets[len(buckets)-n:]
}

// BuildSummary derives the totals from the trend. The average is the
// payout per month bucket; a company with no processed payrolls
// averages to zero instead of dividing by zero.
func BuildSummary(trend []TrendBucket, departments []DeptSlice) Summary {
	var total float64
	for _, b := range trend {
		total += b.Total
	}
	avg := 0.0
	if len(trend) > 0 {
		avg = total / float64(len(trend))
	}
	return Summary{
		Trend:         trend,
		Departments:   departments,
		TotalPayout:   total,
		AveragePayout: avg,
	}
}

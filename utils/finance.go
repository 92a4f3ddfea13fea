package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// NextMonth returns the month after (month, year), rolling December into January.
func NextMonth(month, year int) (int, int) {
	if month == 12 {
		return 1, year + 1
	}
	return month + 1, year
}

// MonthWindow returns the half-open date range [start, end) covering one month.
func MonthWindow(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	nm, ny := NextMonth(month, year)
	end := time.Date(ny, time.Month(nm), 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

// DayWindow returns the half-open range covering one calendar day.
func DayWindow(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Percent returns part/whole*100 rounded to one decimal, or 0 when whole is 0.
func Percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	pct, _ := part.Div(whole).Mul(decimal.NewFromInt(100)).Round(1).Float64()
	return pct
}

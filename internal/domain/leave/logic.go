package leave

import (
	"errors"
	"time"
)

const dateFormat = "2006-01-02"

// CalculateDays returns the inclusive day count between two YYYY-MM-DD
// dates, the amount an approval deducts from the balance.
func CalculateDays(startDate, endDate string) (int, error) {
	start, err := time.Parse(dateFormat, startDate)
	if err != nil {
		return 0, err
	}
	end, err := time.Parse(dateFormat, endDate)
	if err != nil {
		return 0, err
	}
	if end.Before(start) {
		return 0, errors.New("end date before start date")
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// DeductBalance applies an approved leave of days against balance, floored
// at zero.
func DeductBalance(balance, days int) int {
	remaining := balance - days
	if remaining < 0 {
		return 0
	}
	return remaining
}

package core

import (
	"fmt"
	"time"
)

// validateDate checks a YYYY-MM-DD calendar date string.
func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	return nil
}

// validateMonth checks a YYYY-MM month key.
func validateMonth(month string) error {
	if _, err := time.Parse("2006-01", month); err != nil {
		return fmt.Errorf("invalid month %q, want YYYY-MM", month)
	}
	return nil
}

package core

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownMonth = errors.New("unknown month")

// English month names, independent of process locale.
var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// ParseMonth resolves a full English month name (case-insensitive) to 1..12.
func ParseMonth(name string) (int, error) {
	n := strings.TrimSpace(name)
	for i, m := range monthNames {
		if strings.EqualFold(n, m) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, name)
}

// MonthName returns the English name of month m, or "" when m is out of range.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

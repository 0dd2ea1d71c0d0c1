package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date format used for storage and JSON.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          int64
		Title       string
		Description string
		Price       decimal.Decimal
		Category    string
		DateOfSale  Date
	}
)

var (
	ErrEmptyDate     = errors.New("date of sale is required")
	ErrNegativePrice = errors.New("price cannot be negative")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf keeps the calendar date of t as seen in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// NotSold reports whether the transaction carries a zero price.
func (t Transaction) NotSold() bool {
	return t.Price.IsZero()
}

// Validate checks the storage invariants: a sale date and a non-negative price.
func (t Transaction) Validate() error {
	if t.DateOfSale.IsZero() {
		return ErrEmptyDate
	}
	if t.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

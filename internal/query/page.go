package query

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

var ErrInvalidPage = errors.New("invalid page")

// Page selects a contiguous 1-indexed slice of an ordered result set.
// A zero Page means "no limit".
type Page struct {
	Number int
	Size   int
}

// FirstPage is page 1 with the default size.
func FirstPage() Page { return Page{Number: DefaultPage, Size: DefaultPageSize} }

// Unpaged returns every row.
func Unpaged() Page { return Page{} }

func (p Page) Limited() bool { return p.Size > 0 }

// Overflows reports whether the page starts beyond any representable row
// offset. Such a page is past the end of every result set.
func (p Page) Overflows() bool {
	return p.Limited() && p.Number > 1 && p.Number-1 > math.MaxInt/p.Size
}

// Offset is the number of rows before the page. An overflowing page
// saturates at math.MaxInt.
func (p Page) Offset() int {
	if !p.Limited() || p.Number < 1 {
		return 0
	}
	if p.Overflows() {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}

func (p Page) Validate() error {
	if p.Number < 1 {
		return fmt.Errorf("%w: page must be at least 1, got %d", ErrInvalidPage, p.Number)
	}
	if p.Size < 1 {
		return fmt.Errorf("%w: per_page must be at least 1, got %d", ErrInvalidPage, p.Size)
	}
	return nil
}

// Slice applies the page to an in-memory result set.
func Slice[T any](items []T, p Page) []T {
	if !p.Limited() {
		return items
	}
	start := p.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + p.Size
	if end > len(items) || end < start {
		end = len(items)
	}
	return items[start:end]
}

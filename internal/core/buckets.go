package core

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// PriceRange is a histogram bucket: Lower inclusive, Upper exclusive.
// Bounds are whole currency units; an Unbounded range has no upper limit.
type PriceRange struct {
	Lower     int64
	Upper     int64
	Unbounded bool
}

// PriceRanges are the fixed bar-chart buckets. The ranges are not contiguous:
// [0,100) is followed by [101,200), so a price in [100,101) falls in none.
var PriceRanges = buildPriceRanges()

func buildPriceRanges() []PriceRange {
	ranges := []PriceRange{{Lower: 0, Upper: 100}}
	for lower := int64(101); lower < 901; lower += 100 {
		ranges = append(ranges, PriceRange{Lower: lower, Upper: lower + 99})
	}
	return append(ranges, PriceRange{Lower: 901, Unbounded: true})
}

// Label renders the range as "101-200" or "901-above".
func (r PriceRange) Label() string {
	if r.Unbounded {
		return strconv.FormatInt(r.Lower, 10) + "-above"
	}
	return strconv.FormatInt(r.Lower, 10) + "-" + strconv.FormatInt(r.Upper, 10)
}

func (r PriceRange) LowerCents() int64 { return r.Lower * 100 }

func (r PriceRange) UpperCents() int64 { return r.Upper * 100 }

// Contains reports whether p falls in the range. Membership is decided on the
// stored cent-rounded price, so 99.996 rounds to 100.00 and falls in no bucket.
// SQLite compares price_cents and gives the same answer.
func (r PriceRange) Contains(p decimal.Decimal) bool {
	cents := PriceToCents(p)
	if cents < r.LowerCents() {
		return false
	}
	return r.Unbounded || cents < r.UpperCents()
}

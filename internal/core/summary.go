package core

import "github.com/shopspring/decimal"

// Statistics summarises the sales of one month.
type Statistics struct {
	TotalSales   decimal.Decimal
	TotalItems   int64
	NotSoldItems int64
}

// BucketCount is one bar of the price-range histogram.
type BucketCount struct {
	Range PriceRange
	Count int64
}

// CategoryCount is one slice of the category breakdown.
type CategoryCount struct {
	Category string
	Count    int64
}

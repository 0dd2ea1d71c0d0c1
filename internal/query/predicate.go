// Package query builds filters, pagination and aggregations over stored
// transactions.
//
// Filters are explicit Predicate values composed with And/Or. Each predicate
// renders to a SQL fragment for the SQLite store and evaluates directly
// against a core.Transaction for the memory store, so both backends share
// the same filter semantics.
package query

import (
	"strings"

	"txboard/internal/core"

	"github.com/shopspring/decimal"
)

// Predicate is a filter over transactions.
type Predicate interface {
	// SQL renders the predicate as a WHERE fragment with positional args.
	SQL() (string, []any)
	// Match evaluates the predicate in memory.
	Match(t core.Transaction) bool
}

// Columns referenced by SQL fragments.
const (
	ColumnTitle       = "title"
	ColumnDescription = "description"
	ColumnPriceCents  = "price_cents"
	ColumnPriceText   = "price_text"
	ColumnDateOfSale  = "date_of_sale"
)

type all struct{}

// All matches every transaction.
func All() Predicate { return all{} }

func (all) SQL() (string, []any)        { return "1 = 1", nil }
func (all) Match(core.Transaction) bool { return true }

type monthIs struct{ month int }

// MonthIs matches transactions sold in the given month (1..12) of any year.
func MonthIs(month int) Predicate { return monthIs{month: month} }

func (p monthIs) SQL() (string, []any) {
	return "CAST(strftime('%m', " + ColumnDateOfSale + ") AS INTEGER) = ?", []any{p.month}
}

func (p monthIs) Match(t core.Transaction) bool { return t.DateOfSale.Month() == p.month }

// contains is a case-insensitive substring test on one text column.
type contains struct {
	column string
	field  func(core.Transaction) string
	needle string
}

func TitleContains(s string) Predicate {
	return contains{column: ColumnTitle, needle: s, field: func(t core.Transaction) string { return t.Title }}
}

func DescriptionContains(s string) Predicate {
	return contains{column: ColumnDescription, needle: s, field: func(t core.Transaction) string { return t.Description }}
}

// PriceTextContains matches against the two-decimal rendering of the price.
func PriceTextContains(s string) Predicate {
	return contains{column: ColumnPriceText, needle: s, field: func(t core.Transaction) string { return core.PriceText(t.Price) }}
}

func (p contains) SQL() (string, []any) {
	return p.column + ` LIKE ? ESCAPE '\'`, []any{"%" + escapeLike(p.needle) + "%"}
}

// Match folds ASCII letters only, the same as SQLite LIKE. "é" does not match "É".
func (p contains) Match(t core.Transaction) bool {
	return strings.Contains(asciiLower(p.field(t)), asciiLower(p.needle))
}

func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

type priceIs struct{ cents int64 }

// PriceIs matches an exact price, compared in cents.
func PriceIs(p decimal.Decimal) Predicate { return priceIs{cents: core.PriceToCents(p)} }

func (p priceIs) SQL() (string, []any) { return ColumnPriceCents + " = ?", []any{p.cents} }

func (p priceIs) Match(t core.Transaction) bool { return core.PriceToCents(t.Price) == p.cents }

type priceIn struct{ r core.PriceRange }

// PriceIn matches prices inside a histogram bucket.
func PriceIn(r core.PriceRange) Predicate { return priceIn{r: r} }

func (p priceIn) SQL() (string, []any) {
	if p.r.Unbounded {
		return ColumnPriceCents + " >= ?", []any{p.r.LowerCents()}
	}
	return ColumnPriceCents + " >= ? AND " + ColumnPriceCents + " < ?", []any{p.r.LowerCents(), p.r.UpperCents()}
}

func (p priceIn) Match(t core.Transaction) bool { return p.r.Contains(t.Price) }

type junction struct {
	op    string
	parts []Predicate
}

// And matches when every part matches. An empty And matches everything.
func And(parts ...Predicate) Predicate { return junction{op: "AND", parts: parts} }

// Or matches when any part matches. An empty Or matches nothing.
func Or(parts ...Predicate) Predicate { return junction{op: "OR", parts: parts} }

func (j junction) SQL() (string, []any) {
	if len(j.parts) == 0 {
		if j.op == "AND" {
			return "1 = 1", nil
		}
		return "1 = 0", nil
	}
	clauses := make([]string, 0, len(j.parts))
	var args []any
	for _, p := range j.parts {
		clause, a := p.SQL()
		clauses = append(clauses, "("+clause+")")
		args = append(args, a...)
	}
	return strings.Join(clauses, " "+j.op+" "), args
}

func (j junction) Match(t core.Transaction) bool {
	if j.op == "AND" {
		for _, p := range j.parts {
			if !p.Match(t) {
				return false
			}
		}
		return true
	}
	for _, p := range j.parts {
		if p.Match(t) {
			return true
		}
	}
	return false
}

// Search matches title or description containing s, a price whose text
// contains s, or a price equal to s when s is numeric.
func Search(s string) Predicate {
	parts := []Predicate{TitleContains(s), DescriptionContains(s), PriceTextContains(s)}
	if p, err := core.ParsePrice(s); err == nil {
		parts = append(parts, PriceIs(p))
	}
	return Or(parts...)
}

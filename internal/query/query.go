// Package query turns listing request parameters into a store-neutral
// filter and sort descriptor.
package query

import (
	"regexp"
	"strings"
)

type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

const (
	SortByName  = "name"
	SortByPrice = "price"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Query describes a product listing. Search is matched case-insensitively
// as a substring of the product name.
type Query struct {
	Search    string
	SortField string
	Direction Direction
}

// Build never fails: unknown sort fields fall back to name, unknown orders to
// ascending.
func Build(search, sortBy, order string) Query {
	q := Query{
		Search:    strings.TrimSpace(search),
		SortField: SortByName,
		Direction: Ascending,
	}

	switch strings.ToLower(sortBy) {
	case SortByPrice:
		q.SortField = SortByPrice
	}

	if strings.EqualFold(order, OrderDesc) {
		q.Direction = Descending
	}

	return q
}

func (q Query) HasSearch() bool { return q.Search != "" }

// Pattern is the search compiled to a regular expression with every
// metacharacter quoted.
func (q Query) Pattern() string {
	return regexp.QuoteMeta(q.Search)
}

// LikePattern is the search as a lower-cased SQL LIKE operand using '\' as
// the escape character.
func (q Query) LikePattern() string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q.Search)) + "%"
}

func (q Query) Order() string {
	if q.Direction == Descending {
		return OrderDesc
	}
	return OrderAsc
}

func (q Query) IsSortByName() bool  { return q.SortField == SortByName }
func (q Query) IsSortByPrice() bool { return q.SortField == SortByPrice }
func (q Query) IsAscending() bool   { return q.Direction == Ascending }
func (q Query) IsDescending() bool  { return q.Direction == Descending }

// internal/common/sort.go
package common

import (
	"sort"

	"af2tools/internal/search"
)

// LessRow defines the persisted order of result rows: query, then collection.
func LessRow(a, b search.Row) bool {
	if a.Query != b.Query {
		return a.Query < b.Query
	}
	return a.Collection < b.Collection
}

// SortRows orders rows with LessRow. Rows of one (query, collection) pair
// keep their report order.
func SortRows(rows []search.Row) {
	sort.SliceStable(rows, func(i, j int) bool { return LessRow(rows[i], rows[j]) })
}

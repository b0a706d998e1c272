// Package search runs FATCAT and USalign for every (query, collection) pair
// and keeps the target hits both tools agree on.
//
// A pair stages a copy of the query inside the collection directory and
// regenerates the collection's index file there, so two pairs sharing a
// collection must not overlap. Searcher serializes them with one lock per
// collection directory; pairs on different collections may run in parallel.
package search

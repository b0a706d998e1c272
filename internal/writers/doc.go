// Package writers turns search results into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (column names, number formatting).
//   - search stays domain-only; apps only choose where the bytes go.
package writers

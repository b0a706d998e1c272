// Package report parses the text reports of the structural search tools
// into typed records.
//
// Two formats are understood:
//   • FATCAT (FATCATSearch.pl -q): marker-driven blocks, one per target,
//     opened by an "Align" line and completed by its "Twists" and "P-value"
//     lines.
//   • USalign -outfmt 2: tab-separated, one target per line, "#" lines are
//     header/comments.
//
// Parsing never invents values: a line that does not fit the grammar is a
// *ParseError naming the source and line.
package report

// Package planner maps a directory of input files onto one job directory per
// input stem and decides, through an injected Policy, what happens to job
// directories that already hold a previous run.
//
// Planning and materializing are separate steps: Build never touches the
// filesystem beyond reading it, so an abort leaves no trace.
package planner

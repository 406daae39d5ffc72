// Package stats extracts player statistics tables from Statsguru HTML pages.
//
// The stats package locates the first engineTable whose header row carries both
// "Player" and "Runs" columns, repairs empty and duplicate header labels so they
// can be used as field names, and returns the body rows as trimmed strings in a
// Table whose row widths always match its header count.
package stats

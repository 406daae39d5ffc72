// Package cli implements the command-line interface for cricstats.
//
// The cli package provides the Cobra-based CLI with commands to serve the web
// dashboard, fetch the stats table once and print it (text/JSON/CSV, optionally
// sorted and saved as a snapshot), and show a previously saved snapshot.
package cli

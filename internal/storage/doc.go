// Package storage provides JSON-based persistence for fetched stats tables.
//
// A snapshot pairs a table with the URL it came from and when it was fetched.
// Snapshots are stored one file per name (snapshot_NAME.json), with the default
// name "latest" used by the CLI. The default storage location is
// ~/.local/share/cricstats/.
package storage

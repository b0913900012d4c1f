// Package shared contains code used across the pipeline packages.
//
// The testutil subpackage provides a capturing slog handler, sales line
// fixtures and an on-disk Northwind SQLite database builder for tests.
package shared

// Package database provides SQLite-based storage for crawl runs.
//
// Every crawl is stored as one row in crawl_runs plus one row per edge in
// edges, keyed by run and table position so a stored run reproduces the
// table in its original order. Runs of the same video can be compared
// through their table digests.
//
// The store uses modernc.org/sqlite, a CGO-free driver, with a single
// writer connection and WAL journaling.
package database

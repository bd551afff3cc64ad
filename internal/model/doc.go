// Package model defines the data structures shared across replygraph.
//
// This package contains the following main types:
//   - Edge: One normalized comment or reply, the row of the edge table
//   - EdgeTable: The append-only accumulating table filled by a crawl
//   - CrawlReport: The result of collecting one video
//   - Summary: A condensed, human-readable view of a crawl report
//
// Models live in their own package so that the crawler, storage, and report
// writers can share them without import cycles.
package model

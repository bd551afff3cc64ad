// Package main provides the entry point for the replygraph CLI.
//
// replygraph collects the comments and replies of a YouTube video through
// the YouTube Data API and flattens them into an edge table: one row per
// comment, with the author as source and, for replies, the @-mentioned
// addressee as destination.
//
// Usage:
//
//	replygraph crawl <video-id-or-url>
//	replygraph history [video-id]
//	replygraph export <run-id>
//
// See --help for all available options.
package main

// main is the entry point for replygraph.
func main() {
	Execute()
}

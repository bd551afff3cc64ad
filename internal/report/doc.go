// Package report writes crawl output.
//
// Edge writers (CSVWriter, JSONWriter) serialize an edge table in the
// canonical column order. Summary writers (SimpleWriter, MarkdownWriter,
// JSONWriter) render the condensed view of one crawl run for humans or
// tools.
//
// Report data lives in the model package; this package only formats it, so
// a new output format never touches the crawl code.
package report

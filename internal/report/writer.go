package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/replygraph/internal/config"
	"github.com/nao1215/replygraph/internal/model"
)

// ErrUnknownFormat is returned when no edge writer exists for a format.
var ErrUnknownFormat = errors.New("unknown edge file format")

// EdgeWriter writes an edge table.
type EdgeWriter interface {
	// WriteEdges outputs every edge of table in insertion order.
	// Returns the number of bytes written and any error encountered.
	WriteEdges(table *model.EdgeTable) (int, error)
}

// SummaryWriter writes the summary of one crawl run.
type SummaryWriter interface {
	// WriteSummary outputs the summary to the configured destination.
	WriteSummary(summary *model.Summary) (int, error)
}

// NewEdgeWriter returns the edge writer for format.
func NewEdgeWriter(format string, output io.Writer) (EdgeWriter, error) {
	switch format {
	case config.FormatCSV:
		return NewCSVWriter(output), nil
	case config.FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// MultiWriter writes one summary to several SummaryWriters.
type MultiWriter struct {
	writers []SummaryWriter
}

// NewMultiWriter creates a SummaryWriter that writes to all provided writers.
func NewMultiWriter(writers ...SummaryWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteSummary outputs the summary to all configured writers.
// It stops on the first error.
func (m *MultiWriter) WriteSummary(summary *model.Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// countingWriter counts the bytes that reach the wrapped writer.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// stopReasonLabel turns a stop reason into a display label,
// e.g. "cap_reached" becomes "Cap Reached".
func stopReasonLabel(reason model.StopReason) string {
	if reason == "" {
		return "Unknown"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(reason.String(), "_", " "))
}

// statusText describes how the run ended.
func statusText(summary *model.Summary) string {
	if summary.Error != "" {
		return "Failed - " + summary.Error
	}
	switch summary.StopReason {
	case model.StopCapReached:
		return fmt.Sprintf("Complete (edge cap of %d reached)", summary.MaxEdges)
	case model.StopExhausted:
		return "Complete (all pages fetched)"
	default:
		return stopReasonLabel(summary.StopReason)
	}
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/replygraph/internal/model"
)

// lineWidth is the width of the section rules in plain-text output.
const lineWidth = 70

// SimpleWriter outputs run summaries as plain text for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds the top author and destination lists.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the top author and destination lists.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteSummary outputs the summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	if w.verbose {
		w.writeTop(&sb, "TOP AUTHORS", summary.TopAuthors)
		w.writeTop(&sb, "TOP DESTINATIONS", summary.TopDestinations)
	}
	w.writeFooter(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n")
	sb.WriteString("                        REPLYGRAPH CRAWL SUMMARY\n")
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Video:          %s\n", summary.VideoID))
	if summary.RunID != 0 {
		sb.WriteString(fmt.Sprintf("Run:            #%d\n", summary.RunID))
	}
	if !summary.StartedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Started:        %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	}
	sb.WriteString(fmt.Sprintf("Duration:       %s\n", summary.Duration))
	sb.WriteString(fmt.Sprintf("Pages:          %d thread, %d reply\n", summary.ThreadPages, summary.ReplyPages))
	sb.WriteString(fmt.Sprintf("Status:         %s\n", statusText(summary)))
	sb.WriteString("\n")
}

// writeCounts writes the edge counts.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("-", lineWidth))
	sb.WriteString("\n")
	sb.WriteString("EDGES\n")
	sb.WriteString(strings.Repeat("-", lineWidth))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  Total:              %d\n", summary.TotalEdges))
	sb.WriteString(fmt.Sprintf("  Top-level comments: %d\n", summary.TopLevelComments))
	sb.WriteString(fmt.Sprintf("  Replies:            %d\n", summary.Replies))
	sb.WriteString(fmt.Sprintf("  With destination:   %d\n", summary.MentionReplies))
	sb.WriteString(fmt.Sprintf("  Distinct authors:   %d\n", summary.DistinctAuthors))
	sb.WriteString(fmt.Sprintf("  Total likes:        %d\n", summary.TotalLikes))
	sb.WriteString("\n")
}

// writeTop writes a ranked list, or nothing when it is empty.
func (w *SimpleWriter) writeTop(sb *strings.Builder, title string, counts []model.Count) {
	if len(counts) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", lineWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", lineWidth))
	sb.WriteString("\n")

	for i, c := range counts {
		sb.WriteString(fmt.Sprintf("  %2d. %-40s %d\n", i+1, truncateString(c.Name, 40), c.Count))
	}
	sb.WriteString("\n")
}

// writeFooter writes the output location and digest.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n")
	if summary.OutputPath != "" {
		sb.WriteString(fmt.Sprintf("Edge file: %s\n", summary.OutputPath))
	}
	if summary.Digest != "" {
		sb.WriteString(fmt.Sprintf("Digest:    %s\n", summary.Digest))
	}
	if !summary.HasEdges() {
		sb.WriteString("No comments were collected.\n")
	}
	sb.WriteString("\n")
}

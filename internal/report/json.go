package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/replygraph/internal/model"
)

// JSONWriter outputs edge tables and summaries as JSON.
// Edge tables become an array of objects keyed by column name, with
// reply_count null where absent.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteEdges outputs the table as a JSON array. An empty table is "[]".
func (w *JSONWriter) WriteEdges(table *model.EdgeTable) (int, error) {
	edges := table.Edges()
	if edges == nil {
		edges = []model.Edge{}
	}
	return w.writeJSON(edges)
}

// WriteSummary outputs the summary as a JSON object.
func (w *JSONWriter) WriteSummary(summary *model.Summary) (int, error) {
	return w.writeJSON(summary)
}

// writeJSON encodes v followed by a newline. Comment text is written
// unescaped so that it matches the CSV output byte for byte.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	cw := &countingWriter{w: w.output}
	enc := json.NewEncoder(cw)
	enc.SetEscapeHTML(false)
	if w.indent {
		enc.SetIndent(w.indentPrefix, w.indentString)
	}
	err := enc.Encode(v)
	return cw.n, err
}

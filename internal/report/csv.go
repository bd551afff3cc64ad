package report

import (
	"encoding/csv"
	"io"

	"github.com/nao1215/replygraph/internal/model"
)

// CSVWriter writes edge tables as CSV with a header row.
// An absent reply count is written as an empty cell.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteEdges outputs the header followed by one row per edge.
func (w *CSVWriter) WriteEdges(table *model.EdgeTable) (int, error) {
	cw := &countingWriter{w: w.output}
	out := csv.NewWriter(cw)

	if err := out.Write(model.Columns); err != nil {
		return cw.n, err
	}
	for i := 0; i < table.Len(); i++ {
		if err := out.Write(table.At(i).Record()); err != nil {
			return cw.n, err
		}
	}
	out.Flush()
	return cw.n, out.Error()
}

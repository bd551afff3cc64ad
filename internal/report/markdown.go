package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/replygraph/internal/model"
)

// MarkdownWriter outputs run summaries in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteSummary outputs the summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeEdges(md, summary)
	w.writeRanking(md, "Top Authors", "Author", summary.TopAuthors)
	w.writeRanking(md, "Top Destinations", "Destination", summary.TopDestinations)
	w.writeFooter(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the run information table and a status alert.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Reply Graph Crawl Summary")
	md.PlainText("")

	rows := [][]string{
		{"Video", "`" + summary.VideoID + "`"},
	}
	if summary.RunID != 0 {
		rows = append(rows, []string{"Run", "#" + strconv.FormatInt(summary.RunID, 10)})
	}
	if !summary.StartedAt.IsZero() {
		rows = append(rows, []string{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")})
	}
	rows = append(rows,
		[]string{"Duration", summary.Duration.String()},
		[]string{"Thread Pages", strconv.Itoa(summary.ThreadPages)},
		[]string{"Reply Pages", strconv.Itoa(summary.ReplyPages)},
		[]string{"Stop Reason", stopReasonLabel(summary.StopReason)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeAlert(md, summary)
}

// writeAlert writes an alert matching how the run ended.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case summary.Error != "":
		md.Cautionf("The crawl failed after collecting %d edge(s): %s", summary.TotalEdges, summary.Error)
	case summary.StopReason == model.StopCapReached:
		md.Warningf("The edge cap of %d was reached. Later comments were not collected.", summary.MaxEdges)
	case !summary.HasEdges():
		md.Note("The video has no comments.")
	default:
		md.Tip("All comment pages were collected.")
	}
	md.PlainText("")
}

// writeEdges writes the edge breakdown and its pie chart.
func (w *MarkdownWriter) writeEdges(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Edges")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Top-level comments", strconv.Itoa(summary.TopLevelComments)},
			{"Replies", strconv.Itoa(summary.Replies)},
			{"Replies with destination", strconv.Itoa(summary.MentionReplies)},
			{"Distinct authors", strconv.Itoa(summary.DistinctAuthors)},
			{"Total likes", strconv.FormatInt(summary.TotalLikes, 10)},
			{"**Total edges**", "**" + strconv.Itoa(summary.TotalEdges) + "**"},
		},
	})
	md.PlainText("")

	if summary.HasEdges() {
		w.writePieChart(md, summary)
	}
}

// writePieChart writes a mermaid pie chart of the edge kinds.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Edge Distribution"),
		piechart.WithShowData(true),
	)

	if summary.TopLevelComments > 0 {
		chart.LabelAndIntValue("Top-level comments", uint64(summary.TopLevelComments))
	}
	if summary.MentionReplies > 0 {
		chart.LabelAndIntValue("Replies with destination", uint64(summary.MentionReplies))
	}
	if plain := summary.Replies - summary.MentionReplies; plain > 0 {
		chart.LabelAndIntValue("Replies without destination", uint64(plain))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeRanking writes a ranked table, or nothing when counts is empty.
func (w *MarkdownWriter) writeRanking(md *markdown.Markdown, title, column string, counts []model.Count) {
	if len(counts) == 0 {
		return
	}

	md.H2(title)
	md.PlainText("")

	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			"`" + truncateString(c.Name, 40) + "`",
			strconv.Itoa(c.Count),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", column, "Edges"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the output location, digest and generator line.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, summary *model.Summary) {
	var items []string
	if summary.OutputPath != "" {
		items = append(items, "Edge file: `"+summary.OutputPath+"`")
	}
	if summary.Digest != "" {
		items = append(items, "Digest: `"+summary.Digest+"`")
	}
	if len(items) > 0 {
		md.BulletList(items...)
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [replygraph](https://github.com/nao1215/replygraph)*")
}

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nao1215/replygraph/internal/config"
	"github.com/nao1215/replygraph/internal/database"
	"github.com/nao1215/replygraph/internal/pipeline"
	"github.com/nao1215/replygraph/internal/report"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Write the edge table of a stored run",
		Long: `Export writes the edge table of a stored crawl run again, without contacting
the API. Use 'replygraph history' to see the available run IDs.

Examples:
  # Re-export run 3 as CSV next to the current directory
  replygraph export 3

  # Export run 3 as JSON to stdout
  replygraph export 3 -f json -o -

  # Print the run summary as Markdown without writing the table
  replygraph export 3 --summary-only -m`,
		Args: cobra.ExactArgs(1),
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Edge file path, or - for stdout (default: <video-id>_edges.<format>)")
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Edge file format (csv or json)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the run summary as Markdown")
	cmd.Flags().BoolP("summary-only", "s", false,
		"Print only the run summary")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || runID <= 0 {
		return fmt.Errorf("invalid run ID %q: must be a positive integer", args[0])
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if !config.IsValidFormat(format) {
		return fmt.Errorf("configuration error: %w", config.ErrInvalidFormat)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	markdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	summaryOnly, err := cmd.Flags().GetBool("summary-only")
	if err != nil {
		return err
	}

	db, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()

	run, err := db.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, database.ErrRunNotFound) {
			return fmt.Errorf("run #%d not found (use 'replygraph history' to see available IDs)", runID)
		}
		return err
	}

	table, err := db.GetRunEdges(ctx, runID)
	if err != nil {
		return err
	}
	crawlReport := run.CrawlReport(table)

	out := cmd.OutOrStdout()
	summaryOut := out

	if !summaryOnly {
		if output == "" {
			output = config.DefaultOutputPath(run.VideoID, format)
		}

		if output == config.StdoutPath {
			w, err := report.NewEdgeWriter(format, out)
			if err != nil {
				return err
			}
			if _, err := w.WriteEdges(table); err != nil {
				return fmt.Errorf("failed to write edges: %w", err)
			}
			summaryOut = cmd.ErrOrStderr()
		} else {
			if _, err := pipeline.WriteEdgeFile(output, format, table); err != nil {
				return err
			}
			crawlReport.OutputPath = output
			fmt.Fprintf(out, "Exported %d edges of run #%d to %s\n", table.Len(), runID, output)
		}
	}

	if summaryOnly || markdown {
		cfg := config.NewConfig()
		cfg.MarkdownSummary = markdown
		cfg.Verbose = getVerboseFlag(cmd)
		return writeSummary(summaryOut, cfg, crawlReport)
	}

	if !crawlReport.StopReason.Succeeded() {
		fmt.Fprintf(summaryOut, "Note: run #%d ended with an error, the table is partial: %s\n", runID, run.Error)
	}
	return nil
}

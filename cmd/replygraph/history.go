package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/replygraph/internal/database"
	"github.com/nao1215/replygraph/internal/model"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [video-id-or-url]",
		Short: "List stored crawl runs",
		Long: `History lists the crawl runs stored in the database, newest first.

With a video ID or URL only the runs of that video are listed.

Examples:
  # List every stored run
  replygraph history

  # List the runs of one video
  replygraph history dQw4w9WgXcQ

  # Output the list as JSON
  replygraph history --json

  # Delete a run and its edges
  replygraph history --delete 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output the run list in JSON format")
	cmd.Flags().Int64("delete", 0, "Delete the run with this ID")

	return cmd
}

// runEntry is one run in JSON output.
type runEntry struct {
	ID         int64  `json:"id"`
	VideoID    string `json:"video_id"`
	StartedAt  string `json:"started_at"`
	Duration   string `json:"duration"`
	StopReason string `json:"stop_reason"`
	Edges      int    `json:"edges"`
	Digest     string `json:"digest"`
	OutputPath string `json:"output_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	// Validate arguments before opening the database
	var videoID string
	if len(args) == 1 {
		id, err := model.ParseVideoID(args[0])
		if err != nil {
			return err
		}
		videoID = id
	}

	deleteID, err := cmd.Flags().GetInt64("delete")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if deleteID != 0 {
		if err := db.DeleteRun(ctx, deleteID); err != nil {
			if errors.Is(err, database.ErrRunNotFound) {
				return fmt.Errorf("run #%d not found (use 'replygraph history' to see available IDs)", deleteID)
			}
			return err
		}
		fmt.Fprintf(out, "Deleted run #%d\n", deleteID)
		return nil
	}

	runs, err := db.ListRuns(ctx, videoID)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if jsonOutput {
		return writeRunsJSON(out, runs)
	}
	printRuns(out, videoID, runs)
	return nil
}

// printRuns writes runs as a text table.
func printRuns(out io.Writer, videoID string, runs []database.RunRecord) {
	if len(runs) == 0 {
		if videoID != "" {
			fmt.Fprintf(out, "No runs found for %s\n", videoID)
		} else {
			fmt.Fprintln(out, "No runs found in the database.")
		}
		fmt.Fprintln(out, "\nUse 'replygraph crawl <video-id>' to collect a video.")
		return
	}

	if videoID != "" {
		fmt.Fprintf(out, "Runs for %s (%d):\n\n", videoID, len(runs))
	} else {
		fmt.Fprintf(out, "Runs (%d):\n\n", len(runs))
	}
	fmt.Fprintf(out, "  %-6s  %-19s  %-11s  %-11s  %8s\n", "ID", "Date", "Video", "Stop", "Edges")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 63))

	for _, run := range runs {
		fmt.Fprintf(out, "  %-6d  %-19s  %-11s  %-11s  %8d\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.VideoID,
			run.StopReason,
			run.EdgeCount,
		)
	}
	fmt.Fprintln(out, "\nUse 'replygraph export <id>' to write a run's edge table again.")
}

// writeRunsJSON writes runs as an indented JSON array.
func writeRunsJSON(out io.Writer, runs []database.RunRecord) error {
	entries := make([]runEntry, 0, len(runs))
	for _, run := range runs {
		entries = append(entries, runEntry{
			ID:         run.ID,
			VideoID:    run.VideoID,
			StartedAt:  run.StartedAt.Format(time.RFC3339),
			Duration:   run.Duration().String(),
			StopReason: run.StopReason.String(),
			Edges:      run.EdgeCount,
			Digest:     run.Digest,
			OutputPath: run.OutputPath,
			Error:      run.Error,
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/replygraph/internal/config"
	"github.com/nao1215/replygraph/internal/database"
	rglog "github.com/nao1215/replygraph/internal/log"
)

// NewRootCmd creates the root command for replygraph.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replygraph",
		Short: "Collect YouTube comment threads as a reply graph edge table",
		Long: `replygraph collects the comments and replies of a YouTube video through the
YouTube Data API v3 and writes them as a flat edge table.

Each row is one comment or reply. The author is the source of the edge; for
replies that open with an @-mention, the mentioned name is the destination.

Every crawl is stored in a local database so that runs can be listed and
re-exported later.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(),
		"Directory of the run database")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, rglog.RedactQuery(err.Error()))
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getBoolFlag reads a boolean flag that may be local or persistent.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return v
}

// getDBDir returns the database directory from the persistent flag.
func getDBDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil || dir == "" {
		return config.XDGDataDir()
	}
	return dir
}

// setupLogger creates a structured logger that writes to w and masks
// credentials. Without verbose only warnings and errors are shown.
func setupLogger(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	if jsonFormat {
		return rglog.NewSecureJSONLogger(w, verbose)
	}
	return rglog.NewSecureLogger(w, verbose)
}

// loggerFor builds the logger selected by the command's flags.
func loggerFor(cmd *cobra.Command) *slog.Logger {
	return setupLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd), getBoolFlag(cmd, "log-json"))
}

// openDB opens the run database in the directory selected by --db-dir.
func openDB(cmd *cobra.Command) (*database.EdgeDB, error) {
	db, err := database.Open(getDBDir(cmd), database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

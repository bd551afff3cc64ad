package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/replygraph/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "replygraph.db"

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("crawl run not found")

// EdgeDB stores crawl runs and their edge tables.
type EdgeDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures EdgeDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the EdgeDB in dbDir.
func Open(dbDir string, opts Options) (*EdgeDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	edb := &EdgeDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := edb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return edb, nil
}

// Close closes the database connection.
func (edb *EdgeDB) Close() error {
	return edb.db.Close()
}

// Path returns the database file path.
func (edb *EdgeDB) Path() string {
	return edb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (edb *EdgeDB) createTables() error {
	schema := `
	-- One row per crawl
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		stop_reason TEXT NOT NULL,
		max_edges INTEGER NOT NULL,
		thread_pages INTEGER NOT NULL,
		reply_pages INTEGER NOT NULL,
		threads INTEGER NOT NULL,
		replies INTEGER NOT NULL,
		edge_count INTEGER NOT NULL,
		digest TEXT,
		output_path TEXT,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_video ON crawl_runs(video_id);

	-- Edges keep their table position
	CREATE TABLE IF NOT EXISTS edges (
		run_id INTEGER NOT NULL REFERENCES crawl_runs(id),
		position INTEGER NOT NULL,
		comment_id TEXT NOT NULL,
		thread_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		kind TEXT NOT NULL,
		author TEXT NOT NULL,
		destination TEXT NOT NULL,
		likes INTEGER NOT NULL,
		reply_count INTEGER,
		text TEXT NOT NULL,
		video_id TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_edges_thread ON edges(run_id, thread_id);
	CREATE INDEX IF NOT EXISTS idx_edges_author ON edges(author);
	`

	_, err := edb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is the stored metadata of one crawl.
type RunRecord struct {
	ID          int64
	VideoID     string
	StartedAt   time.Time
	FinishedAt  time.Time
	StopReason  model.StopReason
	MaxEdges    int
	ThreadPages int
	ReplyPages  int
	Threads     int
	Replies     int
	EdgeCount   int
	Digest      string
	OutputPath  string
	Error       string
}

// Duration returns how long the crawl took.
func (r *RunRecord) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// CrawlReport rebuilds a report from the stored metadata and table.
func (r *RunRecord) CrawlReport(table *model.EdgeTable) *model.CrawlReport {
	if table == nil {
		table = model.NewEdgeTable(0)
	}
	return &model.CrawlReport{
		RunID:        r.ID,
		VideoID:      r.VideoID,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		StopReason:   r.StopReason,
		MaxEdges:     r.MaxEdges,
		ThreadPages:  r.ThreadPages,
		ReplyPages:   r.ReplyPages,
		Threads:      r.Threads,
		Replies:      r.Replies,
		Digest:       r.Digest,
		OutputPath:   r.OutputPath,
		ErrorMessage: r.Error,
		Table:        table,
	}
}

// SaveRun stores report and its table in one transaction and returns the
// new run ID. The table of a failed crawl is stored as far as it got.
func (edb *EdgeDB) SaveRun(ctx context.Context, report *model.CrawlReport) (int64, error) {
	if report == nil {
		return 0, errors.New("report must not be nil")
	}

	digest := report.Digest
	if digest == "" {
		digest = report.Table.Digest()
	}

	tx, err := edb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // No-op after commit
	}()

	result, err := tx.ExecContext(ctx, `
	INSERT INTO crawl_runs (
		video_id, started_at, finished_at, stop_reason, max_edges,
		thread_pages, reply_pages, threads, replies, edge_count,
		digest, output_path, error
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.VideoID,
		formatTimestamp(report.StartedAt),
		formatTimestamp(report.FinishedAt),
		report.StopReason.String(),
		report.MaxEdges,
		report.ThreadPages,
		report.ReplyPages,
		report.Threads,
		report.Replies,
		report.EdgeCount(),
		digest,
		report.OutputPath,
		report.ErrorMessage,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO edges (
		run_id, position, comment_id, thread_id, timestamp, kind,
		author, destination, likes, reply_count, text, video_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < report.Table.Len(); i++ {
		e := report.Table.At(i)

		var replyCount sql.NullInt64
		if e.ReplyCount != nil {
			replyCount = sql.NullInt64{Int64: *e.ReplyCount, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			runID, i, e.CommentID, e.ThreadID, e.Timestamp, e.Kind.String(),
			e.Author, e.Destination, e.Likes, replyCount, e.Text, e.VideoID,
		); err != nil {
			return 0, fmt.Errorf("failed to insert edge %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit crawl run: %w", err)
	}

	return runID, nil
}

const runColumns = `
	id, video_id, started_at, finished_at, stop_reason, max_edges,
	thread_pages, reply_pages, threads, replies, edge_count,
	digest, output_path, error
`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*RunRecord, error) {
	var (
		run                   RunRecord
		startedAt, finishedAt string
		stopReason            string
		digest, output, msg   sql.NullString
	)

	if err := s.Scan(
		&run.ID, &run.VideoID, &startedAt, &finishedAt, &stopReason, &run.MaxEdges,
		&run.ThreadPages, &run.ReplyPages, &run.Threads, &run.Replies, &run.EdgeCount,
		&digest, &output, &msg,
	); err != nil {
		return nil, err
	}

	run.StartedAt = parseTimestamp(startedAt)
	run.FinishedAt = parseTimestamp(finishedAt)
	run.StopReason = model.StopReason(stopReason)
	run.Digest = digest.String
	run.OutputPath = output.String
	run.Error = msg.String

	return &run, nil
}

// GetRun returns the run with the given ID, or ErrRunNotFound.
func (edb *EdgeDB) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	row := edb.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM crawl_runs WHERE id = ?", id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl run %d: %w", id, err)
	}
	return run, nil
}

// ListRuns returns stored runs, newest first. An empty videoID lists the
// runs of every video.
func (edb *EdgeDB) ListRuns(ctx context.Context, videoID string) ([]RunRecord, error) {
	query := "SELECT " + runColumns + " FROM crawl_runs"
	var args []any
	if videoID != "" {
		query += " WHERE video_id = ?"
		args = append(args, videoID)
	}
	query += " ORDER BY id DESC"

	rows, err := edb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list crawl runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crawl run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// LatestRun returns the newest run of videoID, or ErrRunNotFound.
func (edb *EdgeDB) LatestRun(ctx context.Context, videoID string) (*RunRecord, error) {
	row := edb.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM crawl_runs WHERE video_id = ? ORDER BY id DESC LIMIT 1", videoID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run of %s: %w", videoID, err)
	}
	return run, nil
}

// GetRunEdges returns the table of the run with the given ID in its
// original order, or ErrRunNotFound.
func (edb *EdgeDB) GetRunEdges(ctx context.Context, id int64) (*model.EdgeTable, error) {
	run, err := edb.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := edb.db.QueryContext(ctx, `
	SELECT comment_id, thread_id, timestamp, kind, author, destination,
		likes, reply_count, text, video_id
	FROM edges
	WHERE run_id = ?
	ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get edges of run %d: %w", id, err)
	}
	defer rows.Close()

	table := model.NewEdgeTable(run.EdgeCount)
	for rows.Next() {
		var (
			e          model.Edge
			kind       string
			replyCount sql.NullInt64
		)
		if err := rows.Scan(
			&e.CommentID, &e.ThreadID, &e.Timestamp, &kind, &e.Author, &e.Destination,
			&e.Likes, &replyCount, &e.Text, &e.VideoID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		e.Kind = model.Kind(kind)
		if !e.Kind.IsValid() {
			return nil, fmt.Errorf("edge %s of run %d has unknown kind %q", e.CommentID, id, kind)
		}
		if replyCount.Valid {
			e.ReplyCount = model.Int64(replyCount.Int64)
		}
		table.Append(e)
	}

	return table, rows.Err()
}

// DeleteRun removes a run and its edges. Deleting a missing run returns
// ErrRunNotFound.
func (edb *EdgeDB) DeleteRun(ctx context.Context, id int64) error {
	tx, err := edb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // No-op after commit
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM edges WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete edges of run %d: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM crawl_runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete crawl run %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete crawl run %d: %w", id, err)
	}
	if n == 0 {
		return ErrRunNotFound
	}

	return tx.Commit()
}

// formatTimestamp renders t for storage. Zero times are stored empty.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// timestampFormats contains the timestamp formats the store may hold.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp parses a stored timestamp, returning the zero time for
// empty or unknown values.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

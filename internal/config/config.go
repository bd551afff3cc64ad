package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "replygraph"

	// DefaultMaxEdges is the soft cap on the number of edges collected per
	// video. It is checked once per thread page, so a crawl may end above it.
	DefaultMaxEdges = 300000

	// DefaultReplyPageSize is the number of replies requested per page.
	// 100 is the largest page the API serves.
	DefaultReplyPageSize = 100

	// DefaultThreadPageSize of 0 leaves the thread page size to the API.
	DefaultThreadPageSize = 0

	// MaxPageSize is the largest page size the API accepts.
	MaxPageSize = 100

	// DefaultTimeout bounds each API request.
	DefaultTimeout = 30 * time.Second

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap. Only used with --tor.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultAPIBaseURL is the YouTube Data API v3 endpoint.
	DefaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"

	// DefaultUserAgent identifies replygraph in API requests.
	DefaultUserAgent = "replygraph/1.0 (+https://github.com/nao1215/replygraph)"

	// DefaultFormat is the edge file format written when none is chosen.
	DefaultFormat = FormatCSV

	// APIKeyEnv is the environment variable holding the API key.
	APIKeyEnv = "YOUTUBE_API_KEY"

	// StdoutPath as output path writes the edge table to standard output.
	StdoutPath = "-"
)

// Edge file formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Config holds all configuration options for a crawl.
// It is populated from the config file and CLI flags, in that order, and
// passed through the application rather than kept in global state.
type Config struct {
	// APIKey is the YouTube Data API key sent with every request.
	APIKey string

	// VideoID is the video whose comments are collected.
	VideoID string

	// MaxEdges is the soft cap on the table length.
	MaxEdges int

	// ReplyPageSize is the number of replies requested per page (1..100).
	ReplyPageSize int

	// ThreadPageSize is the number of threads requested per page (1..100).
	// Zero omits the parameter and uses the API default.
	ThreadPageSize int

	// Timeout bounds each API request.
	Timeout time.Duration

	// ProxyAddress routes API traffic through a SOCKS5 proxy in "host:port"
	// format. Empty means a direct connection.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and routes API traffic through it.
	// Mutually exclusive with ProxyAddress.
	UseTor bool

	// TorStartupTimeout is the maximum time to wait for the embedded Tor
	// daemon. Only used when UseTor is set.
	TorStartupTimeout time.Duration

	// APIBaseURL is the base URL of the YouTube Data API.
	APIBaseURL string

	// UserAgent is the User-Agent header sent with API requests.
	UserAgent string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches the default locations (see FindConfigFile).
	ConfigFilePath string

	// File holds the loaded configuration file, if any.
	File *File

	// Format is the edge file format, FormatCSV or FormatJSON.
	Format string

	// OutputPath is where the edge table is written. StdoutPath writes to
	// standard output. Empty means DefaultOutputPath.
	OutputPath string

	// MarkdownSummary prints the run summary as Markdown instead of plain text.
	MarkdownSummary bool

	// Verbose enables debug logging.
	Verbose bool

	// DBDir is the directory holding the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/replygraph on Linux).
	DBDir string

	// SaveToDB stores every crawl run in the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		MaxEdges:          DefaultMaxEdges,
		ReplyPageSize:     DefaultReplyPageSize,
		ThreadPageSize:    DefaultThreadPageSize,
		Timeout:           DefaultTimeout,
		TorStartupTimeout: DefaultTorStartupTimeout,
		APIBaseURL:        DefaultAPIBaseURL,
		UserAgent:         DefaultUserAgent,
		Format:            DefaultFormat,
		DBDir:             XDGDataDir(),
		SaveToDB:          true,
	}
}

// XDGDataDir returns the XDG data directory for replygraph.
// On Linux: ~/.local/share/replygraph
// On macOS: ~/Library/Application Support/replygraph
// On Windows: %LOCALAPPDATA%\replygraph
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for replygraph.
// On Linux: ~/.config/replygraph
// On macOS: ~/Library/Application Support/replygraph
// On Windows: %APPDATA%\replygraph
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile copies the values set in f onto c.
// Per-video settings for c.VideoID take precedence over top-level ones.
// A nil f leaves c unchanged.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	c.File = f

	if f.APIKey != "" {
		c.APIKey = f.APIKey
	}
	if f.ReplyPageSize != 0 {
		c.ReplyPageSize = f.ReplyPageSize
	}
	if f.ThreadPageSize != 0 {
		c.ThreadPageSize = f.ThreadPageSize
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	if f.Format != "" {
		c.Format = f.Format
	}

	video := f.Video(c.VideoID)
	if video.MaxEdges != 0 {
		c.MaxEdges = video.MaxEdges
	}
	if video.Output != "" {
		c.OutputPath = video.Output
	}
}

// EdgeOutputPath returns where the edge table is written.
func (c *Config) EdgeOutputPath() string {
	if c.OutputPath != "" {
		return c.OutputPath
	}
	return DefaultOutputPath(c.VideoID, c.Format)
}

// DefaultOutputPath returns the edge file name used when no output path is
// configured, e.g. "dQw4w9WgXcQ_edges.csv".
func DefaultOutputPath(videoID, format string) string {
	if format == "" {
		format = DefaultFormat
	}
	return videoID + "_edges." + format
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	if c.VideoID == "" {
		return ErrNoVideo
	}

	if c.APIKey == "" {
		return ErrNoAPIKey
	}

	if c.MaxEdges <= 0 {
		return ErrInvalidMaxEdges
	}

	if c.ReplyPageSize < 1 || c.ReplyPageSize > MaxPageSize {
		return ErrInvalidReplyPageSize
	}

	if c.ThreadPageSize < 0 || c.ThreadPageSize > MaxPageSize {
		return ErrInvalidThreadPageSize
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.UseTor && c.ProxyAddress != "" {
		return ErrConflictingTransports
	}

	if c.UseTor && c.TorStartupTimeout <= 0 {
		return ErrInvalidTorStartupTimeout
	}

	if !IsValidFormat(c.Format) {
		return ErrInvalidFormat
	}

	return nil
}

// IsValidFormat reports whether format names a supported edge file format.
func IsValidFormat(format string) bool {
	return format == FormatCSV || format == FormatJSON
}

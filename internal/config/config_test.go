package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default MaxEdges is 300000", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxEdges != 300000 {
			t.Errorf("expected MaxEdges to be 300000, got %d", cfg.MaxEdges)
		}
	})

	t.Run("default ReplyPageSize is 100", func(t *testing.T) {
		t.Parallel()
		if cfg.ReplyPageSize != 100 {
			t.Errorf("expected ReplyPageSize to be 100, got %d", cfg.ReplyPageSize)
		}
	})

	t.Run("default ThreadPageSize is API default", func(t *testing.T) {
		t.Parallel()
		if cfg.ThreadPageSize != 0 {
			t.Errorf("expected ThreadPageSize to be 0, got %d", cfg.ThreadPageSize)
		}
	})

	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default transport is direct", func(t *testing.T) {
		t.Parallel()
		if cfg.UseTor || cfg.ProxyAddress != "" {
			t.Errorf("expected direct transport, got tor=%v proxy=%q", cfg.UseTor, cfg.ProxyAddress)
		}
	})

	t.Run("default TorStartupTimeout is 3 minutes", func(t *testing.T) {
		t.Parallel()
		if cfg.TorStartupTimeout != 3*time.Minute {
			t.Errorf("expected TorStartupTimeout to be 3m, got %v", cfg.TorStartupTimeout)
		}
	})

	t.Run("default format is csv", func(t *testing.T) {
		t.Parallel()
		if cfg.Format != FormatCSV {
			t.Errorf("expected Format to be csv, got %q", cfg.Format)
		}
	})

	t.Run("runs are saved to the XDG data directory", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB || cfg.DBDir != XDGDataDir() {
			t.Errorf("expected SaveToDB in %s, got %v in %s", XDGDataDir(), cfg.SaveToDB, cfg.DBDir)
		}
	})
}

// TestConfigValidate tests the Validate method with one rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.VideoID = "dQw4w9WgXcQ"
		cfg.APIKey = "AIzaTestKey"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr error
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "json format", mutate: func(cfg *Config) { cfg.Format = FormatJSON }},
		{name: "thread page size 100", mutate: func(cfg *Config) { cfg.ThreadPageSize = 100 }},
		{name: "proxy only", mutate: func(cfg *Config) { cfg.ProxyAddress = "127.0.0.1:9050" }},
		{name: "tor only", mutate: func(cfg *Config) { cfg.UseTor = true }},
		{name: "no video", mutate: func(cfg *Config) { cfg.VideoID = "" }, wantErr: ErrNoVideo},
		{name: "no api key", mutate: func(cfg *Config) { cfg.APIKey = "" }, wantErr: ErrNoAPIKey},
		{name: "zero max edges", mutate: func(cfg *Config) { cfg.MaxEdges = 0 }, wantErr: ErrInvalidMaxEdges},
		{name: "negative max edges", mutate: func(cfg *Config) { cfg.MaxEdges = -1 }, wantErr: ErrInvalidMaxEdges},
		{name: "zero reply page size", mutate: func(cfg *Config) { cfg.ReplyPageSize = 0 }, wantErr: ErrInvalidReplyPageSize},
		{name: "reply page size over 100", mutate: func(cfg *Config) { cfg.ReplyPageSize = 101 }, wantErr: ErrInvalidReplyPageSize},
		{name: "negative thread page size", mutate: func(cfg *Config) { cfg.ThreadPageSize = -1 }, wantErr: ErrInvalidThreadPageSize},
		{name: "thread page size over 100", mutate: func(cfg *Config) { cfg.ThreadPageSize = 101 }, wantErr: ErrInvalidThreadPageSize},
		{name: "zero timeout", mutate: func(cfg *Config) { cfg.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{
			name: "proxy and tor",
			mutate: func(cfg *Config) {
				cfg.UseTor = true
				cfg.ProxyAddress = "127.0.0.1:9050"
			},
			wantErr: ErrConflictingTransports,
		},
		{
			name: "tor without startup timeout",
			mutate: func(cfg *Config) {
				cfg.UseTor = true
				cfg.TorStartupTimeout = 0
			},
			wantErr: ErrInvalidTorStartupTimeout,
		},
		{name: "unknown format", mutate: func(cfg *Config) { cfg.Format = "xml" }, wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestEdgeOutputPath tests the default and explicit output paths.
func TestEdgeOutputPath(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.VideoID = "dQw4w9WgXcQ"
	if got := cfg.EdgeOutputPath(); got != "dQw4w9WgXcQ_edges.csv" {
		t.Errorf("expected default csv path, got %q", got)
	}

	cfg.Format = FormatJSON
	if got := cfg.EdgeOutputPath(); got != "dQw4w9WgXcQ_edges.json" {
		t.Errorf("expected default json path, got %q", got)
	}

	cfg.OutputPath = "out/edges.json"
	if got := cfg.EdgeOutputPath(); got != "out/edges.json" {
		t.Errorf("expected explicit path, got %q", got)
	}

	if got := DefaultOutputPath("abc", ""); got != "abc_edges.csv" {
		t.Errorf("expected csv fallback, got %q", got)
	}
}

// TestXDGDirs tests that the XDG helpers end in the application name.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if filepath.Base(XDGDataDir()) != AppName {
		t.Errorf("unexpected data dir %s", XDGDataDir())
	}
	if filepath.Base(XDGConfigDir()) != AppName {
		t.Errorf("unexpected config dir %s", XDGConfigDir())
	}
}

// TestLoadConfigFile tests YAML parsing of the configuration file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `apiKey: AIzaFromFile
maxEdges: 5000
replyPageSize: 50
threadPageSize: 20
timeout: 45s
proxy: 127.0.0.1:9050
format: json
videos:
  dQw4w9WgXcQ:
    maxEdges: 1000
    output: rick.csv
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}

		if cf.APIKey != "AIzaFromFile" || cf.MaxEdges != 5000 || cf.ReplyPageSize != 50 || cf.ThreadPageSize != 20 {
			t.Errorf("unexpected scalar values %+v", cf)
		}
		if cf.Timeout != 45*time.Second {
			t.Errorf("expected timeout 45s, got %v", cf.Timeout)
		}
		if cf.Proxy != "127.0.0.1:9050" || cf.Format != FormatJSON {
			t.Errorf("unexpected proxy/format %q/%q", cf.Proxy, cf.Format)
		}
		video, ok := cf.Videos["dQw4w9WgXcQ"]
		if !ok || video.MaxEdges != 1000 || video.Output != "rick.csv" {
			t.Errorf("unexpected video config %+v", cf.Videos)
		}
	})

	t.Run("empty file initializes videos", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.yaml")
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if cf.Videos == nil {
			t.Error("expected Videos to be initialized")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("videos: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

// TestFileVideo tests per-video lookups with file-wide fallback.
func TestFileVideo(t *testing.T) {
	t.Parallel()

	cf := &File{
		MaxEdges: 5000,
		Videos: map[string]VideoConfig{
			"withCap":    {MaxEdges: 10, Output: "a.csv"},
			"outputOnly": {Output: "b.csv"},
		},
	}

	tests := []struct {
		videoID string
		want    VideoConfig
	}{
		{videoID: "withCap", want: VideoConfig{MaxEdges: 10, Output: "a.csv"}},
		{videoID: "outputOnly", want: VideoConfig{MaxEdges: 5000, Output: "b.csv"}},
		{videoID: "unknown", want: VideoConfig{MaxEdges: 5000}},
	}

	for _, tt := range tests {
		t.Run(tt.videoID, func(t *testing.T) {
			t.Parallel()
			if got := cf.Video(tt.videoID); got != tt.want {
				t.Errorf("Video(%q) = %+v, want %+v", tt.videoID, got, tt.want)
			}
		})
	}
}

// TestApplyFile tests that file values override defaults.
func TestApplyFile(t *testing.T) {
	t.Parallel()

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(nil)
		if cfg.File != nil || cfg.MaxEdges != DefaultMaxEdges {
			t.Errorf("expected unchanged config, got %+v", cfg)
		}
	})

	t.Run("values and video overrides", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.VideoID = "dQw4w9WgXcQ"
		cfg.ApplyFile(&File{
			APIKey:        "AIzaFromFile",
			MaxEdges:      5000,
			ReplyPageSize: 25,
			Timeout:       time.Minute,
			Proxy:         "127.0.0.1:9150",
			Format:        FormatJSON,
			Videos: map[string]VideoConfig{
				"dQw4w9WgXcQ": {MaxEdges: 100, Output: "rick.json"},
			},
		})

		if cfg.APIKey != "AIzaFromFile" {
			t.Errorf("APIKey = %q", cfg.APIKey)
		}
		if cfg.MaxEdges != 100 {
			t.Errorf("MaxEdges = %d, want video override 100", cfg.MaxEdges)
		}
		if cfg.ReplyPageSize != 25 || cfg.Timeout != time.Minute {
			t.Errorf("ReplyPageSize = %d, Timeout = %v", cfg.ReplyPageSize, cfg.Timeout)
		}
		if cfg.ProxyAddress != "127.0.0.1:9150" || cfg.Format != FormatJSON {
			t.Errorf("ProxyAddress = %q, Format = %q", cfg.ProxyAddress, cfg.Format)
		}
		if cfg.OutputPath != "rick.json" {
			t.Errorf("OutputPath = %q", cfg.OutputPath)
		}
		if cfg.ThreadPageSize != DefaultThreadPageSize {
			t.Errorf("unset ThreadPageSize changed to %d", cfg.ThreadPageSize)
		}
	})
}

// TestFindConfigFile tests explicit path handling. The search through the
// working and home directories depends on the environment and is not covered.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("maxEdges: 1\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %s, got %q", path, got)
		}
	})

	t.Run("explicit path missing", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}

// TestLoadEnv tests dotenv loading. It modifies the process environment
// and therefore does not run in parallel.
func TestLoadEnv(t *testing.T) {
	t.Run("loads unset variables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("REPLYGRAPH_TEST_FROM_DOTENV=loaded\n"), 0600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("REPLYGRAPH_TEST_FROM_DOTENV", "")
		os.Unsetenv("REPLYGRAPH_TEST_FROM_DOTENV")

		if err := LoadEnv(path); err != nil {
			t.Fatalf("LoadEnv() error = %v", err)
		}
		if got := os.Getenv("REPLYGRAPH_TEST_FROM_DOTENV"); got != "loaded" {
			t.Errorf("expected loaded, got %q", got)
		}
	})

	t.Run("keeps existing variables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("REPLYGRAPH_TEST_EXISTING=from-file\n"), 0600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("REPLYGRAPH_TEST_EXISTING", "from-env")

		if err := LoadEnv(path); err != nil {
			t.Fatal(err)
		}
		if got := os.Getenv("REPLYGRAPH_TEST_EXISTING"); got != "from-env" {
			t.Errorf("expected from-env, got %q", got)
		}
	})

	t.Run("missing file is skipped", func(t *testing.T) {
		if err := LoadEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}

// TestResolveAPIKey tests the flag, environment, file precedence.
func TestResolveAPIKey(t *testing.T) {
	file := &File{APIKey: "from-file"}

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "from-env")
		if got := ResolveAPIKey("from-flag", file); got != "from-flag" {
			t.Errorf("expected from-flag, got %q", got)
		}
	})

	t.Run("environment before file", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "from-env")
		if got := ResolveAPIKey("", file); got != "from-env" {
			t.Errorf("expected from-env, got %q", got)
		}
	})

	t.Run("file as last resort", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")
		if got := ResolveAPIKey("  ", file); got != "from-file" {
			t.Errorf("expected from-file, got %q", got)
		}
	})

	t.Run("nothing set", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")
		if got := ResolveAPIKey("", nil); got != "" {
			t.Errorf("expected empty key, got %q", got)
		}
	})
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".replygraph"

// DefaultEnvFile is the dotenv file loaded from the working directory.
const DefaultEnvFile = ".env"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// VideoConfig holds settings for a single video.
type VideoConfig struct {
	// MaxEdges overrides the global edge cap for this video.
	MaxEdges int `yaml:"maxEdges,omitempty"`

	// Output overrides the edge file path for this video.
	Output string `yaml:"output,omitempty"`
}

// File represents the structure of the .replygraph configuration file.
type File struct {
	// APIKey is the YouTube Data API key. The flag and the environment
	// variable take precedence.
	APIKey string `yaml:"apiKey,omitempty"`

	// MaxEdges is the default edge cap for videos without their own.
	MaxEdges int `yaml:"maxEdges,omitempty"`

	// ReplyPageSize is the number of replies requested per page.
	ReplyPageSize int `yaml:"replyPageSize,omitempty"`

	// ThreadPageSize is the number of threads requested per page.
	ThreadPageSize int `yaml:"threadPageSize,omitempty"`

	// Timeout bounds each API request, e.g. "30s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Proxy is a SOCKS5 proxy address for API traffic.
	Proxy string `yaml:"proxy,omitempty"`

	// Format is the edge file format, "csv" or "json".
	Format string `yaml:"format,omitempty"`

	// Videos maps video IDs to their settings.
	Videos map[string]VideoConfig `yaml:"videos,omitempty"`
}

// Video returns the settings for videoID with the file-wide edge cap as
// fallback.
func (f *File) Video(videoID string) VideoConfig {
	result := VideoConfig{MaxEdges: f.MaxEdges}

	if video, ok := f.Videos[videoID]; ok {
		if video.MaxEdges != 0 {
			result.MaxEdges = video.MaxEdges
		}
		if video.Output != "" {
			result.Output = video.Output
		}
	}

	return result
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cf.Videos == nil {
		cf.Videos = make(map[string]VideoConfig)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .replygraph in the current directory
// 3. Look for .replygraph in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// LoadEnv loads dotenv files into the process environment. Variables that
// are already set are kept. Missing files are skipped. Without arguments
// DefaultEnvFile is loaded.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultEnvFile}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	return nil
}

// ResolveAPIKey picks the API key from, in order: flagValue, the
// YOUTUBE_API_KEY environment variable, and the configuration file.
// It returns an empty string if none is set.
func ResolveAPIKey(flagValue string, f *File) string {
	if key := strings.TrimSpace(flagValue); key != "" {
		return key
	}
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		return key
	}
	if f != nil {
		return strings.TrimSpace(f.APIKey)
	}
	return ""
}

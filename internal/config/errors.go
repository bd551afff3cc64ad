package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoVideo is returned when no video ID or URL is given.
	ErrNoVideo = errors.New("no video specified: provide a video ID or URL")

	// ErrNoAPIKey is returned when no API key is found in the flags, the
	// environment, or the configuration file.
	ErrNoAPIKey = errors.New("no API key: use --api-key, set " + APIKeyEnv + ", or add apiKey to the config file")

	// ErrInvalidMaxEdges is returned when the edge cap is not positive.
	ErrInvalidMaxEdges = errors.New("invalid max edges: must be positive")

	// ErrInvalidReplyPageSize is returned when the reply page size is outside 1..100.
	ErrInvalidReplyPageSize = errors.New("invalid reply page size: must be between 1 and 100")

	// ErrInvalidThreadPageSize is returned when the thread page size is outside 0..100.
	ErrInvalidThreadPageSize = errors.New("invalid thread page size: must be between 0 and 100")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrConflictingTransports is returned when both --proxy and --tor are given.
	ErrConflictingTransports = errors.New("conflicting transports: --proxy and --tor cannot be used together")

	// ErrInvalidTorStartupTimeout is returned when --tor is used with a
	// non-positive startup timeout.
	ErrInvalidTorStartupTimeout = errors.New("invalid tor startup timeout: must be positive")

	// ErrInvalidFormat is returned for an unknown edge file format.
	ErrInvalidFormat = errors.New("invalid format: must be csv or json")
)

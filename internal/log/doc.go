// Package log provides slog loggers that mask credentials before records
// reach the output.
//
// The YouTube Data API authenticates with a key passed as the "key" query
// parameter, so request URLs and the transport errors that quote them carry
// the key verbatim. SecureHandler masks:
//   - attributes whose key names a credential (key, api_key, token, password)
//   - string values that look like a credential (API keys, bearer tokens)
//   - the value of credential query parameters inside URLs and error texts
//
// Even in verbose mode the key never reaches the log.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("sending request", "url", requestURL) // key=***REDACTED***
//	slog.SetDefault(logger)
package log

// Package config provides configuration structures and utilities for replygraph.
// It defines crawl limits, transport settings, output preferences, the YAML
// configuration file, and API key resolution.
package config

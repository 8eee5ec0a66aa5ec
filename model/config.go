package model

import (
	"log/slog"

	"github.com/jacentio/orchard/kv"
	"github.com/jacentio/orchard/kv/riakhttp"
)

// Config holds store connection configuration for records.
type Config struct {
	// Nodes are the store nodes the shared client spans.
	// At least one node is required.
	Nodes []kv.Node

	// Dial builds the driver for each node.
	// Default: riakhttp.Dial
	Dial kv.Dialer

	// Logger receives record lifecycle logs.
	// Default: slog.Default()
	Logger *slog.Logger
}

// DefaultConfig returns the default connection configuration (no nodes, HTTP driver).
func DefaultConfig() Config {
	return Config{
		Dial:   riakhttp.Dial,
		Logger: slog.Default(),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if len(source.Nodes) > 0 {
		c.Nodes = append([]kv.Node(nil), source.Nodes...)
	}
	if source.Dial != nil {
		c.Dial = source.Dial
	}
	if source.Logger != nil {
		c.Logger = source.Logger
	}
}

// validate fills in defaults for unset values.
func (c *Config) validate() {
	if c.Dial == nil {
		c.Dial = riakhttp.Dial
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// resolve merges cfg into the defaults.
func resolve(cfg Config) Config {
	base := DefaultConfig()
	base.Merge(&cfg)
	base.validate()
	return base
}

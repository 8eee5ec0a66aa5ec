package stream

// ttlAttr is the attribute the dynamo driver sets to mark an item for deletion.
const ttlAttr = "ttl"

// Config holds configuration for the stream handler.
// It must match the dynamo driver configuration of the tables being streamed.
type Config struct {
	// TablePrefix is stripped from table names to obtain bucket names.
	// Tables without the prefix are skipped.
	// Default: ""
	TablePrefix string

	// KeyAttr is the tables' partition key attribute.
	// Default: "id"
	KeyAttr string
}

// DefaultConfig returns defaults matching dynamo.DefaultConfig.
func DefaultConfig() Config {
	return Config{
		KeyAttr: "id",
	}
}

// validate ensures config values are usable.
func (c *Config) validate() {
	if c.KeyAttr == "" {
		c.KeyAttr = "id"
	}
}

// Option configures a Handler.
type Option func(*Config)

// WithTablePrefix sets the table prefix.
func WithTablePrefix(prefix string) Option {
	return func(c *Config) {
		c.TablePrefix = prefix
	}
}

// WithKeyAttr sets the partition key attribute.
func WithKeyAttr(name string) Option {
	return func(c *Config) {
		c.KeyAttr = name
	}
}

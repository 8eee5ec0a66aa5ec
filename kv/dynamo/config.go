package dynamo

import "github.com/google/uuid"

// Config holds configuration for the DynamoDB driver.
type Config struct {
	// TablePrefix is prepended to bucket names to form table names.
	// Default: "" (table name = bucket name)
	TablePrefix string

	// KeyAttr is the table's partition key attribute.
	// Default: "id"
	KeyAttr string

	// Region is the AWS region used by Dialer.
	// Default: "us-east-1"
	Region string

	// NewKey generates keys for objects stored into a bucket.
	// Default: uuid.NewString
	NewKey func() string
}

// DefaultConfig returns sensible defaults for tables keyed by "id".
func DefaultConfig() Config {
	return Config{
		KeyAttr: "id",
		Region:  "us-east-1",
		NewKey:  uuid.NewString,
	}
}

// validate ensures config values are usable.
func (c *Config) validate() {
	if c.KeyAttr == "" {
		c.KeyAttr = "id"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.NewKey == nil {
		c.NewKey = uuid.NewString
	}
}

// tableName returns the table holding bucket.
func (c *Config) tableName(bucket string) string {
	return c.TablePrefix + bucket
}

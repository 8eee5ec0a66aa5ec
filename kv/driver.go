package kv

import "context"

// Driver executes store commands against one store endpoint.
//
// Store-level outcomes (non-success status, not found) are reported through the
// responses. A returned error means the command could not be executed at all.
type Driver interface {
	// StoreInBucket stores payload under a key assigned by the store.
	StoreInBucket(ctx context.Context, bucket string, payload []byte) (*StoreResponse, error)

	// StoreAtLocation stores payload at an existing location, preserving its key.
	StoreAtLocation(ctx context.Context, loc Location, payload []byte) (*StoreResponse, error)

	// Fetch retrieves the object at loc.
	Fetch(ctx context.Context, loc Location) (*FetchResponse, error)

	// Delete removes the object at loc.
	Delete(ctx context.Context, loc Location) (*DeleteResponse, error)
}

// Scanner is implemented by drivers able to enumerate every object in a bucket.
type Scanner interface {
	// Scan calls fn for each object in bucket until fn returns false.
	Scan(ctx context.Context, bucket string, fn func(*FetchResponse) bool) error
}

// Dialer builds a Driver for a node.
type Dialer func(node Node) (Driver, error)

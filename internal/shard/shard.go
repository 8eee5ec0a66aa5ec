// Package shard provides deterministic node selection for located store objects.
package shard

import (
	"fmt"
	"hash/fnv"
)

// LocationRef builds the reference hashed for a location ("bucket#key").
func LocationRef(bucket, key string) string {
	return fmt.Sprintf("%s#%s", bucket, key)
}

// NodeFor returns the index of the node responsible for the given location.
// With numNodes<=1 every location maps to node 0.
// With numNodes>1 locations are distributed across nodes based on the location hash.
func NodeFor(bucket, key string, numNodes int) int {
	if numNodes <= 1 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(LocationRef(bucket, key)))
	return int(h.Sum32() % uint32(numNodes))
}

// Package kv defines the boundary between the mapping layer and a key-value store client driver.
package kv

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Location addresses one stored object.
type Location struct {
	// Bucket is the logical namespace the key is unique within.
	Bucket string

	// Key identifies the object within Bucket.
	Key string
}

// IsZero reports whether the location is unbound.
func (l Location) IsZero() bool {
	return l.Bucket == "" && l.Key == ""
}

// String returns the location as "bucket/key".
func (l Location) String() string {
	return l.Bucket + "/" + l.Key
}

// Node is a single store node of the cluster.
type Node struct {
	Host string
	Port int
}

// Addr returns the node address as "host:port".
func (n Node) Addr() string {
	return net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
}

// ParseNodes parses a comma separated list of "host:port" pairs.
func ParseNodes(s string) ([]Node, error) {
	var nodes []Node
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		host, portStr, err := net.SplitHostPort(part)
		if err != nil {
			return nil, fmt.Errorf("parse node %q: %w", part, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("parse node %q: invalid port", part)
		}
		nodes = append(nodes, Node{Host: host, Port: port})
	}
	return nodes, nil
}

// StoreResponse is the result of a store command.
type StoreResponse struct {
	// Status is the HTTP-like status code reported by the store.
	Status int

	// Location is where the object was stored. Zero when the store did not report one.
	Location Location
}

// FetchResponse is the result of a fetch command.
type FetchResponse struct {
	Found    bool
	Location Location

	// Payload is the JSON encoded object (a flat attribute mapping).
	Payload []byte
}

// DeleteResponse is the result of a delete command.
type DeleteResponse struct {
	Success bool
	Status  int
}

// IsSuccess reports whether status is in the success range.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

package kv

import "errors"

var (
	// ErrNoNodes is returned when a cluster is built without any node.
	ErrNoNodes = errors.New("kv: no store nodes configured")

	// ErrScanUnsupported is returned when no node driver implements Scanner.
	ErrScanUnsupported = errors.New("kv: driver does not support bucket scans")
)

package kv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/jacentio/orchard/internal/shard"
)

// Cluster is a store client handle spanning every configured node.
// It implements Driver and is safe for concurrent use.
//
// Key-less stores rotate across nodes while location commands are routed by key,
// so an object may be read through a different node than the one that stored it.
// Every node must therefore serve the same data set, as members of one Riak cluster
// or endpoints of the same DynamoDB tables do. Independent stores must not be
// combined in one Cluster.
type Cluster struct {
	nodes   []Node
	drivers []Driver
	next    atomic.Uint64
}

// NewCluster dials every node and returns a handle spanning them.
func NewCluster(nodes []Node, dial Dialer) (*Cluster, error) {
	if len(nodes) == 0 {
		return nil, ErrNoNodes
	}
	if dial == nil {
		return nil, errors.New("kv: nil dialer")
	}

	c := &Cluster{nodes: append([]Node(nil), nodes...)}
	for _, node := range nodes {
		d, err := dial(node)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("dial %s: %w", node.Addr(), err)
		}
		c.drivers = append(c.drivers, d)
	}
	return c, nil
}

// Nodes returns the nodes the cluster spans.
func (c *Cluster) Nodes() []Node {
	return append([]Node(nil), c.nodes...)
}

// driverFor returns the driver of the node responsible for loc.
func (c *Cluster) driverFor(loc Location) Driver {
	return c.drivers[shard.NodeFor(loc.Bucket, loc.Key, len(c.drivers))]
}

// StoreInBucket rotates key-less stores across nodes.
func (c *Cluster) StoreInBucket(ctx context.Context, bucket string, payload []byte) (*StoreResponse, error) {
	n := c.next.Add(1) - 1
	return c.drivers[n%uint64(len(c.drivers))].StoreInBucket(ctx, bucket, payload)
}

// StoreAtLocation stores payload at loc.
func (c *Cluster) StoreAtLocation(ctx context.Context, loc Location, payload []byte) (*StoreResponse, error) {
	return c.driverFor(loc).StoreAtLocation(ctx, loc, payload)
}

// Fetch retrieves the object at loc.
func (c *Cluster) Fetch(ctx context.Context, loc Location) (*FetchResponse, error) {
	return c.driverFor(loc).Fetch(ctx, loc)
}

// Delete removes the object at loc.
func (c *Cluster) Delete(ctx context.Context, loc Location) (*DeleteResponse, error) {
	return c.driverFor(loc).Delete(ctx, loc)
}

// Scan enumerates bucket through the first node driver that supports scans.
func (c *Cluster) Scan(ctx context.Context, bucket string, fn func(*FetchResponse) bool) error {
	for _, d := range c.drivers {
		if s, ok := d.(Scanner); ok {
			return s.Scan(ctx, bucket, fn)
		}
	}
	return ErrScanUnsupported
}

// Close releases every node driver implementing io.Closer.
func (c *Cluster) Close() error {
	var errs []error
	for _, d := range c.drivers {
		if closer, ok := d.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

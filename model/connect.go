package model

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/jacentio/orchard/kv"
)

// Store client handles are process-wide: one *kv.Cluster per distinct node set,
// created on first use and released by Shutdown.
var (
	handlesMu sync.Mutex
	handles   = make(map[string]*kv.Cluster)
)

// Connect returns the shared store client handle for cfg's node set, creating it if absent.
// The dialer of the call that creates a handle is the one used for its lifetime.
func Connect(cfg Config) (*kv.Cluster, error) {
	cfg = resolve(cfg)
	if len(cfg.Nodes) == 0 {
		return nil, ErrNoNodes
	}

	id := handleID(cfg.Nodes)

	handlesMu.Lock()
	defer handlesMu.Unlock()

	if c, ok := handles[id]; ok {
		return c, nil
	}
	c, err := kv.NewCluster(cfg.Nodes, cfg.Dial)
	if err != nil {
		return nil, err
	}
	handles[id] = c
	cfg.Logger.Debug("store client connected", "nodes", id)
	return c, nil
}

// Shutdown closes and forgets every shared store client handle.
func Shutdown() error {
	handlesMu.Lock()
	defer handlesMu.Unlock()

	var errs []error
	for id, c := range handles {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(handles, id)
	}
	return errors.Join(errs...)
}

// handleID identifies a node set independent of node order.
func handleID(nodes []kv.Node) string {
	addrs := make([]string, len(nodes))
	for i, n := range nodes {
		addrs[i] = n.Addr()
	}
	sort.Strings(addrs)
	return strings.Join(addrs, ",")
}

package shard

import (
	"fmt"
	"testing"
)

func TestLocationRef(t *testing.T) {
	tests := []struct {
		bucket   string
		key      string
		expected string
	}{
		{"users", "k1", "users#k1"},
		{"users", "", "users#"},
		{"", "k1", "#k1"},
		{"orders", "a#b", "orders#a#b"},
	}

	for _, tt := range tests {
		result := LocationRef(tt.bucket, tt.key)
		if result != tt.expected {
			t.Errorf("LocationRef(%q, %q) = %q, want %q", tt.bucket, tt.key, result, tt.expected)
		}
	}
}

func TestNodeFor_SingleNode(t *testing.T) {
	// With numNodes=1, every location should go to node 0
	keys := []string{"k1", "k2", "alice", "", "日本語"}
	for _, key := range keys {
		if n := NodeFor("users", key, 1); n != 0 {
			t.Errorf("NodeFor(users, %q, 1) = %d, want 0", key, n)
		}
	}
}

func TestNodeFor_ZeroNodes(t *testing.T) {
	// Zero or negative node counts should be treated as 1
	if n := NodeFor("users", "k1", 0); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
	if n := NodeFor("users", "k1", -1); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

func TestNodeFor_InRange(t *testing.T) {
	for _, numNodes := range []int{2, 3, 5, 16} {
		for i := 0; i < 500; i++ {
			n := NodeFor("users", fmt.Sprintf("key-%d", i), numNodes)
			if n < 0 || n >= numNodes {
				t.Fatalf("NodeFor returned %d for %d nodes", n, numNodes)
			}
		}
	}
}

func TestNodeFor_Deterministic(t *testing.T) {
	first := NodeFor("users", "k1", 16)
	for i := 0; i < 100; i++ {
		if n := NodeFor("users", "k1", 16); n != first {
			t.Errorf("expected deterministic result %d, got %d on iteration %d", first, n, i)
		}
	}
}

func TestNodeFor_Distribution(t *testing.T) {
	counts := make(map[int]int)
	for i := 0; i < 1000; i++ {
		counts[NodeFor("users", fmt.Sprintf("key-%d", i), 8)]++
	}

	if len(counts) != 8 {
		t.Errorf("expected distribution across all 8 nodes, got %d", len(counts))
	}
}

func TestNodeFor_BucketMatters(t *testing.T) {
	// The same key in different buckets is a different location
	differs := false
	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("key-%d", i)
		if NodeFor("users", key, 16) != NodeFor("orders", key, 16) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected bucket to influence node selection")
	}
}

func BenchmarkNodeFor_SingleNode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		NodeFor("users", "k1", 1)
	}
}

func BenchmarkNodeFor_16Nodes(b *testing.B) {
	for i := 0; i < b.N; i++ {
		NodeFor("users", "k1", 16)
	}
}

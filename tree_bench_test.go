package cidr_tree

import (
	"context"
	"runtime"
	"testing"
)

func benchKeys(b *testing.B, family Family, kind cidrKind, count int) []string {
	gen := newCidrGenerator(family, kind)
	if err := gen.initCidrBlock(count); err != nil {
		b.Fatalf("failed to generate bench keys: %v", err)
	}

	return gen.block
}

func benchTree(family Family) CidrTree[int] {
	if family == FamilyV6 {
		return NewV6Tree[int]()
	}

	return NewV4Tree[int]()
}

// BenchmarkInsertHost benchmarks inserting exact addresses into the tree
func BenchmarkInsertHost(b *testing.B) {
	ctx := context.Background()
	tree := NewV4Tree[int]()
	keys := benchKeys(b, FamilyV4, cidrKindHost, b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(ctx, keys[i], i+1)
	}
}

// BenchmarkInsertBlock benchmarks inserting random CIDR blocks
func BenchmarkInsertBlock(b *testing.B) {
	ctx := context.Background()
	tree := NewV4Tree[int]()
	keys := benchKeys(b, FamilyV4, cidrKindBlock, b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(ctx, keys[i], i+1)
	}
}

// BenchmarkSearch benchmarks longest-prefix lookups in a pre-populated tree
func BenchmarkSearch(b *testing.B) {
	ctx := context.Background()
	tree := NewV4Tree[int]()
	keys := benchKeys(b, FamilyV4, cidrKindHost, b.N)

	// Pre-populate the tree
	for i := 0; i < b.N; i++ {
		tree.Insert(ctx, keys[i], i+1)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Search(ctx, keys[i])
	}
}

// BenchmarkWalk benchmarks a full traversal of a populated tree
func BenchmarkWalk(b *testing.B) {
	ctx := context.Background()
	tree := NewV4Tree[int]()
	keys := benchKeys(b, FamilyV4, cidrKindBlock, 10000)

	for i, key := range keys {
		tree.Insert(ctx, key, i+1)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tree.Walk(ctx, func(context.Context, string, int) error { return nil })
	}
}

// BenchmarkGCPressure measures heap allocations and GC counts during insertions
func BenchmarkGCPressure(b *testing.B) {
	ctx := context.Background()
	tests := []struct {
		name   string
		family Family
		count  int
	}{
		{"Small_IPv4", FamilyV4, 1000},
		{"Large_IPv4", FamilyV4, 10000},
		{"Small_IPv6", FamilyV6, 1000},
		{"Large_IPv6", FamilyV6, 10000},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			keys := benchKeys(b, tt.family, cidrKindBlock, tt.count)

			var m runtime.MemStats

			// Baseline: measure before insertions
			runtime.GC()
			runtime.ReadMemStats(&m)
			baseHeap := m.HeapAlloc
			baseGC := m.NumGC

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				tree := benchTree(tt.family)
				for j, key := range keys {
					tree.Insert(ctx, key, j+1)
				}
			}
			b.StopTimer()

			runtime.ReadMemStats(&m)
			b.ReportMetric(float64(m.HeapAlloc-baseHeap)/float64(b.N), "heap-bytes/op")
			b.ReportMetric(float64(m.NumGC-baseGC), "total-gc")
		})
	}
}

package cidr_tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestV4TreeInsertAndSearch(t *testing.T) {
	ctx := context.Background()
	v4t := NewV4Tree[string]()

	res, err := v4t.Insert(ctx, "192.168.1.0/24", "lan")
	require.NoError(t, err)
	require.Equal(t, Ok, res)

	// plain addresses insert as /32 blocks
	res, err = v4t.Insert(ctx, "192.168.1.40", "lan")
	require.NoError(t, err)
	require.Equal(t, Dup, res)

	res, value, err := v4t.Search(ctx, "192.168.1.77")
	require.NoError(t, err)
	require.Equal(t, Match, res)
	require.Equal(t, "lan", value)

	res, _, err = v4t.Search(ctx, "192.168.2.77")
	require.NoError(t, err)
	require.Equal(t, NoMatch, res)

	// a v6 address is not a valid v4 query
	_, _, err = v4t.Search(ctx, "2001:db8::1")
	require.Error(t, err)

	_, err = v4t.Insert(ctx, "not-an-address", "x")
	require.Error(t, err)
}

func TestV4TreeCoalescing(t *testing.T) {
	ctx := context.Background()
	v4t := NewV4Tree[int]()

	res, err := v4t.Insert(ctx, "192.168.0.128/25", 42)
	require.NoError(t, err)
	require.Equal(t, Ok, res)

	res, err = v4t.Insert(ctx, "192.168.0.0/25", 42)
	require.NoError(t, err)
	require.Equal(t, Ok, res)

	require.Equal(t, uint64(1), v4t.GetBlocksCount())

	blocks, err := v4t.Dump(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"192.168.0.0/24": 42}, blocks)
}

func TestV4TreeRangeInsert(t *testing.T) {
	ctx := context.Background()
	v4t := NewV4Tree[string]()

	res, err := v4t.InsertRange(ctx, "10.0.0.3", "10.0.0.17", "pool")
	require.NoError(t, err)
	require.Equal(t, Ok, res)

	blocks, err := v4t.Dump(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"10.0.0.3/32":  "pool",
		"10.0.0.4/30":  "pool",
		"10.0.0.8/29":  "pool",
		"10.0.0.16/31": "pool",
	}, blocks)

	// the same range spelled as a single hyphenated string
	other := NewV4Tree[string]()
	res, err = other.Insert(ctx, "10.0.0.3-10.0.0.17", "pool")
	require.NoError(t, err)
	require.Equal(t, Ok, res)
	require.Equal(t, v4t.GetBlocksCount(), other.GetBlocksCount())

	_, err = v4t.InsertRange(ctx, "10.0.0.17", "10.0.0.3", "pool")
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestV4TreeWalk(t *testing.T) {
	ctx := context.Background()
	v4t := NewV4Tree[int]()

	for _, cidr := range []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"} {
		res, err := v4t.Insert(ctx, cidr, 1)
		require.NoError(t, err)
		require.Equal(t, Ok, res)
	}

	var walked []string
	err := v4t.Walk(ctx, func(_ context.Context, cidr string, _ int) error {
		walked = append(walked, cidr)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}, walked)

	err = v4t.Walk(ctx, nil)
	require.ErrorIs(t, err, ErrNoWalkerFunction)
}

func TestV4TreeClear(t *testing.T) {
	ctx := context.Background()
	v4t := NewV4Tree[int]()

	res, err := v4t.Insert(ctx, "10.0.0.0/8", 1)
	require.NoError(t, err)
	require.Equal(t, Ok, res)

	v4t.Clear(ctx)
	require.Equal(t, uint64(0), v4t.GetBlocksCount())

	blocks, err := v4t.Dump(ctx)
	require.NoError(t, err)
	require.Empty(t, blocks)

	res, _, err = v4t.Search(ctx, "10.1.2.3")
	require.NoError(t, err)
	require.Equal(t, NoMatch, res)
}

func TestV4TreeLockHandlers(t *testing.T) {
	ctx := context.Background()

	// Very small test to ensure lock handlers are called
	called := struct{ r, ru, w, u int }{}

	rlock := func(_ context.Context) { called.r++ }
	runlock := func(_ context.Context) { called.ru++ }
	wlock := func(_ context.Context) { called.w++ }
	unlock := func(_ context.Context) { called.u++ }

	v4t := NewV4TreeWithLockHandlers[string](rlock, runlock, wlock, unlock)

	// Insert should call write lock/unlock
	_, _ = v4t.Insert(ctx, "10.0.0.0/8", "x")
	if called.w == 0 || called.u == 0 {
		t.Fatalf("expected write lock/unlock called, got w=%d u=%d", called.w, called.u)
	}

	// Search should call read lock/unlock
	_, _, _ = v4t.Search(ctx, "10.0.0.1")
	if called.r == 0 || called.ru == 0 {
		t.Fatalf("expected read lock/unlock called, got r=%d ru=%d", called.r, called.ru)
	}

	// Walk and Dump should call read lock/unlock
	_ = v4t.Walk(ctx, func(context.Context, string, string) error { return nil })
	_, _ = v4t.Dump(ctx)
	if called.r < 3 || called.ru < 3 {
		t.Fatalf("expected read lock/unlock called thrice, got r=%d ru=%d", called.r, called.ru)
	}

	// Clear should call write lock/unlock
	v4t.Clear(ctx)
	if called.w < 2 || called.u < 2 {
		t.Fatalf("expected write lock/unlock called twice, got w=%d u=%d", called.w, called.u)
	}
}

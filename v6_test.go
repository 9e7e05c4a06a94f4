package cidr_tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestV6TreeInsertAndSearch(t *testing.T) {
	ctx := context.Background()
	v6t := NewV6Tree[string]()

	res, err := v6t.Insert(ctx, "2001:db8::/32", "doc")
	require.NoError(t, err)
	require.Equal(t, Ok, res)

	res, value, err := v6t.Search(ctx, "2001:db8:dead:beef::1")
	require.NoError(t, err)
	require.Equal(t, Match, res)
	require.Equal(t, "doc", value)

	res, _, err = v6t.Search(ctx, "2001:db9::1")
	require.NoError(t, err)
	require.Equal(t, NoMatch, res)

	// v4 and v4-mapped addresses are rejected
	_, _, err = v6t.Search(ctx, "10.0.0.1")
	require.Error(t, err)

	_, err = v6t.Insert(ctx, "::ffff:10.0.0.0/120", "mapped")
	require.Error(t, err)
}

func TestV6TreeCoalescing(t *testing.T) {
	ctx := context.Background()
	v6t := NewV6Tree[int]()

	res, err := v6t.Insert(ctx, "2001:db8:8000::/33", 42)
	require.NoError(t, err)
	require.Equal(t, Ok, res)

	res, err = v6t.Insert(ctx, "2001:db8::/33", 42)
	require.NoError(t, err)
	require.Equal(t, Ok, res)

	require.Equal(t, uint64(1), v6t.GetBlocksCount())

	blocks, err := v6t.Dump(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"2001:db8::/32": 42}, blocks)
}

func TestV6TreeRangeInsert(t *testing.T) {
	ctx := context.Background()
	v6t := NewV6Tree[string]()

	res, err := v6t.InsertRange(ctx, "2001:db8::", "2001:db8::ffff", "pool")
	require.NoError(t, err)
	require.Equal(t, Ok, res)

	blocks, err := v6t.Dump(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"2001:db8::/112": "pool"}, blocks)

	res, value, err := v6t.Search(ctx, "2001:db8::1234")
	require.NoError(t, err)
	require.Equal(t, Match, res)
	require.Equal(t, "pool", value)
}

func TestV6TreeConflictRejection(t *testing.T) {
	ctx := context.Background()
	v6t := NewV6Tree[int]()

	res, err := v6t.Insert(ctx, "2001:db8::/32", 42)
	require.NoError(t, err)
	require.Equal(t, Ok, res)

	res, err = v6t.Insert(ctx, "2001:db8:1::/48", 23)
	require.ErrorIs(t, err, ErrIncompatibleEntry)
	require.Equal(t, Error, res)

	require.Equal(t, uint64(1), v6t.GetBlocksCount())
}

package cidr_tree

import (
	"context"
)

type V6Tree[T comparable] struct {
	tree *tree[T]
	lockHandlers
}

// Returns a new IPv6 CIDR tree
// Returns:
//
//	CidrTree - IPv6 CIDR tree
func NewV6Tree[T comparable]() CidrTree[T] {
	return &V6Tree[T]{
		tree: newTreeCore[T](v6Width),
	}
}

// Returns a new IPv6 CIDR tree with custom lock handlers
// Arguments:
//
//	rlockFn   - read lock function
//	runlockFn - read unlock function
//	wlockFn   - write lock function
//	unlockFn  - unlock function
//
// Returns:
//
//	CidrTree - IPv6 CIDR tree
func NewV6TreeWithLockHandlers[T comparable](rlockFn ReadLockFn, runlockFn ReadUnlockFn, wlockFn WriteLockFn, unlockFn UnlockFn) CidrTree[T] {
	v6t := &V6Tree[T]{
		tree: newTreeCore[T](v6Width),
	}

	v6t.set(rlockFn, runlockFn, wlockFn, unlockFn)
	return v6t
}

func (v6t *V6Tree[T]) SetLockHandlers(rlockFn ReadLockFn, runlockFn ReadUnlockFn, wlockFn WriteLockFn, unlockFn UnlockFn) {
	v6t.set(rlockFn, runlockFn, wlockFn, unlockFn)
}

// Inserts the given IPv6 block into the tree. Accepts CIDR notation, a
// plain address, or a "start-end" range. See V4Tree.Insert for the
// coalescing and conflict behavior, which is identical.
func (v6t *V6Tree[T]) Insert(ctx context.Context, saddr string, value T) (OpResult, error) {
	if nil == v6t {
		return Error, ErrInvalidCidrTree
	}

	if sstart, send, err := splitRangeString(saddr); err == nil {
		return v6t.InsertRange(ctx, sstart, send, value)
	}

	addr, plen, err := getV6Prefix(saddr)
	if nil != err {
		return Error, err
	}

	v6t.wlock(ctx)
	defer v6t.unlock(ctx)

	return v6t.tree.insert(addr, plen, value)
}

// Inserts every address in the inclusive range [sstart, send] into the
// tree. Decomposition and partial-failure behavior match V4Tree.InsertRange.
func (v6t *V6Tree[T]) InsertRange(ctx context.Context, sstart, send string, value T) (OpResult, error) {
	if nil == v6t {
		return Error, ErrInvalidCidrTree
	}

	start, err := getV6Addr(sstart)
	if nil != err {
		return Error, err
	}

	end, err := getV6Addr(send)
	if nil != err {
		return Error, err
	}

	v6t.wlock(ctx)
	defer v6t.unlock(ctx)

	return v6t.tree.insertRange(start, end, value)
}

// Searches for the most specific block covering the given IPv6 address
// and returns its value (longest prefix match).
func (v6t *V6Tree[T]) Search(ctx context.Context, saddr string) (OpResult, T, error) {
	var zero T

	if nil == v6t {
		return Error, zero, ErrInvalidCidrTree
	}

	addr, err := getV6Addr(saddr)
	if nil != err {
		return Error, zero, err
	}

	v6t.rlock(ctx)
	defer v6t.runlock(ctx)

	value, res := v6t.tree.lookup(addr)
	return res, value, nil
}

// Walk the tree and call the passed function once per stored block, in
// deterministic ascending order of prefix addresses
func (v6t *V6Tree[T]) Walk(ctx context.Context, callback WalkerFn[T]) error {
	if nil == v6t {
		return ErrInvalidCidrTree
	}

	if nil == callback {
		return ErrNoWalkerFunction
	}

	v6t.rlock(ctx)
	defer v6t.runlock(ctx)

	return v6t.tree.walk(func(addr addr128, plen uint, value T) error {
		return callback(ctx, formatV6Cidr(addr, plen), value)
	})
}

// Dumps all stored blocks into a map keyed by CIDR notation
func (v6t *V6Tree[T]) Dump(ctx context.Context) (map[string]T, error) {
	if nil == v6t {
		return nil, ErrInvalidCidrTree
	}

	v6t.rlock(ctx)
	defer v6t.runlock(ctx)

	blocks := make(map[string]T)
	err := v6t.tree.walk(func(addr addr128, plen uint, value T) error {
		cidr := formatV6Cidr(addr, plen)
		if _, exists := blocks[cidr]; exists {
			return ErrCorruptTree
		}

		blocks[cidr] = value
		return nil
	})
	if nil != err {
		return nil, err
	}

	return blocks, nil
}

// Clears the tree, discarding all stored blocks
func (v6t *V6Tree[T]) Clear(ctx context.Context) {
	if nil == v6t {
		return
	}

	v6t.wlock(ctx)
	defer v6t.unlock(ctx)

	v6t.tree.clear()
}

// Returns the number of blocks stored in the IPv6 CIDR tree
func (v6t *V6Tree[T]) GetBlocksCount() uint64 {
	if nil == v6t {
		return 0
	}

	return v6t.tree.blocks
}

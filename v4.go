package cidr_tree

import (
	"context"
)

type V4Tree[T comparable] struct {
	tree *tree[T]
	lockHandlers
}

// Returns a new IPv4 CIDR tree
// Returns:
//
//	CidrTree - IPv4 CIDR tree
func NewV4Tree[T comparable]() CidrTree[T] {
	return &V4Tree[T]{
		tree: newTreeCore[T](v4Width),
	}
}

// Returns a new IPv4 CIDR tree with custom lock handlers
// Arguments:
//
//	rlockFn   - read lock function
//	runlockFn - read unlock function
//	wlockFn   - write lock function
//	unlockFn  - unlock function
//
// Returns:
//
//	CidrTree - IPv4 CIDR tree
func NewV4TreeWithLockHandlers[T comparable](rlockFn ReadLockFn, runlockFn ReadUnlockFn, wlockFn WriteLockFn, unlockFn UnlockFn) CidrTree[T] {
	v4t := &V4Tree[T]{
		tree: newTreeCore[T](v4Width),
	}

	v4t.set(rlockFn, runlockFn, wlockFn, unlockFn)
	return v4t
}

// Sets the lock handlers for the IPv4 CIDR tree
// Arguments:
//
//	rlockFn   - read lock function
//	runlockFn - read unlock function
//	wlockFn   - write lock function
//	unlockFn  - unlock function
func (v4t *V4Tree[T]) SetLockHandlers(rlockFn ReadLockFn, runlockFn ReadUnlockFn, wlockFn WriteLockFn, unlockFn UnlockFn) {
	v4t.set(rlockFn, runlockFn, wlockFn, unlockFn)
}

// Inserts the given IPv4 block into the tree. Blocks that are adjacent or
// overlapping with existing entries of the same value are coalesced;
// overlapping a differing value fails with ErrIncompatibleEntry.
// Arguments:
//
//	ctx   - context for the operation
//	saddr - string representation of the IPv4 block. Can be in CIDR
//	        notation, a plain address, or a "start-end" range.
//	value - value to be associated with the block. Must not be the
//	        zero value of T.
//
// Returns:
//
//	OpResult - result of the insert operation
//	error    - error, if any
func (v4t *V4Tree[T]) Insert(ctx context.Context, saddr string, value T) (OpResult, error) {
	if nil == v4t {
		return Error, ErrInvalidCidrTree
	}

	if sstart, send, err := splitRangeString(saddr); err == nil {
		return v4t.InsertRange(ctx, sstart, send, value)
	}

	addr, plen, err := getV4Prefix(saddr)
	if nil != err {
		return Error, err
	}

	v4t.wlock(ctx)
	defer v4t.unlock(ctx)

	return v4t.tree.insert(addr, plen, value)
}

// Inserts every address in the inclusive range [sstart, send] into the
// tree. The range is decomposed into the minimal set of CIDR blocks and
// the blocks are inserted one at a time; on failure the blocks already
// inserted stay in place.
// Arguments:
//
//	ctx    - context for the operation
//	sstart - first address of the range
//	send   - last address of the range
//	value  - value to be associated with the range
//
// Returns:
//
//	OpResult - result of the insert operation
//	error    - error, if any
func (v4t *V4Tree[T]) InsertRange(ctx context.Context, sstart, send string, value T) (OpResult, error) {
	if nil == v4t {
		return Error, ErrInvalidCidrTree
	}

	start, err := getV4Addr(sstart)
	if nil != err {
		return Error, err
	}

	end, err := getV4Addr(send)
	if nil != err {
		return Error, err
	}

	v4t.wlock(ctx)
	defer v4t.unlock(ctx)

	return v4t.tree.insertRange(start, end, value)
}

// Searches for the most specific block covering the given IPv4 address
// and returns its value (longest prefix match).
// Arguments:
//
//	ctx   - context for the operation
//	saddr - string representation of the IPv4 address
//
// Returns:
//
//	OpResult - Match or NoMatch
//	T        - value of the covering block, if any
//	error    - error, if any
func (v4t *V4Tree[T]) Search(ctx context.Context, saddr string) (OpResult, T, error) {
	var zero T

	if nil == v4t {
		return Error, zero, ErrInvalidCidrTree
	}

	addr, err := getV4Addr(saddr)
	if nil != err {
		return Error, zero, err
	}

	v4t.rlock(ctx)
	defer v4t.runlock(ctx)

	value, res := v4t.tree.lookup(addr)
	return res, value, nil
}

// Walk the tree and call the passed function once per stored block, in
// deterministic ascending order of prefix addresses
// Arguments:
//
//	ctx      - context for the operation
//	callback - function to be called for every block in the tree
//
// Returns:
//
//	error - nil if successful else an error
func (v4t *V4Tree[T]) Walk(ctx context.Context, callback WalkerFn[T]) error {
	if nil == v4t {
		return ErrInvalidCidrTree
	}

	if nil == callback {
		return ErrNoWalkerFunction
	}

	v4t.rlock(ctx)
	defer v4t.runlock(ctx)

	return v4t.tree.walk(func(addr addr128, plen uint, value T) error {
		return callback(ctx, formatV4Cidr(addr, plen), value)
	})
}

// Dumps all stored blocks into a map keyed by CIDR notation
// Arguments:
//
//	ctx - context for the operation
//
// Returns:
//
//	map[string]T - stored blocks and their values
//	error        - error, if any
func (v4t *V4Tree[T]) Dump(ctx context.Context) (map[string]T, error) {
	if nil == v4t {
		return nil, ErrInvalidCidrTree
	}

	v4t.rlock(ctx)
	defer v4t.runlock(ctx)

	blocks := make(map[string]T)
	err := v4t.tree.walk(func(addr addr128, plen uint, value T) error {
		cidr := formatV4Cidr(addr, plen)
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
// Arguments:
//
//	ctx - context for the operation
func (v4t *V4Tree[T]) Clear(ctx context.Context) {
	if nil == v4t {
		return
	}

	v4t.wlock(ctx)
	defer v4t.unlock(ctx)

	v4t.tree.clear()
}

// Returns the number of blocks stored in the IPv4 CIDR tree
// Returns:
//
//	uint64 - number of stored blocks
func (v4t *V4Tree[T]) GetBlocksCount() uint64 {
	if nil == v4t {
		return 0
	}

	return v4t.tree.blocks
}

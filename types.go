package cidr_tree

import (
	"context"
	"errors"
)

type OpResult int

const (
	Error OpResult = iota
	Ok
	Dup
	Match
	NoMatch
)

type Family int

const (
	FamilyUnknown Family = iota
	FamilyV4
	FamilyV6
)

type ReadLockFn func(context.Context)
type ReadUnlockFn func(context.Context)
type WriteLockFn func(context.Context)
type UnlockFn func(context.Context)

// lockHandlers holds the caller supplied locking callbacks. The trees do no
// locking of their own; when set, the handlers run around every operation.
type lockHandlers struct {
	rlockFn   ReadLockFn
	runlockFn ReadUnlockFn
	wlockFn   WriteLockFn
	unlockFn  UnlockFn
}

func (lh *lockHandlers) set(rlockFn ReadLockFn, runlockFn ReadUnlockFn, wlockFn WriteLockFn, unlockFn UnlockFn) {
	lh.rlockFn = rlockFn
	lh.runlockFn = runlockFn
	lh.wlockFn = wlockFn
	lh.unlockFn = unlockFn
}

func (lh *lockHandlers) rlock(ctx context.Context) {
	if nil != lh.rlockFn {
		lh.rlockFn(ctx)
	}
}

func (lh *lockHandlers) runlock(ctx context.Context) {
	if nil != lh.runlockFn {
		lh.runlockFn(ctx)
	}
}

func (lh *lockHandlers) wlock(ctx context.Context) {
	if nil != lh.wlockFn {
		lh.wlockFn(ctx)
	}
}

func (lh *lockHandlers) unlock(ctx context.Context) {
	if nil != lh.unlockFn {
		lh.unlockFn(ctx)
	}
}

// WalkerFn is called once per stored block with the block in CIDR notation
// and the value stored for it. Returning an error stops the walk.
type WalkerFn[T comparable] func(context.Context, string, T) error

// CidrTree is a lookup table keyed by IP network prefixes. Inserted blocks
// that are adjacent or overlapping and carry equal values are coalesced
// automatically. Values must be comparable; the zero value of T is reserved
// as the "no entry" marker and cannot be stored.
type CidrTree[T comparable] interface {
	SetLockHandlers(ReadLockFn, ReadUnlockFn, WriteLockFn, UnlockFn)
	Insert(context.Context, string, T) (OpResult, error)
	InsertRange(context.Context, string, string, T) (OpResult, error)
	Search(context.Context, string) (OpResult, T, error)
	Walk(context.Context, WalkerFn[T]) error
	Dump(context.Context) (map[string]T, error)
	Clear(context.Context)
	GetBlocksCount() uint64
}

var (
	ErrInvalidCidrTree   = errors.New("invalid cidr tree")
	ErrInvalidPrefix     = errors.New("invalid prefix length")
	ErrInvalidValue      = errors.New("cannot store the zero value")
	ErrInvalidRange      = errors.New("invalid range: start exceeds end")
	ErrIncompatibleEntry = errors.New("incompatible entry already present")
	ErrMergeUnsupported  = errors.New("merge would require an unsupported /0 block")
	ErrCorruptTree       = errors.New("corrupt tree: duplicate block during walk")
	ErrNoWalkerFunction  = errors.New("no walker function provided")
)

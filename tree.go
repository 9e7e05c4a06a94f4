package cidr_tree

// tree is the width-generic core: a binary trie over fixed-width addresses,
// 32 bits for IPv4 and 128 for IPv6. One address bit is consumed per level,
// so a value slot reached after consuming plen bits stores a /plen block.
// The tree provides no internal synchronization; the string-facing wrappers
// run the pluggable lock handlers around every operation.
type tree[T comparable] struct {
	root   *treeNode[T]
	width  uint
	blocks uint64
}

func newTreeCore[T comparable](width uint) *tree[T] {
	return &tree[T]{
		root:  newNode[T](),
		width: width,
	}
}

// pathStep records one level of a descent: the node visited and the slot
// taken out of it. The insert merge pass walks these back upward.
type pathStep[T comparable] struct {
	node *treeNode[T]
	bit  uint
}

// insert stores value for the block (addr, plen). Inserting a block already
// covered by an equal value is a no-op reported as Dup. A differing value
// overlapping an existing entry in either direction fails with
// ErrIncompatibleEntry. After a successful store adjacent sibling blocks
// with equal values are merged upward; a merge that would have to produce
// a /0 block fails with ErrMergeUnsupported before anything is modified.
func (t *tree[T]) insert(addr addr128, plen uint, value T) (OpResult, error) {
	var zero T
	if value == zero {
		return Error, ErrInvalidValue
	}

	if plen < 1 || plen > t.width {
		return Error, ErrInvalidPrefix
	}

	// Descend through existing structure without modifying it. The path
	// stack is kept for the merge pass.
	path := make([]pathStep[T], 0, plen)
	node := t.root

	depth := uint(0)
	for ; depth+1 < plen; depth++ {
		bit := addr.msbBit(depth, t.width)
		s := &node.slots[bit]

		if s.kind == slotValue {
			// Hit a covering shorter-prefix value before consuming all of
			// plen. The new block is subsumed by it.
			if s.value == value {
				return Dup, nil
			}

			return Error, ErrIncompatibleEntry
		}

		if s.kind == slotEmpty {
			break
		}

		path = append(path, pathStep[T]{node: node, bit: bit})
		node = s.child
	}

	if depth+1 < plen {
		// Ran off the existing structure. Build the missing chain of nodes
		// detached, then attach it in one step. The deepest new node has an
		// empty sibling slot, so no merge can trigger.
		attachAt := &node.slots[addr.msbBit(depth, t.width)]

		head := newNode[T]()
		tail := head
		for d := depth + 1; d+1 < plen; d++ {
			child := newNode[T]()
			tail.slots[addr.msbBit(d, t.width)] = subtreeSlot(child)
			tail = child
		}
		tail.slots[addr.msbBit(plen-1, t.width)] = valueSlot(value)

		*attachAt = subtreeSlot(head)
		t.blocks++

		return Ok, nil
	}

	// node now sits at depth plen-1 and owns the target slot.
	bit := addr.msbBit(plen-1, t.width)
	s := &node.slots[bit]

	collapsed := uint64(0)
	switch s.kind {
	case slotValue:
		if s.value == value {
			return Dup, nil
		}

		return Error, ErrIncompatibleEntry

	case slotSubtree:
		// The new, shorter prefix subsumes an existing subtree. That is
		// only legal when every value already under it is the same.
		if !s.child.allValuesEqual(value) {
			return Error, ErrIncompatibleEntry
		}

		collapsed = s.child.countValues()
	}

	// Dry-run the merge pass. If equal sibling values would chain all the
	// way up past the root the result would be a /0 block, which the tree
	// cannot represent; fail before mutating anything.
	cur, curBit := node, bit
	for pi := len(path) - 1; ; pi-- {
		sib := &cur.slots[1-curBit]
		if sib.kind != slotValue || sib.value != value {
			break
		}

		if pi < 0 {
			return Error, ErrMergeUnsupported
		}

		cur, curBit = path[pi].node, path[pi].bit
	}

	node.slots[bit] = valueSlot(value)
	t.blocks = t.blocks + 1 - collapsed

	// Merge pass: collapse any node whose two slots now hold the same
	// value into a single value slot one level up.
	cur, curBit = node, bit
	for pi := len(path) - 1; pi >= 0; pi-- {
		sib := &cur.slots[1-curBit]
		if sib.kind != slotValue || sib.value != value {
			break
		}

		cur, curBit = path[pi].node, path[pi].bit
		cur.slots[curBit] = valueSlot(value)
		t.blocks--
	}

	return Ok, nil
}

// insertRange stores value for every address in the inclusive interval
// [start, end]. The interval is decomposed into the minimal set of aligned
// blocks, inserted one at a time; the first failing block aborts the
// operation and already inserted blocks are not rolled back.
func (t *tree[T]) insertRange(start, end addr128, value T) (OpResult, error) {
	cidrBlocks, err := splitRange(start, end, t.width)
	if err != nil {
		return Error, err
	}

	res := Dup
	for _, block := range cidrBlocks {
		blockRes, err := t.insert(block.addr, block.plen, value)
		if err != nil {
			return blockRes, err
		}

		if blockRes == Ok {
			res = Ok
		}
	}

	return res, nil
}

// lookup returns the value of the most specific stored block covering addr.
// It runs in at most width steps regardless of how many blocks are stored.
func (t *tree[T]) lookup(addr addr128) (T, OpResult) {
	var zero T

	node := t.root
	for depth := uint(0); depth < t.width; depth++ {
		s := &node.slots[addr.msbBit(depth, t.width)]

		switch s.kind {
		case slotEmpty:
			return zero, NoMatch
		case slotValue:
			return s.value, Match
		}

		node = s.child
	}

	return zero, NoMatch
}

// walk traverses the tree depth first, slot 0 before slot 1, and calls
// visit once per stored block. The order is deterministic: blocks are
// visited in ascending numeric order of their prefix addresses.
func (t *tree[T]) walk(visit func(addr addr128, plen uint, value T) error) error {
	stack := newNodeStack[T]()
	stack.Push(&walkFrame[T]{node: t.root})

	for !stack.IsEmpty() {
		frame := stack.Peek()
		if frame.next > 1 {
			stack.Pop()
			continue
		}

		si := frame.next
		frame.next++

		addr := frame.addr
		if si == 1 {
			addr = addr.setBit(t.width - 1 - frame.depth)
		}

		s := &frame.node.slots[si]
		switch s.kind {
		case slotValue:
			if err := visit(addr, frame.depth+1, s.value); err != nil {
				return err
			}
		case slotSubtree:
			stack.Push(&walkFrame[T]{node: s.child, addr: addr, depth: frame.depth + 1})
		}
	}

	return nil
}

// clear resets the tree to its empty state, discarding all nodes.
func (t *tree[T]) clear() {
	t.root = newNode[T]()
	t.blocks = 0
}

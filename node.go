package cidr_tree

type slotKind int

const (
	slotEmpty slotKind = iota
	slotValue
	slotSubtree
)

// slot is one branch of a treeNode. It holds exactly one of: nothing, a
// stored value (a complete block whose prefix length is the slot's depth
// plus one), or a child node with more specific entries.
type slot[T comparable] struct {
	kind  slotKind
	value T
	child *treeNode[T]
}

// treeNode is a binary branch point. Slot 0 follows a clear address bit,
// slot 1 a set one. A node never keeps two equal sibling values; the
// insert merge pass collapses such pairs into the parent slot.
type treeNode[T comparable] struct {
	slots [2]slot[T]
}

func newNode[T comparable]() *treeNode[T] {
	return &treeNode[T]{}
}

func valueSlot[T comparable](value T) slot[T] {
	return slot[T]{kind: slotValue, value: value}
}

func subtreeSlot[T comparable](child *treeNode[T]) slot[T] {
	return slot[T]{kind: slotSubtree, child: child}
}

// allValuesEqual reports whether every value stored at or below the node
// equals value. Empty slots do not count against it.
func (node *treeNode[T]) allValuesEqual(value T) bool {
	for si := range node.slots {
		switch node.slots[si].kind {
		case slotValue:
			if node.slots[si].value != value {
				return false
			}
		case slotSubtree:
			if !node.slots[si].child.allValuesEqual(value) {
				return false
			}
		}
	}

	return true
}

// countValues returns the number of values stored at or below the node.
func (node *treeNode[T]) countValues() uint64 {
	count := uint64(0)
	for si := range node.slots {
		switch node.slots[si].kind {
		case slotValue:
			count++
		case slotSubtree:
			count += node.slots[si].child.countValues()
		}
	}

	return count
}

// walkFrame tracks one node during an iterative traversal along with the
// address bits accumulated on the way down and the next slot to visit.
type walkFrame[T comparable] struct {
	node  *treeNode[T]
	addr  addr128
	depth uint
	next  int
}

// nodeStack is a simple stack of walk frames. Used to assist in tree
// traversals.
type nodeStack[T comparable] struct {
	frames []*walkFrame[T]
}

func newNodeStack[T comparable]() *nodeStack[T] {
	return &nodeStack[T]{
		frames: make([]*walkFrame[T], 0),
	}
}

func (s *nodeStack[T]) Push(frame *walkFrame[T]) {
	s.frames = append(s.frames, frame)
}

func (s *nodeStack[T]) Pop() *walkFrame[T] {
	if len(s.frames) == 0 {
		return nil
	}

	frame := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return frame
}

func (s *nodeStack[T]) Peek() *walkFrame[T] {
	if len(s.frames) == 0 {
		return nil
	}

	return s.frames[len(s.frames)-1]
}

func (s *nodeStack[T]) IsEmpty() bool {
	return len(s.frames) == 0
}

func (s *nodeStack[T]) Size() int {
	return len(s.frames)
}

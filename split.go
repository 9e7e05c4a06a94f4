package cidr_tree

// cidrBlock is one aligned block emitted by splitRange: a prefix address
// and its length in bits.
type cidrBlock struct {
	addr addr128
	plen uint
}

// splitRange decomposes the inclusive interval [start, end] into the
// minimal ordered list of aligned blocks whose union covers it exactly.
// The scan runs from bit hi (most significant differing bit) downward
// while lo tracks the lowest bit position known to be free: a stretch of
// low bits that is zero in start and one in end is covered by a single
// aligned block, anything else forces a split into two sub-intervals.
func splitRange(start, end addr128, width uint) ([]cidrBlock, error) {
	if start.cmp(end) > 0 {
		return nil, ErrInvalidRange
	}

	blocks := make([]cidrBlock, 0, 1)
	appendRangeBlocks(&blocks, start, end, int(width)-1, 0, width)

	return blocks, nil
}

func appendRangeBlocks(blocks *[]cidrBlock, start, end addr128, hi, lo int, width uint) {
	x := start.xor(end)
	for hi >= 0 && x.bit(uint(hi)) == 0 {
		hi--
	}

	prefix := start.clearLow(uint(hi + 1))

	for lo <= hi && start.bit(uint(lo)) == 0 && end.bit(uint(lo)) == 1 {
		lo++
	}

	if lo <= hi {
		// Not coverable by one aligned block: split at bit hi and handle
		// each half with the same continuation state.
		mid := prefix.or(lowMask(uint(hi)))
		appendRangeBlocks(blocks, start, mid, hi, lo, width)
		appendRangeBlocks(blocks, prefix.setBit(uint(hi)), end, hi, lo, width)
		return
	}

	*blocks = append(*blocks, cidrBlock{addr: prefix, plen: width - uint(hi+1)})
}

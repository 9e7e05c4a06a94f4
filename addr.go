package cidr_tree

import (
	"encoding/binary"
	"net"
)

const (
	v4Width = 32
	v6Width = 128
)

// addr128 is an unsigned 128-bit address value. IPv4 addresses occupy the
// low 32 bits; the owning tree or splitter carries the address width.
// Bit positions are numeric, position 0 being the least significant bit.
type addr128 struct {
	hi uint64
	lo uint64
}

func (a addr128) bit(pos uint) uint {
	if pos >= 64 {
		return uint(a.hi>>(pos-64)) & 1
	}
	return uint(a.lo>>pos) & 1
}

func (a addr128) setBit(pos uint) addr128 {
	if pos >= 64 {
		a.hi |= 1 << (pos - 64)
	} else {
		a.lo |= 1 << pos
	}
	return a
}

// msbBit returns the bit at depth d counting from the most significant bit
// of a width-bit address. Depth 0 is the top bit, used for trie descent.
func (a addr128) msbBit(depth, width uint) uint {
	return a.bit(width - 1 - depth)
}

func (a addr128) xor(b addr128) addr128 {
	return addr128{a.hi ^ b.hi, a.lo ^ b.lo}
}

func (a addr128) and(b addr128) addr128 {
	return addr128{a.hi & b.hi, a.lo & b.lo}
}

func (a addr128) or(b addr128) addr128 {
	return addr128{a.hi | b.hi, a.lo | b.lo}
}

func (a addr128) isZero() bool {
	return a.hi|a.lo == 0
}

// cmp returns -1, 0 or 1 comparing a and b as unsigned integers.
func (a addr128) cmp(b addr128) int {
	switch {
	case a.hi < b.hi:
		return -1
	case a.hi > b.hi:
		return 1
	case a.lo < b.lo:
		return -1
	case a.lo > b.lo:
		return 1
	}
	return 0
}

// lowMask returns a value with the low n bits set.
func lowMask(n uint) addr128 {
	switch {
	case n == 0:
		return addr128{}
	case n >= 128:
		return addr128{^uint64(0), ^uint64(0)}
	case n >= 64:
		return addr128{^uint64(0) >> (128 - n), ^uint64(0)}
	}
	return addr128{0, ^uint64(0) >> (64 - n)}
}

// clearLow clears the low n bits, keeping the common prefix above them.
func (a addr128) clearLow(n uint) addr128 {
	m := lowMask(n)
	return addr128{a.hi &^ m.hi, a.lo &^ m.lo}
}

func v4ToAddr(nip net.IP) addr128 {
	return addr128{lo: uint64(binary.BigEndian.Uint32(nip.To4()))}
}

func v6ToAddr(nip net.IP) addr128 {
	b := nip.To16()
	return addr128{
		hi: binary.BigEndian.Uint64(b[:8]),
		lo: binary.BigEndian.Uint64(b[8:]),
	}
}

func (a addr128) toV4IP() net.IP {
	nip := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(nip, uint32(a.lo))
	return nip
}

func (a addr128) toV6IP() net.IP {
	nip := make(net.IP, net.IPv6len)
	binary.BigEndian.PutUint64(nip[:8], a.hi)
	binary.BigEndian.PutUint64(nip[8:], a.lo)
	return nip
}

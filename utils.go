package cidr_tree

import (
	"fmt"
	"net"
	"strings"

	"github.com/pkg/errors"
)

// Returns the IPv4 prefix for the given string representation
// Arguments:
//
//	saddr - string representation of the IPv4 block. Can be in
//	        CIDR notation or just the IP address.
//
// Returns:
//
//	addr128 - IPv4 address, right aligned
//	uint    - prefix length in bits
//	error   - error, if any
func getV4Prefix(saddr string) (addr128, uint, error) {
	// Try CIDR notation parsing first
	_, ipnet, err := net.ParseCIDR(saddr)
	if nil == err {
		// Ensure it's an IPv4 address
		if nil == ipnet.IP.To4() {
			return addr128{}, 0, errors.Errorf("invalid v4 address %s", saddr)
		}

		plen, _ := ipnet.Mask.Size()
		return v4ToAddr(ipnet.IP), uint(plen), nil
	}

	// Try parsing as a plain IPv4 address
	nip := net.ParseIP(saddr)
	if nil != nip && nil != nip.To4() {
		return v4ToAddr(nip), v4Width, nil
	}

	return addr128{}, 0, errors.Errorf("invalid v4 address %s", saddr)
}

// Returns the IPv6 prefix for the given string representation. Same shape
// as getV4Prefix, rejecting v4 and v4-mapped addresses.
func getV6Prefix(saddr string) (addr128, uint, error) {
	_, ipnet, err := net.ParseCIDR(saddr)
	if nil == err {
		if nil == ipnet.IP.To16() || nil != ipnet.IP.To4() {
			return addr128{}, 0, errors.Errorf("invalid v6 address %s", saddr)
		}

		plen, _ := ipnet.Mask.Size()
		return v6ToAddr(ipnet.IP), uint(plen), nil
	}

	nip := net.ParseIP(saddr)
	if nil != nip && nil != nip.To16() && nil == nip.To4() {
		return v6ToAddr(nip), v6Width, nil
	}

	return addr128{}, 0, errors.Errorf("invalid v6 address %s", saddr)
}

// Returns a single IPv4 address, rejecting CIDR notation
func getV4Addr(saddr string) (addr128, error) {
	nip := net.ParseIP(saddr)
	if nil == nip || nil == nip.To4() {
		return addr128{}, errors.Errorf("invalid v4 address %s", saddr)
	}

	return v4ToAddr(nip), nil
}

// Returns a single IPv6 address, rejecting CIDR notation
func getV6Addr(saddr string) (addr128, error) {
	nip := net.ParseIP(saddr)
	if nil == nip || nil == nip.To16() || nil != nip.To4() {
		return addr128{}, errors.Errorf("invalid v6 address %s", saddr)
	}

	return v6ToAddr(nip), nil
}

// Splits an address range given as "start-end" into its two endpoints
// Arguments:
//
//	srange - string representation of the range, e.g. "10.0.0.3-10.0.0.17"
//
// Returns:
//
//	string - start address
//	string - end address
//	error  - error, if any
func splitRangeString(srange string) (string, string, error) {
	hyphen := strings.IndexByte(srange, '-')
	if hyphen == -1 {
		return "", "", errors.Errorf("no hyphen in range %q", srange)
	}

	start := strings.TrimSpace(srange[:hyphen])
	end := strings.TrimSpace(srange[hyphen+1:])
	if start == "" || end == "" {
		return "", "", errors.Errorf("incomplete range %q", srange)
	}

	return start, end, nil
}

func formatV4Cidr(addr addr128, plen uint) string {
	return fmt.Sprintf("%s/%d", addr.toV4IP().String(), plen)
}

func formatV6Cidr(addr addr128, plen uint) string {
	return fmt.Sprintf("%s/%d", addr.toV6IP().String(), plen)
}

// GetAddrFamily detects the address family of the given string, which may
// be a single address, a block in CIDR notation or a "start-end" range.
// Returns FamilyUnknown if the string parses as neither.
func GetAddrFamily(saddr string) Family {
	if start, _, err := splitRangeString(saddr); err == nil {
		saddr = start
	}

	if _, _, err := getV4Prefix(saddr); err == nil {
		return FamilyV4
	}

	if _, _, err := getV6Prefix(saddr); err == nil {
		return FamilyV6
	}

	return FamilyUnknown
}

package cidr_tree

import (
	"fmt"
	"math/rand"
	"net"
)

const (
	ipv4MinOctet = 0
	ipv4MaxOctet = 255
)

type cidrKind int

const (
	cidrKindMin cidrKind = iota
	cidrKindHost
	cidrKindBlock
	cidrKindRange
	cidrKindMax
)

type cidrGenerator func() (string, error)

var v4CidrGenerators = []cidrGenerator{
	cidrKindHost:  genV4Host,
	cidrKindBlock: genV4Block,
	cidrKindRange: genV4Range,
}

var v6CidrGenerators = []cidrGenerator{
	cidrKindHost:  genV6Host,
	cidrKindBlock: genV6Block,
	cidrKindRange: genV6Range,
}

// cidrGen produces blocks of random addresses, CIDR blocks or ranges for
// tests and benchmarks.
type cidrGen struct {
	block       []string
	count       int
	family      Family
	kind        cidrKind
	initialized bool
}

func newCidrGenerator(family Family, kind cidrKind) *cidrGen {
	return &cidrGen{
		family: family,
		kind:   kind,
	}
}

func (gen *cidrGen) initCidrBlock(blockCount int) (err error) {
	if gen.kind <= cidrKindMin || gen.kind >= cidrKindMax {
		return fmt.Errorf("invalid cidr kind %v", gen.kind)
	}

	if gen.family != FamilyV4 && gen.family != FamilyV6 {
		return fmt.Errorf("invalid address family %v", gen.family)
	}

	if gen.initialized {
		return nil
	}

	generators := v4CidrGenerators
	if gen.family == FamilyV6 {
		generators = v6CidrGenerators
	}

	gen.count = blockCount
	gen.block = make([]string, gen.count)

	generatorHandler := generators[gen.kind]
	for i := 0; i < blockCount; i++ {
		cidr, err := generatorHandler()
		if err != nil {
			return err
		}

		gen.block[i] = cidr
	}

	gen.initialized = true
	return nil
}

func genV4Octets() []int {
	octets := make([]int, 4)

	octets[0], _ = genOctetWithExcludeList(
		ipv4MinOctet,
		ipv4MaxOctet,
		[]int{ipv4MinOctet},
	)

	for oi := 1; oi < 4; oi++ {
		octets[oi], _ = genOctet(ipv4MinOctet, ipv4MaxOctet)
	}

	return octets
}

func genV4Host() (string, error) {
	octets := genV4Octets()
	return fmt.Sprintf("%d.%d.%d.%d", octets[0], octets[1], octets[2], octets[3]), nil
}

func genV4Block() (string, error) {
	host, err := genV4Host()
	if err != nil {
		return "", err
	}

	// Prefix lengths below /8 collide too often to be useful in bulk
	return fmt.Sprintf("%s/%d", host, 8+rand.Intn(25)), nil
}

func genV4Range() (string, error) {
	first, err := genV4Host()
	if err != nil {
		return "", err
	}

	second, err := genV4Host()
	if err != nil {
		return "", err
	}

	start, _ := getV4Addr(first)
	end, _ := getV4Addr(second)
	if start.cmp(end) > 0 {
		first, second = second, first
	}

	return fmt.Sprintf("%s-%s", first, second), nil
}

func genV6Bytes() net.IP {
	nip := make(net.IP, net.IPv6len)
	for bi := range nip {
		nip[bi] = byte(rand.Intn(256))
	}

	// Steer clear of the v4-mapped and unspecified prefixes
	nip[0] = 0x20
	return nip
}

func genV6Host() (string, error) {
	return genV6Bytes().String(), nil
}

func genV6Block() (string, error) {
	return fmt.Sprintf("%s/%d", genV6Bytes().String(), 16+rand.Intn(113)), nil
}

func genV6Range() (string, error) {
	first := genV6Bytes()
	second := genV6Bytes()

	start := v6ToAddr(first)
	end := v6ToAddr(second)
	if start.cmp(end) > 0 {
		first, second = second, first
	}

	return fmt.Sprintf("%s-%s", first.String(), second.String()), nil
}

func genOctet(min, max int) (int, error) {
	return genOctetWithExcludeList(min, max, []int{})
}

func genOctetWithExcludeList(min, max int, excludeList []int) (int, error) {
	if max < 0 {
		return 0, fmt.Errorf("invalid max: cannot be negative")
	}

	excludeMap := make(map[int]bool)
	for _, exclude := range excludeList {
		excludeMap[exclude] = true
	}

	octet := rand.Intn(max + 1)
	if octet < min {
		octet += rand.Intn(max - min)
	}

	if _, exists := excludeMap[octet]; exists {
		for octet = min; octet <= max; octet++ {
			if _, exists := excludeMap[octet]; !exists {
				break
			}
		}
	}

	return octet, nil
}

// validateCidr checks that a generated string parses for the generator's
// address family.
func (gen *cidrGen) validateCidr(cidr string) (err error) {
	if GetAddrFamily(cidr) != gen.family {
		return fmt.Errorf("invalid cidr %v for family %v", cidr, gen.family)
	}

	return nil
}

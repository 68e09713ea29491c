// Package netid allocates per-iteration network identities (tap device,
// tap/guest IPs, MAC address) for the Firecracker cold-boot variant.
package netid

import "fmt"

// Identity is the set of network parameters assigned to one Firecracker
// iteration.
type Identity struct {
	TapName string
	TapIP   string
	GuestIP string
	MAC     string
	TapID   int
}

// decompose splits offset into the (second-octet, last-octet) pair used by
// both the 172.16.x.y addressing and the MAC's trailing two octets.
//
// The harness this was ported from computed second-octet as
// last-octet-of-previous-call / 256, which is algebraically always zero for
// offset < 256 and produces colliding addresses past it. The default (see
// widenPrefix) instead uses (offset>>8)&0xFF so allocations past 127
// concurrent instances stay unique.
func decompose(offset int, widen bool) (second, last int) {
	if widen {
		return (offset >> 8) & 0xFF, offset & 0xFF
	}
	return offset / 256, offset % 256
}

// widenPrefix controls whether decompose uses the corrected shift-based
// second octet. Kept as a package variable, not a hardcoded constant, so
// callers that need strict reproduction of the original harness's collision
// behavior below 256 instances can flip it off.
var widenPrefix = true

// Allocate computes the Firecracker network identity for iteration i. It
// refuses i such that 2+2i would overflow a uint16 octet pair.
func Allocate(i int) (Identity, error) {
	tapOffset := 1 + 2*i
	guestOffset := 2 + 2*i
	if guestOffset >= 65536 {
		return Identity{}, fmt.Errorf("netid: iteration %d overflows address space (2+2i=%d >= 65536)", i, guestOffset)
	}

	tSecond, tLast := decompose(tapOffset, widenPrefix)
	gSecond, gLast := decompose(guestOffset, widenPrefix)

	return Identity{
		TapName: fmt.Sprintf("tap%d", i),
		TapIP:   fmt.Sprintf("172.16.%d.%d", tSecond, tLast),
		GuestIP: fmt.Sprintf("172.16.%d.%d", gSecond, gLast),
		MAC:     fmt.Sprintf("06:00:AC:10:%02x:%02x", gSecond, gLast),
		TapID:   i,
	}, nil
}

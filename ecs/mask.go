package ecs

import "github.com/TheBitDrifter/mask"

// signatureOf builds a fast structural accelerator for a sorted component
// set, the way warehouse/query.go builds a mask.Mask from a component
// list to answer ContainsAll/ContainsAny/ContainsNone in O(1). It is
// never the archetype's identity key — spec §3 requires exact sorted
// component-index sets to be unique, and mask.Mask256's fixed bit width
// cannot safely stand in for a dense 32-bit ComponentIdx space — but it
// lets Archetype.HasComponent, which register_system's "has(c)"
// predicates call, skip a slice scan when the component index fits
// within the mask width.
func signatureOf(components []ComponentIdx) mask.Mask {
	var m mask.Mask
	for _, c := range components {
		if c >= maskBits {
			continue
		}
		m.Mark(uint32(c))
	}
	return m
}

// maskBits is the bit width of mask.Mask (see TheBitDrifter/mask); a
// component index at or beyond it simply isn't representable in the
// accelerator and falls back to the exact sorted-slice scan everywhere
// this package uses hasComponent.
const maskBits = 64

// hasComponentMask reports whether sig's archetype contains c, using the
// mask accelerator when c is in range and falling back to a binary
// search over sorted (ascending, deduplicated) otherwise.
func hasComponentMask(sig mask.Mask, sorted []ComponentIdx, c ComponentIdx) bool {
	if c < maskBits {
		var bit mask.Mask
		bit.Mark(uint32(c))
		return sig.ContainsAll(bit)
	}
	return binarySearchComponent(sorted, c) >= 0
}

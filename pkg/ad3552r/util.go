package ad3552r

import "math/bits"

// fieldGet extracts the bits covered by mask, shifted down to bit 0.
func fieldGet(mask, reg uint16) uint16 {
	return (reg & mask) >> bits.TrailingZeros16(mask)
}

// fieldPrep shifts val up into the position covered by mask.
func fieldPrep(mask, val uint16) uint16 {
	return (val << bits.TrailingZeros16(mask)) & mask
}

func boolToReg(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

// divRoundClosest divides with round-to-nearest, matching the rounding used
// for the scale fractional part.
func divRoundClosest(a, b int64) int64 {
	if (a < 0) == (b < 0) {
		return (a + b/2) / b
	}
	return (a - b/2) / b
}

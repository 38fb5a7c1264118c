// SPDX-License-Identifier: EPL-2.0

package utils

// FullScale returns the magnitude of the most negative signed sample of
// bitDepth bits (128 for 8-bit, 32768 for 16-bit, ...). Unknown depths are
// treated as 16-bit.
func FullScale(bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return 1 << 7
	case 24:
		return 1 << 23
	case 32:
		return 1 << 31
	default:
		return 1 << 15
	}
}

// PCMToFloat converts a signed integer sample of bitDepth bits to [-1, 1).
func PCMToFloat(v int, bitDepth int) float32 {
	return float32(float64(v) / FullScale(bitDepth))
}

// FloatToPCM clamps x to [-1, 1] and scales it to a signed integer sample
// of bitDepth bits.
func FloatToPCM(x float32, bitDepth int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use full scale - 1 so +1.0 does not overflow the positive range.
	return int(float64(x) * (FullScale(bitDepth) - 1))
}

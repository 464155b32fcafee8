package common

import (
	"fmt"
	"math"
)

// SafeIntToUint32 safely converts int to uint32 with bounds checking
func SafeIntToUint32(value int) (uint32, error) {
	if value < 0 {
		return 0, fmt.Errorf("value %d is negative, cannot convert to uint32", value)
	}
	if value > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of range for uint32 (0-%d)", value, uint64(math.MaxUint32))
	}
	return uint32(value), nil
}

// SafeInt64ToUint32 safely converts int64 to uint32 with bounds checking
func SafeInt64ToUint32(value int64) (uint32, error) {
	if value < 0 {
		return 0, fmt.Errorf("value %d is negative, cannot convert to uint32", value)
	}
	if value > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of range for uint32 (0-%d)", value, uint64(math.MaxUint32))
	}
	return uint32(value), nil
}

// SafeUint64ToUint32 safely converts uint64 to uint32 with bounds checking
func SafeUint64ToUint32(value uint64) (uint32, error) {
	if value > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of range for uint32 (0-%d)", value, uint64(math.MaxUint32))
	}
	return uint32(value), nil
}

// SafeUint64ToUint24 safely converts uint64 to a 24-bit value with bounds checking
func SafeUint64ToUint24(value uint64) (uint32, error) {
	const maxUint24 = 0xFFFFFF
	if value > maxUint24 {
		return 0, fmt.Errorf("value %d out of range for uint24 (0-%d)", value, maxUint24)
	}
	return uint32(value), nil
}

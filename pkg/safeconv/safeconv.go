// Package safeconv converts between integer types of the workload: key spaces
// and seeds arrive as one signedness and are consumed as the other.
package safeconv

import "math"

// MustUint64ToInt64 converts a key drawn from a key space to a tree value.
// It panics on overflow; key spaces are validated to fit int64.
func MustUint64ToInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		panic("safeconv: uint64 to int64 overflow")
	}

	return int64(v)
}

// Int64Bits reinterprets a signed seed as an unsigned PCG seed word.
func Int64Bits(v int64) uint64 {
	return uint64(v) //nolint:gosec // bit reinterpretation is the intent.
}

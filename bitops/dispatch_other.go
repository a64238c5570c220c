//go:build !amd64

package bitops

// hasFastPath is always false off amd64: orSelectedPortable/orIntoPortable
// carry the whole load on these platforms.
var hasFastPath = false

func orSelectedFast(rows []uint64, mask uint64) uint64 { return orSelectedPortable(rows, mask) }

func orIntoFast(dst, src []uint64) { orIntoPortable(dst, src) }

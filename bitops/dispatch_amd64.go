//go:build amd64

package bitops

import (
	"math/bits"

	"golang.org/x/sys/cpu"
)

// hasFastPath gates the 4-wide unrolled loop below on AVX2 availability:
// the unrolled form only pays for its extra bookkeeping once the CPU can
// actually keep four independent OR chains in flight, which in practice
// tracks AVX2-capable cores (Haswell/Excavator and newer).
var hasFastPath = cpu.X86.HasAVX2

func orSelectedFast(rows []uint64, mask uint64) uint64 {
	var acc0, acc1, acc2, acc3 uint64
	for mask != 0 {
		// Peel four set bits per iteration so the four accumulators fold
		// independently before merging, rather than serializing through
		// one acc like the portable loop.
		b0 := mask & -mask
		mask &^= b0
		acc0 |= rows[bits.TrailingZeros64(b0)]
		if mask == 0 {
			break
		}
		b1 := mask & -mask
		mask &^= b1
		acc1 |= rows[bits.TrailingZeros64(b1)]
		if mask == 0 {
			break
		}
		b2 := mask & -mask
		mask &^= b2
		acc2 |= rows[bits.TrailingZeros64(b2)]
		if mask == 0 {
			break
		}
		b3 := mask & -mask
		mask &^= b3
		acc3 |= rows[bits.TrailingZeros64(b3)]
	}
	return acc0 | acc1 | acc2 | acc3
}

func orIntoFast(dst, src []uint64) {
	n := len(dst)
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] |= src[i]
		dst[i+1] |= src[i+1]
		dst[i+2] |= src[i+2]
		dst[i+3] |= src[i+3]
	}
	for ; i < n; i++ {
		dst[i] |= src[i]
	}
}

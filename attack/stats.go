// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package attack

import (
	"math"

	"github.com/sidechan-labs/sha2attack/word"
)

// meansByKey computes, for each of nBins possible key values, the mean
// of values[i] over every i with keys[i] == bin. A negative key means
// "belongs to no subset" (the union of the fixed index cycles in
// spec.md §4.2.1/§4.2.2 never covers every possible bit pattern) and is
// excluded, mirroring the AND-combined boolean masks of the source
// attack rather than materializing them (spec.md §9).
func meansByKey(keys []int, nBins int, values []float64) []float64 {
	sums := make([]float64, nBins)
	counts := make([]int, nBins)
	for i, k := range keys {
		if k < 0 {
			continue
		}
		sums[k] += values[i]
		counts[k]++
	}
	means := make([]float64, nBins)
	for i := range sums {
		if counts[i] > 0 {
			means[i] = sums[i] / float64(counts[i])
		}
	}
	return means
}

// roundToEven applies the banker's rounding spec.md §5 requires when
// turning a subset-mean difference into a small signed integer.
func roundToEven(x float64) int {
	return int(math.RoundToEven(x))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// maskBits returns the low-n-bits mask for W, saturating to all-ones
// when n reaches or exceeds the word width instead of overflowing (n
// can reach W when the mismatch bit is the word's last one).
func maskBits[W word.Unsigned](n int) W {
	if n <= 0 {
		return 0
	}
	if n >= word.Bits[W]() {
		return ^W(0)
	}
	return (W(1) << uint(n)) - 1
}

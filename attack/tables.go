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

import "github.com/sidechan-labs/sha2attack/word"

// prevBits is one entry of the prev-candidate refinement tables
// (spec.md §4.2.3): the two new bits (this bit c and bit c+1) of the
// A-1 and E-1 candidates, packed the way the statistical test reports
// them (bit 0 = bit c, bit 1 = bit c+1).
type prevBits struct {
	a, e int
}

// diffTriple is the rounded triple of consecutive subset-mean
// differences that selects a table row.
type diffTriple [3]int

// hdEQ is used for every bit below the first ΔA/ΔE mismatch.
var hdEQ = map[diffTriple][]prevBits{
	{-2, 0, -2}: {{3, 3}},
	{-2, 2, -2}: {{1, 3}, {3, 1}},
	{-2, 4, -2}: {{1, 1}},
	{0, -2, 0}:  {{2, 3}, {3, 2}},
	{0, 0, 0}:   {{0, 3}, {1, 2}, {2, 1}, {3, 0}},
	{0, 2, 0}:   {{0, 1}, {1, 0}},
	{2, -4, 2}:  {{2, 2}},
	{2, -2, 2}:  {{0, 2}, {2, 0}},
	{2, 0, 2}:   {{0, 0}},
}

// hdNE is used at the mismatch bit itself.
var hdNE = map[diffTriple][]prevBits{
	{-3, 1, -1}: {{3, 2}},
	{-3, 3, -1}: {{1, 2}},
	{-1, -1, 1}: {{2, 2}, {3, 3}},
	{-1, 1, -3}: {{3, 0}},
	{-1, 1, 1}:  {{0, 2}, {1, 3}},
	{-1, 3, -3}: {{1, 0}},
	{1, -3, 3}:  {{2, 3}},
	{1, -1, -1}: {{2, 0}, {3, 1}},
	{1, -1, 3}:  {{0, 3}},
	{1, 1, -1}:  {{0, 0}, {1, 1}},
	{3, -3, 1}:  {{2, 1}},
	{3, -1, 1}:  {{0, 1}},
}

// fitBit reports whether bit c of p already agrees with the low bit of
// pattern q (spec.md §4.2.4); bit 0 is unconstrained since there is no
// prior bit to check.
func fitBit[W word.Unsigned](p W, q, c int) bool {
	if c == 0 {
		return true
	}
	return (p>>uint(c))&1 == W(q&1)
}

// glueBit sets bit c+1 of p from the high bit of pattern q; at c=0 the
// pattern directly seeds the low two bits.
func glueBit[W word.Unsigned](p W, q, c int) W {
	if c == 0 {
		return W(q)
	}
	return p ^ ((W(q) & 2) << uint(c))
}

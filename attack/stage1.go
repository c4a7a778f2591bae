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

// mismatchMode is the one-way BEFORE/AFTER_MISMATCH flag (spec.md §9:
// "encode as a sum type with two variants rather than a function
// pointer" — the source attack swaps a method reference instead).
type mismatchMode int

const (
	beforeMismatch mismatchMode = iota
	afterMismatch
)

// prevPair is a candidate (A-1, E-1) pair. Col0 is always paired with
// delta0 and Col1 with delta1; which of delta0/delta1 is "really" ΔA or
// ΔE is the ambiguity finalize resolves by trying both assignments.
type prevPair[W word.Unsigned] struct {
	Col0, Col1 W
}

func (p prevPair[W]) at(i int) W {
	if i == 0 {
		return p.Col0
	}
	return p.Col1
}

func withCol[W word.Unsigned](p prevPair[W], i int, v W) prevPair[W] {
	if i == 0 {
		p.Col0 = v
	} else {
		p.Col1 = v
	}
	return p
}

// stage1State is the Stage 1 working state of spec.md §3.
type stage1State[W word.Unsigned] struct {
	knownBits      int
	mode           mismatchMode
	delta0, delta1 W
	prevs          []prevPair[W]
}

// Stage1 recovers ΔA, ΔE and a small set of (A-1, E-1) candidates from
// the round-0 trace column, returning the 8·|prevs| hypotheses
// finalize() emits.
func Stage1[W word.Unsigned](p word.Params[W], d Data[W], t Traces) ([]Stage1hypo[W], error) {
	s := &stage1State[W]{prevs: []prevPair[W]{{0, 0}}}
	last := word.Bits[W]() - 2
	for b := 0; b <= last; b++ {
		var err error
		if s.mode == beforeMismatch {
			err = s.stepBefore(b, d, t)
		} else {
			err = s.stepAfter(b, d, t)
		}
		if err != nil {
			bit := b
			if me, ok := err.(*mismatchError); ok {
				bit = me.bit
			}
			return nil, &Unresolvable{Bit: bit}
		}
	}
	return s.finalize(), nil
}

// stepBefore implements spec.md §4.2.1, subcases 1.1-1.3.
func (s *stage1State[W]) stepBefore(b int, d Data[W], t Traces) error {
	k := s.knownBits
	u := b + 1 - k
	numBins := 1 << uint(u+1)
	half := 1 << uint(u)

	keys := make([]int, d.N())
	for i := 0; i < d.N(); i++ {
		keys[i] = int(((d.Col0[i] + s.delta0) >> uint(k)) & W(numBins-1))
	}
	avg := meansByKey(keys, numBins, t.Col0)

	leap := make([]int, half)
	for j := 0; j < half; j++ {
		leap[j] = roundToEven(avg[j] - avg[(j+1)%numBins] - avg[(j+half)%numBins] + avg[(j+1+half)%numBins])
	}
	var idx []int
	for j, v := range leap {
		if v != 0 {
			idx = append(idx, j)
		}
	}

	switch len(idx) {
	case 0:
		// Subcase 1.1: no bit distinguishable yet; keep waiting.
		return nil

	case 1:
		j := idx[0]
		if absInt(leap[j]) != 4 {
			return &mismatchError{bit: b}
		}
		inc := W(half-1-j) << uint(k)
		s.delta0 += inc
		s.delta1 += inc
		s.knownBits = b + 1
		return nil

	case 2:
		i0, i1 := idx[0], idx[1]
		if absInt(leap[i0]) != 2 || absInt(leap[i1]) != 2 {
			return &mismatchError{bit: b}
		}
		// First ΔA/ΔE mismatch: they diverge from here on.
		s.delta0 += W(half-1-i0) << uint(k)
		s.delta1 += W(half-1-i1) << uint(k)
		s.knownBits = b + 1
		s.mode = afterMismatch

		for c := 0; c < b; c++ {
			if err := s.updatePrevs(c, hdEQ, d, t); err != nil {
				return err
			}
		}
		// Flip bit b of every E-1 candidate before the mismatch-bit
		// lookup, then bit b+1 after it (spec.md §4.2.1, resolved
		// against original_source/sha2_attack.py's exact bit order).
		flipBit(s.prevs, 1, b)
		if err := s.updatePrevs(b, hdNE, d, t); err != nil {
			return err
		}
		flipBit(s.prevs, 1, b+1)
		return nil

	default:
		return &mismatchError{bit: b}
	}
}

// stepAfter implements spec.md §4.2.2.
func (s *stage1State[W]) stepAfter(b int, d Data[W], t Traces) error {
	// Fixed Gray-coded cycle of (x, y) bit-pair subsets.
	cycle := [8][2]int{{0, 0}, {1, 0}, {1, 1}, {2, 1}, {2, 2}, {3, 2}, {3, 3}, {0, 3}}
	keys := make([]int, d.N())
	for i := 0; i < d.N(); i++ {
		x := int(((d.Col0[i] + s.delta0) >> uint(b)) & 3)
		y := int(((d.Col0[i] + s.delta1) >> uint(b)) & 3)
		keys[i] = cycleIndex(cycle, x, y)
	}
	avg := meansByKey(keys, 8, t.Col0)

	leap := make([]int, 4)
	for j := 0; j < 4; j++ {
		leap[j] = roundToEven(avg[j] - avg[(j+1)%8] - avg[(j+4)%8] + avg[(j+5)%8])
	}
	var idx []int
	for j, v := range leap {
		if v != 0 {
			idx = append(idx, j)
		}
	}
	if len(idx) != 2 {
		return &mismatchError{bit: b}
	}
	if absInt(leap[idx[0]]) != 2 || absInt(leap[idx[1]]) != 2 {
		return &mismatchError{bit: b}
	}
	if !validMismatchPair(idx[0], idx[1]) {
		return &mismatchError{bit: b}
	}

	mask := W(1) << uint(b)
	bigMask := W(1) << uint(b+1)
	in := func(v int) bool { return v == idx[0] || v == idx[1] }
	deltas := [2]W{s.delta0, s.delta1}
	for i := 0; i < 2; i++ {
		if in(i) {
			deltas[i] ^= mask
			for n, p := range s.prevs {
				v := p.at(i) ^ mask
				if leap[i] > 0 {
					v ^= bigMask
				}
				s.prevs[n] = withCol(p, i, v)
			}
		} else if leap[i+2] > 0 {
			for n, p := range s.prevs {
				s.prevs[n] = withCol(p, i, p.at(i)^bigMask)
			}
		}
	}
	s.delta0, s.delta1 = deltas[0], deltas[1]
	if s.delta1 > s.delta0 {
		s.delta0, s.delta1 = s.delta1, s.delta0
		for n, p := range s.prevs {
			s.prevs[n] = prevPair[W]{Col0: p.Col1, Col1: p.Col0}
		}
	}
	s.knownBits++
	return nil
}

// updatePrevs implements the retroactive walk of spec.md §4.2.3 at bit
// c, using delta0 (the canonical, larger delta) as the source of the
// subset key.
func (s *stage1State[W]) updatePrevs(c int, table map[diffTriple][]prevBits, d Data[W], t Traces) error {
	mask := maskBits[W](c + 2)
	masked := s.delta0 & mask
	keys := make([]int, d.N())
	for i := 0; i < d.N(); i++ {
		keys[i] = int(((d.Col0[i] + masked) >> uint(c)) & 3)
	}
	avg := meansByKey(keys, 4, t.Col0)
	diff := diffTriple{
		roundToEven(avg[1] - avg[0]),
		roundToEven(avg[2] - avg[1]),
		roundToEven(avg[3] - avg[2]),
	}
	entries, ok := table[diff]
	if !ok {
		return &mismatchError{bit: c}
	}

	next := make([]prevPair[W], 0, len(s.prevs)*len(entries))
	for _, p := range s.prevs {
		for _, e := range entries {
			if fitBit(p.Col0, e.a, c) && fitBit(p.Col1, e.e, c) {
				next = append(next, prevPair[W]{
					Col0: glueBit(p.Col0, e.a, c),
					Col1: glueBit(p.Col1, e.e, c),
				})
			}
		}
	}
	if len(next) == 0 {
		return &mismatchError{bit: c}
	}
	s.prevs = next
	return nil
}

// finalize emits the 8·|prevs| hypotheses of spec.md §4.2.5, enumerating
// both the (nextA,nextE)=(delta0,delta1) and (delta1,delta0) naming and
// the unobservable top-bit ambiguity of each delta/prev word.
func (s *stage1State[W]) finalize() []Stage1hypo[W] {
	msb := W(1) << uint(word.Bits[W]()-1)
	deltas := [2]W{s.delta0, s.delta1}
	tops := [2]W{0, msb}

	var hypos []Stage1hypo[W]
	order := [2][2]int{{1, 0}, {0, 1}}
	for _, ij := range order {
		i, j := ij[0], ij[1]
		for _, p := range s.prevs {
			for _, a := range tops {
				for _, b := range tops {
					hypos = append(hypos, Stage1hypo[W]{
						NextA: deltas[i] ^ a,
						PrevA: p.at(i) ^ a,
						NextE: deltas[j] ^ b,
						PrevE: p.at(j) ^ b,
					})
				}
			}
		}
	}
	return hypos
}

func flipBit[W word.Unsigned](prevs []prevPair[W], col, bit int) {
	mask := W(1) << uint(bit)
	for n, p := range prevs {
		prevs[n] = withCol(p, col, p.at(col)^mask)
	}
}

func cycleIndex(cycle [8][2]int, x, y int) int {
	for i, xy := range cycle {
		if xy[0] == x && xy[1] == y {
			return i
		}
	}
	return -1
}

func validMismatchPair(i0, i1 int) bool {
	switch [2]int{i0, i1} {
	case [2]int{0, 1}, [2]int{0, 3}, [2]int{1, 2}, [2]int{2, 3}:
		return true
	default:
		return false
	}
}

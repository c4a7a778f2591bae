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

// Stage2 recovers B, C, F, G bit by bit from the round-1 trace column
// conditioned on a single Stage-1 hypothesis, then analytically
// reconstructs A, D, E, H (spec.md §4.3). It rejects the hypothesis
// (returning an *Unresolvable carrying the failing bit) the first time a
// diff vector fails the enumerated-pattern test.
func Stage2[W word.Unsigned](p word.Params[W], h Stage1hypo[W], d Data[W], t Traces) (State[W], error) {
	n := d.N()
	a4 := make([]W, n)
	e4 := make([]W, n)
	sigma0 := make([]W, n)
	sigma1 := make([]W, n)
	for i := 0; i < n; i++ {
		a4[i] = h.NextA + d.Col0[i]
		e4[i] = h.NextE + d.Col0[i]
		sigma0[i] = p.Sigma0(a4[i])
		sigma1[i] = p.Sigma1(e4[i])
	}

	var a3, a2, a1, e3, e2, e1 W
	a3, e3 = h.PrevA, h.PrevE

	bits := word.Bits[W]()
	for b := 0; b < bits; b++ {
		mask := maskBits[W](b)
		bigMask := maskBits[W](b + 1)
		pointMask := W(1) << uint(b)

		sumEn := make([]W, n)
		sumE := make([]W, n)
		for i := 0; i < n; i++ {
			sumEn[i] = sigma1[i] + d.Col1[i] + p.K1
			sumE[i] = e4[i] ^ (sumEn[i] + (word.Ch(e4[i], e3, e2) & mask) + (a1 & mask))
		}

		keysE := make([]int, n)
		for i := 0; i < n; i++ {
			bi := int((sumE[i] >> uint(b)) & 1)
			bj := int((e4[i] >> uint(b)) & 1)
			keysE[i] = bi*2 + bj
		}
		avgE := meansByKey(keysE, 4, t.Col1)
		diffCG := roundToEven(avgE[3] - avgE[1])
		if absInt(diffCG) != 1 {
			return State[W]{}, &Unresolvable{Bit: b}
		}
		diffF := roundToEven(avgE[2] - avgE[0])
		if absInt(diffF) != 1 {
			return State[W]{}, &Unresolvable{Bit: b}
		}
		a1 ^= (boolWord[W](diffCG == -1) << uint(b)) ^ (e3 & pointMask)
		e2 ^= (boolWord[W]((diffF == -1) != (diffCG == -1)) << uint(b)) ^ (e3 & pointMask)

		sumA := make([]W, n)
		for i := 0; i < n; i++ {
			sumAn := sumEn[i] + sigma0[i] + (word.Maj(a4[i], a3, a2) & mask)
			sumAn2 := sumAn + (e1 & mask) + (word.Ch(e4[i], e3, e2) & bigMask)
			sumA[i] = a4[i] ^ sumAn2
		}

		keysA := make([]int, n)
		for i := 0; i < n; i++ {
			bi := int((sumA[i] >> uint(b)) & 1)
			bj := int(((a4[i] ^ a3) >> uint(b)) & 1)
			keysA[i] = bi*2 + bj
		}
		avgA := meansByKey(keysA, 4, t.Col1)
		diffG := roundToEven(avgA[2] - avgA[0])
		if absInt(diffG) != 1 {
			return State[W]{}, &Unresolvable{Bit: b}
		}
		diffB := roundToEven(avgA[3] - avgA[1])
		if absInt(diffB) != 1 {
			return State[W]{}, &Unresolvable{Bit: b}
		}
		e1 ^= (boolWord[W](diffG == -1) << uint(b)) ^ (a3 & pointMask)
		a2 ^= (boolWord[W](diffB == -1) << uint(b)) ^ (e1 & pointMask)
	}

	a1 -= e1
	e0 := h.NextA - p.Sigma0(a3) - word.Maj(a3, a2, a1) - p.Sigma1(e3) - word.Ch(e3, e2, e1) - p.K0
	a0 := h.NextE - p.Sigma1(e3) - word.Ch(e3, e2, e1) - e0 - p.K0

	return State[W]{
		A: a3, B: a2, C: a1, D: a0,
		E: e3, F: e2, G: e1, H: e0,
	}, nil
}

func boolWord[W word.Unsigned](b bool) W {
	if b {
		return 1
	}
	return 0
}

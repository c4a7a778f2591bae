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

package word

// rotTriple holds the three rotation amounts of a big-sigma mixing
// function, applied as RotR(x,a) ^ RotR(x,b) ^ RotR(x,c).
type rotTriple [3]int

// rotShift holds the two rotation amounts and the final shift amount of
// a small-sigma mixing function, applied as
// RotR(x,a) ^ RotR(x,b) ^ (x >> c).
type rotShift struct {
	rotA, rotB, shift int
}

// Params carries everything the attack core needs to know about a
// specific SHA-2 width: the first two round constants (spec.md §2:
// "Only the first two round constants K0, K1 are needed by the core")
// and the width-specific rotation amounts of Sigma0/Sigma1/SmallSigma0/
// SmallSigma1. It is built once per attack and passed by value; none of
// its methods branch on W at runtime.
type Params[W Unsigned] struct {
	K0, K1 W

	bigSigma0, bigSigma1     rotTriple
	smallSigma0, smallSigma1 rotShift
}

// Sigma0 is the SHA-2 capital-sigma-0 mixing function used on the A
// working register.
func (p Params[W]) Sigma0(a W) W {
	return RotR(a, p.bigSigma0[0]) ^ RotR(a, p.bigSigma0[1]) ^ RotR(a, p.bigSigma0[2])
}

// Sigma1 is the SHA-2 capital-sigma-1 mixing function used on the E
// working register.
func (p Params[W]) Sigma1(e W) W {
	return RotR(e, p.bigSigma1[0]) ^ RotR(e, p.bigSigma1[1]) ^ RotR(e, p.bigSigma1[2])
}

// SmallSigma0 is the message-schedule sigma-0 function. The attack core
// never calls it (the first two message-schedule words are the raw
// input words D0, D1); it is carried only because spec.md §4.1 lists it
// as a required primitive. Nothing else in the repository calls it.
func (p Params[W]) SmallSigma0(x W) W {
	return RotR(x, p.smallSigma0.rotA) ^ RotR(x, p.smallSigma0.rotB) ^ (x >> uint(p.smallSigma0.shift))
}

// SmallSigma1 is the message-schedule sigma-1 function, carried for the
// same reason as SmallSigma0.
func (p Params[W]) SmallSigma1(x W) W {
	return RotR(x, p.smallSigma1.rotA) ^ RotR(x, p.smallSigma1.rotB) ^ (x >> uint(p.smallSigma1.shift))
}

// SHA256 returns the word-32 parameter set.
func SHA256() Params[uint32] {
	return Params[uint32]{
		K0: 0x428a2f98,
		K1: 0x71374491,

		bigSigma0:   rotTriple{2, 13, 22},
		bigSigma1:   rotTriple{6, 11, 25},
		smallSigma0: rotShift{7, 18, 3},
		smallSigma1: rotShift{17, 19, 10},
	}
}

// SHA512 returns the word-64 parameter set.
func SHA512() Params[uint64] {
	return Params[uint64]{
		K0: 0x428a2f98d728ae22,
		K1: 0x7137449123ef65cd,

		bigSigma0:   rotTriple{28, 34, 39},
		bigSigma1:   rotTriple{14, 18, 41},
		smallSigma0: rotShift{1, 8, 7},
		smallSigma1: rotShift{19, 61, 6},
	}
}

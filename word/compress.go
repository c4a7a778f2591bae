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

// IV is the 8-word working state a compression round reads and writes,
// named A..H in canonical SHA-2 order.
type IV[W Unsigned] struct {
	A, B, C, D, E, F, G, H W
}

// round runs a single SHA-2 compression round: new_e = d + T1,
// new_a = T1 + T2, where T1 = h + Sigma1(e) + Ch(e,f,g) + k + w and
// T2 = Sigma0(a) + Maj(a,b,c).
func round[W Unsigned](p Params[W], s IV[W], k, w W) IV[W] {
	t1 := s.H + p.Sigma1(s.E) + Ch(s.E, s.F, s.G) + k + w
	t2 := p.Sigma0(s.A) + Maj(s.A, s.B, s.C)
	return IV[W]{
		A: t1 + t2, B: s.A, C: s.B, D: s.C,
		E: s.D + t1, F: s.E, G: s.F, H: s.G,
	}
}

// CompressRounds runs exactly the first two rounds of the SHA-2
// compression function starting from iv, consuming message words w0, w1
// and round constants K0, K1. It exists only to synthesize self-test
// traces (package trace): a full compression runs 64 (SHA-256) or 80
// (SHA-512) rounds over an expanded message schedule, which this never
// does, since hashing an actual message is out of scope.
func CompressRounds[W Unsigned](p Params[W], iv IV[W], w0, w1 W) (round1, round2 IV[W]) {
	round1 = round(p, iv, p.K0, w0)
	round2 = round(p, round1, p.K1, w1)
	return round1, round2
}

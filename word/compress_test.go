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

import "testing"

func TestCompressRoundsIsDeterministic(t *testing.T) {
	p := SHA256()
	iv := IV[uint32]{A: 1, B: 2, C: 3, D: 4, E: 5, F: 6, G: 7, H: 8}
	r1a, r2a := CompressRounds(p, iv, 0xaaaaaaaa, 0x55555555)
	r1b, r2b := CompressRounds(p, iv, 0xaaaaaaaa, 0x55555555)
	if r1a != r1b || r2a != r2b {
		t.Fatal("CompressRounds is not a pure function of its inputs")
	}
}

func TestCompressRoundsShiftsRegisters(t *testing.T) {
	p := SHA256()
	iv := IV[uint32]{A: 1, B: 2, C: 3, D: 4, E: 5, F: 6, G: 7, H: 8}
	round1, _ := CompressRounds(p, iv, 0, 0)
	if round1.B != iv.A || round1.C != iv.B || round1.D != iv.C {
		t.Fatalf("round1 did not shift A,B,C into B,C,D: %+v", round1)
	}
	if round1.F != iv.E || round1.G != iv.F || round1.H != iv.G {
		t.Fatalf("round1 did not shift E,F,G into F,G,H: %+v", round1)
	}
}

func TestCompressRoundsLinearInMessageWord(t *testing.T) {
	p := SHA256()
	iv := IV[uint32]{A: 10, B: 20, C: 30, D: 40, E: 50, F: 60, G: 70, H: 80}
	zero, _ := CompressRounds(p, iv, 0, 0)
	one, _ := CompressRounds(p, iv, 1, 0)
	if one.A != zero.A+1 {
		t.Fatalf("round1.A is not linear in w0: CompressRounds(0).A=%#x CompressRounds(1).A=%#x", zero.A, one.A)
	}
	if one.E != zero.E+1 {
		t.Fatalf("round1.E is not linear in w0: CompressRounds(0).E=%#x CompressRounds(1).E=%#x", zero.E, one.E)
	}
}

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

// Data is the N×2 matrix of known input words (D0, D1), one pair per
// trace. Col0 and Col1 must have equal, nonzero length.
type Data[W word.Unsigned] struct {
	Col0, Col1 []W
}

// N returns the number of traces.
func (d Data[W]) N() int {
	return len(d.Col0)
}

func (d Data[W]) slice(n int) Data[W] {
	return Data[W]{Col0: d.Col0[:n], Col1: d.Col1[:n]}
}

// Traces is the N×2 matrix of noisy Hamming-distance measurements
// (T0, T1), one pair per row of the corresponding Data.
type Traces struct {
	Col0, Col1 []float64
}

func (t Traces) slice(n int) Traces {
	return Traces{Col0: t.Col0[:n], Col1: t.Col1[:n]}
}

// Stage1hypo is the handoff between Stage 1 and Stage 2 (spec.md §3): a
// candidate (ΔA, A₋1, ΔE, E₋1) quadruple. Equality is structural over
// all four fields, which Go's comparable struct equality gives for
// free.
type Stage1hypo[W word.Unsigned] struct {
	NextA, PrevA W
	NextE, PrevE W
}

// State is a candidate 8-word internal state in canonical SHA-2 order.
type State[W word.Unsigned] struct {
	A, B, C, D, E, F, G, H W
}

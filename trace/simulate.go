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

// Package trace is the external collaborator spec.md §1 calls the
// "trace simulator": it draws a random secret state and synthesizes
// the noisy Hamming-distance traces package attack is built to invert,
// by running exactly the first two rounds of the SHA-2 compression
// function (never a full message schedule — that would be hashing, an
// explicit Non-goal).
package trace

import (
	"math/rand"

	"github.com/sidechan-labs/sha2attack/attack"
	"github.com/sidechan-labs/sha2attack/word"
)

// Truth is the secret state a simulated trial was generated from, plus
// the two derived offsets Stage 1 tries to recover. It exists only for
// self-testing: a live acquisition has no Truth (spec.md Non-goals: "no
// live acquisition").
type Truth[W word.Unsigned] struct {
	State          attack.State[W]
	DeltaA, DeltaE W
}

// Hypo returns the Stage1hypo a filter would need to select this
// trial's true state out of Stage 1's candidate list.
func (tr Truth[W]) Hypo() attack.Stage1hypo[W] {
	return attack.Stage1hypo[W]{
		NextA: tr.DeltaA, PrevA: tr.State.A,
		NextE: tr.DeltaE, PrevE: tr.State.E,
	}
}

func ivToState[W word.Unsigned](iv word.IV[W]) attack.State[W] {
	return attack.State[W]{A: iv.A, B: iv.B, C: iv.C, D: iv.D, E: iv.E, F: iv.F, G: iv.G, H: iv.H}
}

// Simulate draws a uniformly random 8-word IV and n random (D0, D1)
// pairs, runs two rounds of the compression function over them, and
// returns the resulting Hamming-distance traces (spec.md §1's round-trip
// collaborator). seed makes the whole trial reproducible: IV, data, and
// noise are all drawn from one math/rand source seeded with it, so a
// given seed always reproduces the same trial. noise<=0 yields exact,
// noise-free traces.
func Simulate[W word.Unsigned](p word.Params[W], n int, seed int64, noise float64) (attack.Data[W], attack.Traces, Truth[W], error) {
	r := rand.New(rand.NewSource(seed))

	iv := randomIV[W](r)
	d0 := make([]W, n)
	d1 := make([]W, n)
	for i := 0; i < n; i++ {
		d0[i] = randomWord[W](r)
		d1[i] = randomWord[W](r)
	}

	// deltaA/deltaE are the w0-independent parts of round 1's new A/E
	// registers: w0 enters only T1, by plain addition, and both new A
	// (T1+T2) and new E (d+T1) take T1 unchanged, so CompressRounds with
	// w0=0 isolates them.
	round1Zero, _ := word.CompressRounds(p, iv, 0, 0)
	deltaA, deltaE := round1Zero.A, round1Zero.E

	hd1c := word.HammingDistance(iv.A, iv.B) + word.HammingDistance(iv.B, iv.C) +
		word.HammingDistance(iv.E, iv.F) + word.HammingDistance(iv.F, iv.G)
	hd0c := hd1c + word.HammingDistance(iv.C, iv.D) + word.HammingDistance(iv.G, iv.H)

	t0 := make([]float64, n)
	t1 := make([]float64, n)
	for i := 0; i < n; i++ {
		round1, round2 := word.CompressRounds(p, iv, d0[i], d1[i])
		hd0v := word.HammingDistance(round1.A, iv.A) + word.HammingDistance(round1.E, iv.E)
		hd1v := hd0v + word.HammingDistance(round2.A, round1.A) + word.HammingDistance(round2.E, round1.E)

		t0[i] = float64(hd0c) + float64(hd0v)
		t1[i] = float64(hd1c) + float64(hd1v)
	}

	if noise > 0 {
		for i := 0; i < n; i++ {
			t0[i] += r.NormFloat64() * noise
			t1[i] += r.NormFloat64() * noise
		}
	}

	data := attack.Data[W]{Col0: d0, Col1: d1}
	traces := attack.Traces{Col0: t0, Col1: t1}
	truth := Truth[W]{State: ivToState(iv), DeltaA: deltaA, DeltaE: deltaE}
	return data, traces, truth, nil
}

func randomWord[W word.Unsigned](r *rand.Rand) W {
	if word.Bits[W]() == 32 {
		return W(r.Uint32())
	}
	return W(r.Uint64())
}

func randomIV[W word.Unsigned](r *rand.Rand) word.IV[W] {
	return word.IV[W]{
		A: randomWord[W](r), B: randomWord[W](r), C: randomWord[W](r), D: randomWord[W](r),
		E: randomWord[W](r), F: randomWord[W](r), G: randomWord[W](r), H: randomWord[W](r),
	}
}

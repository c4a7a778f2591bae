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
	"errors"
	"math/rand"
	"testing"

	"github.com/sidechan-labs/sha2attack/word"
)

// fixture is a minimal, package-local stand-in for package trace's
// simulator (which cannot be imported here without an import cycle): it
// runs the same two compression rounds over a seeded random IV and
// random D columns, with no noise. It exists only so Stage1/Stage2/
// Attack can be exercised end to end from this package's own tests.
func fixture[W word.Unsigned](t *testing.T, p word.Params[W], n int, seed int64) (Data[W], Traces, Stage1hypo[W], State[W]) {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	randWord := func() W {
		if word.Bits[W]() == 32 {
			return W(r.Uint32())
		}
		return W(r.Uint64())
	}
	iv := word.IV[W]{A: randWord(), B: randWord(), C: randWord(), D: randWord(), E: randWord(), F: randWord(), G: randWord(), H: randWord()}

	d0 := make([]W, n)
	d1 := make([]W, n)
	for i := range d0 {
		d0[i] = randWord()
		d1[i] = randWord()
	}

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

	state := State[W]{A: iv.A, B: iv.B, C: iv.C, D: iv.D, E: iv.E, F: iv.F, G: iv.G, H: iv.H}
	hypo := Stage1hypo[W]{NextA: deltaA, PrevA: iv.A, NextE: deltaE, PrevE: iv.E}
	return Data[W]{Col0: d0, Col1: d1}, Traces{Col0: t0, Col1: t1}, hypo, state
}

func TestStage1FindsTrueHypothesisSHA256(t *testing.T) {
	p := word.SHA256()
	d, tr, want, _ := fixture(t, p, 1<<14, 11)

	hypos, err := Stage1(p, d, tr)
	if err != nil {
		t.Fatalf("Stage1 failed: %v", err)
	}
	found := false
	for _, h := range hypos {
		if h == want {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("true hypothesis %+v not among %d Stage1 candidates", want, len(hypos))
	}
}

func TestStage1FindsTrueHypothesisSHA512(t *testing.T) {
	p := word.SHA512()
	d, tr, want, _ := fixture(t, p, 1<<14, 22)

	hypos, err := Stage1(p, d, tr)
	if err != nil {
		t.Fatalf("Stage1 failed: %v", err)
	}
	found := false
	for _, h := range hypos {
		if h == want {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("true hypothesis not among %d Stage1 candidates", len(hypos))
	}
}

func TestStage1HypothesisCountIsMultipleOfEight(t *testing.T) {
	p := word.SHA256()
	d, tr, _, _ := fixture(t, p, 1<<13, 33)
	hypos, err := Stage1(p, d, tr)
	if err != nil {
		t.Fatalf("Stage1 failed: %v", err)
	}
	if len(hypos)%8 != 0 {
		t.Fatalf("len(hypos)=%d is not a multiple of 8", len(hypos))
	}
}

func TestStage2RecoversTrueStateSHA256(t *testing.T) {
	p := word.SHA256()
	d, tr, hypo, want := fixture(t, p, 1<<12, 44)

	got, err := Stage2(p, hypo, d, tr)
	if err != nil {
		t.Fatalf("Stage2 rejected the true hypothesis: %v", err)
	}
	if got != want {
		t.Fatalf("Stage2 state = %+v, want %+v", got, want)
	}
}

func TestStage2RecoversTrueStateSHA512(t *testing.T) {
	p := word.SHA512()
	d, tr, hypo, want := fixture(t, p, 1<<12, 55)

	got, err := Stage2(p, hypo, d, tr)
	if err != nil {
		t.Fatalf("Stage2 rejected the true hypothesis: %v", err)
	}
	if got != want {
		t.Fatalf("Stage2 state = %+v, want %+v", got, want)
	}
}

func TestStage2RejectsWrongHypothesis(t *testing.T) {
	p := word.SHA256()
	d, tr, hypo, _ := fixture(t, p, 1<<12, 66)
	hypo.PrevA ^= 1 // corrupt the hypothesis

	if _, err := Stage2(p, hypo, d, tr); err == nil {
		t.Fatal("Stage2 accepted a corrupted hypothesis")
	}
}

func TestAttackEndToEnd(t *testing.T) {
	p := word.SHA256()
	d, tr, want, wantState := fixture(t, p, 1<<14, 77)

	filter := func(hypos []Stage1hypo[uint32]) ([]Stage1hypo[uint32], error) {
		for _, h := range hypos {
			if h == want {
				return []Stage1hypo[uint32]{h}, nil
			}
		}
		return nil, nil
	}

	states, nhypo, err := Attack(p, d, tr, d.N(), filter)
	if err != nil {
		t.Fatalf("Attack failed with %d hypotheses: %v", nhypo, err)
	}
	found := false
	for _, st := range states {
		if st == wantState {
			found = true
		}
	}
	if !found {
		t.Fatalf("true state not recovered by Attack")
	}
}

func TestAttackUnresolvableWhenNoHypothesisSurvives(t *testing.T) {
	p := word.SHA256()
	d, tr, _, _ := fixture(t, p, 1<<12, 88)

	filter := func([]Stage1hypo[uint32]) ([]Stage1hypo[uint32], error) {
		return nil, nil
	}
	_, _, err := Attack(p, d, tr, d.N(), filter)
	if err == nil {
		t.Fatal("expected an error when the filter rejects every hypothesis")
	}
	var unresolvable *Unresolvable
	if !errors.As(err, &unresolvable) {
		t.Fatalf("expected *Unresolvable, got %T: %v", err, err)
	}
}

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
	"github.com/sidechan-labs/sha2attack/ints"
	"github.com/sidechan-labs/sha2attack/word"
)

// FilterFunc narrows the Stage-1 hypotheses before Stage 2 runs, e.g.
// to keep only the hypothesis a test already knows matches the true
// IV. It is an external collaborator (spec.md §4.4 shows it as an
// optional parameter to the driver, not core logic).
type FilterFunc[W word.Unsigned] func([]Stage1hypo[W]) ([]Stage1hypo[W], error)

// Attack composes Stage 1, an optional hypothesis filter, and Stage 2
// over every surviving hypothesis (spec.md §4.4). It returns the
// surviving candidate states and the number of Stage-1 hypotheses
// considered. Stage 2 is run independently per hypothesis; there is no
// shared mutable state between iterations (spec.md §5), so callers that
// want the worker-pool parallelism the spec permits can fan this loop
// out themselves (package sweep does exactly that across trials).
func Attack[W word.Unsigned](p word.Params[W], d Data[W], t Traces, n2 int, filter FilterFunc[W]) ([]State[W], int, error) {
	hypos, err := Stage1(p, d, t)
	if err != nil {
		return nil, 0, err
	}
	if filter != nil {
		hypos, err = filter(hypos)
		if err != nil {
			return nil, len(hypos), err
		}
	}

	n2 = ints.Clamp(n2, 0, d.N())
	d2 := d.slice(n2)
	t2 := t.slice(n2)

	var results []State[W]
	for _, h := range hypos {
		st, err := Stage2(p, h, d2, t2)
		if err != nil {
			continue
		}
		results = append(results, st)
	}
	if len(results) == 0 {
		return nil, len(hypos), &Unresolvable{Bit: word.Bits[W]()}
	}
	return results, len(hypos), nil
}

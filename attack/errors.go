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

import "fmt"

// Unresolvable is the single tagged failure the core ever returns to a
// caller. Bit is the 0-based bit index at which a statistical test
// failed (Stage 1's, or Stage 2's when Stage2 is called directly), or
// the word width W if Attack's Stage 1 succeeded but every Stage-2
// hypothesis was rejected (spec.md §6/§7: NoSurvivor is reported as
// Unresolvable{bit: W}).
type Unresolvable struct {
	Bit int
}

func (e *Unresolvable) Error() string {
	return fmt.Sprintf("sha2 attack: unresolvable at bit %d", e.Bit)
}

// mismatchError is the internal StatisticalMismatch failure (spec.md
// §7): a leap or diff vector did not match any enumerated pattern.
// Stage 1 turns it into Unresolvable at the bit it names and aborts the
// whole attack. Stage 2 returns Unresolvable directly, and Attack skips
// the rejected hypothesis and moves on to the next one.
type mismatchError struct {
	bit int
}

func (e *mismatchError) Error() string {
	return fmt.Sprintf("statistical mismatch at bit %d", e.bit)
}

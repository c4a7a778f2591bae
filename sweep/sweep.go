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

// Package sweep tabulates the attack's success ratio over a grid of
// noise levels and trace counts, the way sha2_attack_stats.py does, by
// repeatedly simulating a trial and running the attack against it.
package sweep

import (
	"log"
	"sync"

	"github.com/sidechan-labs/sha2attack/attack"
	"github.com/sidechan-labs/sha2attack/ints"
	"github.com/sidechan-labs/sha2attack/trace"
	"github.com/sidechan-labs/sha2attack/word"
)

// Cell is one (noise, trace count) grid point.
type Cell struct {
	Noise  float64
	Traces int
}

// Grid is the set of cells to sweep and how many trials to run per cell.
type Grid struct {
	Cells  []Cell
	Trials int
}

// DefaultGrid reproduces sha2_attack_stats.py's schedule: noise levels
// 0, 4, 8, 16, 32, 64, 128 crossed with trace counts 2^11 .. 2^20, with
// trials scaled down as the trace count grows so the largest cells still
// finish in reasonable time.
func DefaultGrid() Grid {
	noises := []float64{0, 4, 8, 16, 32, 64, 128}
	counts := ints.PowerOfTwoRange(11, 20)
	cells := make([]Cell, 0, len(noises)*len(counts))
	for _, n := range noises {
		for _, c := range counts {
			cells = append(cells, Cell{Noise: n, Traces: c})
		}
	}
	return Grid{Cells: cells, Trials: 0} // Trials is resolved per cell by trialsFor
}

// trialsFor mirrors sha2_attack_stats.py's
// `1 << min((34 - trace_count_exp) >> 1, 10)` schedule: fewer trials for
// larger, slower trace counts.
func trialsFor(traceCount int) int {
	exp := 0
	for n := traceCount; n > 1; n >>= 1 {
		exp++
	}
	shift := ints.Clamp((34-exp)>>1, 0, 10)
	return 1 << shift
}

// Result is one grid cell's outcome.
type Result struct {
	Noise     float64
	Traces    int
	Trials    int
	Successes int
}

// Run sweeps grid, using up to workers goroutines concurrently (spec.md
// §5: "Stage 2 calls are trivially parallelizable"; here whole trials
// are, since each cell's trials are independent of every other cell's).
// seed is the base seed; trial i of a cell uses seed+i, mirroring
// sha2_end_to_end.py's per-experiment seed+i. logger receives one line
// per completed cell; pass nil to use log.Default().
func Run[W word.Unsigned](p word.Params[W], seed int64, grid Grid, workers int, logger *log.Logger) []Result {
	if logger == nil {
		logger = log.Default()
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(grid.Cells))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				cell := grid.Cells[i]
				trials := grid.Trials
				if trials <= 0 {
					trials = trialsFor(cell.Traces)
				}
				results[i] = runCell(p, seed, cell, trials)
				logger.Printf("sweep: width=%d noise=%v traces=%d successes=%d/%d",
					word.Bits[W](), cell.Noise, cell.Traces, results[i].Successes, trials)
			}
		}()
	}
	for i := range grid.Cells {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func runCell[W word.Unsigned](p word.Params[W], seed int64, cell Cell, trials int) Result {
	r := Result{Noise: cell.Noise, Traces: cell.Traces, Trials: trials}
	for i := 0; i < trials; i++ {
		d, t, truth, err := trace.Simulate(p, cell.Traces, seed+int64(i), cell.Noise)
		if err != nil {
			continue
		}
		want := truth.Hypo()
		filter := func(hypos []attack.Stage1hypo[W]) ([]attack.Stage1hypo[W], error) {
			for _, h := range hypos {
				if h == want {
					return []attack.Stage1hypo[W]{h}, nil
				}
			}
			return nil, nil
		}
		states, _, err := attack.Attack(p, d, t, d.N(), filter)
		if err != nil {
			continue
		}
		for _, st := range states {
			if st == truth.State {
				r.Successes++
				break
			}
		}
	}
	return r
}

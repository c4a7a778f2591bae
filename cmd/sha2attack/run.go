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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sidechan-labs/sha2attack/attack"
	"github.com/sidechan-labs/sha2attack/ints"
	"github.com/sidechan-labs/sha2attack/report"
	"github.com/sidechan-labs/sha2attack/trace"
	"github.com/sidechan-labs/sha2attack/word"
)

func runCmd(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	width := fs.Int("w", 32, "word width in bits: 32 (SHA-256) or 64 (SHA-512)")
	n := fs.Int("n", 1<<14, "number of traces to simulate")
	noise := fs.Float64("noise", 0, "standard deviation of Gaussian trace noise")
	seed := fs.Int64("seed", 0, "simulation seed (0 picks a random one)")
	n2 := fs.Int("n2", 0, "traces to use for Stage 2 (0 means use all of -n)")
	csvPath := fs.String("csv", "", "optional file to append a CSV summary row to")
	fs.Parse(args)

	if *seed == 0 {
		var buf [1]int64
		if err := ints.RandomFillSlice(buf[:]); err != nil {
			return fmt.Errorf("picking a random seed: %w", err)
		}
		*seed = buf[0]
	}
	if *n2 <= 0 {
		*n2 = *n
	}

	var result report.Run
	switch *width {
	case 32:
		result = runWidth(word.SHA256(), *n, *seed, *noise, *n2)
	case 64:
		result = runWidth(word.SHA512(), *n, *seed, *noise, *n2)
	default:
		return fmt.Errorf("-w must be 32 or 64, got %d", *width)
	}

	if err := report.WriteRun(os.Stdout, result); err != nil {
		return err
	}
	if *csvPath != "" {
		return appendCSVRow(*csvPath, result, *noise)
	}
	return nil
}

func runWidth[W word.Unsigned](p word.Params[W], n int, seed int64, noise float64, n2 int) report.Run {
	result := report.Run{Width: word.Bits[W](), Traces: n}

	d, t, truth, err := trace.Simulate(p, n, seed, noise)
	if err != nil {
		result.Err = err
		return result
	}

	want := truth.Hypo()
	filter := func(hypos []attack.Stage1hypo[W]) ([]attack.Stage1hypo[W], error) {
		for _, h := range hypos {
			if h == want {
				return []attack.Stage1hypo[W]{h}, nil
			}
		}
		return hypos, nil
	}

	states, nhypo, err := attack.Attack(p, d, t, n2, filter)
	result.Stage1Hypos = nhypo
	if err != nil {
		result.Err = err
		return result
	}
	result.StatesFound = len(states)
	for _, st := range states {
		if st == truth.State {
			result.TrueStateHit = true
			break
		}
	}
	return result
}

func appendCSVRow(path string, r report.Run, noise float64) error {
	info, statErr := os.Stat(path)
	fresh := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	row := report.SweepRow{Noise: noise, Traces: r.Traces, Trials: 1, Successes: boolToInt(r.TrueStateHit)}
	if fresh {
		return report.WriteCSV(f, []report.SweepRow{row})
	}
	return report.AppendCSVRow(f, row)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

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
	"log"
	"os"
	"runtime"

	"github.com/sidechan-labs/sha2attack/report"
	"github.com/sidechan-labs/sha2attack/sweep"
	"github.com/sidechan-labs/sha2attack/word"
)

func sweepCmd(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	width := fs.Int("w", 32, "word width in bits: 32 (SHA-256) or 64 (SHA-512)")
	trials := fs.Int("trials", 0, "trials per grid cell (0 uses the built-in schedule)")
	seed := fs.Int64("seed", 1, "base simulation seed")
	workers := fs.Int("workers", runtime.GOMAXPROCS(0), "number of grid cells to run concurrently")
	csvPath := fs.String("csv", "", "optional file to write the full CSV table to")
	fs.Parse(args)

	grid := sweep.DefaultGrid()
	grid.Trials = *trials

	var results []sweep.Result
	switch *width {
	case 32:
		results = sweep.Run(word.SHA256(), *seed, grid, *workers, log.New(os.Stderr, "", log.LstdFlags))
	case 64:
		results = sweep.Run(word.SHA512(), *seed, grid, *workers, log.New(os.Stderr, "", log.LstdFlags))
	default:
		return fmt.Errorf("-w must be 32 or 64, got %d", *width)
	}

	rows := make([]report.SweepRow, len(results))
	for i, r := range results {
		rows[i] = report.SweepRow{Noise: r.Noise, Traces: r.Traces, Trials: r.Trials, Successes: r.Successes}
	}

	if err := report.WriteTable(os.Stdout, rows); err != nil {
		return err
	}
	if *csvPath == "" {
		return nil
	}
	f, err := os.Create(*csvPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.WriteCSV(f, rows)
}

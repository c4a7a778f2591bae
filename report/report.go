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

// Package report formats attack.Attack and sweep.Run results for a
// terminal or a CSV file. Neither package attack nor package sweep does
// any I/O themselves; this is where the results meet a writer.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Run is one cmd/sha2attack run's outcome: whether the attack resolved,
// how many Stage-1 hypotheses it produced, and how many candidate states
// survived Stage 2.
type Run struct {
	Width        int
	Traces       int
	Stage1Hypos  int
	StatesFound  int
	TrueStateHit bool
	Err          error
}

// WriteRun prints a single run's summary in the teacher's plain
// key: value console style.
func WriteRun(w io.Writer, r Run) error {
	if r.Err != nil {
		_, err := fmt.Fprintf(w, "width: %d  traces: %d  result: unresolved (%v)\n", r.Width, r.Traces, r.Err)
		return err
	}
	_, err := fmt.Fprintf(w, "width: %d  traces: %d  stage1 hypotheses: %d  states found: %d  true state recovered: %t\n",
		r.Width, r.Traces, r.Stage1Hypos, r.StatesFound, r.TrueStateHit)
	return err
}

// SweepRow is one (noise, trace count) grid cell's outcome, matching
// sha2_attack_stats.py's output table.
type SweepRow struct {
	Noise     float64
	Traces    int
	Trials    int
	Successes int
}

// SuccessRatio returns the fraction of trials that recovered the true
// state, or 0 if Trials is 0.
func (r SweepRow) SuccessRatio() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Successes) / float64(r.Trials)
}

// WriteTable writes a fixed-width console table of sweep rows, one line
// per (noise, trace count) cell.
func WriteTable(w io.Writer, rows []SweepRow) error {
	if _, err := fmt.Fprintf(w, "%10s %10s %10s %10s %10s\n", "noise", "traces", "trials", "success", "ratio"); err != nil {
		return err
	}
	for _, r := range rows {
		_, err := fmt.Fprintf(w, "%10.4f %10d %10d %10d %10.4f\n",
			r.Noise, r.Traces, r.Trials, r.Successes, r.SuccessRatio())
		if err != nil {
			return err
		}
	}
	return nil
}

var csvHeader = []string{"noise", "traces", "trials", "successes", "ratio"}

func csvRecord(r SweepRow) []string {
	return []string{
		strconv.FormatFloat(r.Noise, 'g', -1, 64),
		strconv.Itoa(r.Traces),
		strconv.Itoa(r.Trials),
		strconv.Itoa(r.Successes),
		strconv.FormatFloat(r.SuccessRatio(), 'g', -1, 64),
	}
}

// WriteCSV writes the sweep table as RFC 4180 CSV with a header row.
func WriteCSV(w io.Writer, rows []SweepRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(csvRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendCSVRow writes a single row with no header, for building up a CSV
// file one run at a time (cmd/sha2attack run's -csv flag).
func AppendCSVRow(w io.Writer, row SweepRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvRecord(row)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

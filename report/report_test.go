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

package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestSuccessRatio(t *testing.T) {
	r := SweepRow{Trials: 4, Successes: 3}
	if r.SuccessRatio() != 0.75 {
		t.Fatalf("SuccessRatio() = %v, want 0.75", r.SuccessRatio())
	}
	if (SweepRow{}).SuccessRatio() != 0 {
		t.Fatal("SuccessRatio() of a zero-trial row must be 0")
	}
}

func TestWriteRunResolved(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRun(&buf, Run{Width: 32, Traces: 1 << 14, Stage1Hypos: 8, StatesFound: 1, TrueStateHit: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "true state recovered: true") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestWriteRunUnresolved(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRun(&buf, Run{Width: 32, Traces: 256, Err: errFixture{}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "unresolved") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

type errFixture struct{}

func (errFixture) Error() string { return "boom" }

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	rows := []SweepRow{{Noise: 0.5, Traces: 1024, Trials: 10, Successes: 7}}
	if err := WriteTable(&buf, rows); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "0.7000") {
		t.Fatalf("expected a ratio column, got %q", buf.String())
	}
}

func TestAppendCSVRowHasNoHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := AppendCSVRow(&buf, SweepRow{Traces: 512, Trials: 1, Successes: 1}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "noise,traces") {
		t.Fatalf("AppendCSVRow must not emit a header, got %q", buf.String())
	}
}

func TestWriteCSVRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	rows := []SweepRow{
		{Noise: 0, Traces: 1024, Trials: 5, Successes: 5},
		{Noise: 1.5, Traces: 2048, Trials: 5, Successes: 2},
	}
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 rows)", len(lines))
	}
	if lines[0] != "noise,traces,trials,successes,ratio" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
}

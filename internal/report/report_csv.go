/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var reportColumns = []string{"event_id", "iteration", "input_sample_count", "wall_start", "wall_end", "cpu_start", "cpu_end"}

// WriteCSV serialises the Report CSV format spec.md §6 fixes: a header
// line reproducing the workload's header text, then one row per event
// with the columns in reportColumns.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"#header", r.Header}); err != nil {
		return err
	}
	if err := cw.Write(reportColumns); err != nil {
		return err
	}
	for _, e := range r.Events {
		row := []string{
			e.EventID,
			strconv.FormatUint(e.Iteration, 10),
			strconv.FormatUint(e.InputSampleCount, 10),
			strconv.FormatInt(e.WallStart.UnixNano(), 10),
			strconv.FormatInt(e.WallEnd.UnixNano(), 10),
			strconv.FormatInt(e.CPUStart.UnixNano(), 10),
			strconv.FormatInt(e.CPUEnd.UnixNano(), 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadCSV parses a Report CSV back into a Report, replaying each row
// through Record so its EventStats aggregates are recomputed in the exact
// order they were produced at run time (spec.md §8, "Summary ↔ Report").
func LoadCSV(r io.Reader) (*Report, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headerRow, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading report header: %w", err)
	}
	if len(headerRow) < 2 || headerRow[0] != "#header" {
		return nil, fmt.Errorf("report CSV missing #header row")
	}
	report := New(headerRow[1])

	if _, err := cr.Read(); err != nil { // column header row
		return nil, fmt.Errorf("reading report column header: %w", err)
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		event, err := parseEventRow(row)
		if err != nil {
			return nil, err
		}
		report.Record(event)
	}
	return report, nil
}

func parseEventRow(row []string) (TimingEvent, error) {
	if len(row) != len(reportColumns) {
		return TimingEvent{}, fmt.Errorf("report row has %d fields, want %d", len(row), len(reportColumns))
	}
	iteration, err := strconv.ParseUint(row[1], 10, 64)
	if err != nil {
		return TimingEvent{}, fmt.Errorf("iteration: %w", err)
	}
	sampleCount, err := strconv.ParseUint(row[2], 10, 64)
	if err != nil {
		return TimingEvent{}, fmt.Errorf("input_sample_count: %w", err)
	}
	wallStart, err := parseUnixNano(row[3])
	if err != nil {
		return TimingEvent{}, fmt.Errorf("wall_start: %w", err)
	}
	wallEnd, err := parseUnixNano(row[4])
	if err != nil {
		return TimingEvent{}, fmt.Errorf("wall_end: %w", err)
	}
	cpuStart, err := parseUnixNano(row[5])
	if err != nil {
		return TimingEvent{}, fmt.Errorf("cpu_start: %w", err)
	}
	cpuEnd, err := parseUnixNano(row[6])
	if err != nil {
		return TimingEvent{}, fmt.Errorf("cpu_end: %w", err)
	}
	return TimingEvent{
		EventID:          row[0],
		Iteration:        iteration,
		InputSampleCount: sampleCount,
		WallStart:        wallStart,
		WallEnd:          wallEnd,
		CPUStart:         cpuStart,
		CPUEnd:           cpuEnd,
	}, nil
}

func parseUnixNano(s string) (time.Time, error) {
	ns, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, ns).UTC(), nil
}

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

package dataset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hebench/frontend-sub001/internal/workload"
)

// Loader reads the CSV dataset format fixed by spec.md §6. Per spec.md §9's
// open question, this repository exposes exactly one loader with a
// strict/loose flag rather than the original's two overlapping ones.
type Loader struct {
	// Strict fails the benchmark on a malformed or ragged row. When
	// false, the row is skipped and logged instead (default true).
	Strict bool
	Logger *zap.SugaredLogger
}

type csvGroup struct {
	rows     [][]float64
	rowWidth int
	hasWidth bool
}

// lineSource yields successive non-blank, non-comment lines from path,
// tracking the 1-based source line number for error messages.
type lineSource struct {
	path    string
	scanner *bufio.Scanner
	lineNo  int
	file    *os.File
}

func openLineSource(path string) (*lineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &lineSource{path: path, scanner: bufio.NewScanner(f), file: f}, nil
}

func (ls *lineSource) Close() error { return ls.file.Close() }

// next returns the next non-blank, non-comment line, or ("", false) at EOF.
func (ls *lineSource) next() (string, bool) {
	for ls.scanner.Scan() {
		ls.lineNo++
		line := strings.TrimSpace(ls.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, true
	}
	return "", false
}

// Load reads the CSV-described dataset rooted at indexPath into a Dataset,
// then validates it against shapes and requestedSampleCounts per spec.md
// §4.3: loaded sample counts must not exceed requestedSampleCounts and
// every vector's length must match the workload's declared shape. A
// mismatch on either axis fails with *ShapeMismatchError rather than
// flowing an inconsistent dataset into the Runner.
func (l *Loader) Load(indexPath string, shapes workload.Shapes, requestedSampleCounts []uint64) (*Dataset, error) {
	ls, err := openLineSource(indexPath)
	if err != nil {
		return nil, fmt.Errorf("opening dataset index %q: %w", indexPath, err)
	}
	defer ls.Close()

	inputGroups := map[int]*csvGroup{}
	outputGroups := map[int]*csvGroup{}
	maxInput, maxOutput := -1, -1

	for {
		line, ok := ls.next()
		if !ok {
			break
		}
		fields := strings.Split(line, ",")
		if len(fields) != 4 {
			return nil, &ParseError{Path: indexPath, Line: ls.lineNo, Err: fmt.Errorf("control line must have 4 fields, got %d", len(fields))}
		}
		tag := strings.TrimSpace(fields[0])
		index, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, &ParseError{Path: indexPath, Line: ls.lineNo, Err: fmt.Errorf("bad index: %w", err)}
		}
		nlines, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, &ParseError{Path: indexPath, Line: ls.lineNo, Err: fmt.Errorf("bad nlines: %w", err)}
		}
		kind := strings.TrimSpace(fields[3])

		var groups map[int]*csvGroup
		switch tag {
		case "input":
			groups = inputGroups
			if index > maxInput {
				maxInput = index
			}
		case "output":
			groups = outputGroups
			if index > maxOutput {
				maxOutput = index
			}
		default:
			return nil, &ParseError{Path: indexPath, Line: ls.lineNo, Err: fmt.Errorf("unknown tag %q", tag)}
		}
		group, ok := groups[index]
		if !ok {
			group = &csvGroup{}
			groups[index] = group
		}

		switch kind {
		case "local":
			if err := l.readLocalRows(ls, tag, index, group, nlines); err != nil {
				return nil, err
			}
		case "csv":
			if err := l.readCSVRefRows(indexPath, ls, tag, index, group, nlines); err != nil {
				return nil, err
			}
		default:
			return nil, &ParseError{Path: indexPath, Line: ls.lineNo, Err: fmt.Errorf("unknown kind %q", kind)}
		}
	}

	ds := &Dataset{
		Inputs:  groupsToSlice(inputGroups, maxInput),
		Outputs: groupsToSlice(outputGroups, maxOutput),
	}
	if err := validateShape(ds, shapes, requestedSampleCounts); err != nil {
		return nil, err
	}
	return ds, nil
}

// validateShape enforces spec.md §4.3's loaded-dataset invariant: no input
// parameter carries more samples than requested, and every input or output
// sample vector has the element count the workload declares for it.
func validateShape(ds *Dataset, shapes workload.Shapes, requestedSampleCounts []uint64) error {
	if len(ds.Inputs) != len(shapes.InputLens) {
		return &ShapeMismatchError{Reason: fmt.Sprintf(
			"dataset declares %d input parameters, workload expects %d", len(ds.Inputs), len(shapes.InputLens))}
	}
	for p, samples := range ds.Inputs {
		if p < len(requestedSampleCounts) && requestedSampleCounts[p] != 0 && uint64(len(samples)) > requestedSampleCounts[p] {
			return &ShapeMismatchError{Reason: fmt.Sprintf(
				"input %d has %d samples, exceeds requested %d", p, len(samples), requestedSampleCounts[p])}
		}
		for s, vec := range samples {
			if len(vec) != shapes.InputLens[p] {
				return &ShapeMismatchError{Reason: fmt.Sprintf(
					"input %d sample %d has %d elements, workload expects %d", p, s, len(vec), shapes.InputLens[p])}
			}
		}
	}
	for c, samples := range ds.Outputs {
		if c >= len(shapes.OutputLens) {
			continue
		}
		for s, vec := range samples {
			if len(vec) != shapes.OutputLens[c] {
				return &ShapeMismatchError{Reason: fmt.Sprintf(
					"output %d sample %d has %d elements, workload expects %d", c, s, len(vec), shapes.OutputLens[c])}
			}
		}
	}
	return nil
}

func groupsToSlice(groups map[int]*csvGroup, max int) [][][]float64 {
	out := make([][][]float64, max+1)
	for i := 0; i <= max; i++ {
		if g, ok := groups[i]; ok {
			out[i] = g.rows
		}
	}
	return out
}

func parseRow(line string) ([]float64, error) {
	fields := strings.Split(line, ",")
	row := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		row[i] = v
	}
	return row, nil
}

// addRow enforces the equal-row-width invariant within one (tag, index)
// group, honouring Strict.
func (l *Loader) addRow(group *csvGroup, tag string, index, sourceLine int, row []float64) error {
	if !group.hasWidth {
		group.rowWidth = len(row)
		group.hasWidth = true
	}
	if len(row) != group.rowWidth {
		err := &InconsistentRowWidthError{Tag: tag, Index: index, Want: group.rowWidth, Got: len(row), SourceLine: sourceLine}
		if l.Strict {
			return err
		}
		if l.Logger != nil {
			l.Logger.Warnw("skipping ragged dataset row", "error", err)
		}
		return nil
	}
	group.rows = append(group.rows, row)
	return nil
}

func (l *Loader) readLocalRows(ls *lineSource, tag string, index int, group *csvGroup, nlines int) error {
	for i := 0; i < nlines; i++ {
		line, ok := ls.next()
		if !ok {
			return &ParseError{Path: ls.path, Line: ls.lineNo, Err: fmt.Errorf("expected %d data rows, ran out after %d", nlines, i)}
		}
		row, err := parseRow(line)
		if err != nil {
			if l.Strict {
				return &ParseError{Path: ls.path, Line: ls.lineNo, Err: err}
			}
			if l.Logger != nil {
				l.Logger.Warnw("skipping malformed dataset row", "path", ls.path, "line", ls.lineNo, "error", err)
			}
			continue
		}
		if err := l.addRow(group, tag, index, ls.lineNo, row); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) readCSVRefRows(indexPath string, ls *lineSource, tag string, index int, group *csvGroup, nlines int) error {
	dir := filepath.Dir(indexPath)
	for i := 0; i < nlines; i++ {
		line, ok := ls.next()
		if !ok {
			return &ParseError{Path: ls.path, Line: ls.lineNo, Err: fmt.Errorf("expected %d file references, ran out after %d", nlines, i)}
		}
		fields := strings.Split(line, ",")
		if len(fields) != 3 {
			return &ParseError{Path: ls.path, Line: ls.lineNo, Err: fmt.Errorf("file reference must have 3 fields, got %d", len(fields))}
		}
		filename := strings.TrimSpace(fields[0])
		fromLine, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return &ParseError{Path: ls.path, Line: ls.lineNo, Err: fmt.Errorf("bad from_line: %w", err)}
		}
		numLines, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return &ParseError{Path: ls.path, Line: ls.lineNo, Err: fmt.Errorf("bad num_lines: %w", err)}
		}

		path := filename
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, filename)
		}
		if err := l.readReferencedFile(path, tag, index, group, fromLine, numLines); err != nil {
			return err
		}
	}
	return nil
}

// readReferencedFile resizes past fromLine-1 lines, then reads numLines
// data rows — the 1-based resize semantics spec.md §9 adopts.
func (l *Loader) readReferencedFile(path, tag string, index int, group *csvGroup, fromLine, numLines int) error {
	refLS, err := openLineSource(path)
	if err != nil {
		return fmt.Errorf("opening referenced dataset file %q: %w", path, err)
	}
	defer refLS.Close()

	skip := fromLine - 1
	for i := 0; i < skip; i++ {
		if _, ok := refLS.next(); !ok {
			return &ParseError{Path: path, Line: refLS.lineNo, Err: fmt.Errorf("from_line %d exceeds file length", fromLine)}
		}
	}
	for i := 0; i < numLines; i++ {
		line, ok := refLS.next()
		if !ok {
			return &ParseError{Path: path, Line: refLS.lineNo, Err: fmt.Errorf("expected %d rows from line %d, ran out after %d", numLines, fromLine, i)}
		}
		row, err := parseRow(line)
		if err != nil {
			if l.Strict {
				return &ParseError{Path: path, Line: refLS.lineNo, Err: err}
			}
			if l.Logger != nil {
				l.Logger.Warnw("skipping malformed dataset row", "path", path, "line", refLS.lineNo, "error", err)
			}
			continue
		}
		if err := l.addRow(group, tag, index, refLS.lineNo, row); err != nil {
			return err
		}
	}
	return nil
}

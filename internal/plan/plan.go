// Package plan derives the deterministic clip plan from schedule rows.
package plan

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/gnzdotmx/clipper/internal/schedule"
)

// EndOfFile is the End value of the last clip of each source file. The
// extraction driver resolves it by probing the source's duration.
const EndOfFile = -1

// Clip is one derived extraction/publish unit. Clips are never persisted;
// the plan is rebuilt from the schedule on every run and completion is
// observed from the filesystem and the remote assets.
type Clip struct {
	Source      string  // path to the source video
	Row         int     // schedule row that produced this clip
	Start       float64 // inclusive start offset, seconds
	End         float64 // exclusive end offset, seconds; EndOfFile for the last clip
	Name        string
	Description string
	Output      string // deterministic clip filename, the upload join key
}

// EndsAtEOF reports whether the clip runs to the end of its source.
func (c Clip) EndsAtEOF() bool { return c.End == EndOfFile }

// Error reports an ambiguous interval derivation: two rows of the same
// source share an inpoint and neither is marked Skip. It is fatal to that
// source file's plan; other sources still produce clips.
type Error struct {
	Source  string
	Inpoint float64
	Rows    [2]int
}

func (e *Error) Error() string {
	return fmt.Sprintf("source %s: rows %d and %d share inpoint %s and neither is skipped",
		e.Source, e.Rows[0], e.Rows[1], FormatSeconds(e.Inpoint))
}

// Plan is the ordered clip sequence for one schedule, in file-then-time
// order for deterministic downstream iteration.
type Plan struct {
	Clips    []Clip
	Skipped  int // rows that bounded an interval but produce no clip
	Warnings []string
	Errors   []error // one *Error per ambiguous source
}

// Build groups rows by source file, sorts each group by inpoint (stable, so
// authored order breaks ties), and derives each clip's [start, end) interval
// from consecutive rows. Skip rows participate in derivation, bounding the
// preceding clip, but emit no clip themselves.
func Build(rows []schedule.Row) *Plan {
	p := &Plan{}

	// Group by source, preserving first-appearance order of the files.
	var sources []string
	groups := make(map[string][]schedule.Row)
	for _, row := range rows {
		if _, ok := groups[row.Source]; !ok {
			sources = append(sources, row.Source)
		}
		groups[row.Source] = append(groups[row.Source], row)
	}

	for _, source := range sources {
		group := groups[source]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Inpoint < group[j].Inpoint
		})

		if err := checkAmbiguity(source, group); err != nil {
			p.Errors = append(p.Errors, err)
			continue
		}

		for i, row := range group {
			end := float64(EndOfFile)
			if i+1 < len(group) {
				end = group[i+1].Inpoint
				if end == row.Inpoint {
					// Duplicate inpoint shadowed by a Skip row; the slot is
					// zero-length, so nothing can be extracted from it.
					p.Warnings = append(p.Warnings, fmt.Sprintf(
						"source %s: rows %d and %d share inpoint %s; row %d yields nothing",
						source, row.Number, group[i+1].Number, FormatSeconds(row.Inpoint), row.Number))
					p.Skipped++
					continue
				}
			}

			if row.Skip {
				p.Skipped++
				continue
			}

			p.Clips = append(p.Clips, Clip{
				Source:      source,
				Row:         row.Number,
				Start:       row.Inpoint,
				End:         end,
				Name:        row.Name,
				Description: row.Description,
				Output:      OutputFilename(source, row.Inpoint),
			})
		}
	}

	return p
}

func checkAmbiguity(source string, sorted []schedule.Row) *Error {
	// Examine each run of equal inpoints as a whole; a Skip row sorted into
	// the middle of a run must not hide the duplicate non-skip rows around it.
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end].Inpoint == sorted[start].Inpoint {
			end++
		}

		var nonSkip []int
		for _, row := range sorted[start:end] {
			if !row.Skip {
				nonSkip = append(nonSkip, row.Number)
			}
		}
		if len(nonSkip) > 1 {
			return &Error{
				Source:  source,
				Inpoint: sorted[start].Inpoint,
				Rows:    [2]int{nonSkip[0], nonSkip[1]},
			}
		}

		start = end
	}
	return nil
}

// OutputFilename is the pure join key between a local clip file and its
// uploaded remote asset: reruns and matches depend on it never changing for
// a given (source, start) pair.
func OutputFilename(source string, start float64) string {
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	return fmt.Sprintf("%s-%s%s", stem, FormatSeconds(start), ext)
}

// FormatSeconds renders an offset with the shortest decimal form that
// round-trips, so filenames stay stable across reruns.
func FormatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

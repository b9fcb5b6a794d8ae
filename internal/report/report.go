// Package report accumulates per-item outcomes across a run and renders the
// end-of-run summary. No error in one item aborts its siblings, so every
// outcome is collected here and surfaced together.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/gnzdotmx/clipper/internal/utils"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Outcome of one processed item.
type Outcome int

const (
	Succeeded Outcome = iota
	Skipped
	Failed
)

// Item is one processed unit: a clip filename for extraction, a clip name
// for publishing.
type Item struct {
	Name    string
	Outcome Outcome
	Reason  string // why the item was skipped
	Err     error  // why the item failed
}

// Report collects item outcomes. Safe for concurrent use.
type Report struct {
	mu    sync.Mutex
	items []Item
}

// New creates an empty report
func New() *Report {
	return &Report{}
}

// Success records a completed item.
func (r *Report) Success(name string) {
	r.add(Item{Name: name, Outcome: Succeeded})
}

// Skip records an item that needed no work.
func (r *Report) Skip(name, reason string) {
	r.add(Item{Name: name, Outcome: Skipped, Reason: reason})
}

// Fail records a failed item.
func (r *Report) Fail(name string, err error) {
	r.add(Item{Name: name, Outcome: Failed, Err: err})
}

func (r *Report) add(item Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
}

// Counts returns the number of succeeded, skipped, and failed items.
func (r *Report) Counts() (succeeded, skipped, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		switch item.Outcome {
		case Succeeded:
			succeeded++
		case Skipped:
			skipped++
		case Failed:
			failed++
		}
	}
	return
}

// Failed reports whether any item failed; it drives the process exit code.
func (r *Report) Failed() bool {
	_, _, failed := r.Counts()
	return failed > 0
}

// Items returns a copy of the collected items in recording order.
func (r *Report) Items() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// Render writes the summary counts and, when failures occurred, a table
// listing each failure with its cause. At verbose level each skipped item is
// listed with the reason it needed no work.
func (r *Report) Render(w io.Writer) {
	succeeded, skipped, failed := r.Counts()
	fmt.Fprintf(w, "%d succeeded, %d skipped, %d failed\n", succeeded, skipped, failed)

	if utils.CurrentLogLevel >= utils.LevelVerbose {
		for _, item := range r.Items() {
			if item.Outcome == Skipped {
				fmt.Fprintf(w, "\tskipped %s: %s\n", item.Name, item.Reason)
			}
		}
	}

	if failed == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Item", "Error"})
	for _, item := range r.Items() {
		if item.Outcome == Failed {
			t.AppendRow(table.Row{item.Name, item.Err.Error()})
		}
	}
	t.Render()
}

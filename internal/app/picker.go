package app

import (
	"log/slog"

	"github.com/corey/emojipick/internal/ports"
)

// Picker is the interactive session state: the query being typed, the
// current results and the highlighted row. Every edit re-runs the search.
type Picker struct {
	search ports.Searcher
	log    *slog.Logger

	input    []rune
	results  []ports.Result
	selected int
	status   string
}

// NewPicker starts a session prefilled with initial and runs the first
// search.
func NewPicker(s ports.Searcher, initial string, log *slog.Logger) *Picker {
	if log == nil {
		log = slog.Default()
	}
	p := &Picker{search: s, log: log, input: []rune(initial)}
	p.refresh()
	return p
}

// Handle applies one key and reports whether the session is over.
func (p *Picker) Handle(k ports.Key, r rune) ports.Outcome {
	switch k {
	case ports.KeyRune:
		p.input = append(p.input, r)
		p.refresh()
	case ports.KeyBackspace:
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
			p.refresh()
		}
	case ports.KeyUp:
		p.move(-1)
	case ports.KeyDown:
		p.move(1)
	case ports.KeyEnter:
		if _, ok := p.Selection(); ok {
			return ports.Selected
		}
	case ports.KeyCancel:
		return ports.Cancelled
	}
	return ports.Continue
}

// Selection returns the highlighted result.
func (p *Picker) Selection() (ports.Result, bool) {
	if p.selected < 0 || p.selected >= len(p.results) {
		return ports.Result{}, false
	}
	return p.results[p.selected], true
}

// View snapshots the state for rendering.
func (p *Picker) View() ports.PickerView {
	sel := p.selected
	if len(p.results) == 0 {
		sel = -1
	}
	return ports.PickerView{
		Input:    string(p.input),
		Results:  p.results,
		Selected: sel,
		Status:   p.status,
	}
}

func (p *Picker) move(delta int) {
	p.selected = clamp(p.selected+delta, 0, max(len(p.results)-1, 0))
}

// refresh re-runs the search. On failure the previous results stay on
// screen and the error is shown in the status line.
func (p *Picker) refresh() {
	query := string(p.input)
	if query == "" {
		p.results = nil
		p.selected = 0
		p.status = ""
		return
	}
	results, err := p.search.Search(query)
	if err != nil {
		p.status = err.Error()
		p.log.Warn("search failed", "query", query, "err", err)
		return
	}
	p.results = results
	p.status = ""
	p.move(0)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package tui renders the interactive picker on a tcell screen.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/corey/emojipick/internal/ports"
)

// Model is the picker state machine driven by the terminal loop.
type Model interface {
	Handle(k ports.Key, r rune) ports.Outcome
	View() ports.PickerView
	Selection() (ports.Result, bool)
}

const (
	promptRow  = 0
	statusRow  = 1
	resultsRow = 2
	prompt     = "> "
)

var (
	styleDefault  = tcell.StyleDefault
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleStatus   = tcell.StyleDefault.Dim(true)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Run drives m from key events on screen until the user picks a result
// or cancels. The screen must already be initialized; the caller owns
// Fini. ok is false when the session was cancelled.
func Run(screen tcell.Screen, m Model) (res ports.Result, ok bool, err error) {
	offset := 0
	for {
		offset = draw(screen, m.View(), offset)
		screen.Show()

		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return ports.Result{}, false, fmt.Errorf("terminal closed")
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			k, r, known := mapKey(ev)
			if !known {
				continue
			}
			switch m.Handle(k, r) {
			case ports.Selected:
				res, ok = m.Selection()
				return res, ok, nil
			case ports.Cancelled:
				return ports.Result{}, false, nil
			}
		}
	}
}

func mapKey(ev *tcell.EventKey) (ports.Key, rune, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return ports.KeyRune, ev.Rune(), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ports.KeyBackspace, 0, true
	case tcell.KeyUp, tcell.KeyCtrlP:
		return ports.KeyUp, 0, true
	case tcell.KeyDown, tcell.KeyCtrlN:
		return ports.KeyDown, 0, true
	case tcell.KeyEnter:
		return ports.KeyEnter, 0, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ports.KeyCancel, 0, true
	}
	return 0, 0, false
}

// draw paints v and returns the scroll offset that keeps the selection
// visible.
func draw(screen tcell.Screen, v ports.PickerView, offset int) int {
	screen.Clear()
	width, height := screen.Size()

	x := drawText(screen, 0, promptRow, width, prompt+v.Input, styleDefault)
	screen.ShowCursor(x, promptRow)

	switch {
	case v.Status != "":
		drawText(screen, 0, statusRow, width, v.Status, styleError)
	case v.Input != "":
		drawText(screen, 0, statusRow, width, fmt.Sprintf("%d results", len(v.Results)), styleStatus)
	}

	rows := height - resultsRow
	if rows <= 0 {
		return 0
	}
	if v.Selected >= 0 {
		if v.Selected < offset {
			offset = v.Selected
		}
		if v.Selected >= offset+rows {
			offset = v.Selected - rows + 1
		}
	}
	offset = min(offset, max(len(v.Results)-rows, 0))

	for i := 0; i < rows && offset+i < len(v.Results); i++ {
		idx := offset + i
		style := styleDefault
		if idx == v.Selected {
			style = styleSelected
		}
		drawText(screen, 0, resultsRow+i, width, formatResult(v.Results[idx]), style)
	}
	return offset
}

func formatResult(r ports.Result) string {
	line := r.Symbol + "  " + r.Name
	if r.ShortName != "" {
		line += " :" + r.ShortName + ":"
	}
	return line
}

// drawText writes s one grapheme cluster per cell group, clipping at
// maxX, and returns the column after the last cluster drawn.
func drawText(screen tcell.Screen, x, y, maxX int, s string, style tcell.Style) int {
	state := -1
	for s != "" {
		var cluster string
		var w int
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		runes := []rune(cluster)
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
	return x
}

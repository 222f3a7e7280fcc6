// Package listing provides an optional diagnostic-table browser for
// the Event stream an assembly run emits (§6): a small tview/tcell
// application with one tab per table kind, plus a plain-text fallback
// renderer for non-interactive use. No package in this module imports
// this one, the CLI included; cmd/sicxeasm prints Events with its own
// printer.
package listing

import (
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/sicxeasm/assembler/internal/diag"
)

// Browser collects Events as they arrive and, once assembly
// completes, can be shown interactively with Run.
type Browser struct {
	events []diag.Event
}

// NewBrowser creates an empty Browser. Its Collect method satisfies
// diag.Sink.
func NewBrowser() *Browser {
	return &Browser{}
}

// Collect appends ev to the browser's history. Pass this as the sink
// to assembler.Assemble.
func (b *Browser) Collect(ev diag.Event) {
	b.events = append(b.events, ev)
}

// Run opens an interactive tview application: one page per collected
// Event, cycled with Tab, closed with Escape or 'q'.
func (b *Browser) Run() error {
	if len(b.events) == 0 {
		return nil
	}

	app := tview.NewApplication()
	pages := tview.NewPages()

	for i, ev := range b.events {
		table := tview.NewTable().SetBorders(false).SetSelectable(true, false)
		for row, line := range ev.Rows {
			table.SetCell(row, 0, tview.NewTableCell(line))
		}
		table.SetBorder(true).SetTitle(fmt.Sprintf(" %s: %s ", ev.Section, ev.Kind))
		pages.AddPage(fmt.Sprintf("page-%d", i), table, true, i == 0)
	}

	current := 0
	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			app.Stop()
			return nil
		case tcell.KeyTab:
			current = (current + 1) % len(b.events)
			pages.SwitchToPage(fmt.Sprintf("page-%d", current))
			return nil
		}
		if event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	return app.SetRoot(pages, true).Run()
}

// WriteText renders every collected Event as plain text to w, for
// non-interactive callers (redirected stdout, test assertions).
func (b *Browser) WriteText(w io.Writer) error {
	for _, ev := range b.events {
		if _, err := fmt.Fprintf(w, "--- %s: %s ---\n", ev.Section, ev.Kind); err != nil {
			return err
		}
		for _, row := range ev.Rows {
			if _, err := fmt.Fprintln(w, row); err != nil {
				return err
			}
		}
	}
	return nil
}

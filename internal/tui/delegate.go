package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/inlineedit"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

// rowItem adapts a todo to bubbles/list.Item.
type rowItem struct {
	todo model.Item
}

func (r rowItem) FilterValue() string { return r.todo.Title }

// rowDelegate renders one line per todo: cursor, checkbox, inline field and,
// on the selected row, the delete marker. Fields are shared with the model
// by map reference.
type rowDelegate struct {
	fields map[int64]inlineedit.Field
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(rowItem)
	if !ok {
		return
	}
	t := ui.Current()

	box := t.Muted.Render(t.BoxUnchecked)
	f := d.fields[row.todo.ID]
	if row.todo.Done {
		box = t.Success.Render(t.BoxChecked)
		f.TextStyle = t.Done
	}

	prefix, suffix := "  ", ""
	if index == m.Index() {
		prefix = t.Selected.Render(t.Cursor)
		if !f.Editing() {
			suffix = "  " + t.Muted.Render(t.SymDelete)
		}
	}
	fmt.Fprintf(w, "%s%s %s%s", prefix, box, f.View(), suffix)
}

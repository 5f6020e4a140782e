// Package inlineedit is a single-line text field that shows a read-only label
// until activated, then edits in place and commits through a save callback.
package inlineedit

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// State is the field mode.
type State int

const (
	Viewing State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// SaveFunc receives the raw edit buffer when an edit is committed. The
// returned command is handed back to the Bubble Tea runtime.
type SaveFunc func(value string) tea.Cmd

// KeyMap holds the bindings active while editing.
type KeyMap struct {
	Submit key.Binding
	Blur   key.Binding
}

// DefaultKeyMap commits on enter and leaves the field on esc or tab.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Blur:   key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "done")),
	}
}

// Field toggles between a label and a text input.
//
// Submit and Blur both commit, but only once per edit: whichever arrives
// first runs the save callback and later ones are dropped until the next Edit.
// SetText never touches the buffer of an edit in progress.
type Field struct {
	KeyMap    KeyMap
	TextStyle lipgloss.Style

	text      string
	input     textinput.Model
	state     State
	committed bool
	save      SaveFunc
}

// New returns a field in the Viewing state.
func New(text string, save SaveFunc) Field {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 200
	in.SetValue(text)
	return Field{
		KeyMap: DefaultKeyMap(),
		text:   text,
		input:  in,
		save:   save,
	}
}

// Text is the source text shown while viewing.
func (f Field) Text() string { return f.text }

// Value is the edit buffer.
func (f Field) Value() string { return f.input.Value() }

// State reports the current mode.
func (f Field) State() State { return f.state }

// Editing reports whether an edit is in progress.
func (f Field) Editing() bool { return f.state == Editing }

// SetWidth bounds the rendered input.
func (f *Field) SetWidth(w int) { f.input.Width = w }

// SetText updates the source text. The buffer follows only while viewing.
func (f Field) SetText(text string) Field {
	f.text = text
	if f.state != Editing {
		f.input.SetValue(text)
	}
	return f
}

// Edit enters Editing with the buffer reset to the source text.
func (f Field) Edit() (Field, tea.Cmd) {
	if f.state == Editing {
		return f, nil
	}
	f.state = Editing
	f.committed = false
	f.input.SetValue(f.text)
	f.input.CursorEnd()
	return f, f.input.Focus()
}

// Submit commits the buffer.
func (f Field) Submit() (Field, tea.Cmd) { return f.commit() }

// Blur commits the buffer after focus moved away.
func (f Field) Blur() (Field, tea.Cmd) { return f.commit() }

func (f Field) commit() (Field, tea.Cmd) {
	if f.state != Editing || f.committed {
		return f, nil
	}
	f.committed = true
	f.state = Viewing
	f.input.Blur()
	if f.save == nil {
		return f, nil
	}
	return f, f.save(f.input.Value())
}

// Update handles input while editing. It ignores everything while viewing.
func (f Field) Update(msg tea.Msg) (Field, tea.Cmd) {
	if f.state != Editing {
		return f, nil
	}
	switch msg := msg.(type) {
	case tea.BlurMsg:
		return f.Blur()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, f.KeyMap.Submit):
			return f.Submit()
		case key.Matches(msg, f.KeyMap.Blur):
			return f.Blur()
		}
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

// View renders the label or the input.
func (f Field) View() string {
	if f.state == Editing {
		return f.input.View()
	}
	return f.TextStyle.Render(f.text)
}

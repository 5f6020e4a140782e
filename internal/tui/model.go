// Package tui is the interactive todo screen. It renders the list controller's
// snapshot and turns key presses into controller operations.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/inlineedit"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/todos"
	"github.com/idilsaglam/tada/internal/ui"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// title, draft box and frame
	chromeHeight = 8
)

// renameMsg is produced by a row's inline field when an edit commits.
type renameMsg struct {
	id    int64
	value string
}

// Model implements tea.Model.
type Model struct {
	ctl     todos.Controller
	list    list.Model
	fields  map[int64]inlineedit.Field
	draft   textinput.Model
	spinner spinner.Model
	keys    keyMap

	revision int
	adding   bool // draft input focused
	editing  bool // a row field is in Editing
	editID   int64
	width    int
	height   int

	mount tea.Cmd
}

// New wires a model around ctl and starts the initial refresh.
func New(ctl todos.Controller) Model {
	keys := defaultKeyMap()
	fields := map[int64]inlineedit.Field{}
	t := ui.Current()

	l := list.New(nil, rowDelegate{fields: fields}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Muted
	l.Styles.PaginationStyle = t.Muted
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = keys.rowHelp
	l.AdditionalFullHelpKeys = keys.rowHelp

	ti := textinput.New()
	ti.Prompt = "+ "
	ti.Placeholder = "Add a new todo..."
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = t.Accent

	m := Model{
		ctl:     ctl,
		list:    l,
		fields:  fields,
		draft:   ti,
		spinner: sp,
		keys:    keys,
	}
	m.list.Title = listTitle(nil)
	m.mount = m.ctl.Refresh()
	m.resize(defaultWidth, defaultHeight)
	return m
}

// Run starts the program on the alternate screen. Focus reporting lets an
// edit commit when the terminal loses focus.
func Run(ctl todos.Controller) error {
	p := tea.NewProgram(New(ctl), tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.mount, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case renameMsg:
		item, ok := m.ctl.Item(msg.id)
		if !ok {
			return m, nil
		}
		return m, m.ctl.Rename(item, msg.value)

	case tea.BlurMsg:
		if m.editing {
			return m.updateField(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	cmd := m.ctl.Update(msg)
	m.sync()
	// Anything else, such as cursor blinks, belongs to the focused input.
	switch {
	case m.editing:
		f, ok := m.fields[m.editID]
		if ok {
			var fcmd tea.Cmd
			f, fcmd = f.Update(msg)
			m.fields[m.editID] = f
			cmd = tea.Batch(cmd, fcmd)
		}
	case m.adding:
		var dcmd tea.Cmd
		m.draft, dcmd = m.draft.Update(msg)
		cmd = tea.Batch(cmd, dcmd)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.editing {
		return m.updateField(msg)
	}
	if m.adding {
		return m.updateDraft(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		return m, m.draft.Focus()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.ctl.Refresh()
	}

	// Rows are hidden while loading.
	if m.ctl.Loading() {
		return m, nil
	}
	row, ok := m.list.SelectedItem().(rowItem)
	switch {
	case ok && key.Matches(msg, m.keys.Toggle):
		return m, m.ctl.ToggleDone(row.todo)
	case ok && key.Matches(msg, m.keys.Remove):
		return m, m.ctl.Remove(row.todo)
	case ok && key.Matches(msg, m.keys.Edit):
		f, cmd := m.fields[row.todo.ID].Edit()
		m.fields[row.todo.ID] = f
		m.editing, m.editID = true, row.todo.ID
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateField(msg tea.Msg) (tea.Model, tea.Cmd) {
	f, ok := m.fields[m.editID]
	if !ok {
		m.editing = false
		return m, nil
	}
	f, cmd := f.Update(msg)
	m.fields[m.editID] = f
	if !f.Editing() {
		m.editing = false
	}
	return m, cmd
}

func (m Model) updateDraft(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.ctl.SetDraft(m.draft.Value())
		return m, m.ctl.Create()
	case key.Matches(msg, m.keys.Cancel):
		m.adding = false
		m.draft.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.draft, cmd = m.draft.Update(msg)
	m.ctl.SetDraft(m.draft.Value())
	return m, cmd
}

// sync pulls controller state into the widgets. Rows and fields are rebuilt
// only when a new snapshot landed.
func (m *Model) sync() {
	if m.draft.Value() != m.ctl.Draft() {
		m.draft.SetValue(m.ctl.Draft())
	}
	if m.ctl.Revision() == m.revision {
		return
	}
	m.revision = m.ctl.Revision()

	items := m.ctl.Items()
	rows := make([]list.Item, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, it := range items {
		seen[it.ID] = true
		if f, ok := m.fields[it.ID]; ok {
			m.fields[it.ID] = f.SetText(it.Title)
		} else {
			m.fields[it.ID] = m.newField(it)
		}
		rows = append(rows, rowItem{todo: it})
	}
	for id := range m.fields {
		if !seen[id] {
			delete(m.fields, id)
		}
	}
	if m.editing && !seen[m.editID] {
		m.editing = false
	}

	m.list.SetItems(rows)
	if n := len(rows); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	m.list.Title = listTitle(items)
}

func (m *Model) newField(it model.Item) inlineedit.Field {
	id := it.ID
	f := inlineedit.New(it.Title, func(v string) tea.Cmd {
		return func() tea.Msg { return renameMsg{id: id, value: v} }
	})
	f.SetWidth(m.fieldWidth())
	return f
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	listHeight := h - chromeHeight
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(w-4, listHeight)
	m.draft.Width = w - 10
	for id, f := range m.fields {
		f.SetWidth(m.fieldWidth())
		m.fields[id] = f
	}
}

func (m *Model) fieldWidth() int {
	if w := m.width - 16; w > 10 {
		return w
	}
	return 10
}

func listTitle(items []model.Item) string {
	t := ui.Current()
	done, pending := model.Stats(items)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), len(items),
	)
}

func (m Model) View() string {
	t := ui.Current()

	draftTitle := "New todo"
	if m.adding {
		draftTitle += t.Muted.Render("  (enter to add, esc to leave)")
	}
	draftBox := t.Frame.Border(t.Border).Render(draftTitle + "\n" + m.draft.View())

	var body string
	switch {
	case m.ctl.Loading():
		body = m.spinner.View() + " Loading..."
	case len(m.list.Items()) == 0:
		body = t.Muted.Render("No todos") + "\n\n" +
			t.Muted.Render("a add • r refresh • q quit")
	default:
		body = m.list.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Left, draftBox, "", body)
	return ui.PanelString(content)
}

// Package tui is the interactive list view over the remote collection.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todo-tui/internal/model"
	"github.com/idilsaglam/todo-tui/internal/sync"
	"github.com/idilsaglam/todo-tui/internal/ui"
)

// listItem adapts a model.Task to bubbles/list.Item.
type listItem struct {
	task model.Task
}

func (i listItem) TitleText() string {
	box := ui.BoxUnchecked
	if i.task.Completed {
		box = ui.BoxChecked
	}
	return fmt.Sprintf("%s %s", box, i.task.Text)
}

// Implement list.Item interface
func (i listItem) Title() string       { return i.TitleText() }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.task.Text }

// itemDelegate renders one task per line, struck through when completed.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	box := ui.MutedStyle.Render(ui.BoxUnchecked)
	text := it.task.Text
	if it.task.Completed {
		box = ui.SuccessStyle.Render(ui.BoxChecked)
		text = ui.DoneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

// syncedMsg signals that a sync operation finished and the snapshot moved.
type syncedMsg struct{}

// Model drives the interactive view. All server state flows through the
// sync client; the model itself only holds widget state.
type Model struct {
	client  *sync.Client
	timeout time.Duration

	list list.Model
	ti   textinput.Model
	snap sync.Snapshot

	adding bool   // inline add form is open
	addErr string // last add validation error

	editing  bool       // inline edit form is open
	editTask model.Task // record being edited
	editErr  string

	width  int
	height int
}

func NewModel(client *sync.Client, timeout time.Duration) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = headerTitle(nil)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")

	// Extend help with our bindings
	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	refreshBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	extra := func() []key.Binding {
		return []key.Binding{addBind, editBind, toggleBind, delBind, refreshBind}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task..."
	ti.CharLimit = 200

	return Model{
		client:  client,
		timeout: timeout,
		list:    l,
		ti:      ti,
		width:   80,
		height:  24,
	}
}

// Run starts the program on the alt screen.
func Run(client *sync.Client, timeout time.Duration) error {
	p := tea.NewProgram(NewModel(client, timeout), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init performs the one automatic fetch. No polling afterwards.
func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m Model) refreshCmd() tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		client.Refresh(ctx)
		return syncedMsg{}
	}
}

func (m Model) addCmd() tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		client.Add(ctx)
		return syncedMsg{}
	}
}

func (m Model) editCmd(task model.Task, text string) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		client.Edit(ctx, task, text)
		return syncedMsg{}
	}
}

func (m Model) toggleCmd(task model.Task) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		client.Toggle(ctx, task)
		return syncedMsg{}
	}
}

func (m Model) removeCmd(task model.Task) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		client.Remove(ctx, task)
		return syncedMsg{}
	}
}

func (m Model) selectedTask() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Task{}, false
	}
	return it.task, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(m.listWidth(), m.listHeight())
		return m, nil

	case syncedMsg:
		m.snap = m.client.Snapshot()
		items := make([]list.Item, 0, len(m.snap.Tasks))
		for _, task := range m.snap.Tasks {
			items = append(items, listItem{task: task})
		}
		m.list.SetItems(items)
		m.list.Title = headerTitle(m.snap.Tasks)
		return m, nil
	}

	// add mode
	if m.adding {
		var cmd tea.Cmd
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				text := strings.TrimSpace(m.ti.Value())
				if text == "" {
					m.addErr = "Task cannot be empty"
					return m, nil
				}
				m.client.SetItem(text)
				m.ti.SetValue("")
				m.ti.Blur()
				m.adding = false
				m.addErr = ""
				return m, m.addCmd()
			case "esc":
				m.adding = false
				m.addErr = ""
				m.ti.SetValue("")
				m.ti.Blur()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	// edit mode
	if m.editing {
		var cmd tea.Cmd
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				text := strings.TrimSpace(m.ti.Value())
				if text == "" {
					m.editErr = "Task cannot be empty"
					return m, nil
				}
				task := m.editTask
				m.ti.SetValue("")
				m.ti.Blur()
				m.editing = false
				m.editErr = ""
				return m, m.editCmd(task, text)
			case "esc":
				m.editing = false
				m.editErr = ""
				m.ti.SetValue("")
				m.ti.Blur()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.list.SettingFilter() {
		switch keyMsg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ", "enter":
			if task, ok := m.selectedTask(); ok {
				return m, m.toggleCmd(task)
			}
			return m, nil
		case "d":
			if task, ok := m.selectedTask(); ok {
				return m, m.removeCmd(task)
			}
			return m, nil
		case "a":
			m.adding = true
			m.ti.SetValue(m.client.Item())
			m.ti.Placeholder = "New task..."
			m.ti.Focus()
			return m, textinput.Blink
		case "e":
			if task, ok := m.selectedTask(); ok {
				m.editing = true
				m.editTask = task
				m.ti.SetValue(task.Text)
				m.ti.CursorEnd()
				m.ti.Placeholder = "Edit task..."
				m.ti.Focus()
				return m, textinput.Blink
			}
			return m, nil
		case "r":
			return m, m.refreshCmd()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	if m.snap.Err != "" {
		b.WriteString(ui.ErrorStyle.Render(m.snap.Err))
		b.WriteString("\n")
	}
	b.WriteString(m.list.View())
	if m.adding || m.editing {
		bar := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
		title := "Add new task"
		errText := m.addErr
		if m.editing {
			title = "Edit task"
			errText = m.editErr
		}
		if errText != "" {
			title += " — " + ui.ErrorStyle.Render(errText)
		}
		b.WriteString("\n")
		b.WriteString(bar.Render(title + "\n" + m.ti.View()))
	}
	return panelString(b.String())
}

func (m Model) listWidth() int { return m.width - 4 }

func (m Model) listHeight() int {
	h := m.height - 4
	if m.adding || m.editing {
		h = m.height - 8
	}
	if m.snap.Err != "" {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func panelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}

// headerTitle renders live counts plus a progress bar.
func headerTitle(tasks []model.Task) string {
	done, pending := stats(tasks)
	return fmt.Sprintf("%s   %s %d  %s %d  %s",
		ui.TitleStyle.Render("Tasks"),
		ui.SuccessStyle.Render("✔"), done,
		ui.PendingStyle.Render("•"), pending,
		ui.MutedStyle.Render(ui.ProgressBar(done, len(tasks), 16)),
	)
}

func stats(tasks []model.Task) (done, pending int) {
	for _, task := range tasks {
		if task.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

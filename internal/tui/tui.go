// Package tui is an interactive layout picker: browse the available layouts,
// apply one to the desktop, and undo, all through the daemon's IPC socket.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/wintidy/internal/ipc"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).MarginTop(1)
)

// layoutItem implements list.Item for the layout picker.
type layoutItem struct {
	name      string
	isDefault bool
}

func (i layoutItem) Title() string {
	if i.isDefault {
		return i.name + " (default)"
	}
	return i.name
}

func (i layoutItem) Description() string { return "" }
func (i layoutItem) FilterValue() string { return i.name }

// statusMsg carries the outcome of an IPC action.
type statusMsg struct {
	text  string
	isErr bool
}

// clearStatusMsg clears the status line after a delay.
type clearStatusMsg struct{}

type model struct {
	list   list.Model
	client *ipc.Client

	connected bool
	status    string
	statusErr bool

	width  int
	height int
}

func newModel(client *ipc.Client) model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Layouts"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	m := model{
		list:   l,
		client: client,
	}
	m.refreshLayouts()
	return m
}

func (m *model) refreshLayouts() {
	data, err := m.client.ListLayouts()
	if err != nil {
		m.connected = false
		return
	}
	m.connected = true

	items := make([]list.Item, 0, len(data.Layouts))
	for _, name := range data.Layouts {
		items = append(items, layoutItem{
			name:      name,
			isDefault: name == data.DefaultLayout,
		})
	}
	m.list.SetItems(items)
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "enter", "a":
			item, ok := m.list.SelectedItem().(layoutItem)
			if !ok {
				return m, nil
			}
			return m, m.organizeCmd(item.name)

		case "u":
			return m, m.undoCmd()

		case "r":
			m.refreshLayouts()
			return m, nil
		}

	case statusMsg:
		m.status = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) organizeCmd(layoutName string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.Organize(ipc.OrganizePayload{Layout: layoutName})
		if err != nil {
			return statusMsg{text: err.Error(), isErr: true}
		}
		if !result.Success {
			return statusMsg{text: result.Message, isErr: true}
		}
		return statusMsg{text: fmt.Sprintf("%s: arranged %d/%d windows",
			result.Layout, result.SuccessCount, result.TotalCount)}
	}
}

func (m model) undoCmd() tea.Cmd {
	return func() tea.Msg {
		restored, err := m.client.Undo()
		if err != nil {
			return statusMsg{text: err.Error(), isErr: true}
		}
		if !restored {
			return statusMsg{text: "nothing to restore", isErr: true}
		}
		return statusMsg{text: "restored previous window positions"}
	}
}

func (m model) View() string {
	if !m.connected {
		return titleStyle.Render("wintidy") + "\n\n" +
			errorStyle.Render("daemon not running — start it with: wintidy daemon") + "\n" +
			helpStyle.Render("r retry • q quit") + "\n"
	}

	view := m.list.View() + "\n"

	if m.status != "" {
		if m.statusErr {
			view += errorStyle.Render(m.status)
		} else {
			view += statusStyle.Render(m.status)
		}
		view += "\n"
	}

	view += helpStyle.Render("enter apply • u undo • r refresh • q quit")
	return view
}

// Run opens the layout picker, blocking until the user quits.
func Run() error {
	p := tea.NewProgram(newModel(ipc.NewClient()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

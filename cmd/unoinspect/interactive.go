package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/uno-inspect/image"
	"github.com/wippyai/uno-inspect/inspect"
	"github.com/wippyai/uno-inspect/snapshot"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateBrowse modelState = iota
	stateFilter
)

type interactiveModel struct {
	err      error
	img      *image.Image
	sess     *inspect.Session
	logger   *zap.Logger
	filename string
	status   string
	opts     []inspect.Option
	roots    []*node
	rows     []*node
	filter   textinput.Model
	selected int
	state    modelState
}

func runInteractive(filename string, logger *zap.Logger, opts []inspect.Option) error {
	m := newInteractiveModel(filename, logger, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	if m.img != nil {
		_ = m.img.Close(context.Background())
	}
	return err
}

func newInteractiveModel(filename string, logger *zap.Logger, opts []inspect.Option) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "root name"
	ti.Width = 40
	return &interactiveModel{
		filename: filename,
		logger:   logger,
		opts:     opts,
		filter:   ti,
	}
}

type loadedMsg struct {
	err   error
	img   *image.Image
	roots []snapshot.Root
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadSnapshot
}

func (m *interactiveModel) loadSnapshot() tea.Msg {
	img, roots, err := snapshot.Load(context.Background(), m.filename, snapshot.WithLogger(m.logger))
	return loadedMsg{img: img, roots: roots, err: err}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.img = msg.img
		m.sess = inspect.New(m.opts...)
		m.img.SetFormatter(m.sess)
		m.roots = newRoots(msg.roots)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *interactiveModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.rows)-1 {
			m.selected++
		}

	case "enter", " ":
		if n := m.current(); n != nil {
			n.expanded = !n.expanded
			m.refresh()
		}

	case "right", "l":
		if n := m.current(); n != nil && !n.expanded {
			n.expanded = true
			m.refresh()
		}

	case "left", "h":
		if n := m.current(); n != nil && n.expanded {
			n.expanded = false
			m.refresh()
		}

	case "r":
		if m.sess == nil {
			return m, nil
		}
		m.sess.Invalidate()
		for _, n := range m.roots {
			n.reset()
		}
		m.status = fmt.Sprintf("refreshed (generation %d)", m.sess.Generation())
		m.refresh()

	case "/":
		m.state = stateFilter
		return m, m.filter.Focus()
	}
	return m, nil
}

func (m *interactiveModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.state = stateBrowse
		m.filter.Blur()
		m.selected = 0
		m.refresh()
		return m, nil
	case "esc":
		m.state = stateBrowse
		m.filter.Blur()
		m.filter.SetValue("")
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m *interactiveModel) current() *node {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return nil
	}
	return m.rows[m.selected]
}

// refresh rebuilds the visible rows from the expanded tree.
func (m *interactiveModel) refresh() {
	if m.sess == nil {
		return
	}
	roots := m.roots
	if q := strings.TrimSpace(m.filter.Value()); q != "" {
		roots = nil
		for _, n := range m.roots {
			if strings.Contains(n.name, q) {
				roots = append(roots, n)
			}
		}
	}
	m.rows = visible(m.sess, roots, nil)
	if m.selected >= len(m.rows) {
		m.selected = len(m.rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.sess == nil {
		return "Loading snapshot..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("UNO Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	for i, n := range m.rows {
		marker := "  "
		if n.expanded {
			marker = "▾ "
		} else if !n.loaded || len(n.children) > 0 {
			marker = "▸ "
		}
		line := strings.Repeat("  ", n.depth) + marker
		if i == m.selected {
			b.WriteString(selectedStyle.Render(line + n.name + " = " + m.sess.Render(n.value)))
		} else {
			b.WriteString(line + nameStyle.Render(n.name) + " = " + m.sess.Render(n.value))
		}
		b.WriteString(" ")
		b.WriteString(typeStyle.Render(n.value.TypeName()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.state == stateFilter {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(helpStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("↑/↓ select • enter toggle • ←/→ collapse/expand • r refresh • / filter • q quit"))
	return b.String()
}

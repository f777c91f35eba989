package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/datasweep/internal/converter"
	"github.com/nconklindev/datasweep/internal/pipeline"
	"github.com/nconklindev/datasweep/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
)

type state int

const (
	stateFilePicker state = iota
	stateLoading
	stateSession
)

type Model struct {
	state      state
	filepicker filepicker.Model
	keys       keyMap
	help       help.Model

	opts      pipeline.Options
	outputDir string
	initial   []string

	sessions []*pipeline.Session
	failures []pipeline.Result
	opened   int
	current  int
	cursor   int
	err      error

	width  int
	height int
}

type filesLoadedMsg struct {
	results []pipeline.Result
}

// InitialModel builds the TUI. Any paths given are loaded before the file
// picker is shown.
func InitialModel(opts pipeline.Options, outputDir string, paths []string) Model {
	fp := filepicker.New()
	fp.AllowedTypes = converter.SupportedExts
	fp.CurrentDirectory, _ = os.Getwd()

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(warm)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(warm)
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(muted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(muted)

	m := Model{
		state:      stateFilePicker,
		filepicker: fp,
		keys:       defaultKeyMap(),
		help:       help.New(),
		opts:       opts,
		outputDir:  outputDir,
		initial:    paths,
	}
	if len(paths) > 0 {
		m.state = stateLoading
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if len(m.initial) > 0 {
		return tea.Batch(m.filepicker.Init(), m.loadFiles(m.initial))
	}
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Subtract space for title, subtitle, help text, and padding
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}

		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch m.state {
		case stateFilePicker:
			if key.Matches(msg, m.keys.BackToFiles) && len(m.sessions) > 0 {
				m.state = stateSession
				return m, nil
			}
		case stateSession:
			return m.updateSession(msg)
		}

	case filesLoadedMsg:
		first := len(m.sessions)
		for _, res := range msg.results {
			m.opened++
			if res.Err != nil {
				m.failures = append(m.failures, res)
				continue
			}
			m.sessions = append(m.sessions, res.Session)
		}
		if len(m.sessions) > first {
			m.current = first
			m.cursor = 0
			m.state = stateSession
		} else if len(m.sessions) > 0 {
			m.state = stateSession
		} else {
			m.state = stateFilePicker
		}
		return m, nil
	}

	// Handle filepicker updates
	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.state = stateLoading
			return m, m.loadFiles([]string{path})
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) updateSession(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.sessions[m.current]
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Next):
		m.current = (m.current + 1) % len(m.sessions)
		m.cursor = 0
	case key.Matches(msg, m.keys.Prev):
		m.current = (m.current - 1 + len(m.sessions)) % len(m.sessions)
		m.cursor = 0
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(s.Columns())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.ToggleCol):
		cols := s.Columns()
		if m.cursor < len(cols) {
			s.ToggleColumn(cols[m.cursor])
		}
	case key.Matches(msg, m.keys.Clean):
		s.ShowClean = !s.ShowClean
	case key.Matches(msg, m.keys.Dedupe):
		if s.ShowClean {
			s.RemoveDuplicates()
		}
	case key.Matches(msg, m.keys.Fill):
		if s.ShowClean {
			if _, err := s.FillMissing(); err != nil {
				m.err = err
			}
		}
	case key.Matches(msg, m.keys.Chart):
		s.ShowChart = !s.ShowChart
	case key.Matches(msg, m.keys.Target):
		s.ToggleTarget()
	case key.Matches(msg, m.keys.Save):
		if _, err := s.Save(m.outputDir); err != nil {
			m.err = err
		}
	case key.Matches(msg, m.keys.AddFiles):
		m.state = stateFilePicker
		return m, m.filepicker.Init()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) loadFiles(paths []string) tea.Cmd {
	offset := m.opened
	opts := m.opts
	return func() tea.Msg {
		return filesLoadedMsg{results: pipeline.LoadFiles(paths, offset, opts)}
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateLoading:
		return m.viewLoading()
	case stateSession:
		return m.viewSession()
	}
	return ""
}

func (m Model) viewHeader() string {
	title := TitleStyle.Render("📁 Data Sweeper")
	subtitle := SubtitleStyle.Render("Transform data, see results: CSV & Excel conversion with cleaning & visualization")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle)
}

func (m Model) viewFailures() string {
	var s strings.Builder
	for _, f := range m.failures {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("✗ %s: %v", filepath.Base(f.Name), f.Err)))
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(m.viewHeader())
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a CSV or XLSX file to load"))
	s.WriteString("\n")
	s.WriteString(m.viewFailures())
	s.WriteString("\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	if len(m.sessions) > 0 {
		s.WriteString(HelpStyle.Render("tab: back to files • q: quit"))
	} else {
		s.WriteString(HelpStyle.Render("Press q to quit"))
	}

	return s.String()
}

func (m Model) viewLoading() string {
	return BoxStyle.Render(TitleStyle.Render("Loading...") + "\n\nReading and parsing files...")
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(m.sessions))
	for i, s := range m.sessions {
		if i == m.current {
			tabs = append(tabs, ActiveTabStyle.Render(s.Name()))
		} else {
			tabs = append(tabs, TabStyle.Render(s.Name()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewSession() string {
	s := m.sessions[m.current]
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewTabs())
	b.WriteString("\n")
	b.WriteString(m.viewFailures())
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("File Name: %s\n", s.Name()))
	b.WriteString(fmt.Sprintf("File Size: %.2f KB\n", s.SizeKB()))
	b.WriteString(fmt.Sprintf("Rows: %d\n\n", s.Table().NumRows()))

	b.WriteString(SectionStyle.Render("🔍 Preview"))
	b.WriteString("\n")
	if preview, err := s.Preview(); err != nil {
		b.WriteString(ErrorStyle.Render(err.Error()))
	} else {
		b.WriteString(renderPreview(preview))
	}
	b.WriteString("\n\n")

	b.WriteString(SectionStyle.Render("🧹 Data Cleaning"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s Clean data for %s\n", checkbox(s.ShowClean), s.Name()))
	if s.ShowClean {
		b.WriteString(UnselectedStyle.Render("  d: remove duplicates • f: fill missing values"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(SectionStyle.Render("Select Columns to Convert"))
	b.WriteString("\n")
	b.WriteString(m.viewColumns(s))
	b.WriteString("\n")

	b.WriteString(SectionStyle.Render("📊 Data Visualization"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s Show visualization for %s\n", checkbox(s.ShowChart), s.Name()))
	if s.ShowChart {
		if ch, err := s.Chart(); err != nil {
			b.WriteString(ErrorStyle.Render(err.Error()))
		} else {
			b.WriteString(renderChart(ch))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(SectionStyle.Render("🔰 Conversion Options"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Convert %s to: %s\n", s.Name(), m.viewTargets(s.Target)))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("✗ " + m.err.Error()))
	} else if s.Status != "" {
		b.WriteString("\n")
		b.WriteString(SuccessStyle.Render("✓ " + s.Status))
	}
	b.WriteString("\n\n")
	b.WriteString(SuccessStyle.Render(fmt.Sprintf("🎇 All files processed! (%d loaded, %d failed)", len(m.sessions), len(m.failures))))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))

	return BoxStyle.Render(b.String())
}

func (m Model) viewColumns(s *pipeline.Session) string {
	var b strings.Builder
	for i, name := range s.Columns() {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s %s", cursor, checkbox(s.IsSelected(name)), name)

		if m.cursor == i {
			line = SelectedStyle.Render(line)
		} else if s.IsSelected(name) {
			line = CheckedStyle.Render(line)
		} else {
			line = UnselectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewTargets(current types.Format) string {
	opts := make([]string, 0, len(types.Formats))
	for _, f := range types.Formats {
		if f == current {
			opts = append(opts, SelectedStyle.Render("(•) "+f.Label()))
		} else {
			opts = append(opts, UnselectedStyle.Render("( ) "+f.Label()))
		}
	}
	return strings.Join(opts, "  ")
}

func renderPreview(records [][]string) string {
	if len(records) == 0 || len(records[0]) == 0 {
		return UnselectedStyle.Render("No columns selected.")
	}
	t := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		Headers(records[0]...).
		Rows(records[1:]...)
	return t.Render()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

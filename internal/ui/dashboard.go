package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docq/internal/api"
)

// FileSnapshot is one tracked source file and the state of its downloads.
type FileSnapshot struct {
	Filename         string
	Status           api.Status
	DownloadsEnabled bool
}

// AnswerSnapshot is one tracked answer cell.
type AnswerSnapshot struct {
	Question string
	File     string
	Status   api.Status
	Ready    bool
}

// JobSnapshot is a point-in-time view of everything the dashboard shows.
// The fetch provider assembles it from the live watchers on every tick.
type JobSnapshot struct {
	JobID   string
	Name    string
	Status  api.Status
	Files   []FileSnapshot
	Answers []AnswerSnapshot
}

// Finished reports whether the whole job converged and every tracked
// answer reached a terminal state.
func (s JobSnapshot) Finished() bool {
	if !s.Status.Terminal() {
		return false
	}
	for _, a := range s.Answers {
		if !a.Status.Terminal() {
			return false
		}
	}
	return true
}

type watchTickMsg time.Time

type snapshotMsg JobSnapshot

type WatchModel struct {
	fetch func() JobSnapshot

	snapshot JobSnapshot
	loaded   bool

	filesViewport   viewport.Model
	answersViewport viewport.Model

	width  int
	height int

	lastUpdate time.Time
}

// NewWatchModel builds the live dashboard. fetch is called once per tick
// and must be cheap: it reads watcher state, it does not hit the network.
func NewWatchModel(fetch func() JobSnapshot) WatchModel {
	m := WatchModel{fetch: fetch}

	m.filesViewport = viewport.New(0, 0)
	m.filesViewport.Style = lipgloss.NewStyle().Padding(0, 1)

	m.answersViewport = viewport.New(0, 0)
	m.answersViewport.Style = lipgloss.NewStyle().Padding(0, 1)

	return m
}

func (m WatchModel) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		footerHeight := 2
		availableHeight := m.height - headerHeight - footerHeight
		halfWidth := (m.width / 2) - 4 // border adjustment

		m.filesViewport.Width = halfWidth
		m.filesViewport.Height = availableHeight

		m.answersViewport.Width = halfWidth
		m.answersViewport.Height = availableHeight

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case watchTickMsg:
		return m, m.refreshCmd()

	case snapshotMsg:
		m.snapshot = JobSnapshot(msg)
		m.loaded = true
		m.lastUpdate = time.Now()

		m.filesViewport.SetContent(renderFiles(m.snapshot.Files))
		m.answersViewport.SetContent(renderAnswers(m.snapshot.Answers))

		return m, tea.Tick(1*time.Second, func(t time.Time) tea.Msg {
			return watchTickMsg(t)
		})
	}

	m.filesViewport, cmd = m.filesViewport.Update(msg)
	cmds = append(cmds, cmd)

	m.answersViewport, cmd = m.answersViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m WatchModel) View() string {
	if !m.loaded {
		return "Loading job data..."
	}

	header := m.renderHeader()

	filesPane := paneStyle.
		Width(m.filesViewport.Width).
		Height(m.filesViewport.Height).
		Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Background(lipgloss.Color("#0000AA")).Render("Files"),
				m.filesViewport.View(),
			),
		)

	answersPane := paneStyle.
		Width(m.answersViewport.Width).
		Height(m.answersViewport.Height).
		Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Background(lipgloss.Color("#AA00AA")).Render("Answers"),
				m.answersViewport.View(),
			),
		)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, filesPane, answersPane)

	footer := subtleStyle.Render(fmt.Sprintf("Last updated: %s | Press 'q' to quit", m.lastUpdate.Format("15:04:05")))

	return lipgloss.JoinVertical(lipgloss.Left, header, panes, footer)
}

func (m WatchModel) renderHeader() string {
	s := m.snapshot

	name := s.Name
	if name == "" {
		name = "(unnamed)"
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(fmt.Sprintf("JOB: %s", titleStyle.Render(name))),
		headerStyle.Render(fmt.Sprintf("ID: %s", s.JobID)),
	)

	ready := 0
	for _, a := range s.Answers {
		if a.Ready {
			ready++
		}
	}
	right := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(fmt.Sprintf("STATUS: %s", StatusBadge(s.Status))),
		headerStyle.Render(fmt.Sprintf("ANSWERS: %d/%d ready", ready, len(s.Answers))),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.width/2).Render(left),
		lipgloss.NewStyle().Width(m.width/2).Align(lipgloss.Right).Render(right),
	)
}

func (m WatchModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		if m.fetch == nil {
			return snapshotMsg{}
		}
		return snapshotMsg(m.fetch())
	}
}

func renderFiles(files []FileSnapshot) string {
	if len(files) == 0 {
		return subtleStyle.Render("No files in this job.")
	}
	var b []byte
	for _, f := range files {
		line := fmt.Sprintf("%s  %s  downloads: %s\n",
			StatusBadge(f.Status), truncate(f.Filename, 48), Gate(f.DownloadsEnabled))
		b = append(b, line...)
	}
	return string(b)
}

func renderAnswers(answers []AnswerSnapshot) string {
	if len(answers) == 0 {
		return subtleStyle.Render("No answers tracked yet.")
	}
	var b []byte
	for _, a := range answers {
		line := fmt.Sprintf("%s  %s\n    %s\n",
			StatusBadge(a.Status), truncate(a.Question, 56),
			subtleStyle.Render(truncate(a.File, 56)))
		b = append(b, line...)
	}
	return string(b)
}

// truncate shortens to n runes, never splitting a multibyte character.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

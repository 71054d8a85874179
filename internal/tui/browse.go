package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jobradar/internal/model"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	descBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

type browseModel struct {
	jobs     []model.JobListing
	cursor   int
	width    int
	height   int
	ready    bool
	listView viewport.Model

	view           viewState
	detailViewport viewport.Model

	picked *model.JobListing
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "o":
		if len(m.jobs) > 0 {
			openURL(m.jobs[m.cursor].URL)
		}
		return m, nil
	case "a":
		if len(m.jobs) > 0 {
			job := m.jobs[m.cursor]
			m.picked = &job
			return m, tea.Quit
		}
		return m, nil
	case "enter":
		if len(m.jobs) == 0 {
			return m, nil
		}
		m.view = viewDetail
		m.detailViewport = viewport.New(m.width-4, m.height-4)
		m.detailViewport.SetContent(m.renderDetail())
		return m, nil
	}

	var cmd tea.Cmd
	m.listView, cmd = m.listView.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		openURL(m.jobs[m.cursor].URL)
		return m, nil
	case "a":
		job := m.jobs[m.cursor]
		m.picked = &job
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *browseModel) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.jobs) {
		return
	}
	m.cursor = next
	m.listView.SetContent(m.renderJobs())
	m.ensureCursorVisible()
}

func (m *browseModel) ensureCursorVisible() {
	top := m.cursor * jobItemHeight
	bottom := top + jobItemHeight - 1

	if top < m.listView.YOffset {
		m.listView.SetYOffset(top)
	} else if bottom >= m.listView.YOffset+m.listView.Height {
		m.listView.SetYOffset(bottom - m.listView.Height + 1)
	}
}

func (m *browseModel) recalcLayout() {
	w := max(m.width-2, 20)
	h := max(m.height-4, 5)

	if !m.ready {
		m.listView = viewport.New(w, h)
		m.ready = true
	} else {
		m.listView.Width = w
		m.listView.Height = h
	}
	m.listView.SetContent(m.renderJobs())
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		title := detailTitleStyle.Render("Job Details")
		content := borderStyle.Width(m.width - 2).Render(m.detailViewport.View())
		status := statusBarStyle.Width(m.width).Render(" o open URL  a mark applied  esc back  ↑/↓ scroll  q quit")
		return title + "\n" + content + "\n" + status
	}

	header := headerStyle.Render(fmt.Sprintf(" Ranked Feed (%d jobs)", len(m.jobs)))
	body := borderStyle.Width(m.listView.Width).Render(m.listView.View())
	status := statusBarStyle.Width(m.width).Render(" ↑/↓ cursor  Enter detail  o open URL  a mark applied  q quit")
	return header + "\n" + body + "\n" + status
}

func (m browseModel) renderJobs() string {
	if len(m.jobs) == 0 {
		return "  (feed is empty — run `jobradar run` first)"
	}

	var b strings.Builder
	for i, j := range m.jobs {
		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if i == m.cursor {
			titleSt = selectedTitleStyle
			subtitleSt = selectedSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(j.Title))
		b.WriteByte('\n')

		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s · score %d", j.Company, j.Location, j.Score)))
		b.WriteByte('\n')

		if i < len(m.jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m browseModel) renderDetail() string {
	j := m.jobs[m.cursor]
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	addField("Title", j.Title)
	addField("Company", j.Company)
	addField("Location", j.Location)
	addField("Job ID", j.ID)
	addField("Source", j.Source)
	addField("Posted", j.DatePosted)
	addField("Score", fmt.Sprintf("%d", j.Score))
	addField("Matched", j.MatchReason)
	addField("Status", j.Status)
	if j.Applied {
		addField("Applied At", j.AppliedAt)
	}

	b.WriteByte('\n')
	addField("URL", j.URL)

	if j.Description != "" {
		b.WriteByte('\n')
		b.WriteString(descBodyStyle.Render(wordWrap(j.Description, max(m.width-8, 20))))
		b.WriteByte('\n')
	}

	return b.String()
}

// Browse launches the interactive feed viewer. It returns the job the user
// chose to mark applied, or nil if they just quit.
func Browse(jobs []model.JobListing) (*model.JobListing, error) {
	m := browseModel{jobs: jobs}

	p := tea.NewProgram(m, tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return nil, err
	}

	final := result.(browseModel)
	return final.picked, nil
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

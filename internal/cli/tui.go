package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tagscout/pkg/crawl"
	"github.com/matzehuels/tagscout/pkg/ecosystem"
)

// =============================================================================
// Crawl Messages
// =============================================================================

type (
	packageStartMsg struct {
		index   int
		attempt int
	}
	packageRetryMsg struct {
		index   int
		attempt int
		wait    time.Duration
		err     error
	}
	packageDoneMsg struct {
		index    int
		version  string
		reason   string
		attempts int
	}
	crawlDoneMsg struct{}
	tickMsg      struct{}
)

// progressHooks forwards crawl events to a running bubbletea program.
type progressHooks struct {
	send func(tea.Msg)
}

func (h progressHooks) OnStart(_ context.Context, index int, _ string, attempt int) {
	h.send(packageStartMsg{index: index, attempt: attempt})
}

func (h progressHooks) OnRetry(_ context.Context, index int, _ string, attempt int, wait time.Duration, err error) {
	h.send(packageRetryMsg{index: index, attempt: attempt, wait: wait, err: err})
}

func (h progressHooks) OnDone(_ context.Context, index int, _ string, version, reason string, attempts int) {
	h.send(packageDoneMsg{index: index, version: version, reason: reason, attempts: attempts})
}

// =============================================================================
// CrawlModel - Live crawl progress
// =============================================================================

// packageRow is the progress of one package.
type packageRow struct {
	name    string
	kind    ecosystem.Kind
	state   crawl.State
	attempt int
	version string
	detail  string
}

// CrawlModel is the bubbletea model showing per-package crawl progress.
type CrawlModel struct {
	Rows     []packageRow
	Done     int
	Finished bool
	Aborted  bool
	Height   int
	Offset   int
	frame    int
}

// NewCrawlModel creates a progress model with every package pending.
func NewCrawlModel(ds []ecosystem.Descriptor) CrawlModel {
	rows := make([]packageRow, len(ds))
	for i, d := range ds {
		rows[i] = packageRow{name: d.Name, kind: d.Kind, state: crawl.Pending}
	}
	return CrawlModel{Rows: rows, Height: 20}
}

func (m CrawlModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m CrawlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.Finished {
				m.Aborted = true
			}
			return m, tea.Quit
		case "up", "k":
			if m.Offset > 0 {
				m.Offset--
			}
		case "down", "j":
			if m.Offset < len(m.Rows)-m.Height {
				m.Offset++
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	case tickMsg:
		if m.Finished {
			return m, nil
		}
		m.frame++
		return m, tick()
	case packageStartMsg:
		if r := m.row(msg.index); r != nil {
			r.state = crawl.Attempting
			r.attempt = msg.attempt
			r.detail = ""
		}
	case packageRetryMsg:
		if r := m.row(msg.index); r != nil {
			r.state = crawl.Retrying
			r.attempt = msg.attempt
			r.detail = fmt.Sprintf("retry in %s: %v", msg.wait, msg.err)
		}
	case packageDoneMsg:
		if r := m.row(msg.index); r != nil {
			if r.state.Done() {
				break
			}
			r.attempt = msg.attempts
			r.version = msg.version
			r.detail = msg.reason
			r.state = crawl.Succeeded
			if msg.version == "" {
				r.state = crawl.Failed
			}
			m.Done++
		}
	case crawlDoneMsg:
		m.Finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *CrawlModel) row(i int) *packageRow {
	if i < 0 || i >= len(m.Rows) {
		return nil
	}
	return &m.Rows[i]
}

func (m CrawlModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Crawling %d packages", len(m.Rows))
	if m.Finished {
		title = fmt.Sprintf("Crawled %d packages", len(m.Rows))
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ scroll  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		attempt := ""
		if r.attempt > 0 {
			attempt = strconv.Itoa(r.attempt)
		}
		rows = append(rows, []string{m.icon(r.state), r.name, string(r.kind), r.state.String(), attempt, r.version, r.detail})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("", "Package", "Kind", "State", "Try", "Version", "Detail").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			r := m.Rows[m.Offset+row]
			switch {
			case col == 2 || col == 4:
				return StyleDim
			case r.state == crawl.Succeeded && (col == 0 || col == 5):
				return StyleSuccess
			case r.state == crawl.Failed && (col == 0 || col == 6):
				return StyleError
			case r.state == crawl.Retrying && (col == 0 || col == 3 || col == 6):
				return StyleWarning
			case r.state == crawl.Attempting && col == 0:
				return styleIconSpinner
			case r.state == crawl.Pending:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Done, len(m.Rows))))
	b.WriteString("\n")

	return b.String()
}

func (m CrawlModel) icon(s crawl.State) string {
	switch s {
	case crawl.Attempting, crawl.Retrying:
		return spinnerFrames[m.frame%len(spinnerFrames)]
	case crawl.Succeeded:
		return iconSuccess
	case crawl.Failed:
		return iconError
	}
	return iconPending
}

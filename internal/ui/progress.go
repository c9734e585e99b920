// Package ui renders lowering progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	bp "hirlower/internal/buildpipeline"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	idleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	busyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// доля работы, выполненная к началу стадии
var stageWeight = map[bp.Stage]float64{
	bp.StageRead:     0.05,
	bp.StageDecode:   0.15,
	bp.StageCache:    0.25,
	bp.StageLower:    0.5,
	bp.StageValidate: 0.8,
	bp.StageDump:     0.9,
}

var stageVerb = map[bp.Stage]string{
	bp.StageRead:     "reading",
	bp.StageDecode:   "decoding",
	bp.StageCache:    "cache",
	bp.StageLower:    "lowering",
	bp.StageValidate: "validating",
	bp.StageDump:     "dumping",
}

type packRow struct {
	path    string
	stage   bp.Stage
	status  bp.Status
	elapsed time.Duration
	err     error
}

func (r *packRow) finished() bool {
	return r.status == bp.StatusDone || r.status == bp.StatusError
}

func (r *packRow) label() string {
	if r.status == bp.StatusWorking {
		return stageVerb[r.stage]
	}
	return r.status.String()
}

func (r *packRow) style() lipgloss.Style {
	switch r.status {
	case bp.StatusDone:
		return okStyle
	case bp.StatusError:
		return failStyle
	case bp.StatusQueued:
		return idleStyle
	}
	return busyStyle
}

type progressModel struct {
	title   string
	events  <-chan bp.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []packRow
	byPath  map[string]int
	overall string // stage of the run as a whole
	width   int
	closed  bool
}

type eventMsg bp.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model with one row per pack. It
// quits when events is closed.
func NewProgressModel(title string, packs []string, events <-chan bp.Event) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(busyStyle))
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(76))
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]packRow, len(packs)),
		byPath:  make(map[string]int, len(packs)),
		width:   80,
	}
	for i, p := range packs {
		m.rows[i] = packRow{path: p, status: bp.StatusQueued}
		m.byPath[p] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next waits for one pipeline event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(bp.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case spinner.TickMsg:
		if !m.closed {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// applyEvent folds ev into the rows. A finished row ignores later events.
func (m *progressModel) applyEvent(ev bp.Event) tea.Cmd {
	if ev.File == "" {
		if ev.Status == bp.StatusWorking {
			m.overall = stageVerb[ev.Stage]
		}
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok || m.rows[i].finished() {
		return nil
	}
	row := &m.rows[i]
	row.stage, row.status = ev.Stage, ev.Status
	if row.finished() {
		row.elapsed, row.err = ev.Elapsed, ev.Err
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) counts() (finished, failed int) {
	for i := range m.rows {
		if m.rows[i].finished() {
			finished++
		}
		if m.rows[i].status == bp.StatusError {
			failed++
		}
	}
	return finished, failed
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for i := range m.rows {
		switch r := &m.rows[i]; {
		case r.finished():
			sum++
		case r.status == bp.StatusWorking:
			sum += stageWeight[r.stage]
		}
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder

	head := m.title
	if m.overall != "" {
		head += " (" + m.overall + ")"
	}
	if m.closed {
		head = "done: " + head
	} else {
		head = m.spinner.View() + " " + head
	}
	b.WriteString(titleStyle.Render(head) + "\n\n")

	const statusCol, timeCol = 11, 9
	nameCol := max(m.width-statusCol-timeCol-6, 20)
	for i := range m.rows {
		r := &m.rows[i]
		status := r.style().Render(fmt.Sprintf("%*s", statusCol, r.label()))
		elapsed := ""
		if r.elapsed > 0 {
			elapsed = r.elapsed.Round(100 * time.Microsecond).String()
		}
		fmt.Fprintf(&b, "  %s %s %s\n", status, runewidth.FillRight(truncate(r.path, nameCol), nameCol), elapsed)
	}

	finished, failed := m.counts()
	fmt.Fprintf(&b, "\n  %d/%d packs", finished, len(m.rows))
	if failed > 0 {
		b.WriteString(failStyle.Render(fmt.Sprintf(", %d failed", failed)))
	}
	b.WriteByte('\n')
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// truncate cuts value to width display cells, marking the cut with "..."
// when there is room for it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}

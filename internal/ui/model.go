package ui

import (
	"context"
	"strings"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"vidfit/internal/model"
	"vidfit/internal/pipeline"
	"vidfit/internal/progress"
)

const (
	maxLogLines = 3
	maxBarWidth = 40
)

// Model is the bubbletea model for a single encode.
type Model struct {
	cancel context.CancelFunc

	req     model.EncodingRequest
	stage   progress.Stage
	status  string
	percent float64 // -1 means unknown
	bytes   int64
	speed   string
	logs    []string

	done   bool
	result pipeline.Result
	err    error

	spinner spinner.Model
	bar     bubblesprogress.Model
	styles  Styles
	width   int

	events <-chan tea.Msg
	job    *jobOutcome
}

func newModel(req model.EncodingRequest, cancel context.CancelFunc, events <-chan tea.Msg, job *jobOutcome) Model {
	sty := defaultStyles()
	sp := spinner.New()
	sp.Style = sty.Spinner
	return Model{
		cancel:  cancel,
		req:     req,
		stage:   progress.StageProbing,
		status:  "Starting",
		percent: -1,
		spinner: sp,
		bar: bubblesprogress.New(
			bubblesprogress.WithDefaultGradient(),
			bubblesprogress.WithWidth(maxBarWidth),
		),
		styles: sty,
		events: events,
		job:    job,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(maxBarWidth, max(10, msg.Width-16))
		return m, nil

	case jobUpdateMsg:
		u := msg.U
		m.stage = u.Stage
		m.percent = u.Percent
		if u.Message != "" {
			m.status = u.Message
		}
		if u.Bytes != nil {
			m.bytes = *u.Bytes
		}
		if u.Speed != nil {
			m.speed = *u.Speed
		}
		return m, m.listenCmd()

	case jobLogMsg:
		line := strings.TrimSpace(msg.L.Line)
		if line != "" {
			m.logs = append(m.logs, line)
			if len(m.logs) > maxLogLines {
				m.logs = m.logs[len(m.logs)-maxLogLines:]
			}
		}
		return m, m.listenCmd()

	case jobResultMsg:
		if msg.R.Err != nil {
			m.stage = progress.StageError
			m.status = msg.R.Err.Error()
			m.percent = -1
		} else {
			m.stage = progress.StageCompleted
			m.percent = 100
			m.bytes = msg.R.Bytes
		}
		return m, m.listenCmd()

	case jobDoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		if msg.Err != nil {
			m.stage = progress.StageError
			m.status = msg.Err.Error()
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewHeader() + "\n\n" + m.viewJob() + "\n"
}

// listenCmd waits for the next reporter event or the end of the job.
func (m Model) listenCmd() tea.Cmd {
	events, job := m.events, m.job
	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-job.done:
			return job.msg()
		}
	}
}

package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"vidfit/internal/progress"
)

// teaReporter forwards pipeline events into the program's event channel.
// Progress ticks and log lines are dropped when the channel is full; stage
// changes and results wait for room unless ctx is done.
type teaReporter struct {
	ctx context.Context
	ch  chan<- tea.Msg
}

func (r teaReporter) Update(u progress.Update) {
	if u.Stage == progress.StageEncoding && u.Percent > 0 {
		r.trySend(jobUpdateMsg{U: u})
		return
	}
	r.send(jobUpdateMsg{U: u})
}

func (r teaReporter) Log(l progress.Log) {
	r.trySend(jobLogMsg{L: l})
}

func (r teaReporter) Result(res progress.Result) {
	r.send(jobResultMsg{R: res})
}

func (r teaReporter) send(msg tea.Msg) {
	select {
	case r.ch <- msg:
	case <-r.ctx.Done():
	}
}

func (r teaReporter) trySend(msg tea.Msg) {
	select {
	case r.ch <- msg:
	default:
	}
}

package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"vidfit/internal/model"
	"vidfit/internal/pipeline"
	"vidfit/internal/progress"
)

// ErrAborted is returned when the user quits before the encode finishes.
var ErrAborted = errors.New("aborted by user")

// Run shows a progress view while newService(reporter).Run encodes req.
// It returns once the job has finished, even if the view was closed early.
func Run(ctx context.Context, req model.EncodingRequest, newService func(progress.Reporter) *pipeline.Service) (pipeline.Result, error) {
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tea.Msg, 256)
	job := newJobOutcome()
	svc := newService(teaReporter{ctx: jobCtx, ch: events})

	go func() {
		res, err := svc.Run(jobCtx, req)
		job.finish(res, err)
	}()

	m := newModel(req, cancel, events, job)
	final, progErr := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if fm, ok := final.(Model); ok && fm.done {
		return fm.result, fm.err
	}

	// The view closed first: stop the job and wait for it to unwind.
	cancel()
	<-job.done
	done := job.msg()
	switch {
	case done.Err == nil:
		return done.Result, nil
	case progErr != nil && ctx.Err() == nil:
		return done.Result, fmt.Errorf("progress view: %w", progErr)
	case ctx.Err() == nil:
		return done.Result, fmt.Errorf("%w: %w", ErrAborted, done.Err)
	}
	return done.Result, done.Err
}

package ui

import (
	"vidfit/internal/pipeline"
	"vidfit/internal/progress"
)

type jobUpdateMsg struct {
	U progress.Update
}

type jobLogMsg struct {
	L progress.Log
}

type jobResultMsg struct {
	R progress.Result
}

// jobDoneMsg carries the return values of Service.Run.
type jobDoneMsg struct {
	Result pipeline.Result
	Err    error
}

// jobOutcome is filled in by the job goroutine before done is closed, so any
// number of readers can observe completion.
type jobOutcome struct {
	done   chan struct{}
	result pipeline.Result
	err    error
}

func newJobOutcome() *jobOutcome {
	return &jobOutcome{done: make(chan struct{})}
}

func (o *jobOutcome) finish(res pipeline.Result, err error) {
	o.result, o.err = res, err
	close(o.done)
}

func (o *jobOutcome) msg() jobDoneMsg {
	return jobDoneMsg{Result: o.result, Err: o.err}
}

package driver

import "time"

// Stage is a phase of the apply pipeline.
type Stage string

const (
	StageParse   Stage = "parse"
	StageRewrite Stage = "rewrite"
	StageWrite   Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file, or for the whole batch when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

func (o Options) emit(ev Event) {
	if o.Progress != nil {
		o.Progress.OnEvent(ev)
	}
}

// outcome is the final event of a file in stage.
func outcome(path string, stage Stage, err error, since time.Time) Event {
	ev := Event{File: path, Stage: stage, Status: StatusDone, Elapsed: time.Since(since)}
	if err != nil {
		ev.Status = StatusError
		ev.Err = err
	}
	return ev
}

package orchestrator

import (
	"github.com/veedubyou/untracker/src/extractor/internal/engine"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
)

type JobState int

const (
	Pending JobState = iota
	Isolating
	Rendering
	Encoding
	Done
	Failed
)

func (s JobState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Isolating:
		return "isolating"
	case Rendering:
		return "rendering"
	case Encoding:
		return "encoding"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s JobState) Terminal() bool {
	return s == Done || s == Failed
}

var nextStates = map[JobState]JobState{
	Pending:   Isolating,
	Isolating: Rendering,
	Rendering: Encoding,
	Encoding:  Done,
}

// Job is the lifecycle of one stem. Only the goroutine running the job
// touches it until the run is over.
type Job struct {
	Target engine.VoiceTarget
	Path   string
	State  JobState
	Err    error

	artifact Artifact
}

func newJob(target engine.VoiceTarget, path string) *Job {
	return &Job{
		Target: target,
		Path:   path,
		State:  Pending,
	}
}

func (j *Job) advance(to JobState) error {
	expected, ok := nextStates[j.State]
	if !ok || expected != to {
		return cerr.Fields(cerr.F{
			"from":  j.State,
			"to":    to,
			"index": j.Target.Index,
		}).Error("Illegal job state transition")
	}

	j.State = to
	return nil
}

func (j *Job) fail(err error) {
	j.State = Failed
	j.Err = err
}

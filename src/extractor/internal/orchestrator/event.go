package orchestrator

import (
	"time"

	"github.com/veedubyou/untracker/src/extractor/internal/engine"
	"github.com/veedubyou/untracker/src/extractor/internal/encoder"
)

// Event is one job state transition. Artifact is only set on Done and Err
// only on Failed.
type Event struct {
	RunID    string
	Target   engine.VoiceTarget
	State    JobState
	Path     string
	Artifact Artifact
	Err      error
	At       time.Time
}

type Artifact struct {
	RunID           string             `json:"-"`
	Target          engine.VoiceTarget `json:"-"`
	Kind            string             `json:"kind"`
	Index           int                `json:"index"`
	Path            string             `json:"path"`
	Format          encoder.Format     `json:"format"`
	SampleRate      int                `json:"sample_rate"`
	Channels        int                `json:"channels"`
	Frames          int                `json:"frames"`
	DurationSeconds float64            `json:"duration_seconds"`
}

func (o Orchestrator) emit(events chan<- Event, runID string, job *Job) {
	if events == nil {
		return
	}

	event := Event{
		RunID:  runID,
		Target: job.Target,
		State:  job.State,
		Path:   job.Path,
		Err:    job.Err,
		At:     time.Now(),
	}

	if job.State == Done {
		event.Artifact = job.artifact
	}

	events <- event
}

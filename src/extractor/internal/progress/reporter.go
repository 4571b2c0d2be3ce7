package progress

import (
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/veedubyou/untracker/src/extractor/internal/orchestrator"
)

// Tally is what the reporter saw by the time the event channel closed.
type Tally struct {
	Done   int
	Failed int
}

// Reporter is the single consumer of a run's events. It turns them into the
// human progress lines on out.
type Reporter struct {
	out io.Writer
}

func NewReporter(out io.Writer) Reporter {
	return Reporter{out: out}
}

// Consume reads events until the channel is closed.
func (r Reporter) Consume(events <-chan orchestrator.Event) Tally {
	tally := Tally{}

	for event := range events {
		logger := log.WithFields(log.Fields{
			"run_id": event.RunID,
			"kind":   event.Target.Kind,
			"index":  event.Target.Index,
			"state":  event.State,
		})
		logger.Debug("Job state changed")

		switch event.State {
		case orchestrator.Isolating:
			r.printf("  Rendering %s %d...\n", event.Target.Kind.Label(), event.Target.Index+1)
		case orchestrator.Done:
			tally.Done++
			r.printf("  Wrote %s\n", event.Artifact.Path)
		case orchestrator.Failed:
			tally.Failed++
			r.printf("  Failed %s %d: %v\n", event.Target.Kind.Label(), event.Target.Index+1, event.Err)
		}
	}

	return tally
}

// Summary prints the completion line for a run.
func (r Reporter) Summary(tally Tally, outputDir string) {
	if tally.Failed == 0 {
		r.printf("Done: %d stems written to %s\n", tally.Done, outputDir)
		return
	}

	r.printf("Failed: %d of %d stems could not be extracted, %d written to %s\n",
		tally.Failed, tally.Done+tally.Failed, tally.Done, outputDir)
}

func (r Reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

package orchestrator

import (
	"context"
	"runtime"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/veedubyou/untracker/src/extractor/internal/encoder"
	"github.com/veedubyou/untracker/src/extractor/internal/engine"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/storagepath"
	"github.com/veedubyou/untracker/src/extractor/internal/stem"
	"golang.org/x/sync/errgroup"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate . ArtifactWriter
type ArtifactWriter interface {
	Write(ctx context.Context, path string, pcm []int16, opts encoder.ExportOptions) error
}

// Sink receives every artifact once it is on disk.
//
//counterfeiter:generate . Sink
type Sink interface {
	Accept(ctx context.Context, artifact Artifact) error
}

var _ ArtifactWriter = encoder.FileWriter{}

// Policy decides what happens to the rest of a run when a stem fails.
type Policy int

const (
	// FailFast cancels the remaining stems on the first failure.
	FailFast Policy = iota
	// CollectAll runs every stem and reports all failures together.
	CollectAll
)

type Config struct {
	Parallel bool
	Workers  int
	Policy   Policy
	Paths    storagepath.Generator
}

type Failure struct {
	Target engine.VoiceTarget
	Path   string
	Err    error
}

type Result struct {
	RunID     string
	Artifacts []Artifact
	Failures  []Failure
}

type Orchestrator struct {
	loader engine.Loader
	writer ArtifactWriter
	sinks  []Sink
	config Config
}

func NewOrchestrator(loader engine.Loader, writer ArtifactWriter, config Config, sinks ...Sink) Orchestrator {
	return Orchestrator{
		loader: loader,
		writer: writer,
		sinks:  sinks,
		config: config,
	}
}

func (o Orchestrator) Workers() int {
	if o.config.Workers > 0 {
		return o.config.Workers
	}

	return runtime.NumCPU()
}

// Run extracts one stem per voice in summary. Every state change is sent on
// events, which must have a consumer for the duration of the call; a nil
// channel disables events. Run does not close events.
func (o Orchestrator) Run(ctx context.Context, data []byte, summary stem.Summary, opts encoder.ExportOptions, events chan<- Event) (Result, error) {
	runID := uuid.NewString()
	renderOpts := opts.ForRender()

	errctx := cerr.Fields(cerr.F{
		"run_id":      runID,
		"kind":        summary.Kind,
		"voice_count": summary.VoiceCount,
	})

	if err := renderOpts.Validate(); err != nil {
		return Result{RunID: runID}, errctx.Wrap(err).Error("Export options are not valid")
	}

	if renderOpts.SampleRate != opts.SampleRate {
		log.WithFields(log.Fields{
			"requested": opts.SampleRate,
			"rendering": renderOpts.SampleRate,
		}).Info("Sample rate corrected for opus")
	}

	jobs := make([]*Job, summary.VoiceCount)
	for i, target := range summary.Targets() {
		path := o.config.Paths.GeneratePath(target.Kind.Label(), target.Index, renderOpts.Format.Extension())
		jobs[i] = newJob(target, path)
		o.emit(events, runID, jobs[i])
	}

	isolator := stem.NewIsolator(o.loader, data, summary)
	execute := func(ctx context.Context, job *Job) error {
		err := o.runJob(ctx, runID, isolator, job, renderOpts, events)
		if err != nil {
			job.fail(err)
			o.emit(events, runID, job)
		}
		return err
	}

	var err error
	if o.config.Parallel {
		err = o.runParallel(ctx, jobs, execute)
	} else {
		err = o.runSequential(ctx, jobs, execute)
	}

	result := collectResult(runID, jobs)
	if err != nil {
		return result, errctx.Field("failed", len(result.Failures)).
			Wrap(err).Error("Stem extraction failed")
	}

	return result, nil
}

func (o Orchestrator) runSequential(ctx context.Context, jobs []*Job, execute func(context.Context, *Job) error) error {
	var combined error
	for _, job := range jobs {
		err := execute(ctx, job)
		if err == nil {
			continue
		}

		if o.config.Policy == FailFast {
			return err
		}

		combined = errors.CombineErrors(combined, err)
	}

	return combined
}

func (o Orchestrator) runParallel(ctx context.Context, jobs []*Job, execute func(context.Context, *Job) error) error {
	if o.config.Policy == FailFast {
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(o.Workers())

		for _, job := range jobs {
			job := job
			group.Go(func() error {
				return execute(groupCtx, job)
			})
		}

		return group.Wait()
	}

	group := errgroup.Group{}
	group.SetLimit(o.Workers())

	for _, job := range jobs {
		job := job
		group.Go(func() error {
			// failures are collected from the jobs once every stem has run
			_ = execute(ctx, job)
			return nil
		})
	}

	_ = group.Wait()

	var combined error
	for _, job := range jobs {
		if job.Err != nil {
			combined = errors.CombineErrors(combined, job.Err)
		}
	}

	return combined
}

func (o Orchestrator) runJob(ctx context.Context, runID string, isolator stem.Isolator, job *Job, opts encoder.ExportOptions, events chan<- Event) error {
	errctx := cerr.Fields(cerr.F{
		"kind":  job.Target.Kind,
		"index": job.Target.Index,
		"path":  job.Path,
	})

	logger := log.WithFields(log.Fields{
		"run_id": runID,
		"kind":   job.Target.Kind,
		"index":  job.Target.Index,
	})

	if err := job.advance(Isolating); err != nil {
		return errctx.Wrap(err).Error("Job cannot start")
	}
	o.emit(events, runID, job)

	module, err := isolator.Isolate(ctx, job.Target)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to isolate voice")
	}

	if err := job.advance(Rendering); err != nil {
		_ = module.Close()
		return errctx.Wrap(err).Error("Job cannot render")
	}
	o.emit(events, runID, job)

	pcm, err := renderAndClose(ctx, module, opts)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to render stem")
	}

	if err := job.advance(Encoding); err != nil {
		return errctx.Wrap(err).Error("Job cannot encode")
	}
	o.emit(events, runID, job)

	if err := o.writer.Write(ctx, job.Path, pcm, opts); err != nil {
		return errctx.Wrap(err).Error("Failed to write stem")
	}

	frames := stem.Frames(pcm, opts.Channels)
	job.artifact = Artifact{
		RunID:           runID,
		Target:          job.Target,
		Kind:            job.Target.Kind.Label(),
		Index:           job.Target.Index + 1,
		Path:            job.Path,
		Format:          opts.Format,
		SampleRate:      opts.SampleRate,
		Channels:        opts.Channels,
		Frames:          frames,
		DurationSeconds: float64(frames) / float64(opts.SampleRate),
	}

	for _, sink := range o.sinks {
		if err := sink.Accept(ctx, job.artifact); err != nil {
			return errctx.Wrap(err).Error("Failed to hand stem to sink")
		}
	}

	if err := job.advance(Done); err != nil {
		return errctx.Wrap(err).Error("Job cannot finish")
	}
	o.emit(events, runID, job)

	logger.WithField("frames", frames).Info("Stem written")
	return nil
}

// renderAndClose releases the module as soon as its PCM is captured.
func renderAndClose(ctx context.Context, module engine.Module, opts encoder.ExportOptions) ([]int16, error) {
	defer module.Close()

	return stem.Render(ctx, module, stem.RenderParams{
		SampleRate: opts.SampleRate,
		Channels:   opts.Channels,
		Config: engine.RenderConfig{
			InterpolationFilterLength: opts.Resample.FilterLength(),
			StereoSeparationPercent:   opts.StereoSeparation,
		},
	})
}

func collectResult(runID string, jobs []*Job) Result {
	result := Result{RunID: runID}

	for _, job := range jobs {
		switch job.State {
		case Done:
			result.Artifacts = append(result.Artifacts, job.artifact)
		case Failed:
			result.Failures = append(result.Failures, Failure{
				Target: job.Target,
				Path:   job.Path,
				Err:    job.Err,
			})
		}
	}

	return result
}

package application

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/untracker/src/extractor/internal/encoder"
	"github.com/veedubyou/untracker/src/extractor/internal/engine"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/storagepath"
	"github.com/veedubyou/untracker/src/extractor/internal/manifest"
	"github.com/veedubyou/untracker/src/extractor/internal/orchestrator"
	"github.com/veedubyou/untracker/src/extractor/internal/progress"
	"github.com/veedubyou/untracker/src/extractor/internal/sink/gcs"
	"github.com/veedubyou/untracker/src/extractor/internal/sink/publish"
	"github.com/veedubyou/untracker/src/extractor/internal/stem"
	"github.com/veedubyou/untracker/src/shared/config"
	"github.com/veedubyou/untracker/src/shared/lib/rabbitmq"
)

const eventBufferSize = 64

type Config struct {
	InputPath string
	OutputDir string
	Options   encoder.ExportOptions

	Parallel  bool
	Workers   int
	KeepGoing bool
	Manifest  bool

	Loader engine.Loader
	// Writer defaults to an encoder.FileWriter.
	Writer orchestrator.ArtifactWriter

	// Optional sinks, nil disables them.
	RabbitMQ     *config.RabbitMQ
	CloudStorage config.CloudStorage

	Stdout io.Writer
}

type App struct {
	config  Config
	sinks   []orchestrator.Sink
	closers []io.Closer
}

// NewApp validates the export options before anything touches the disk or
// the network, then connects the configured sinks.
func NewApp(ctx context.Context, appConfig Config) (App, error) {
	if appConfig.Loader == nil {
		return App{}, cerr.Error("No module loader configured")
	}

	if err := appConfig.Options.ForRender().Validate(); err != nil {
		return App{}, cerr.Wrap(err).Error("Invalid export options")
	}

	if appConfig.Writer == nil {
		appConfig.Writer = encoder.NewFileWriter()
	}

	if appConfig.Stdout == nil {
		appConfig.Stdout = io.Discard
	}

	app := App{config: appConfig}

	if appConfig.RabbitMQ != nil {
		publisher, err := rabbitmq.NewQueuePublisher(appConfig.RabbitMQ.URL, appConfig.RabbitMQ.QueueName)
		if err != nil {
			return App{}, cerr.Field("queue", appConfig.RabbitMQ.QueueName).
				Wrap(err).Error("Failed to create event publisher")
		}

		app.sinks = append(app.sinks, publish.NewSink(publisher))
		app.closers = append(app.closers, publisher)
	}

	if appConfig.CloudStorage != nil {
		store, err := gcs.NewGoogleFileStore(ctx, appConfig.CloudStorage.GetBucket(), appConfig.CloudStorage.ClientOptions()...)
		if err != nil {
			_ = app.Close()
			return App{}, cerr.Field("bucket", appConfig.CloudStorage.GetBucket()).
				Wrap(err).Error("Failed to create stem uploader")
		}

		urls := storagepath.RemoteGenerator{
			Host:   appConfig.CloudStorage.GetStorageHost(),
			Bucket: appConfig.CloudStorage.GetBucket(),
		}

		app.sinks = append(app.sinks, gcs.NewSink(store, urls))
		app.closers = append(app.closers, store)
	}

	return app, nil
}

// Run extracts every stem of the input module into the output directory.
func (a App) Run(ctx context.Context) (orchestrator.Result, error) {
	errctx := cerr.Fields(cerr.F{
		"input":      a.config.InputPath,
		"output_dir": a.config.OutputDir,
	})

	data, err := os.ReadFile(a.config.InputPath)
	if err != nil {
		return orchestrator.Result{}, errctx.Mark(stem.ModuleLoadFailed).
			Wrap(err).Error("Failed to read input module")
	}

	summary, err := stem.Probe(ctx, a.config.Loader, data)
	if err != nil {
		return orchestrator.Result{}, errctx.Wrap(err).Error("Failed to probe input module")
	}

	if summary.VoiceCount == 0 {
		a.printf("Nothing to extract: the module has no instruments or samples\n")
		return orchestrator.Result{}, nil
	}

	if summary.Kind == engine.Instrument {
		a.printf("Extracting %d instrument stems...\n", summary.VoiceCount)
	} else {
		a.printf("Extracting %d sample stems (no instruments found)...\n", summary.VoiceCount)
	}

	if err := os.MkdirAll(a.config.OutputDir, 0o755); err != nil {
		return orchestrator.Result{}, errctx.Mark(encoder.OutputWriteFailed).
			Wrap(err).Error("Failed to create output directory")
	}

	policy := orchestrator.FailFast
	if a.config.KeepGoing {
		policy = orchestrator.CollectAll
	}

	orch := orchestrator.NewOrchestrator(a.config.Loader, a.config.Writer, orchestrator.Config{
		Parallel: a.config.Parallel,
		Workers:  a.config.Workers,
		Policy:   policy,
		Paths: storagepath.Generator{
			OutputDir: a.config.OutputDir,
			BaseName:  storagepath.StemBaseName(a.config.InputPath),
		},
	}, a.sinks...)

	reporter := progress.NewReporter(a.config.Stdout)
	events := make(chan orchestrator.Event, eventBufferSize)
	tallies := make(chan progress.Tally, 1)

	go func() {
		tallies <- reporter.Consume(events)
	}()

	result, runErr := orch.Run(ctx, data, summary, a.config.Options, events)
	close(events)
	tally := <-tallies

	if a.config.Manifest && result.RunID != "" {
		record := manifest.New(a.config.InputPath, summary.Instruments, summary.Samples,
			summary.Kind.Label(), a.config.Options.ForRender(), result)

		path, err := manifest.Write(a.config.OutputDir, record)
		if err != nil {
			runErr = errors.CombineErrors(runErr, err)
		} else {
			log.WithField("path", path).Debug("Manifest written")
		}
	}

	reporter.Summary(tally, a.config.OutputDir)

	if runErr != nil {
		return result, errctx.Wrap(runErr).Error("Stem extraction did not complete")
	}

	return result, nil
}

func (a App) Close() error {
	var combined error
	for _, closer := range a.closers {
		combined = errors.CombineErrors(combined, closer.Close())
	}

	return combined
}

func (a App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.config.Stdout, format, args...)
}

package application

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/untracker/src/extractor/internal/cli"
	"github.com/veedubyou/untracker/src/extractor/internal/engine"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/logging"
	"github.com/veedubyou/untracker/src/shared/config"
	"github.com/veedubyou/untracker/src/shared/config/dev"
	"github.com/veedubyou/untracker/src/shared/config/envvar"
	"github.com/veedubyou/untracker/src/shared/config/prod"
	"github.com/veedubyou/untracker/src/shared/lib/env"
)

const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitInvalidUsage = 2
)

// RunCLI is the whole command: argv excludes the program name.
func RunCLI(ctx context.Context, argv []string, stdout io.Writer, stderr io.Writer, loader engine.Loader) int {
	args, err := cli.Parse(argv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	if err != nil {
		reportError(stderr, err)
		return ExitInvalidUsage
	}

	if err := logging.Setup(args.LogLevel, args.LogFormat, stderr); err != nil {
		reportError(stderr, err)
		return ExitInvalidUsage
	}

	appConfig, err := ConfigFromArgs(args, loader, stdout)
	if err != nil {
		reportError(stderr, err)
		return ExitFailure
	}

	app, err := NewApp(ctx, appConfig)
	if err != nil {
		reportError(stderr, err)
		return ExitFailure
	}
	defer func() {
		if err := app.Close(); err != nil {
			cerr.Log(err)
		}
	}()

	if _, err := app.Run(ctx); err != nil {
		reportError(stderr, err)
		return ExitFailure
	}

	return ExitOK
}

func ConfigFromArgs(args cli.Args, loader engine.Loader, stdout io.Writer) (Config, error) {
	appConfig := Config{
		InputPath: args.InputPath,
		OutputDir: args.OutputDir,
		Options:   args.Options,
		Parallel:  args.Parallel,
		Workers:   args.Workers,
		KeepGoing: args.KeepGoing,
		Manifest:  args.Manifest,
		Loader:    loader,
		Stdout:    stdout,
	}

	environment := env.Get()

	if args.PublishEvents {
		rabbitConfig, err := rabbitMQConfig(environment)
		if err != nil {
			return Config{}, cerr.Wrap(err).Error("Event publishing is not configured")
		}
		appConfig.RabbitMQ = &rabbitConfig
	}

	if args.Upload {
		storageConfig, err := cloudStorageConfig(environment)
		if err != nil {
			return Config{}, cerr.Wrap(err).Error("Stem upload is not configured")
		}
		appConfig.CloudStorage = storageConfig
	}

	return appConfig, nil
}

func rabbitMQConfig(environment env.Environment) (config.RabbitMQ, error) {
	if environment == env.Development {
		return config.RabbitMQ{
			URL:       envvar.GetOr(envvar.RABBITMQ_URL, dev.RabbitMQConfig.URL),
			QueueName: envvar.GetOr(envvar.RABBITMQ_QUEUE_NAME, dev.RabbitMQConfig.QueueName),
		}, nil
	}

	url, err := envvar.Get(envvar.RABBITMQ_URL)
	if err != nil {
		return config.RabbitMQ{}, err
	}

	queueName, err := envvar.Get(envvar.RABBITMQ_QUEUE_NAME)
	if err != nil {
		return config.RabbitMQ{}, err
	}

	return config.RabbitMQ{URL: url, QueueName: queueName}, nil
}

func cloudStorageConfig(environment env.Environment) (config.CloudStorage, error) {
	if environment == env.Development {
		local := dev.CloudStorageConfig
		local.BucketName = envvar.GetOr(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME, local.BucketName)
		return local, nil
	}

	secretKey, err := envvar.Get(envvar.GOOGLE_CLOUD_KEY)
	if err != nil {
		return nil, err
	}

	bucketName, err := envvar.Get(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME)
	if err != nil {
		return nil, err
	}

	return config.ProdCloudStorage{
		StorageHost: envvar.GetOr(envvar.GOOGLE_STORAGE_HOST, prod.GOOGLE_STORAGE_HOST),
		SecretKey:   secretKey,
		BucketName:  bucketName,
	}, nil
}

func reportError(stderr io.Writer, err error) {
	_, _ = fmt.Fprintf(stderr, "%s: %v\n", cli.Name, err)

	fields := cerr.FieldsOf(err)
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		_, _ = fmt.Fprintf(stderr, "  %s: %v\n", key, fields[key])
	}
}

package gcs

import (
	"context"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"github.com/apex/log"
	"github.com/cenkalti/backoff/v4"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
	"google.golang.org/api/option"
)

const maxUploadAttempts = 3

type GoogleFileStore struct {
	client *storage.Client
	bucket string
}

func NewGoogleFileStore(ctx context.Context, bucket string, options ...option.ClientOption) (GoogleFileStore, error) {
	client, err := storage.NewClient(ctx, options...)
	if err != nil {
		return GoogleFileStore{}, cerr.Wrap(err).Error("Failed to create cloud storage client")
	}

	return GoogleFileStore{
		client: client,
		bucket: bucket,
	}, nil
}

// UploadFile copies the local file at localPath to objectName in the bucket,
// retrying transient failures.
func (g GoogleFileStore) UploadFile(ctx context.Context, localPath string, objectName string) error {
	errctx := cerr.Fields(cerr.F{
		"bucket": g.bucket,
		"object": objectName,
		"local":  localPath,
	})

	upload := func() error {
		return g.uploadOnce(ctx, localPath, objectName)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, maxUploadAttempts), ctx)

	err := backoff.RetryNotify(upload, retry, func(err error, wait time.Duration) {
		log.WithError(err).
			WithField("object", objectName).
			WithField("wait", wait).
			Warn("Retrying stem upload")
	})
	if err != nil {
		return errctx.Wrap(err).Error("Failed to upload file")
	}

	return nil
}

func (g GoogleFileStore) uploadOnce(ctx context.Context, localPath string, objectName string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return backoff.Permanent(cerr.Wrap(err).Error("Failed to open local file"))
	}
	defer file.Close()

	writer := g.client.Bucket(g.bucket).Object(objectName).NewWriter(ctx)
	writer.ContentType = "application/octet-stream"

	if _, err := io.Copy(writer, file); err != nil {
		_ = writer.Close()
		return cerr.Wrap(err).Error("Failed to stream file to bucket")
	}

	if err := writer.Close(); err != nil {
		return cerr.Wrap(err).Error("Failed to finalize bucket object")
	}

	return nil
}

func (g GoogleFileStore) Close() error {
	return g.client.Close()
}

package gcs

import (
	"context"
	"path/filepath"

	"github.com/apex/log"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/storagepath"
	"github.com/veedubyou/untracker/src/extractor/internal/orchestrator"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate . FileStore
type FileStore interface {
	UploadFile(ctx context.Context, localPath string, objectName string) error
}

var _ FileStore = GoogleFileStore{}
var _ orchestrator.Sink = Sink{}

// Sink uploads every finished stem under {run_id}/{file name}.
type Sink struct {
	store FileStore
	urls  storagepath.RemoteGenerator
}

func NewSink(store FileStore, urls storagepath.RemoteGenerator) Sink {
	return Sink{
		store: store,
		urls:  urls,
	}
}

func ObjectName(runID string, path string) string {
	return runID + "/" + filepath.Base(path)
}

func (s Sink) Accept(ctx context.Context, artifact orchestrator.Artifact) error {
	objectName := ObjectName(artifact.RunID, artifact.Path)

	if err := s.store.UploadFile(ctx, artifact.Path, objectName); err != nil {
		return cerr.Field("run_id", artifact.RunID).
			Wrap(err).Error("Failed to upload stem")
	}

	log.WithFields(log.Fields{
		"path": artifact.Path,
		"url":  s.urls.GeneratePath(artifact.RunID, filepath.Base(artifact.Path)),
	}).Info("Stem uploaded")

	return nil
}

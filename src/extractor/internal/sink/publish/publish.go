package publish

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
	"github.com/veedubyou/untracker/src/extractor/internal/orchestrator"
	"github.com/veedubyou/untracker/src/shared/lib/rabbitmq"
)

const StemCompletedType = "stem_completed"

// StemCompleted is the body of a stem_completed message.
type StemCompleted struct {
	RunID           string  `json:"run_id"`
	Kind            string  `json:"kind"`
	Index           int     `json:"index"`
	FileName        string  `json:"file_name"`
	Path            string  `json:"path"`
	Format          string  `json:"format"`
	SampleRate      int     `json:"sample_rate"`
	Channels        int     `json:"channels"`
	Frames          int     `json:"frames"`
	DurationSeconds float64 `json:"duration_seconds"`
}

var _ orchestrator.Sink = Sink{}

type Sink struct {
	publisher rabbitmq.Publisher
}

func NewSink(publisher rabbitmq.Publisher) Sink {
	return Sink{publisher: publisher}
}

func (s Sink) Accept(ctx context.Context, artifact orchestrator.Artifact) error {
	errctx := cerr.Fields(cerr.F{
		"run_id": artifact.RunID,
		"path":   artifact.Path,
	})

	body, err := json.Marshal(StemCompleted{
		RunID:           artifact.RunID,
		Kind:            artifact.Kind,
		Index:           artifact.Index,
		FileName:        filepath.Base(artifact.Path),
		Path:            artifact.Path,
		Format:          artifact.Format.String(),
		SampleRate:      artifact.SampleRate,
		Channels:        artifact.Channels,
		Frames:          artifact.Frames,
		DurationSeconds: artifact.DurationSeconds,
	})
	if err != nil {
		return errctx.Wrap(err).Error("Failed to marshal stem message")
	}

	err = s.publisher.Publish(ctx, amqp091.Publishing{
		Type: StemCompletedType,
		Body: body,
	})
	if err != nil {
		return errctx.Wrap(err).Error("Failed to publish stem message")
	}

	return nil
}

package stem

import (
	"context"

	"github.com/apex/log"
	"github.com/veedubyou/untracker/src/extractor/internal/engine"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
)

// ChunkFrames is how many frames are requested from the engine per call.
const ChunkFrames = 4096

type RenderParams struct {
	SampleRate int
	Channels   int
	Config     engine.RenderConfig
}

// Render drains the module to the end of the song and returns interleaved
// PCM. The loop stops on a zero frame chunk or once the reported position
// reaches the reported duration, whichever comes first; duration is the
// upper bound for modules that loop.
func Render(ctx context.Context, module engine.Module, params RenderParams) ([]int16, error) {
	errctx := cerr.Fields(cerr.F{
		"sample_rate": params.SampleRate,
		"channels":    params.Channels,
	})

	if params.Channels != 1 && params.Channels != 2 {
		return nil, errctx.Error("Only 1 (mono) or 2 (stereo) channels can be rendered")
	}

	if params.SampleRate <= 0 {
		return nil, errctx.Error("Sample rate must be positive")
	}

	if err := module.ConfigureRender(params.Config); err != nil {
		return nil, errctx.Field("render_config", params.Config).
			Mark(InteractiveInterfaceUnavailable).
			Wrap(err).Error("Failed to configure render parameters")
	}

	chunk := make([]int16, ChunkFrames*params.Channels)
	var pcm []int16
	chunks := 0

	for {
		if ctx.Err() != nil {
			return nil, errctx.Field("chunks", chunks).
				Wrap(ctx.Err()).Error("Render cancelled")
		}

		frames := module.Render(params.SampleRate, params.Channels, chunk)
		if frames == 0 {
			break
		}

		pcm = append(pcm, chunk[:frames*params.Channels]...)
		chunks++

		if module.PositionSeconds() >= module.DurationSeconds() {
			break
		}
	}

	log.WithFields(log.Fields{
		"chunks":  chunks,
		"samples": len(pcm),
	}).Debug("Finished rendering")

	return pcm, nil
}

func Frames(pcm []int16, channels int) int {
	if channels <= 0 {
		return 0
	}

	return len(pcm) / channels
}

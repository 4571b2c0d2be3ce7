package stem

import (
	"context"

	"github.com/apex/log"
	"github.com/veedubyou/untracker/src/extractor/internal/engine"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
)

// Summary is what a single load of the module tells us about its voices.
type Summary struct {
	Kind            engine.VoiceKind
	VoiceCount      int
	Instruments     int
	Samples         int
	DurationSeconds float64
}

func (s Summary) Targets() []engine.VoiceTarget {
	targets := make([]engine.VoiceTarget, s.VoiceCount)
	for i := range targets {
		targets[i] = engine.VoiceTarget{Kind: s.Kind, Index: i}
	}

	return targets
}

// Probe loads the module once to pick the voice kind: instruments whenever
// the module has any, samples otherwise.
func Probe(ctx context.Context, loader engine.Loader, data []byte) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, cerr.Wrap(err).Error("Probe cancelled")
	}

	module, err := loader.Load(data)
	if err != nil {
		return Summary{}, cerr.Field("module_size", len(data)).
			Mark(ModuleLoadFailed).
			Wrap(err).Error("Failed to load module")
	}
	defer module.Close()

	summary := Summary{
		Instruments:     module.VoiceCount(engine.Instrument),
		Samples:         module.VoiceCount(engine.Sample),
		DurationSeconds: module.DurationSeconds(),
	}

	if summary.Instruments > 0 {
		summary.Kind = engine.Instrument
		summary.VoiceCount = summary.Instruments
	} else {
		summary.Kind = engine.Sample
		summary.VoiceCount = summary.Samples
	}

	log.WithFields(log.Fields{
		"instruments": summary.Instruments,
		"samples":     summary.Samples,
		"kind":        summary.Kind,
		"duration":    summary.DurationSeconds,
	}).Debug("Probed module")

	return summary, nil
}

package stem

import (
	"context"

	"github.com/apex/log"
	"github.com/veedubyou/untracker/src/extractor/internal/engine"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
)

// Isolator produces freshly loaded modules with every voice but one muted.
// It only ever reads the module bytes, so one Isolator can serve any number
// of concurrent jobs.
type Isolator struct {
	loader  engine.Loader
	data    []byte
	summary Summary
}

func NewIsolator(loader engine.Loader, data []byte, summary Summary) Isolator {
	return Isolator{
		loader:  loader,
		data:    data,
		summary: summary,
	}
}

// Isolate returns a new module owned by the caller, who must Close it.
func (i Isolator) Isolate(ctx context.Context, target engine.VoiceTarget) (engine.Module, error) {
	errctx := cerr.Fields(cerr.F{
		"kind":  target.Kind,
		"index": target.Index,
	})

	if ctx.Err() != nil {
		return nil, errctx.Wrap(ctx.Err()).Error("Context cancelled before isolation")
	}

	if target.Kind != i.summary.Kind || target.Index < 0 || target.Index >= i.summary.VoiceCount {
		return nil, errctx.Field("voice_count", i.summary.VoiceCount).
			Mark(InvalidVoiceIndex).
			Error("Voice index is out of range")
	}

	module, err := i.loader.Load(i.data)
	if err != nil {
		return nil, errctx.Mark(ModuleLoadFailed).
			Wrap(err).Error("Failed to re-load module for rendering")
	}

	if err := muteAllExcept(module, target, i.summary.VoiceCount); err != nil {
		_ = module.Close()
		return nil, errctx.Wrap(err).Error("Failed to isolate voice")
	}

	return module, nil
}

func muteAllExcept(module engine.Module, target engine.VoiceTarget, expectedCount int) error {
	interactive, ok := module.Interactive()
	if !ok {
		return cerr.Mark(InteractiveInterfaceUnavailable).
			Error("Interactive interface not available")
	}

	count := module.VoiceCount(target.Kind)
	if count != expectedCount {
		return cerr.Field("expected_count", expectedCount).
			Field("reloaded_count", count).
			Mark(InvalidVoiceIndex).
			Error("Reloaded module reports a different voice count")
	}

	logger := log.WithFields(log.Fields{
		"kind":  target.Kind,
		"index": target.Index,
	})

	for index := 0; index < count; index++ {
		mute := index != target.Index
		if !interactive.SetMute(target.Kind, index, mute) {
			logger.WithField("voice", index).Warn("Engine rejected mute status change")
		}
	}

	return nil
}

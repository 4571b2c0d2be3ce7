package manifest_test

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/untracker/src/extractor/internal/encoder"
	"github.com/veedubyou/untracker/src/extractor/internal/engine"
	"github.com/veedubyou/untracker/src/extractor/internal/manifest"
	"github.com/veedubyou/untracker/src/extractor/internal/orchestrator"
	. "github.com/veedubyou/untracker/src/shared/testing"
)

var _ = Describe("Manifest", func() {
	var (
		dir    string
		opts   encoder.ExportOptions
		result orchestrator.Result
	)

	BeforeEach(func() {
		dir = ExpectSuccess(os.MkdirTemp("", "untracker-manifest"))
		DeferCleanup(os.RemoveAll, dir)

		opts = encoder.DefaultExportOptions()
		result = orchestrator.Result{
			RunID: "run-1",
			Artifacts: []orchestrator.Artifact{
				{
					RunID:           "run-1",
					Target:          engine.VoiceTarget{Kind: engine.Instrument, Index: 0},
					Kind:            "instrument",
					Index:           1,
					Path:            filepath.Join(dir, "song_instrument_001.wav"),
					Format:          encoder.WAV,
					SampleRate:      44100,
					Channels:        2,
					Frames:          44100,
					DurationSeconds: 1,
				},
			},
			Failures: []orchestrator.Failure{
				{
					Target: engine.VoiceTarget{Kind: engine.Instrument, Index: 1},
					Path:   filepath.Join(dir, "song_instrument_002.wav"),
					Err:    errors.New("disk full"),
				},
			},
		}
	})

	It("records failures with 1-based indices", func() {
		m := manifest.New("song.it", 2, 3, "instrument", opts, result)
		Expect(m.RunID).To(Equal("run-1"))
		Expect(m.Failures).To(Equal([]manifest.Failure{
			{
				Kind:  "instrument",
				Index: 2,
				Path:  filepath.Join(dir, "song_instrument_002.wav"),
				Error: "disk full",
			},
		}))
	})

	It("round trips through the output directory", func() {
		written := manifest.New("song.it", 2, 3, "instrument", opts, result)
		path := ExpectSuccess(manifest.Write(dir, written))
		Expect(path).To(Equal(filepath.Join(dir, manifest.FileName)))

		read := ExpectSuccess(manifest.Read(path))
		Expect(read.RunID).To(Equal("run-1"))
		Expect(read.Input).To(Equal("song.it"))
		Expect(read.CreatedAt.Equal(written.CreatedAt)).To(BeTrue())
		Expect(read.Options).To(Equal(opts))
		Expect(read.Failures).To(Equal(written.Failures))

		Expect(read.Artifacts).To(HaveLen(1))
		Expect(read.Artifacts[0].Path).To(Equal(result.Artifacts[0].Path))
		Expect(read.Artifacts[0].Index).To(Equal(1))
		Expect(read.Artifacts[0].Format).To(Equal(encoder.WAV))
	})

	It("writes an empty artifact list rather than null", func() {
		m := manifest.New("song.it", 0, 0, "sample", opts, orchestrator.Result{RunID: "run-2"})
		path := ExpectSuccess(manifest.Write(dir, m))

		contents := ExpectSuccess(os.ReadFile(path))
		Expect(string(contents)).To(ContainSubstring(`"artifacts": []`))
		Expect(string(contents)).NotTo(ContainSubstring(`"failures"`))
		Expect(string(contents)).To(ContainSubstring(`"format": "wav"`))
	})

	It("marks a failed write", func() {
		m := manifest.New("song.it", 0, 0, "sample", opts, orchestrator.Result{RunID: "run-3"})
		_, err := manifest.Write(filepath.Join(dir, "missing"), m)
		Expect(errors.Is(err, encoder.OutputWriteFailed)).To(BeTrue())
	})
})

package stem_test

import (
	"context"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/untracker/src/extractor/internal/engine"
	"github.com/veedubyou/untracker/src/extractor/internal/engine/dummy"
	"github.com/veedubyou/untracker/src/extractor/internal/stem"
)

var _ = Describe("Isolator", func() {
	var (
		ctx      context.Context
		loader   *dummy.Loader
		data     []byte
		summary  stem.Summary
		isolator stem.Isolator
		params   stem.RenderParams
	)

	isolateAndRender := func(index int) []int16 {
		module, err := isolator.Isolate(ctx, engine.VoiceTarget{Kind: summary.Kind, Index: index})
		Expect(err).NotTo(HaveOccurred())
		defer module.Close()

		pcm, err := stem.Render(ctx, module, params)
		Expect(err).NotTo(HaveOccurred())
		return pcm
	}

	BeforeEach(func() {
		ctx = context.Background()
		data = []byte("module bytes")
		loader = dummy.NewDummyLoader(dummy.Song{
			Instruments:     4,
			DurationSeconds: 0.5,
		})
		params = stem.RenderParams{SampleRate: 8000, Channels: 2}
	})

	JustBeforeEach(func() {
		var err error
		summary, err = stem.Probe(ctx, loader, data)
		Expect(err).NotTo(HaveOccurred())

		isolator = stem.NewIsolator(loader, data, summary)
	})

	Describe("Happy path", func() {
		It("loads a fresh handle per isolation", func() {
			first, err := isolator.Isolate(ctx, engine.VoiceTarget{Kind: engine.Instrument, Index: 0})
			Expect(err).NotTo(HaveOccurred())
			second, err := isolator.Isolate(ctx, engine.VoiceTarget{Kind: engine.Instrument, Index: 0})
			Expect(err).NotTo(HaveOccurred())

			Expect(first).NotTo(BeIdenticalTo(second))
			Expect(loader.LoadCount()).To(Equal(3))

			Expect(first.Close()).To(Succeed())
			Expect(second.Close()).To(Succeed())
			Expect(loader.LiveCount()).To(BeZero())
		})

		It("mutes every voice except the target", func() {
			module, err := isolator.Isolate(ctx, engine.VoiceTarget{Kind: engine.Instrument, Index: 2})
			Expect(err).NotTo(HaveOccurred())
			defer module.Close()

			modules := loader.Modules()
			isolated := modules[len(modules)-1]
			Expect(isolated.Muted(0)).To(BeTrue())
			Expect(isolated.Muted(1)).To(BeTrue())
			Expect(isolated.Muted(2)).To(BeFalse())
			Expect(isolated.Muted(3)).To(BeTrue())
		})

		It("gives distinct non-silent buffers for different voices", func() {
			first := isolateAndRender(0)
			second := isolateAndRender(1)

			Expect(first).To(ContainElement(Not(BeZero())))
			Expect(second).To(ContainElement(Not(BeZero())))
			Expect(first).NotTo(Equal(second))
		})

		It("is idempotent for the same voice", func() {
			Expect(isolateAndRender(3)).To(Equal(isolateAndRender(3)))
		})
	})

	Describe("A voice that never plays", func() {
		BeforeEach(func() {
			loader.Song.Silent = map[int]bool{1: true}
		})

		It("renders an all-zero buffer of full length", func() {
			pcm := isolateAndRender(1)

			Expect(pcm).To(HaveLen(4000 * 2))
			Expect(pcm).To(HaveEach(BeZero()))
		})
	})

	Describe("Invalid targets", func() {
		DescribeTable("rejects indexes outside the summary",
			func(target engine.VoiceTarget) {
				module, err := isolator.Isolate(ctx, target)

				Expect(module).To(BeNil())
				Expect(errors.Is(err, stem.InvalidVoiceIndex)).To(BeTrue())
				Expect(loader.LoadCount()).To(Equal(1))
			},
			Entry("negative", engine.VoiceTarget{Kind: engine.Instrument, Index: -1}),
			Entry("one past the end", engine.VoiceTarget{Kind: engine.Instrument, Index: 4}),
			Entry("wrong kind", engine.VoiceTarget{Kind: engine.Sample, Index: 0}),
		)

		Describe("A module without voices", func() {
			BeforeEach(func() {
				loader.Song.Instruments = 0
			})

			It("rejects every index", func() {
				_, err := isolator.Isolate(ctx, engine.VoiceTarget{Kind: engine.Sample, Index: 0})
				Expect(errors.Is(err, stem.InvalidVoiceIndex)).To(BeTrue())
			})
		})
	})

	Describe("Engine failures", func() {
		It("marks a failed reload", func() {
			loader.Unavailable = true

			_, err := isolator.Isolate(ctx, engine.VoiceTarget{Kind: engine.Instrument, Index: 0})
			Expect(errors.Is(err, stem.ModuleLoadFailed)).To(BeTrue())
		})

		It("marks a missing interactive interface and closes the handle", func() {
			loader.Song.NoInteractive = true

			_, err := isolator.Isolate(ctx, engine.VoiceTarget{Kind: engine.Instrument, Index: 0})
			Expect(errors.Is(err, stem.InteractiveInterfaceUnavailable)).To(BeTrue())
			Expect(loader.LiveCount()).To(BeZero())
		})

		It("rejects a reloaded module whose voice count drifted", func() {
			loader.Song.Instruments = 5

			_, err := isolator.Isolate(ctx, engine.VoiceTarget{Kind: engine.Instrument, Index: 0})
			Expect(errors.Is(err, stem.InvalidVoiceIndex)).To(BeTrue())
			Expect(loader.LiveCount()).To(BeZero())
		})

		It("carries on when the engine rejects a mute change", func() {
			loader.Song.RejectMute = map[int]bool{3: true}

			module, err := isolator.Isolate(ctx, engine.VoiceTarget{Kind: engine.Instrument, Index: 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(module.Close()).To(Succeed())
		})

		It("does not load anything once the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := isolator.Isolate(cancelled, engine.VoiceTarget{Kind: engine.Instrument, Index: 0})
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(loader.LoadCount()).To(Equal(1))
		})
	})
})

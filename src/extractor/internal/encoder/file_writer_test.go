package encoder_test

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/untracker/src/extractor/internal/encoder"
	"github.com/veedubyou/untracker/src/extractor/internal/encoder/encoderfakes"
)

var _ = Describe("FileWriter", func() {
	var (
		ctx         context.Context
		dir         string
		path        string
		opts        encoder.ExportOptions
		fakeEncoder *encoderfakes.FakeEncoder
		writer      encoder.FileWriter
		pcm         []int16
		err         error
	)

	dirEntries := func() []string {
		entries, readErr := os.ReadDir(dir)
		Expect(readErr).NotTo(HaveOccurred())

		names := []string{}
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		return names
	}

	BeforeEach(func() {
		ctx = context.Background()
		dir = tempDir()
		path = filepath.Join(dir, "song_sample_001.wav")
		opts = encoder.DefaultExportOptions()
		pcm = syntheticPCM(100, 2)

		fakeEncoder = &encoderfakes.FakeEncoder{}
		fakeEncoder.EncodeCalls(func(out io.WriteSeeker, pcm []int16, opts encoder.ExportOptions) error {
			_, writeErr := out.Write([]byte("encoded"))
			return writeErr
		})
		writer = encoder.NewFileWriter().WithEncoder(encoder.WAV, fakeEncoder)
	})

	JustBeforeEach(func() {
		err = writer.Write(ctx, path, pcm, opts)
	})

	It("moves the encoded file into place", func() {
		Expect(err).NotTo(HaveOccurred())
		Expect(dirEntries()).To(ConsistOf("song_sample_001.wav"))
		Expect(os.ReadFile(path)).To(Equal([]byte("encoded")))

		Expect(fakeEncoder.EncodeCallCount()).To(Equal(1))
		_, encodedPCM, encodedOpts := fakeEncoder.EncodeArgsForCall(0)
		Expect(encodedPCM).To(Equal(pcm))
		Expect(encodedOpts).To(Equal(opts))
	})

	Describe("Invalid options", func() {
		BeforeEach(func() {
			opts.Channels = 3
		})

		It("fails before creating anything", func() {
			Expect(errors.Is(err, encoder.UnsupportedFormatConfiguration)).To(BeTrue())
			Expect(fakeEncoder.EncodeCallCount()).To(BeZero())
			Expect(dirEntries()).To(BeEmpty())
		})
	})

	Describe("PCM that does not fill the last frame", func() {
		BeforeEach(func() {
			pcm = pcm[:len(pcm)-1]
		})

		It("is rejected", func() {
			Expect(errors.Is(err, encoder.UnsupportedFormatConfiguration)).To(BeTrue())
			Expect(dirEntries()).To(BeEmpty())
		})
	})

	Describe("An encoder failure", func() {
		BeforeEach(func() {
			fakeEncoder.EncodeCalls(func(out io.WriteSeeker, pcm []int16, opts encoder.ExportOptions) error {
				_, _ = out.Write([]byte("half"))
				return errors.New("codec exploded")
			})
		})

		It("marks the write as failed and leaves no files behind", func() {
			Expect(errors.Is(err, encoder.OutputWriteFailed)).To(BeTrue())
			Expect(dirEntries()).To(BeEmpty())
		})
	})

	Describe("A missing output directory", func() {
		BeforeEach(func() {
			path = filepath.Join(dir, "nope", "song_sample_001.wav")
		})

		It("marks the write as failed", func() {
			Expect(errors.Is(err, encoder.OutputWriteFailed)).To(BeTrue())
			Expect(fakeEncoder.EncodeCallCount()).To(BeZero())
		})
	})

	Describe("A cancelled context", func() {
		BeforeEach(func() {
			cancelled, cancel := context.WithCancel(context.Background())
			cancel()
			ctx = cancelled
		})

		It("does not encode", func() {
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(fakeEncoder.EncodeCallCount()).To(BeZero())
			Expect(dirEntries()).To(BeEmpty())
		})
	})

	Describe("Dispatch", func() {
		It("has an encoder for every format", func() {
			for _, format := range encoder.Formats {
				enc, forErr := encoder.ForFormat(format)
				Expect(forErr).NotTo(HaveOccurred())
				Expect(enc).NotTo(BeNil())
			}
		})

		It("rejects values outside the enum", func() {
			_, forErr := encoder.ForFormat(encoder.Format(42))
			Expect(errors.Is(forErr, encoder.UnsupportedFormatConfiguration)).To(BeTrue())
		})
	})
})

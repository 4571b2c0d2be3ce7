package encoder

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
)

const wavFormatPCM = 1

type WAVEncoder struct{}

// Encode writes linear PCM. Source samples are always 16-bit, so 24-bit output
// moves each sample into the upper bytes of the wider slot.
func (WAVEncoder) Encode(out io.WriteSeeker, pcm []int16, opts ExportOptions) error {
	enc := wav.NewEncoder(out, opts.SampleRate, opts.BitDepth, opts.Channels, wavFormatPCM)

	shift := uint(opts.BitDepth - 16)
	data := make([]int, len(pcm))
	for i, sample := range pcm {
		data[i] = int(sample) << shift
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: opts.Channels,
			SampleRate:  opts.SampleRate,
		},
		Data:           data,
		SourceBitDepth: opts.BitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return cerr.Field("bit_depth", opts.BitDepth).
			Wrap(err).Error("Failed to write wav samples")
	}

	if err := enc.Close(); err != nil {
		return cerr.Wrap(err).Error("Failed to finalize wav header")
	}

	return nil
}

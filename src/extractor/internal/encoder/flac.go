package encoder

import (
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
)

const (
	flacBlockFrames = 4096
	// smallest block a decoder accepts in the stream info
	flacMinBlockFrames = 16
)

type FLACEncoder struct{}

// Encode writes verbatim subframes in variable sized blocks, see
// FLACBlockSizes. The encoder rewrites the stream info block on Close since
// out is seekable.
func (FLACEncoder) Encode(out io.WriteSeeker, pcm []int16, opts ExportOptions) error {
	errctx := cerr.Fields(cerr.F{
		"sample_rate": opts.SampleRate,
		"channels":    opts.Channels,
		"bit_depth":   opts.BitDepth,
	})

	channels := frame.ChannelsMono
	if opts.Channels == 2 {
		channels = frame.ChannelsLR
	}

	info := &meta.StreamInfo{
		BlockSizeMin:  flacMinBlockFrames,
		BlockSizeMax:  flacBlockFrames,
		SampleRate:    uint32(opts.SampleRate),
		NChannels:     uint8(opts.Channels),
		BitsPerSample: uint8(opts.BitDepth),
	}

	enc, err := flac.NewEncoder(unclosable{out}, info)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to create flac encoder")
	}

	shift := uint(opts.BitDepth - 16)
	totalFrames := len(pcm) / opts.Channels

	start := 0
	for _, blockFrames := range FLACBlockSizes(totalFrames) {
		subframes := make([]*frame.Subframe, opts.Channels)
		for channel := range subframes {
			samples := make([]int32, blockFrames)
			for i := range samples {
				// frames past the end only exist in the padded block of a very short stem
				if start+i < totalFrames {
					samples[i] = int32(pcm[(start+i)*opts.Channels+channel]) << shift
				}
			}

			subframes[channel] = &frame.Subframe{
				SubHeader: frame.SubHeader{
					Pred: frame.PredVerbatim,
				},
				Samples:  samples,
				NSamples: blockFrames,
			}
		}

		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: false,
				BlockSize:         uint16(blockFrames),
				SampleRate:        uint32(opts.SampleRate),
				Channels:          channels,
				BitsPerSample:     uint8(opts.BitDepth),
			},
			Subframes: subframes,
		}

		if err := enc.WriteFrame(f); err != nil {
			_ = enc.Close()
			return errctx.Field("frame_offset", start).Wrap(err).Error("Failed to write flac frame")
		}

		start += blockFrames
	}

	if err := enc.Close(); err != nil {
		return errctx.Wrap(err).Error("Failed to finalize flac stream")
	}

	return nil
}

// FLACBlockSizes splits a stem into blocks of at most 4096 frames where no
// block is shorter than 16. A short tail borrows frames from the block before
// it. Stems shorter than 16 frames, including empty ones, become a single
// 16 frame block padded with silence.
func FLACBlockSizes(totalFrames int) []int {
	if totalFrames < flacMinBlockFrames {
		return []int{flacMinBlockFrames}
	}

	sizes := make([]int, 0, totalFrames/flacBlockFrames+1)
	for remaining := totalFrames; remaining > 0; {
		size := flacBlockFrames
		if remaining < size {
			size = remaining
		}
		sizes = append(sizes, size)
		remaining -= size
	}

	last := len(sizes) - 1
	if sizes[last] < flacMinBlockFrames {
		borrow := flacMinBlockFrames - sizes[last]
		sizes[last-1] -= borrow
		sizes[last] += borrow
	}

	return sizes
}

// unclosable hides Close from the flac encoder, which would otherwise close
// the file it was handed.
type unclosable struct {
	io.WriteSeeker
}

package encoder

import (
	"encoding/binary"
	"io"

	"github.com/google/uuid"
	"github.com/veedubyou/untracker/src/extractor/internal/encoder/ogg"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
	"gopkg.in/hraban/opus.v2"
)

const (
	// OpusPreSkip is the number of 48 kHz samples a decoder drops at the start.
	OpusPreSkip = 312

	opusFrameMillis     = 20
	opusFrameSize48k    = 48000 * opusFrameMillis / 1000
	opusMaxPacketLength = 4000
)

type OpusEncoder struct{}

// Encode emits Ogg Opus with one 20 ms packet per page. Granule positions
// count 48 kHz samples including the pre-skip.
func (OpusEncoder) Encode(out io.WriteSeeker, pcm []int16, opts ExportOptions) error {
	errctx := cerr.Fields(cerr.F{
		"sample_rate": opts.SampleRate,
		"channels":    opts.Channels,
		"bitrate":     opts.OpusBitrate,
	})

	enc, err := opus.NewEncoder(opts.SampleRate, opts.Channels, opus.AppAudio)
	if err != nil {
		return errctx.Mark(UnsupportedFormatConfiguration).
			Wrap(err).Error("Failed to create opus encoder")
	}

	if err := enc.SetBitrate(opts.OpusBitrate * 1000); err != nil {
		return errctx.Mark(UnsupportedFormatConfiguration).
			Wrap(err).Error("Failed to set opus bitrate")
	}

	writer := ogg.NewWriter(out, uuid.New().ID())

	if err := writer.WritePacket(opusHead(opts), 0, ogg.BeginningOfStream); err != nil {
		return errctx.Wrap(err).Error("Failed to write OpusHead")
	}

	if err := writer.WritePacket(opusTags(), 0, 0); err != nil {
		return errctx.Wrap(err).Error("Failed to write OpusTags")
	}

	frameSamples := OpusFrameSize(opts.SampleRate) * opts.Channels
	frameCount := OpusFrameCount(len(pcm), opts.SampleRate, opts.Channels)

	frame := make([]int16, frameSamples)
	packet := make([]byte, opusMaxPacketLength)
	granule := uint64(OpusPreSkip)

	for i := 0; i < frameCount; i++ {
		start := i * frameSamples
		end := start + frameSamples
		if end > len(pcm) {
			end = len(pcm)
		}

		n := 0
		if start < len(pcm) {
			n = copy(frame, pcm[start:end])
		}
		for j := n; j < len(frame); j++ {
			frame[j] = 0
		}

		length, err := enc.Encode(frame, packet)
		if err != nil {
			return errctx.Field("frame", i).Wrap(err).Error("Failed to encode opus frame")
		}

		granule += opusFrameSize48k

		var flags byte
		if i == frameCount-1 {
			flags = ogg.EndOfStream
		}

		if err := writer.WritePacket(packet[:length], granule, flags); err != nil {
			return errctx.Field("frame", i).Wrap(err).Error("Failed to write opus packet")
		}
	}

	return nil
}

// OpusFrameSize is the number of samples per channel in one 20 ms frame.
func OpusFrameSize(sampleRate int) int {
	return sampleRate * opusFrameMillis / 1000
}

// OpusFrameCount is how many frames the PCM needs once the tail is padded.
// An empty stream still gets one silent frame so it carries an end page.
func OpusFrameCount(samples int, sampleRate int, channels int) int {
	frameSamples := OpusFrameSize(sampleRate) * channels
	if frameSamples <= 0 {
		return 0
	}

	count := (samples + frameSamples - 1) / frameSamples
	if count == 0 {
		count = 1
	}

	return count
}

// OpusFinalGranule is the granule position of the last page for a stream.
func OpusFinalGranule(samples int, sampleRate int, channels int) uint64 {
	return OpusPreSkip + uint64(OpusFrameCount(samples, sampleRate, channels))*opusFrameSize48k
}

func opusHead(opts ExportOptions) []byte {
	head := make([]byte, 19)
	copy(head[0:], "OpusHead")
	head[8] = 1
	head[9] = byte(opts.Channels)
	binary.LittleEndian.PutUint16(head[10:], OpusPreSkip)
	binary.LittleEndian.PutUint32(head[12:], uint32(opts.SampleRate))
	binary.LittleEndian.PutUint16(head[16:], 0)
	head[18] = 0
	return head
}

func opusTags() []byte {
	tags := make([]byte, 8+4+len(vendor)+4)
	copy(tags[0:], "OpusTags")
	binary.LittleEndian.PutUint32(tags[8:], uint32(len(vendor)))
	copy(tags[12:], vendor)
	binary.LittleEndian.PutUint32(tags[12+len(vendor):], 0)
	return tags
}

package encoder

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/veedubyou/untracker/src/extractor/internal/encoder/ogg"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
)

const (
	vorbisStubMagic        = "PCM     "
	vorbisStubPacketFrames = 4096
	// little endian signed 16-bit in the OggPCM format table
	oggPCMFormatS16LE = 0x00000003
)

// VorbisEncoder is a placeholder for a real Vorbis encoder: it stores raw
// 16-bit PCM in OggPCM framing and records the requested quality as a
// comment, so the artifact is a well formed Ogg stream at the requested rate.
type VorbisEncoder struct{}

func (VorbisEncoder) Encode(out io.WriteSeeker, pcm []int16, opts ExportOptions) error {
	errctx := cerr.Fields(cerr.F{
		"sample_rate": opts.SampleRate,
		"channels":    opts.Channels,
		"quality":     opts.VorbisQuality,
	})

	writer := ogg.NewWriter(out, uuid.New().ID())

	if err := writer.WritePacket(oggPCMHeader(opts), 0, ogg.BeginningOfStream); err != nil {
		return errctx.Wrap(err).Error("Failed to write stream header")
	}

	if err := writer.WritePacket(vorbisStubComment(opts), 0, 0); err != nil {
		return errctx.Wrap(err).Error("Failed to write stream comment")
	}

	packetSamples := vorbisStubPacketFrames * opts.Channels
	granule := uint64(0)

	for start := 0; ; start += packetSamples {
		end := start + packetSamples
		if end > len(pcm) {
			end = len(pcm)
		}

		chunk := pcm[start:end]
		payload := make([]byte, 2*len(chunk))
		for i, sample := range chunk {
			binary.LittleEndian.PutUint16(payload[2*i:], uint16(sample))
		}

		granule += uint64(len(chunk) / opts.Channels)

		var flags byte
		last := end >= len(pcm)
		if last {
			flags = ogg.EndOfStream
		}

		if err := writer.WritePacket(payload, granule, flags); err != nil {
			return errctx.Field("granule", granule).Wrap(err).Error("Failed to write pcm packet")
		}

		if last {
			return nil
		}
	}
}

func oggPCMHeader(opts ExportOptions) []byte {
	header := make([]byte, 28)
	copy(header[0:], vorbisStubMagic)
	binary.BigEndian.PutUint16(header[8:], 0)
	binary.BigEndian.PutUint16(header[10:], 0)
	binary.BigEndian.PutUint32(header[12:], oggPCMFormatS16LE)
	binary.BigEndian.PutUint32(header[16:], uint32(opts.SampleRate))
	header[20] = 16
	header[21] = byte(opts.Channels)
	binary.BigEndian.PutUint16(header[22:], vorbisStubPacketFrames)
	binary.BigEndian.PutUint32(header[24:], 0)
	return header
}

func vorbisStubComment(opts ExportOptions) []byte {
	comment := fmt.Sprintf("VORBIS_QUALITY=%d", opts.VorbisQuality)

	packet := make([]byte, 0, 4+len(vendor)+4+4+len(comment))
	packet = binary.LittleEndian.AppendUint32(packet, uint32(len(vendor)))
	packet = append(packet, vendor...)
	packet = binary.LittleEndian.AppendUint32(packet, 1)
	packet = binary.LittleEndian.AppendUint32(packet, uint32(len(comment)))
	packet = append(packet, comment...)
	return packet
}

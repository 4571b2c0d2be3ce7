package ogg

import (
	"encoding/binary"
	"io"

	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
)

const (
	Continued         byte = 0x01
	BeginningOfStream byte = 0x02
	EndOfStream       byte = 0x04
)

const (
	headerSize       = 27
	maxSegments      = 255
	maxSegmentLength = 255

	// granule for pages on which no packet finishes
	noGranule = ^uint64(0)
)

var crcTable = buildCRCTable()

// buildCRCTable is the Ogg CRC-32: polynomial 0x04c11db7, zero initial value,
// no bit reflection. hash/crc32 only implements the reflected variant.
func buildCRCTable() [256]uint32 {
	var table [256]uint32
	const poly = 0x04c11db7

	for i := range table {
		remainder := uint32(i) << 24
		for bit := 0; bit < 8; bit++ {
			if remainder&0x80000000 != 0 {
				remainder = (remainder << 1) ^ poly
			} else {
				remainder <<= 1
			}
		}
		table[i] = remainder
	}

	return table
}

func Checksum(page []byte) uint32 {
	var crc uint32
	for _, b := range page {
		crc = (crc << 8) ^ crcTable[byte(crc>>24)^b]
	}

	return crc
}

// Writer emits one logical bitstream. Every packet starts on a fresh page;
// packets too large for one page continue on the following pages.
type Writer struct {
	out      io.Writer
	serial   uint32
	sequence uint32
	pages    int
}

func NewWriter(out io.Writer, serial uint32) *Writer {
	return &Writer{
		out:    out,
		serial: serial,
	}
}

func (w *Writer) Pages() int {
	return w.pages
}

// WritePacket writes packet with the given granule position on the page where
// it ends. flags may carry BeginningOfStream and EndOfStream.
func (w *Writer) WritePacket(packet []byte, granule uint64, flags byte) error {
	lacing := lacingValues(len(packet))

	offset := 0
	first := true
	for len(lacing) > 0 {
		segments := lacing
		if len(segments) > maxSegments {
			segments = lacing[:maxSegments]
		}
		lacing = lacing[len(segments):]

		payloadLength := 0
		for _, s := range segments {
			payloadLength += int(s)
		}

		var headerType byte
		if !first {
			headerType |= Continued
		}
		if first {
			headerType |= flags & BeginningOfStream
		}

		pageGranule := noGranule
		if len(lacing) == 0 {
			pageGranule = granule
			headerType |= flags & EndOfStream
		}

		page := w.buildPage(headerType, pageGranule, segments, packet[offset:offset+payloadLength])
		if _, err := w.out.Write(page); err != nil {
			return cerr.Field("page_sequence", w.sequence).
				Wrap(err).Error("Failed to write ogg page")
		}

		w.sequence++
		w.pages++
		offset += payloadLength
		first = false
	}

	return nil
}

func (w *Writer) buildPage(headerType byte, granule uint64, segments []byte, payload []byte) []byte {
	page := make([]byte, headerSize+len(segments)+len(payload))

	copy(page[0:], "OggS")
	page[4] = 0
	page[5] = headerType
	binary.LittleEndian.PutUint64(page[6:], granule)
	binary.LittleEndian.PutUint32(page[14:], w.serial)
	binary.LittleEndian.PutUint32(page[18:], w.sequence)
	page[26] = byte(len(segments))
	copy(page[headerSize:], segments)
	copy(page[headerSize+len(segments):], payload)

	binary.LittleEndian.PutUint32(page[22:], Checksum(page))
	return page
}

// lacingValues splits a packet length into 255 byte segments; a packet whose
// length is a multiple of 255 ends with a zero length segment.
func lacingValues(length int) []byte {
	values := make([]byte, 0, length/maxSegmentLength+1)
	for length >= maxSegmentLength {
		values = append(values, maxSegmentLength)
		length -= maxSegmentLength
	}

	return append(values, byte(length))
}

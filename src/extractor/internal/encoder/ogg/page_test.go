package ogg_test

import (
	"bytes"
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/untracker/src/extractor/internal/encoder/ogg"
)

type page struct {
	headerType byte
	granule    uint64
	serial     uint32
	sequence   uint32
	lacing     []byte
	payload    []byte
	raw        []byte
}

func splitPages(data []byte) []page {
	pages := []page{}
	for len(data) > 0 {
		segmentCount := int(data[26])
		lacing := data[27 : 27+segmentCount]
		length := 27 + segmentCount
		for _, l := range lacing {
			length += int(l)
		}

		pages = append(pages, page{
			headerType: data[5],
			granule:    binary.LittleEndian.Uint64(data[6:]),
			serial:     binary.LittleEndian.Uint32(data[14:]),
			sequence:   binary.LittleEndian.Uint32(data[18:]),
			lacing:     lacing,
			payload:    data[27+segmentCount : length],
			raw:        data[:length],
		})
		data = data[length:]
	}

	return pages
}

var _ = Describe("Writer", func() {
	var (
		out    *bytes.Buffer
		writer *ogg.Writer
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		writer = ogg.NewWriter(out, 0xCAFE)
	})

	DescribeTable("laces a packet into 255 byte segments",
		func(length int, expected []byte) {
			Expect(writer.WritePacket(make([]byte, length), 7, 0)).To(Succeed())

			pages := splitPages(out.Bytes())
			Expect(pages).To(HaveLen(1))
			Expect(pages[0].lacing).To(Equal(expected))
			Expect(pages[0].payload).To(HaveLen(length))
			Expect(pages[0].granule).To(BeEquivalentTo(7))
		},
		Entry("empty packet", 0, []byte{0}),
		Entry("exactly one segment", 255, []byte{255, 0}),
		Entry("partial last segment", 600, []byte{255, 255, 90}),
	)

	It("continues packets that do not fit on one page", func() {
		packet := make([]byte, 255*255+10)
		for i := range packet {
			packet[i] = byte(i)
		}

		Expect(writer.WritePacket(packet, 42, ogg.BeginningOfStream|ogg.EndOfStream)).To(Succeed())
		Expect(writer.Pages()).To(Equal(2))

		pages := splitPages(out.Bytes())
		Expect(pages).To(HaveLen(2))

		Expect(pages[0].headerType).To(Equal(ogg.BeginningOfStream))
		Expect(pages[0].granule).To(Equal(^uint64(0)))
		Expect(pages[0].lacing).To(HaveLen(255))

		Expect(pages[1].headerType).To(Equal(ogg.Continued | ogg.EndOfStream))
		Expect(pages[1].granule).To(BeEquivalentTo(42))
		Expect(pages[1].lacing).To(Equal([]byte{10}))

		Expect(append(append([]byte{}, pages[0].payload...), pages[1].payload...)).To(Equal(packet))
	})

	It("numbers pages and stamps the serial", func() {
		for i := 0; i < 3; i++ {
			Expect(writer.WritePacket([]byte("packet"), uint64(i), 0)).To(Succeed())
		}

		for i, p := range splitPages(out.Bytes()) {
			Expect(p.sequence).To(BeEquivalentTo(i))
			Expect(p.serial).To(BeEquivalentTo(0xCAFE))
			Expect(string(p.raw[:4])).To(Equal("OggS"))
		}
	})

	It("stores the checksum of the page with the checksum field zeroed", func() {
		Expect(writer.WritePacket([]byte("hello ogg"), 1, ogg.BeginningOfStream)).To(Succeed())

		raw := append([]byte{}, splitPages(out.Bytes())[0].raw...)
		stored := binary.LittleEndian.Uint32(raw[22:])
		binary.LittleEndian.PutUint32(raw[22:], 0)

		Expect(stored).NotTo(BeZero())
		Expect(ogg.Checksum(raw)).To(Equal(stored))
	})

	It("uses the non-reflected crc", func() {
		Expect(ogg.Checksum([]byte{0x01})).To(BeEquivalentTo(0x04c11db7))
	})
})

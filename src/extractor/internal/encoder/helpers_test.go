package encoder_test

import (
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/untracker/src/extractor/internal/encoder"
	. "github.com/veedubyou/untracker/src/shared/testing"
)

func tempDir() string {
	dir := ExpectSuccess(os.MkdirTemp("", "untracker-encoder"))
	DeferCleanup(os.RemoveAll, dir)
	return dir
}

func encodeToFile(enc encoder.Encoder, pcm []int16, opts encoder.ExportOptions) string {
	path := filepath.Join(tempDir(), "out."+opts.Format.Extension())

	file := ExpectSuccess(os.Create(path))
	defer file.Close()

	Expect(enc.Encode(file, pcm, opts)).To(Succeed())
	return path
}

type oggPage struct {
	headerType byte
	granule    uint64
	sequence   uint32
	payload    []byte
}

// readOggPages walks the raw page structure so tests can look at flags that
// decoders hide.
func readOggPages(data []byte) []oggPage {
	pages := []oggPage{}

	for len(data) > 0 {
		Expect(len(data)).To(BeNumerically(">=", 27))
		Expect(string(data[0:4])).To(Equal("OggS"))

		segmentCount := int(data[26])
		headerLength := 27 + segmentCount
		payloadLength := 0
		for _, lacing := range data[27:headerLength] {
			payloadLength += int(lacing)
		}

		pageLength := headerLength + payloadLength
		page := data[:pageLength]
		pages = append(pages, oggPage{
			headerType: page[5],
			granule:    binary.LittleEndian.Uint64(page[6:]),
			sequence:   binary.LittleEndian.Uint32(page[18:]),
			payload:    page[headerLength:],
		})

		data = data[pageLength:]
	}

	return pages
}

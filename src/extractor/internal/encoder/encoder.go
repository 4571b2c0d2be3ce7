package encoder

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
)

// vendor string written into Ogg comment headers
const vendor = "untracker"

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Encoder turns interleaved 16-bit PCM into one container format.
//
//counterfeiter:generate . Encoder
type Encoder interface {
	Encode(out io.WriteSeeker, pcm []int16, opts ExportOptions) error
}

var (
	_ Encoder = WAVEncoder{}
	_ Encoder = OpusEncoder{}
	_ Encoder = VorbisEncoder{}
	_ Encoder = FLACEncoder{}
)

func ForFormat(format Format) (Encoder, error) {
	switch format {
	case WAV:
		return WAVEncoder{}, nil
	case Vorbis:
		return VorbisEncoder{}, nil
	case Opus:
		return OpusEncoder{}, nil
	case FLAC:
		return FLACEncoder{}, nil
	default:
		return nil, cerr.Field("format", format).
			Mark(UnsupportedFormatConfiguration).
			Error("No encoder for format")
	}
}

// FileWriter validates options and writes one artifact through a temporary
// file in the destination directory, renamed into place on success.
type FileWriter struct {
	encoders map[Format]Encoder
}

func NewFileWriter() FileWriter {
	encoders := map[Format]Encoder{}
	for _, format := range Formats {
		enc, err := ForFormat(format)
		if err != nil {
			panic(err)
		}
		encoders[format] = enc
	}

	return FileWriter{encoders: encoders}
}

// WithEncoder returns a copy of the writer using enc for format.
func (f FileWriter) WithEncoder(format Format, enc Encoder) FileWriter {
	encoders := make(map[Format]Encoder, len(f.encoders)+1)
	for k, v := range f.encoders {
		encoders[k] = v
	}
	encoders[format] = enc

	return FileWriter{encoders: encoders}
}

func (f FileWriter) Write(ctx context.Context, path string, pcm []int16, opts ExportOptions) error {
	errctx := cerr.Fields(cerr.F{
		"path":   path,
		"format": opts.Format,
	})

	if err := opts.Validate(); err != nil {
		return errctx.Wrap(err).Error("Export options rejected by encoder")
	}

	if len(pcm)%opts.Channels != 0 {
		return errctx.Field("samples", len(pcm)).
			Mark(UnsupportedFormatConfiguration).
			Error("PCM length is not a multiple of the channel count")
	}

	enc, ok := f.encoders[opts.Format]
	if !ok {
		return errctx.Mark(UnsupportedFormatConfiguration).Error("No encoder registered for format")
	}

	if ctx.Err() != nil {
		return errctx.Wrap(ctx.Err()).Error("Context cancelled before encoding")
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return errctx.Mark(OutputWriteFailed).Wrap(err).Error("Failed to create temporary output file")
	}

	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := enc.Encode(tmp, pcm, opts); err != nil {
		return errctx.Mark(OutputWriteFailed).Wrap(err).Error("Failed to encode audio")
	}

	if err := tmp.Close(); err != nil {
		return errctx.Mark(OutputWriteFailed).Wrap(err).Error("Failed to close temporary output file")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errctx.Mark(OutputWriteFailed).Wrap(err).Error("Failed to move output file into place")
	}

	committed = true

	log.WithFields(log.Fields{
		"path":    path,
		"format":  opts.Format,
		"samples": len(pcm),
	}).Debug("Wrote artifact")

	return nil
}

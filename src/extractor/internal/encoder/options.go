package encoder

import (
	"strings"

	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
)

type Format int

const (
	WAV Format = iota
	Vorbis
	Opus
	FLAC
)

var Formats = []Format{WAV, Vorbis, Opus, FLAC}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wav":
		return WAV, nil
	case "vorbis", "ogg":
		return Vorbis, nil
	case "opus":
		return Opus, nil
	case "flac":
		return FLAC, nil
	default:
		return WAV, cerr.Field("format", s).
			Mark(UnsupportedFormatConfiguration).
			Error("Unsupported audio format")
	}
}

func (f Format) String() string {
	switch f {
	case WAV:
		return "wav"
	case Vorbis:
		return "vorbis"
	case Opus:
		return "opus"
	case FLAC:
		return "flac"
	default:
		return "unknown"
	}
}

func (f Format) Extension() string {
	switch f {
	case WAV:
		return "wav"
	case Vorbis:
		return "ogg"
	case Opus:
		return "opus"
	case FLAC:
		return "flac"
	default:
		return "bin"
	}
}

func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}

	*f = parsed
	return nil
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

type ResampleMethod int

const (
	Nearest ResampleMethod = iota
	Linear
	Cubic
	Sinc
)

func ParseResampleMethod(s string) (ResampleMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest":
		return Nearest, nil
	case "linear":
		return Linear, nil
	case "cubic":
		return Cubic, nil
	case "sinc":
		return Sinc, nil
	default:
		return Sinc, cerr.Field("resample", s).Error("Unknown resampling method")
	}
}

func (r ResampleMethod) String() string {
	switch r {
	case Nearest:
		return "nearest"
	case Linear:
		return "linear"
	case Cubic:
		return "cubic"
	case Sinc:
		return "sinc"
	default:
		return "unknown"
	}
}

// FilterLength is the engine's interpolation filter tap count for the method.
func (r ResampleMethod) FilterLength() int {
	switch r {
	case Nearest:
		return 1
	case Linear:
		return 2
	case Cubic:
		return 4
	default:
		return 8
	}
}

func (r *ResampleMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseResampleMethod(string(text))
	if err != nil {
		return err
	}

	*r = parsed
	return nil
}

func (r ResampleMethod) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

const (
	OpusFallbackSampleRate = 48000

	minOpusBitrate = 6
	maxOpusBitrate = 510

	minVorbisQuality = 0
	maxVorbisQuality = 10

	minStereoSeparation = 0
	maxStereoSeparation = 200
)

var opusSampleRates = []int{8000, 12000, 16000, 24000, 48000}

// ExportOptions is built once per run and passed by value.
type ExportOptions struct {
	Format           Format         `json:"format"`
	SampleRate       int            `json:"sample_rate"`
	Channels         int            `json:"channels"`
	BitDepth         int            `json:"bit_depth"`
	OpusBitrate      int            `json:"opus_bitrate"`
	VorbisQuality    int            `json:"vorbis_quality"`
	Resample         ResampleMethod `json:"resample"`
	StereoSeparation int            `json:"stereo_separation"`
}

func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:           WAV,
		SampleRate:       44100,
		Channels:         2,
		BitDepth:         16,
		OpusBitrate:      128,
		VorbisQuality:    5,
		Resample:         Sinc,
		StereoSeparation: 100,
	}
}

func IsOpusSampleRate(rate int) bool {
	for _, valid := range opusSampleRates {
		if rate == valid {
			return true
		}
	}

	return false
}

// ForRender returns the options the render loop must use. Opus only accepts a
// handful of rates, so any other rate becomes 48000 before rendering starts.
func (o ExportOptions) ForRender() ExportOptions {
	if o.Format == Opus && !IsOpusSampleRate(o.SampleRate) {
		o.SampleRate = OpusFallbackSampleRate
	}

	return o
}

// Validate checks the format independent constraints and then the ones of the
// selected format. It never touches the filesystem.
func (o ExportOptions) Validate() error {
	if err := o.validateCommon(); err != nil {
		return err
	}

	switch o.Format {
	case WAV, FLAC:
		return nil
	case Opus:
		return o.validateOpus()
	case Vorbis:
		return o.validateVorbis()
	default:
		return invalid("format", o.Format, "Unsupported audio format")
	}
}

func (o ExportOptions) validateCommon() error {
	if o.Channels != 1 && o.Channels != 2 {
		return invalid("channels", o.Channels, "Only 1 (mono) or 2 (stereo) channels are supported")
	}

	if o.SampleRate <= 0 {
		return invalid("sample_rate", o.SampleRate, "Sample rate must be positive")
	}

	if o.StereoSeparation < minStereoSeparation || o.StereoSeparation > maxStereoSeparation {
		return invalid("stereo_separation", o.StereoSeparation, "Stereo separation must be between 0 and 200 percent")
	}

	return o.validateBitDepth()
}

func (o ExportOptions) validateBitDepth() error {
	if o.BitDepth != 16 && o.BitDepth != 24 {
		return invalid("bit_depth", o.BitDepth, "Only 16 or 24 bit depth is supported")
	}

	return nil
}

func (o ExportOptions) validateOpus() error {
	if !IsOpusSampleRate(o.SampleRate) {
		return invalid("sample_rate", o.SampleRate, "Opus supports 8000, 12000, 16000, 24000 or 48000 Hz only")
	}

	if o.OpusBitrate < minOpusBitrate || o.OpusBitrate > maxOpusBitrate {
		return invalid("opus_bitrate", o.OpusBitrate, "Opus bitrate must be between 6 and 510 kbps")
	}

	return nil
}

func (o ExportOptions) validateVorbis() error {
	if o.VorbisQuality < minVorbisQuality || o.VorbisQuality > maxVorbisQuality {
		return invalid("vorbis_quality", o.VorbisQuality, "Vorbis quality must be between 0 and 10")
	}

	return nil
}

func invalid(field string, value any, msg string) error {
	return cerr.Field("field", field).
		Field("value", value).
		Mark(UnsupportedFormatConfiguration).
		Error(msg)
}

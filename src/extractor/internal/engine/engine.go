package engine

// VoiceKind selects which voice table of a module a target indexes into.
type VoiceKind int

const (
	Instrument VoiceKind = iota
	Sample
)

func (k VoiceKind) Label() string {
	switch k {
	case Instrument:
		return "instrument"
	case Sample:
		return "sample"
	default:
		return "unknown"
	}
}

func (k VoiceKind) String() string {
	return k.Label()
}

// VoiceTarget is a 0-based ordinal into the module's instrument or sample table.
type VoiceTarget struct {
	Kind  VoiceKind
	Index int
}

type RenderConfig struct {
	InterpolationFilterLength int
	StereoSeparationPercent   int
}

type Loader interface {
	Load(data []byte) (Module, error)
}

// Module is one loaded instance of a tracker module. It is not safe for
// concurrent use; every render job owns its own Module.
type Module interface {
	VoiceCount(kind VoiceKind) int
	// Interactive returns the mute control surface, if the engine exposes one.
	Interactive() (Interactive, bool)
	ConfigureRender(config RenderConfig) error
	// Render fills buf with interleaved samples and returns the number of
	// frames written. Zero frames means the song has ended.
	Render(sampleRate int, channels int, buf []int16) int
	PositionSeconds() float64
	DurationSeconds() float64
	Close() error
}

type Interactive interface {
	SetMute(kind VoiceKind, index int, mute bool) bool
}

package dummy

import (
	"sync"

	"github.com/veedubyou/untracker/src/extractor/internal/engine"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
)

var _ engine.Loader = &Loader{}
var _ engine.Module = &Module{}

var (
	NetworkFailure = cerr.Error("Dummy engine is unavailable")
	NotAModule     = cerr.Error("Dummy engine was given empty data")
)

// Song describes the synthetic module every Load produces. Each voice plays
// its own square wave so isolated renders are distinguishable.
type Song struct {
	Instruments     int
	Samples         int
	DurationSeconds float64
	// PlayedSeconds is how much audio exists before the engine reports zero
	// frames; zero means the same as DurationSeconds.
	PlayedSeconds float64
	// LoopForever keeps producing frames past the end of the song.
	LoopForever bool
	// Silent voices are present in the tables but never sound.
	Silent map[int]bool

	NoInteractive   bool
	RejectMute      map[int]bool
	ConfigureFailed bool
}

func NewDummyLoader(song Song) *Loader {
	return &Loader{
		Song:        song,
		Unavailable: false,
	}
}

type Loader struct {
	Song        Song
	Unavailable bool

	mutex   sync.Mutex
	modules []*Module
	live    int
	maxLive int
}

func (l *Loader) Load(data []byte) (engine.Module, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.Unavailable {
		return nil, NetworkFailure
	}

	if len(data) == 0 {
		return nil, NotAModule
	}

	module := &Module{
		song:   l.Song,
		loader: l,
		muted:  map[int]bool{},
	}

	l.modules = append(l.modules, module)
	l.live++
	if l.live > l.maxLive {
		l.maxLive = l.live
	}

	return module, nil
}

func (l *Loader) Modules() []*Module {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	modules := make([]*Module, len(l.modules))
	copy(modules, l.modules)
	return modules
}

func (l *Loader) LoadCount() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.modules)
}

// MaxLive is the largest number of modules that were open at the same time.
func (l *Loader) MaxLive() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.maxLive
}

func (l *Loader) LiveCount() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.live
}

func (l *Loader) release() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.live--
}

type Module struct {
	song   Song
	loader *Loader

	mutex        sync.Mutex
	muted        map[int]bool
	config       engine.RenderConfig
	configured   bool
	framesPlayed int
	sampleRate   int
	closed       bool
}

func (m *Module) VoiceCount(kind engine.VoiceKind) int {
	switch kind {
	case engine.Instrument:
		return m.song.Instruments
	case engine.Sample:
		return m.song.Samples
	default:
		return 0
	}
}

func (m *Module) Interactive() (engine.Interactive, bool) {
	if m.song.NoInteractive {
		return nil, false
	}

	return interactive{module: m}, true
}

func (m *Module) ConfigureRender(config engine.RenderConfig) error {
	if m.song.ConfigureFailed {
		return cerr.Error("Dummy engine refused the render configuration")
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.config = config
	m.configured = true
	return nil
}

func (m *Module) Render(sampleRate int, channels int, buf []int16) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if channels <= 0 || sampleRate <= 0 {
		return 0
	}

	m.sampleRate = sampleRate

	frames := len(buf) / channels
	if !m.song.LoopForever {
		remaining := m.totalFrames(sampleRate) - m.framesPlayed
		if remaining < frames {
			frames = remaining
		}
	}

	if frames <= 0 {
		return 0
	}

	for frame := 0; frame < frames; frame++ {
		value := m.mix(m.framesPlayed + frame)
		for channel := 0; channel < channels; channel++ {
			// the right channel is attenuated so stereo output is not just a copy
			buf[frame*channels+channel] = value >> uint(channel)
		}
	}

	m.framesPlayed += frames
	return frames
}

func (m *Module) totalFrames(sampleRate int) int {
	played := m.song.PlayedSeconds
	if played == 0 {
		played = m.song.DurationSeconds
	}

	return int(played * float64(sampleRate))
}

func (m *Module) mix(frame int) int16 {
	voices := m.song.Instruments
	if voices == 0 {
		voices = m.song.Samples
	}

	sum := 0
	for voice := 0; voice < voices; voice++ {
		if m.muted[voice] || m.song.Silent[voice] {
			continue
		}

		amplitude := 100 * (voice + 1)
		period := 2 * (voice + 2)
		if (frame/(period/2))%2 == 0 {
			sum += amplitude
		} else {
			sum -= amplitude
		}
	}

	if sum > 32767 {
		return 32767
	}

	if sum < -32768 {
		return -32768
	}

	return int16(sum)
}

func (m *Module) PositionSeconds() float64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.sampleRate == 0 {
		return 0
	}

	return float64(m.framesPlayed) / float64(m.sampleRate)
}

func (m *Module) DurationSeconds() float64 {
	return m.song.DurationSeconds
}

func (m *Module) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	m.loader.release()
	return nil
}

func (m *Module) Closed() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.closed
}

func (m *Module) Muted(index int) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.muted[index]
}

func (m *Module) RenderConfig() (engine.RenderConfig, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.config, m.configured
}

type interactive struct {
	module *Module
}

func (i interactive) SetMute(kind engine.VoiceKind, index int, mute bool) bool {
	if i.module.song.RejectMute[index] {
		return false
	}

	i.module.mutex.Lock()
	defer i.module.mutex.Unlock()

	i.module.muted[index] = mute
	return true
}

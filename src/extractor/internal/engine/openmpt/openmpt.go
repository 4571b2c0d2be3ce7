package openmpt

/*
#cgo pkg-config: libopenmpt
#include <stdint.h>
#include <stdlib.h>
#include <libopenmpt/libopenmpt.h>
#include <libopenmpt/libopenmpt_ext.h>

static openmpt_module_ext *untracker_load(const void *data, size_t size, int *error, const char **error_message) {
	return openmpt_module_ext_create_from_memory(data, size, openmpt_log_func_silent, NULL, openmpt_error_func_store, NULL, error, error_message, NULL);
}

static int untracker_get_interactive(openmpt_module_ext *ext, openmpt_module_ext_interface_interactive *iface) {
	return openmpt_module_ext_get_interface(ext, LIBOPENMPT_EXT_C_INTERFACE_INTERACTIVE, iface, sizeof(*iface));
}

static int untracker_set_mute(openmpt_module_ext *ext, openmpt_module_ext_interface_interactive *iface, int32_t index, int mute) {
	if (iface->set_instrument_mute_status == NULL) {
		return 0;
	}
	return iface->set_instrument_mute_status(ext, index, mute);
}
*/
import "C"

import (
	"unsafe"

	"github.com/veedubyou/untracker/src/extractor/internal/engine"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
)

var _ engine.Loader = Loader{}
var _ engine.Module = &Module{}

type Loader struct{}

func (Loader) Load(data []byte) (engine.Module, error) {
	if len(data) == 0 {
		return nil, cerr.Error("Module data is empty")
	}

	var errorCode C.int
	var errorMessage *C.char

	ext := C.untracker_load(unsafe.Pointer(&data[0]), C.size_t(len(data)), &errorCode, &errorMessage)
	if ext == nil {
		message := ""
		if errorMessage != nil {
			message = C.GoString(errorMessage)
			C.openmpt_free_string(errorMessage)
		}

		return nil, cerr.Field("openmpt_error", int(errorCode)).
			Field("openmpt_message", message).
			Error("libopenmpt failed to parse module")
	}

	if errorMessage != nil {
		C.openmpt_free_string(errorMessage)
	}

	return &Module{
		ext: ext,
		mod: C.openmpt_module_ext_get_module(ext),
	}, nil
}

// Module owns one openmpt_module_ext. The handle is destroyed by Close.
type Module struct {
	ext *C.openmpt_module_ext
	mod *C.openmpt_module

	iface       C.openmpt_module_ext_interface_interactive
	ifaceLoaded bool
}

func (m *Module) VoiceCount(kind engine.VoiceKind) int {
	switch kind {
	case engine.Instrument:
		return int(C.openmpt_module_get_num_instruments(m.mod))
	case engine.Sample:
		return int(C.openmpt_module_get_num_samples(m.mod))
	default:
		return 0
	}
}

func (m *Module) Interactive() (engine.Interactive, bool) {
	if !m.ifaceLoaded {
		if C.untracker_get_interactive(m.ext, &m.iface) == 0 {
			return nil, false
		}
		m.ifaceLoaded = true
	}

	return interactive{module: m}, true
}

func (m *Module) ConfigureRender(config engine.RenderConfig) error {
	ok := C.openmpt_module_set_render_param(m.mod,
		C.OPENMPT_MODULE_RENDER_INTERPOLATIONFILTER_LENGTH,
		C.int32_t(config.InterpolationFilterLength))
	if ok == 0 {
		return cerr.Field("filter_length", config.InterpolationFilterLength).
			Error("libopenmpt rejected interpolation filter length")
	}

	ok = C.openmpt_module_set_render_param(m.mod,
		C.OPENMPT_MODULE_RENDER_STEREOSEPARATION_PERCENT,
		C.int32_t(config.StereoSeparationPercent))
	if ok == 0 {
		return cerr.Field("stereo_separation", config.StereoSeparationPercent).
			Error("libopenmpt rejected stereo separation")
	}

	return nil
}

func (m *Module) Render(sampleRate int, channels int, buf []int16) int {
	if channels <= 0 || len(buf) < channels {
		return 0
	}

	frames := len(buf) / channels
	out := (*C.int16_t)(unsafe.Pointer(&buf[0]))

	if channels == 2 {
		return int(C.openmpt_module_read_interleaved_stereo(m.mod, C.int32_t(sampleRate), C.size_t(frames), out))
	}

	return int(C.openmpt_module_read_mono(m.mod, C.int32_t(sampleRate), C.size_t(frames), out))
}

func (m *Module) PositionSeconds() float64 {
	return float64(C.openmpt_module_get_position_seconds(m.mod))
}

func (m *Module) DurationSeconds() float64 {
	return float64(C.openmpt_module_get_duration_seconds(m.mod))
}

func (m *Module) Close() error {
	if m.ext == nil {
		return nil
	}

	C.openmpt_module_ext_destroy(m.ext)
	m.ext = nil
	m.mod = nil
	return nil
}

type interactive struct {
	module *Module
}

// SetMute goes through the instrument mute call for both kinds: libopenmpt
// addresses samples with it when a module has no instruments.
func (i interactive) SetMute(kind engine.VoiceKind, index int, mute bool) bool {
	var muteFlag C.int
	if mute {
		muteFlag = 1
	}

	return C.untracker_set_mute(i.module.ext, &i.module.iface, C.int32_t(index), muteFlag) != 0
}

package stem

import "github.com/cockroachdb/errors/domains"

var (
	ModuleLoadFailed                = domains.New("module_load_failed")
	InteractiveInterfaceUnavailable = domains.New("interactive_interface_unavailable")
	InvalidVoiceIndex               = domains.New("invalid_voice_index")
)

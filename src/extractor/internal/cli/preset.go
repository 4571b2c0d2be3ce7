package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
	"gopkg.in/yaml.v3"
)

// Preset maps long flag names to values, e.g.
//
//	format: flac
//	bit-depth: 24
//	parallel: true
type Preset map[string]any

func LoadPreset(path string) (Preset, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, cerr.Field("path", path).Wrap(err).Error("Failed to read preset")
	}

	preset := Preset{}
	if err := yaml.Unmarshal(contents, &preset); err != nil {
		return nil, cerr.Field("path", path).Wrap(err).Error("Failed to parse preset")
	}

	return preset, nil
}

// Apply sets every preset value whose flag was not given on the command line.
func (p Preset) Apply(fs *flag.FlagSet) error {
	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	for name, value := range p {
		if fs.Lookup(name) == nil {
			return cerr.Field("key", name).Error("Unknown preset key")
		}

		if name == "config" || explicit[name] || explicit[shorthands[name]] {
			continue
		}

		if err := fs.Set(name, fmt.Sprint(value)); err != nil {
			return cerr.Field("key", name).Field("value", value).
				Wrap(err).Error("Invalid preset value")
		}
	}

	return nil
}

var shorthands = map[string]string{
	"input":      "i",
	"output-dir": "o",
}

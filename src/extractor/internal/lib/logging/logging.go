package logging

import (
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/discard"
	"github.com/apex/log/handlers/json"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
	"golang.org/x/term"
)

const (
	FormatAuto    = "auto"
	FormatCLI     = "cli"
	FormatJSON    = "json"
	FormatDiscard = "discard"
)

// Setup installs the global apex/log handler writing to w.
func Setup(level string, format string, w io.Writer) error {
	parsedLevel, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return cerr.Field("log_level", level).Wrap(err).Error("Unknown log level")
	}

	handler, err := handlerFor(format, w)
	if err != nil {
		return err
	}

	log.SetHandler(handler)
	log.SetLevel(parsedLevel)
	return nil
}

// Discard silences all logging, for tests.
func Discard() {
	log.SetHandler(discard.Default)
}

func handlerFor(format string, w io.Writer) (log.Handler, error) {
	switch strings.ToLower(format) {
	case "", FormatAuto:
		if isTerminal(w) {
			return cli.New(w), nil
		}
		return json.New(w), nil
	case FormatCLI:
		return cli.New(w), nil
	case FormatJSON:
		return json.New(w), nil
	case FormatDiscard:
		return discard.Default, nil
	default:
		return nil, cerr.Field("log_format", format).Error("Unknown log format")
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd()))
}

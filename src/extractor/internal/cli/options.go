package cli

import (
	"flag"
	"io"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/domains"
	"github.com/veedubyou/untracker/src/extractor/internal/encoder"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/logging"
)

const Name = "untracker"

var ArgumentInvalid = domains.New("argument_invalid")

// Args is everything the command line (and an optional preset) asked for.
type Args struct {
	InputPath  string
	OutputDir  string
	ConfigPath string

	Options encoder.ExportOptions

	Parallel  bool
	Workers   int
	KeepGoing bool
	Manifest  bool

	PublishEvents bool
	Upload        bool

	LogLevel  string
	LogFormat string
}

// NewFlagSet returns a quiet FlagSet that reports errors instead of exiting.
func NewFlagSet(name string, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		_, _ = io.WriteString(fs.Output(), "Usage: "+name+" -i MODULE -o OUTPUT_DIR [options]\n\n")
		fs.PrintDefaults()
	}
	return fs
}

func register(fs *flag.FlagSet, args *Args) {
	defaults := encoder.DefaultExportOptions()
	args.Options = defaults

	fs.StringVar(&args.InputPath, "i", "", "module file to extract stems from (shorthand)")
	fs.StringVar(&args.InputPath, "input", "", "module file to extract stems from")
	fs.StringVar(&args.OutputDir, "o", "", "directory the stems are written to (shorthand)")
	fs.StringVar(&args.OutputDir, "output-dir", "", "directory the stems are written to, created if missing")
	fs.StringVar(&args.ConfigPath, "config", "", "YAML preset supplying defaults for any other flag")

	fs.IntVar(&args.Options.SampleRate, "sample-rate", defaults.SampleRate, "output sample rate in Hz")
	fs.IntVar(&args.Options.Channels, "channels", defaults.Channels, "output channels: 1 or 2")
	fs.TextVar(&args.Options.Resample, "resample", defaults.Resample, "interpolation: nearest | linear | cubic | sinc")
	fs.TextVar(&args.Options.Format, "format", defaults.Format, "output format: wav | vorbis (ogg) | opus | flac")
	fs.IntVar(&args.Options.BitDepth, "bit-depth", defaults.BitDepth, "bits per sample for wav and flac: 16 or 24")
	fs.IntVar(&args.Options.OpusBitrate, "opus-bitrate", defaults.OpusBitrate, "opus bitrate in kbps (6-510)")
	fs.IntVar(&args.Options.VorbisQuality, "vorbis-quality", defaults.VorbisQuality, "vorbis quality (0-10)")
	fs.IntVar(&args.Options.StereoSeparation, "stereo-separation", defaults.StereoSeparation, "stereo separation percent (0-200)")

	fs.BoolVar(&args.Parallel, "parallel", false, "render stems concurrently")
	fs.IntVar(&args.Workers, "workers", runtime.NumCPU(), "number of concurrent renders with --parallel")
	fs.BoolVar(&args.KeepGoing, "keep-going", false, "keep extracting after a stem fails and report every failure")
	fs.BoolVar(&args.Manifest, "manifest", false, "write manifest.json into the output directory")

	fs.BoolVar(&args.PublishEvents, "publish-events", false, "publish a stem_completed message per stem to RabbitMQ")
	fs.BoolVar(&args.Upload, "upload", false, "upload every stem to cloud storage")

	fs.StringVar(&args.LogLevel, "log-level", "info", "debug | info | warn | error")
	fs.StringVar(&args.LogFormat, "log-format", logging.FormatAuto, "auto | cli | json")
}

// Parse reads argv (without the program name). Flags given explicitly win
// over the preset named by --config, which wins over built-in defaults.
func Parse(argv []string, output io.Writer) (Args, error) {
	fs := NewFlagSet(Name, output)
	args := Args{}
	register(fs, &args)

	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return args, err
		}
		return args, cerr.Mark(ArgumentInvalid).Wrap(err).Error("Failed to parse arguments")
	}

	if args.InputPath == "" && fs.NArg() > 0 {
		args.InputPath = fs.Arg(0)
	}

	if args.ConfigPath != "" {
		preset, err := LoadPreset(args.ConfigPath)
		if err != nil {
			return args, cerr.Mark(ArgumentInvalid).Wrap(err).Error("Failed to load preset")
		}

		if err := preset.Apply(fs); err != nil {
			return args, cerr.Mark(ArgumentInvalid).Wrap(err).Error("Failed to apply preset")
		}
	}

	if args.InputPath == "" {
		return args, cerr.Mark(ArgumentInvalid).Error("An input module is required (-i)")
	}

	if args.OutputDir == "" {
		return args, cerr.Mark(ArgumentInvalid).Error("An output directory is required (-o)")
	}

	if args.Workers < 1 {
		return args, cerr.Field("workers", args.Workers).
			Mark(ArgumentInvalid).Error("Workers must be at least 1")
	}

	return args, nil
}

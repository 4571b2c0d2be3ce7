package encoder

import "github.com/cockroachdb/errors/domains"

var (
	UnsupportedFormatConfiguration = domains.New("unsupported_format_configuration")
	OutputWriteFailed              = domains.New("output_write_failed")
)

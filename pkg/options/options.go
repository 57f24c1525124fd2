package options

import (
	"github.com/go-logr/logr"
)

// ProgressCallback is invoked during extraction with per-file progress.
type ProgressCallback func(
	currentFilename string,
	bytesTransferred int64,
	totalBytes int64,
	currentFileNumber int,
	totalFileCount int,
)

// Options control how a volume is opened and read.
type Options struct {
	// ValidateOnOpen runs home-block validation at the given level when the
	// image is opened, failing Open on anything short of a valid volume.
	ValidateOnOpen  bool
	ValidationLevel int
	// StripVersionInfo drops the ";version" suffix from extracted file names.
	StripVersionInfo bool
	Logger           logr.Logger
	ProgressCallback ProgressCallback
}

// Option mutates Options.
type Option func(*Options)

// WithLogger sets the logger used by the volume and its decoders.
func WithLogger(logger logr.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithValidation enables home-block validation during Open at the given
// level (0 checks geometry only, 1 additionally checks home block content).
func WithValidation(level int) Option {
	return func(o *Options) {
		o.ValidateOnOpen = true
		o.ValidationLevel = level
	}
}

// WithStripVersionInfo sets whether extracted file names keep their
// ";version" suffix.
func WithStripVersionInfo(enabled bool) Option {
	return func(o *Options) {
		o.StripVersionInfo = enabled
	}
}

// WithProgress sets a callback receiving extraction progress updates.
// Parameters:
// - currentFilename: The name of the file currently being extracted.
// - bytesTransferred: The number of bytes written so far for the current file.
// - totalBytes: The total number of bytes for the current file.
// - currentFileNumber: The index of the current file being extracted.
// - totalFileCount: The total number of files to be extracted.
func WithProgress(callback ProgressCallback) Option {
	return func(o *Options) {
		o.ProgressCallback = callback
	}
}

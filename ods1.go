package ods1

import (
	"github.com/go-logr/logr"
	"github.com/keck9939/ods1-kit/pkg"
	"github.com/keck9939/ods1-kit/pkg/block"
	"github.com/keck9939/ods1-kit/pkg/files11"
	"github.com/keck9939/ods1-kit/pkg/options"
)

// Open opens an existing Files-11 ODS-1 disk image file
func Open(location string, opts ...options.Option) (Volume, error) {
	// Set default options
	options := options.Options{
		StripVersionInfo: true,
		Logger:           logr.Discard(),
	}

	// Apply options
	for _, opt := range opts {
		opt(&options)
	}

	vol := &pkg.ODS1Volume{Options: options}
	return vol, vol.Open(location)
}

// OpenDevice opens a volume over a caller-supplied block device, for
// callers that already hold the image in memory or behind their own I/O
// layer.
func OpenDevice(dev block.Device, opts ...options.Option) (Volume, error) {
	options := options.Options{
		StripVersionInfo: true,
		Logger:           logr.Discard(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	vol := &pkg.ODS1Volume{Options: options}
	return vol, vol.OpenDevice(dev)
}

// Volume represents a read-only ODS-1 volume
type Volume interface {
	Parse() error
	Parsed() bool
	Close() error
	String() string
	Validate(level int) (files11.ValidationResult, error)
	HomeBlock() (*files11.HomeBlock, error)
	ChangeDirectory(spec string) error
	CurrentDirectoryLabel() string
	ListDirectory() ([]files11.DirectoryEntry, error)
	ReadFile(fileNumber, fileSequence uint16) ([]byte, error)
	ResolveBlock(fileNumber, fileSequence uint16, vbn uint32) (uint32, error)
	ExtractFiles(outputLocation string) error
}

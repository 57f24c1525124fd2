package main

import (
	"fmt"
	"os"

	"github.com/bgrewell/usage"
	ods1 "github.com/keck9939/ods1-kit"
	"github.com/keck9939/ods1-kit/pkg/files11"
	"github.com/keck9939/ods1-kit/pkg/logging"
	"github.com/keck9939/ods1-kit/pkg/options"
)

func main() {

	u := usage.NewUsage()
	help := u.AddBooleanOption("h", "help", false, "Show this help message", "optional", nil)
	verbose := u.AddBooleanOption("v", "verbose", false, "Print verbose output", "", nil)
	path := u.AddArgument(1, "image-path", "Path to the ODS-1 disk image", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if path == nil || *path == "" {
		u.PrintError(fmt.Errorf("location of the disk image <image-path> must be provided"))
		os.Exit(1)
	}

	opts := []options.Option{}
	if *verbose {
		opts = append(opts, options.WithLogger(logging.NewSimpleLogger(os.Stderr, logging.DEBUG, true)))
	}

	vol, err := ods1.Open(*path, opts...)
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}
	defer vol.Close()

	result, err := vol.Validate(1)
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}
	fmt.Printf("Volume:    %s\n", result)
	if result != files11.Valid {
		os.Exit(1)
	}

	home, err := vol.HomeBlock()
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}
	fmt.Printf("Name:      %s\n", home.VolumeName)
	fmt.Printf("Level:     %04X\n", home.StructureLevel)
	fmt.Printf("Max files: %d\n", home.MaximumFiles)
	fmt.Printf("Bitmap:    %d block(s) at LBN %d\n", home.IndexBitmapSize, home.IndexBitmapLBN)
	fmt.Printf("Created:   %s\n", home.CreationDate)
}

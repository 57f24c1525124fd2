package main

import (
	"fmt"
	"os"

	"github.com/bgrewell/usage"
	ods1 "github.com/keck9939/ods1-kit"
	"github.com/keck9939/ods1-kit/pkg/logging"
	"github.com/keck9939/ods1-kit/pkg/options"
)

func main() {

	u := usage.NewUsage()
	help := u.AddBooleanOption("h", "help", false, "Show this help message", "optional", nil)
	verbose := u.AddBooleanOption("v", "verbose", false, "Print verbose output", "", nil)
	path := u.AddArgument(1, "image-path", "Path to the ODS-1 disk image", "")
	dir := u.AddArgument(2, "directory", "Directory to list, e.g. [USER]; defaults to [000000]", "")
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

	opts := []options.Option{options.WithValidation(1)}
	if *verbose {
		opts = append(opts, options.WithLogger(logging.NewSimpleLogger(os.Stderr, logging.DEBUG, true)))
	}

	vol, err := ods1.Open(*path, opts...)
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}
	defer vol.Close()

	if dir != nil && *dir != "" {
		if err := vol.ChangeDirectory(*dir); err != nil {
			u.PrintError(err)
			os.Exit(1)
		}
	}

	entries, err := vol.ListDirectory()
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}

	fmt.Printf("Directory %s\n\n", vol.CurrentDirectoryLabel())
	for _, e := range entries {
		fmt.Printf("%-20s (%d,%d)\n", e.FileName(), e.FileNumber, e.FileSequence)
	}
	fmt.Printf("\nTotal of %d file(s)\n", len(entries))
}

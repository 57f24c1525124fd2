package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	ods1 "github.com/keck9939/ods1-kit"
	"github.com/keck9939/ods1-kit/pkg/logging"
	"github.com/keck9939/ods1-kit/pkg/options"
	"github.com/theckman/yacspin"
	"golang.org/x/term"
)

var (
	version = "dev"
)

// truncateString truncates the input string to the specified max length.
// If truncation occurs, it prepends "..." to indicate the string has been shortened.
func truncateString(input string, maxLength int) string {
	if len(input) <= maxLength {
		return input
	}
	if maxLength <= 3 {
		return input[len(input)-maxLength:]
	}
	return "..." + input[len(input)-(maxLength-3):]
}

// CreateProgressCallback returns a ProgressCallback that updates the spinner's message.
func CreateProgressCallback(spinner *yacspin.Spinner) options.ProgressCallback {
	return func(
		currentFilename string,
		bytesTransferred int64,
		totalBytes int64,
		currentFileNumber int,
		totalFileCount int,
	) {
		// Fetch terminal width
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width = 80 // Default width
		}

		// Define fixed parts of the message
		fixedPart := fmt.Sprintf(" [%d/%d] ", currentFileNumber, totalFileCount)
		suffixPart := fmt.Sprintf(" - %.2f%%", float64(bytesTransferred)/float64(totalBytes)*100)

		// Calculate available space for the filename
		availableSpace := width - len(fixedPart) - len(suffixPart) - 6
		if availableSpace < 10 {
			availableSpace = 10
		}

		adjustedFilename := truncateString(currentFilename, availableSpace)

		percent := float64(bytesTransferred) / float64(totalBytes) * 100
		message := fmt.Sprintf(" [%d/%d] %s - %.2f%%",
			currentFileNumber, totalFileCount, adjustedFilename, percent)

		spinner.Message(message)
	}
}

// InitializeSpinner sets up and starts the yacspin spinner.
func InitializeSpinner() (*yacspin.Spinner, error) {
	settings := yacspin.Config{
		Frequency:         100 * time.Millisecond,
		ShowCursor:        false,
		SpinnerAtEnd:      false,
		CharSet:           yacspin.CharSets[14],
		Colors:            []string{"fgHiCyan"},
		StopColors:        []string{"fgHiGreen"},
		StopFailColors:    []string{"fgHiRed"},
		StopFailCharacter: "✗",
		StopCharacter:     "✓",
	}

	spinner, err := yacspin.New(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create spinner: %w", err)
	}

	if err := spinner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start spinner: %w", err)
	}

	return spinner, nil
}

func main() {
	// Logging level flags
	debug := flag.Bool("v", false, "Enable verbose (debug) logging")
	trace := flag.Bool("vv", false, "Enable trace logging")

	// Extraction options
	dir := flag.String("d", "", "Directory to extract, e.g. [USER]; defaults to [000000]")
	stripVer := flag.Bool("strip", true, "Strip version info from filenames")

	// Output directory
	outputDir := flag.String("o", "./extracted", "Output directory for extracted files")

	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("ods1extract v" + version)
		fmt.Println("Usage: ods1extract [options] <path-to-image>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Setup callback for progress updates
	spinner, err := InitializeSpinner()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize spinner: %v\n", err)
		fmt.Fprintf(os.Stderr, "Progress updates will be disabled.\n")
	}

	opts := []options.Option{
		options.WithValidation(1),
		options.WithStripVersionInfo(*stripVer),
	}
	if spinner != nil {
		opts = append(opts, options.WithProgress(CreateProgressCallback(spinner)))
	}
	switch {
	case *trace:
		opts = append(opts, options.WithLogger(logging.NewSimpleLogger(os.Stderr, logging.TRACE, true)))
	case *debug:
		opts = append(opts, options.WithLogger(logging.NewSimpleLogger(os.Stderr, logging.DEBUG, true)))
	}

	vol, err := ods1.Open(flag.Arg(0), opts...)
	if err != nil {
		fail(spinner, fmt.Errorf("failed to open image: %w", err))
	}
	defer vol.Close()

	if *dir != "" {
		if err := vol.ChangeDirectory(*dir); err != nil {
			fail(spinner, fmt.Errorf("failed to change directory: %w", err))
		}
	}

	if err := vol.ExtractFiles(*outputDir); err != nil {
		fail(spinner, fmt.Errorf("extraction failed: %w", err))
	}

	if spinner != nil {
		spinner.Suffix(fmt.Sprintf(" extracted %s to %s", vol.CurrentDirectoryLabel(), *outputDir))
		_ = spinner.Stop()
	}
}

func fail(spinner *yacspin.Spinner, err error) {
	if spinner != nil {
		_ = spinner.StopFail()
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

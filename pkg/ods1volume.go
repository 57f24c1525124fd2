package pkg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/keck9939/ods1-kit/pkg/block"
	"github.com/keck9939/ods1-kit/pkg/consts"
	"github.com/keck9939/ods1-kit/pkg/files11"
	"github.com/keck9939/ods1-kit/pkg/logging"
	"github.com/keck9939/ods1-kit/pkg/options"
)

// ODS1Volume is a read-only session over one Files-11 ODS-1 disk image. The
// only mutable state is the current-directory cursor; every other operation
// is a pure function of the image bytes. Operations are not safe for
// concurrent use against a mutating image.
type ODS1Volume struct {
	Options options.Options

	dev    block.Device
	file   *block.FileDevice
	home   *files11.HomeBlock
	logger logr.Logger
	parsed bool

	// Current directory cursor. Starts at the master file directory.
	cwdFileNumber   uint16
	cwdFileSequence uint16
	cwdLabel        string
}

// Open opens a disk image file. The home block is read lazily by Parse.
func (v *ODS1Volume) Open(location string) (err error) {
	v.logger = v.Options.Logger
	v.file, err = block.OpenFile(location)
	if err != nil {
		return err
	}
	v.dev = v.file

	if v.Options.ValidateOnOpen {
		result, err := v.Validate(v.Options.ValidationLevel)
		if err != nil {
			return err
		}
		if result != files11.Valid {
			return fmt.Errorf("volume %s is %s", location, result)
		}
	}
	return nil
}

// OpenDevice attaches the volume to an already-constructed block device.
func (v *ODS1Volume) OpenDevice(dev block.Device) error {
	v.logger = v.Options.Logger
	v.dev = dev
	return nil
}

// Close releases the underlying image file, if one was opened.
func (v *ODS1Volume) Close() error {
	if v.file == nil {
		return nil
	}
	return v.file.Close()
}

// Validate classifies the volume at the given level. Level 0 checks the
// device geometry only; level 1 additionally checks home-block checksums
// and required fields.
func (v *ODS1Volume) Validate(level int) (files11.ValidationResult, error) {
	return files11.Validate(v.dev, level)
}

// Parse reads the home block and anchors the current directory at the
// master file directory. It is invoked automatically by operations that
// need volume metadata.
func (v *ODS1Volume) Parse() error {
	if v.dev == nil {
		return errors.New("volume is not open")
	}
	home, err := files11.ReadHomeBlock(v.dev)
	if err != nil {
		return err
	}
	v.home = home
	v.cwdFileNumber = consts.MFD_FILE_NUMBER
	v.cwdFileSequence = consts.MFD_FILE_SEQUENCE
	v.cwdLabel = consts.MFD_LABEL
	v.parsed = true
	v.logger.V(logging.DEBUG).Info("parsed home block",
		"volumeName", home.VolumeName,
		"indexBitmapLBN", home.IndexBitmapLBN,
		"indexBitmapSize", home.IndexBitmapSize,
		"maximumFiles", home.MaximumFiles)
	return nil
}

// Parsed reports whether the home block has been read.
func (v *ODS1Volume) Parsed() bool {
	return v.parsed
}

func (v *ODS1Volume) ensureParsed() error {
	if v.parsed {
		return nil
	}
	return v.Parse()
}

// String returns a short description of the volume.
func (v *ODS1Volume) String() string {
	if v.home != nil {
		return fmt.Sprintf("ODS-1 volume %s", v.home.VolumeName)
	}
	return "ODS-1 volume (unparsed)"
}

// HomeBlock returns the decoded home block, parsing if needed.
func (v *ODS1Volume) HomeBlock() (*files11.HomeBlock, error) {
	if err := v.ensureParsed(); err != nil {
		return nil, err
	}
	return v.home, nil
}

// maxSegments caps extension-chain walks. A chain longer than the volume's
// maximum file count necessarily revisits a header.
func (v *ODS1Volume) maxSegments() int {
	n := int(v.home.MaximumFiles)
	if n < consts.DIRECT_HEADER_COUNT {
		n = consts.DIRECT_HEADER_COUNT
	}
	return n
}

// locateHeader fetches and verifies the header for (fileNumber,
// fileSequence). Headers 1..16 sit at a fixed offset after the index
// bitmap; later file numbers live inside the index file's own data and are
// reached through its retrieval pointers. An identity mismatch in the
// fetched block yields ErrNotFound: the slot is empty, deleted, or reused.
// depth counts nested index-file lookups; a corrupt index chain that keeps
// demanding its own resolution fails at the walkChainAt cap instead of
// recursing without bound.
func (v *ODS1Volume) locateHeader(fileNumber, fileSequence, volumeNumber uint16, depth int) (*files11.FileHeader, error) {
	if fileNumber == 0 {
		return nil, errors.New("file number 0 is reserved")
	}
	if volumeNumber != 0 {
		return nil, fmt.Errorf("relative volume %d: volume sets: %w", volumeNumber, files11.ErrNotSupported)
	}
	if err := v.ensureParsed(); err != nil {
		return nil, err
	}

	var lbn uint32
	if fileNumber <= consts.DIRECT_HEADER_COUNT {
		lbn = v.home.IndexBitmapLBN + uint32(v.home.IndexBitmapSize) + uint32(fileNumber) - 1
	} else {
		vbn := uint32(v.home.IndexBitmapSize) + 2 + uint32(fileNumber)
		var err error
		lbn, err = v.resolveBlockAt(consts.INDEX_FILE_NUMBER, consts.INDEX_FILE_SEQUENCE, vbn, depth+1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve header of file %d through index file: %w", fileNumber, err)
		}
	}

	b, err := v.dev.ReadBlock(lbn)
	if err != nil {
		return nil, fmt.Errorf("failed to read header block %d: %w", lbn, err)
	}
	h, err := files11.UnmarshalFileHeader(b)
	if err != nil {
		return nil, err
	}
	if h.StructureLevel != consts.ODS1_STRUCTURE_LEVEL || !h.Is(fileNumber, fileSequence) {
		v.logger.V(logging.TRACE).Info("header identity mismatch",
			"wanted", fmt.Sprintf("(%d,%d)", fileNumber, fileSequence),
			"found", fmt.Sprintf("(%d,%d)", h.FileNumber, h.FileSequence))
		return nil, fmt.Errorf("file (%d,%d): %w", fileNumber, fileSequence, files11.ErrNotFound)
	}
	return h, nil
}

// walkChain visits each segment of a file's header chain in order, stopping
// when visit returns false or the chain ends. The walk is iterative and
// capped so a corrupt, cyclic chain fails instead of looping.
func (v *ODS1Volume) walkChain(fileNumber, fileSequence uint16, visit func(*files11.FileHeader, *files11.FileMap) (bool, error)) error {
	return v.walkChainAt(fileNumber, fileSequence, 0, visit)
}

// walkChainAt is walkChain with an index-lookup depth. Locating a header
// with a file number above 16 walks the index file's own chain, which may
// in turn locate further headers; depth caps that nesting the same way
// segment caps the chain length, so a corrupt index file whose segments can
// only be found through itself fails instead of recursing forever.
func (v *ODS1Volume) walkChainAt(fileNumber, fileSequence uint16, depth int, visit func(*files11.FileHeader, *files11.FileMap) (bool, error)) error {
	if err := v.ensureParsed(); err != nil {
		return err
	}
	if depth > v.maxSegments() {
		return fmt.Errorf("file (%d,%d): nested index lookups: %w", fileNumber, fileSequence, files11.ErrChainTooLong)
	}
	num, seq := fileNumber, fileSequence
	vol := uint16(0)
	for segment := 0; ; segment++ {
		if segment >= v.maxSegments() {
			return fmt.Errorf("file (%d,%d): %w", fileNumber, fileSequence, files11.ErrChainTooLong)
		}
		h, err := v.locateHeader(num, seq, vol, depth)
		if err != nil {
			return err
		}
		m, err := files11.DecodeFileMap(h)
		if err != nil {
			return fmt.Errorf("file (%d,%d) segment %d unreadable: %w", fileNumber, fileSequence, segment, err)
		}
		cont, err := visit(h, m)
		if err != nil {
			return err
		}
		if !cont || !m.HasExtension() {
			return nil
		}
		num, seq, vol = m.ExtensionFileNumber, m.ExtensionSequence, uint16(m.ExtensionVolume)
	}
}

// ResolveBlock translates a 1-based virtual block number of a file into the
// physical block that holds it. A VBN past the end of the file returns
// ErrNotFound.
func (v *ODS1Volume) ResolveBlock(fileNumber, fileSequence uint16, vbn uint32) (uint32, error) {
	if vbn < 1 {
		return 0, errors.New("virtual block numbers are 1-based")
	}
	return v.resolveBlockAt(fileNumber, fileSequence, vbn, 0)
}

func (v *ODS1Volume) resolveBlockAt(fileNumber, fileSequence uint16, vbn uint32, depth int) (uint32, error) {
	var lbn uint32
	found := false
	err := v.walkChainAt(fileNumber, fileSequence, depth, func(_ *files11.FileHeader, m *files11.FileMap) (bool, error) {
		for _, e := range m.Extents {
			if vbn <= e.Count {
				lbn = e.LBN + vbn - 1
				found = true
				return false, nil
			}
			vbn -= e.Count
		}
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("virtual block beyond end of file (%d,%d): %w", fileNumber, fileSequence, files11.ErrNotFound)
	}
	return lbn, nil
}

// ReadFile materializes a file's complete content at block granularity.
// The first pass over the header chain sizes the file, the second copies
// every extent's blocks in file order. Output length is always a multiple
// of the block size; trimming to a record-level logical length is a
// higher-layer concern.
func (v *ODS1Volume) ReadFile(fileNumber, fileSequence uint16) ([]byte, error) {
	var total uint32
	err := v.walkChain(fileNumber, fileSequence, func(_ *files11.FileHeader, m *files11.FileMap) (bool, error) {
		total += m.TotalBlocks()
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, int(total)*consts.ODS1_BLOCK_SIZE)
	err = v.walkChain(fileNumber, fileSequence, func(_ *files11.FileHeader, m *files11.FileMap) (bool, error) {
		for _, e := range m.Extents {
			for i := uint32(0); i < e.Count; i++ {
				b, err := v.dev.ReadBlock(e.LBN + i)
				if err != nil {
					return false, fmt.Errorf("failed to read block %d of file (%d,%d): %w", e.LBN+i, fileNumber, fileSequence, err)
				}
				out = append(out, b...)
			}
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) != int(total)*consts.ODS1_BLOCK_SIZE {
		return nil, fmt.Errorf("file (%d,%d) changed between passes", fileNumber, fileSequence)
	}
	return out, nil
}

// CurrentDirectoryLabel returns the bracketed name of the current
// directory, e.g. "[000000]".
func (v *ODS1Volume) CurrentDirectoryLabel() string {
	return v.cwdLabel
}

// ListDirectory reads the current directory and returns its live entries
// in on-disk order.
func (v *ODS1Volume) ListDirectory() ([]files11.DirectoryEntry, error) {
	if err := v.ensureParsed(); err != nil {
		return nil, err
	}
	data, err := v.ReadFile(v.cwdFileNumber, v.cwdFileSequence)
	if err != nil {
		return nil, err
	}
	return files11.DecodeDirectoryEntries(data), nil
}

// ChangeDirectory moves the cursor. The spec is trimmed, uppercased and
// stripped of surrounding brackets before anything else, so "[000000]" and
// any variant of it ("000000", "[000000]  ") re-anchors at the master file
// directory without a lookup. Any other spec is matched case-insensitively
// against the subdirectory entries of the current directory; a miss leaves
// the cursor untouched and returns nil, matching the behavior
// directory-browsing callers expect.
func (v *ODS1Volume) ChangeDirectory(spec string) error {
	if err := v.ensureParsed(); err != nil {
		return err
	}
	name := strings.ToUpper(strings.TrimSpace(spec))
	name = strings.TrimSuffix(strings.TrimPrefix(name, "["), "]")

	if "["+name+"]" == consts.MFD_LABEL {
		v.cwdFileNumber = consts.MFD_FILE_NUMBER
		v.cwdFileSequence = consts.MFD_FILE_SEQUENCE
		v.cwdLabel = consts.MFD_LABEL
		return nil
	}

	entries, err := v.ListDirectory()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDirectory() || !strings.EqualFold(e.Name, name) {
			continue
		}
		if e.VolumeNumber != 0 {
			return fmt.Errorf("directory %s on relative volume %d: %w", e.Name, e.VolumeNumber, files11.ErrNotSupported)
		}
		v.cwdFileNumber = e.FileNumber
		v.cwdFileSequence = e.FileSequence
		v.cwdLabel = "[" + e.Name + "]"
		v.logger.V(logging.DEBUG).Info("changed directory", "label", v.cwdLabel,
			"fileNumber", e.FileNumber, "fileSequence", e.FileSequence)
		return nil
	}
	v.logger.V(logging.TRACE).Info("directory not found, cursor unchanged", "spec", spec)
	return nil
}

// ExtractFiles writes every plain file of the current directory into
// outputLocation, one host file per entry, reporting per-file progress
// through the configured callback. Subdirectory entries are skipped, not
// descended into.
func (v *ODS1Volume) ExtractFiles(outputLocation string) error {
	entries, err := v.ListDirectory()
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", v.cwdLabel, err)
	}

	var files []files11.DirectoryEntry
	for _, e := range entries {
		if !e.IsDirectory() {
			files = append(files, e)
		}
	}

	if err := os.MkdirAll(outputLocation, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", outputLocation, err)
	}

	for idx, e := range files {
		name := e.FileName()
		if v.Options.StripVersionInfo {
			name = fmt.Sprintf("%s.%s", e.Name, e.Type)
		}
		fullPath := filepath.Join(outputLocation, name)
		if err := v.extractFileWithProgress(e, fullPath, idx+1, len(files)); err != nil {
			return fmt.Errorf("failed to extract %s: %w", e.FileName(), err)
		}
	}
	return nil
}

func (v *ODS1Volume) extractFileWithProgress(e files11.DirectoryEntry, fullPath string, currentFileNumber, totalFileCount int) error {
	data, err := v.ReadFile(e.FileNumber, e.FileSequence)
	if err != nil {
		return err
	}

	outFile, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer outFile.Close()

	total := int64(len(data))
	written := int64(0)
	for written < total {
		chunk := int64(consts.ODS1_BLOCK_SIZE)
		if total-written < chunk {
			chunk = total - written
		}
		n, err := outFile.Write(data[written : written+chunk])
		if err != nil {
			return fmt.Errorf("failed to write to file %s: %w", fullPath, err)
		}
		written += int64(n)

		if v.Options.ProgressCallback != nil {
			v.Options.ProgressCallback(e.FileName(), written, total, currentFileNumber, totalFileCount)
		}
	}
	return nil
}

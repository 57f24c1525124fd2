package files11

import (
	"fmt"
	"strings"

	"github.com/keck9939/ods1-kit/pkg/block"
	"github.com/keck9939/ods1-kit/pkg/consts"
	"github.com/keck9939/ods1-kit/pkg/radix50"
)

// DirectoryEntry is one 16-byte record of a directory file.
type DirectoryEntry struct {
	// FileNumber and FileSequence identify the entry's file header. A zero
	// file number marks an unused slot and never appears in decoded output.
	FileNumber   uint16
	FileSequence uint16
	// VolumeNumber is the relative volume number; non-zero entries point
	// into another member of a volume set, which this decoder rejects.
	VolumeNumber uint16
	// Name is the 9-character Radix-50 file name with trailing spaces
	// trimmed.
	Name string
	// Type is the 3-character Radix-50 file type, trimmed.
	Type string
	// Version is the signed file version number.
	Version int16
}

// IsDirectory reports whether the entry names a subdirectory file.
func (e DirectoryEntry) IsDirectory() bool {
	return e.Type == consts.DIRECTORY_FILE_TYPE
}

// FileName renders the entry the way a directory listing shows it,
// "NAME.TYP;version".
func (e DirectoryEntry) FileName() string {
	return fmt.Sprintf("%s.%s;%d", e.Name, e.Type, e.Version)
}

// DecodeDirectoryEntries splits a directory file's content into entries,
// skipping unused slots. Entries keep their on-disk order, which is
// creation order, not sorted. Trailing bytes short of a full entry are
// ignored.
func DecodeDirectoryEntries(data []byte) []DirectoryEntry {
	var entries []DirectoryEntry
	for off := 0; off+consts.DIRECTORY_ENTRY_SIZE <= len(data); off += consts.DIRECTORY_ENTRY_SIZE {
		b := block.Block(data[off : off+consts.DIRECTORY_ENTRY_SIZE])
		fileNumber := b.U16(consts.DIRENT_FILE_NUMBER)
		if fileNumber == 0 {
			continue
		}
		entries = append(entries, DirectoryEntry{
			FileNumber:   fileNumber,
			FileSequence: b.U16(consts.DIRENT_FILE_SEQUENCE),
			VolumeNumber: b.U16(consts.DIRENT_VOLUME_NUMBER),
			Name: strings.TrimRight(radix50.Decode([]uint16{
				b.U16(consts.DIRENT_FILE_NAME),
				b.U16(consts.DIRENT_FILE_NAME + 2),
				b.U16(consts.DIRENT_FILE_NAME + 4),
			}), " "),
			Type:    strings.TrimRight(radix50.DecodeWord(b.U16(consts.DIRENT_FILE_TYPE)), " "),
			Version: int16(b.U16(consts.DIRENT_FILE_VERSION)),
		})
	}
	return entries
}

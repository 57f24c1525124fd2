// Package files11 decodes the on-disk structures of a Files-11 ODS-1 volume:
// the home block, file headers with their retrieval-pointer maps, and
// directory entries. Everything here is a read view over block bytes; no
// structure is ever written back.
package files11

import (
	"fmt"
	"strings"

	"github.com/keck9939/ods1-kit/pkg/block"
	"github.com/keck9939/ods1-kit/pkg/consts"
)

// ValidationResult classifies the outcome of volume validation.
type ValidationResult int

const (
	// StructurallyInvalid means the device cannot even contain a home
	// block: wrong block size or fewer than two blocks.
	StructurallyInvalid ValidationResult = iota
	// HomeBlockInvalid means the home block failed a checksum or one of
	// its required-constant fields.
	HomeBlockInvalid
	// Valid means the volume passed every requested check.
	Valid
)

func (r ValidationResult) String() string {
	switch r {
	case StructurallyInvalid:
		return "structurally invalid"
	case HomeBlockInvalid:
		return "home block invalid"
	case Valid:
		return "valid"
	default:
		return fmt.Sprintf("ValidationResult(%d)", int(r))
	}
}

// HomeBlock holds the volume-wide metadata stored at logical block 1.
type HomeBlock struct {
	// IndexBitmapSize is the size in blocks of the index file's storage
	// bitmap. Zero is invalid.
	IndexBitmapSize uint16
	// IndexBitmapLBN is the starting block of that bitmap, stored on disk
	// high word first. Zero is invalid.
	IndexBitmapLBN uint32
	// MaximumFiles bounds the number of files the volume can hold.
	MaximumFiles uint16
	// BitmapClusterFactor must be 1 on an ODS-1 volume.
	BitmapClusterFactor uint16
	// DeviceType must be 0.
	DeviceType uint16
	// StructureLevel must be 0x0101, or 0x0102 for volumes carrying
	// extensions this decoder accepts but does not interpret.
	StructureLevel uint16
	// VolumeName is the space-padded ASCII volume label, trimmed.
	VolumeName string
	// VolumeOwner is the owner UIC.
	VolumeOwner uint16
	// VolumeProtection is the volume protection word.
	VolumeProtection uint16
	// VolumeCharacteristics is the volume characteristics word.
	VolumeCharacteristics uint16
	// DefaultProtection is the default file protection word.
	DefaultProtection uint16
	// DefaultWindowSize is the default number of retrieval pointers mapped
	// per access window.
	DefaultWindowSize uint8
	// DefaultFileExtend is the default file extend quantity in blocks.
	DefaultFileExtend uint8
	// DirectoryLimit is the directory pre-access limit.
	DirectoryLimit uint8
	// FirstChecksum is the additive checksum over bytes [0,58).
	FirstChecksum uint16
	// CreationDate is the volume creation date as stored, "DDMMMYYHHMMSS".
	CreationDate string
	// SecondChecksum is the additive checksum over bytes [0,510).
	SecondChecksum uint16
}

// UnmarshalHomeBlock decodes a home block from its raw bytes. It performs
// no validation; see Validate for that.
func UnmarshalHomeBlock(b block.Block) (*HomeBlock, error) {
	if len(b) != consts.ODS1_BLOCK_SIZE {
		return nil, fmt.Errorf("home block must be %d bytes, got %d", consts.ODS1_BLOCK_SIZE, len(b))
	}
	h := &HomeBlock{
		IndexBitmapSize:       b.U16(consts.HOME_INDEX_BITMAP_SIZE),
		IndexBitmapLBN:        b.U32HL(consts.HOME_INDEX_BITMAP_LBN),
		MaximumFiles:          b.U16(consts.HOME_MAXIMUM_FILES),
		BitmapClusterFactor:   b.U16(consts.HOME_BITMAP_CLUSTER_FACTOR),
		DeviceType:            b.U16(consts.HOME_DEVICE_TYPE),
		StructureLevel:        b.U16(consts.HOME_STRUCTURE_LEVEL),
		VolumeName:            trimmedString(b, consts.HOME_VOLUME_NAME, consts.HOME_VOLUME_NAME_LEN),
		VolumeOwner:           b.U16(consts.HOME_VOLUME_OWNER),
		VolumeProtection:      b.U16(consts.HOME_VOLUME_PROTECTION),
		VolumeCharacteristics: b.U16(consts.HOME_VOLUME_CHARACTERISTICS),
		DefaultProtection:     b.U16(consts.HOME_DEFAULT_PROTECTION),
		DefaultWindowSize:     b[consts.HOME_DEFAULT_WINDOW_SIZE],
		DefaultFileExtend:     b[consts.HOME_DEFAULT_FILE_EXTEND],
		DirectoryLimit:        b[consts.HOME_DIRECTORY_LIMIT],
		FirstChecksum:         b.U16(consts.HOME_FIRST_CHECKSUM),
		CreationDate:          trimmedString(b, consts.HOME_CREATION_DATE, consts.HOME_CREATION_DATE_LEN),
		SecondChecksum:        b.U16(consts.HOME_SECOND_CHECKSUM),
	}
	return h, nil
}

// Checksum computes the additive home-block checksum: the sum of all
// little-endian 16-bit words in b[0:length), modulo 65536.
func Checksum(b block.Block, length int) uint16 {
	var sum uint16
	for off := 0; off < length; off += 2 {
		sum += b.U16(off)
	}
	return sum
}

// checksumValid reports whether the checksum stored at the end of
// b[0:length) matches the sum of the words before it. A stored checksum of
// zero is invalid regardless of match.
func checksumValid(b block.Block, length int) bool {
	stored := b.U16(length)
	return stored != 0 && Checksum(b, length) == stored
}

// Validate checks a device for a usable ODS-1 volume. Level 0 only checks
// that the device geometry can hold a home block; level 1 additionally
// requires both home-block checksums and every required-constant field to
// pass. Malformed content is a classified outcome, not an error; the error
// return covers device read failures and out-of-contract levels only.
func Validate(dev block.Device, level int) (ValidationResult, error) {
	if level != 0 && level != 1 {
		return StructurallyInvalid, fmt.Errorf("validation level must be 0 or 1, got %d", level)
	}
	if dev.BlockSize() != consts.ODS1_BLOCK_SIZE || dev.BlockCount() < 2 {
		return StructurallyInvalid, nil
	}
	if level == 0 {
		return Valid, nil
	}

	b, err := dev.ReadBlock(consts.ODS1_HOME_BLOCK_LBN)
	if err != nil {
		return HomeBlockInvalid, fmt.Errorf("failed to read home block: %w", err)
	}
	if !checksumValid(b, consts.HOME_FIRST_CHECKSUM) {
		return HomeBlockInvalid, nil
	}
	if !checksumValid(b, consts.HOME_SECOND_CHECKSUM) {
		return HomeBlockInvalid, nil
	}

	h, err := UnmarshalHomeBlock(b)
	if err != nil {
		return HomeBlockInvalid, err
	}
	switch {
	case h.IndexBitmapSize == 0,
		h.IndexBitmapLBN == 0,
		h.MaximumFiles == 0,
		h.BitmapClusterFactor != 1,
		h.DeviceType != 0:
		return HomeBlockInvalid, nil
	}
	if h.StructureLevel != consts.ODS1_STRUCTURE_LEVEL && h.StructureLevel != consts.ODS1_STRUCTURE_LEVEL_EXT {
		return HomeBlockInvalid, nil
	}
	return Valid, nil
}

// ReadHomeBlock reads and decodes the home block from a device.
func ReadHomeBlock(dev block.Device) (*HomeBlock, error) {
	b, err := dev.ReadBlock(consts.ODS1_HOME_BLOCK_LBN)
	if err != nil {
		return nil, fmt.Errorf("failed to read home block: %w", err)
	}
	return UnmarshalHomeBlock(b)
}

func trimmedString(b block.Block, off, length int) string {
	return strings.TrimRight(string(b[off:off+length]), " \x00")
}

// Package imagetest assembles synthetic ODS-1 volume structures for tests.
// It is the only place in the module that writes the on-disk layout.
package imagetest

import (
	"github.com/keck9939/ods1-kit/pkg/block"
	"github.com/keck9939/ods1-kit/pkg/consts"
	"github.com/keck9939/ods1-kit/pkg/radix50"
)

// Word offsets used for generated headers. These match the areas RSX-11
// volumes reserve: the ident area at word 23, the map area at word 46.
const (
	IdentOffsetWords = 23
	MapOffsetWords   = 46
)

// HomeSpec describes a home block to generate. Zero-valued fields fall
// back to a small, valid volume.
type HomeSpec struct {
	IndexBitmapSize u16OrDefault
	IndexBitmapLBN  uint32
	MaximumFiles    u16OrDefault
	ClusterFactor   u16OrDefault
	DeviceType      uint16
	StructureLevel  u16OrDefault
	VolumeName      string
}

type u16OrDefault struct {
	set bool
	v   uint16
}

// U16 wraps an explicit field value, distinguishing "set to zero" from
// "defaulted" so tests can generate deliberately invalid home blocks.
func U16(v uint16) u16OrDefault {
	return u16OrDefault{set: true, v: v}
}

func (u u16OrDefault) or(def uint16) uint16 {
	if u.set {
		return u.v
	}
	return def
}

func putU16(b block.Block, off int, v uint16) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
}

func putU32HL(b block.Block, off int, v uint32) {
	putU16(b, off, uint16(v>>16))
	putU16(b, off+2, uint16(v))
}

// HomeBlock generates a home block with both checksums applied.
func HomeBlock(spec HomeSpec) block.Block {
	b := make(block.Block, consts.ODS1_BLOCK_SIZE)
	putU16(b, consts.HOME_INDEX_BITMAP_SIZE, spec.IndexBitmapSize.or(1))
	lbn := spec.IndexBitmapLBN
	if lbn == 0 {
		lbn = 2
	}
	putU32HL(b, consts.HOME_INDEX_BITMAP_LBN, lbn)
	putU16(b, consts.HOME_MAXIMUM_FILES, spec.MaximumFiles.or(100))
	putU16(b, consts.HOME_BITMAP_CLUSTER_FACTOR, spec.ClusterFactor.or(1))
	putU16(b, consts.HOME_DEVICE_TYPE, spec.DeviceType)
	putU16(b, consts.HOME_STRUCTURE_LEVEL, spec.StructureLevel.or(consts.ODS1_STRUCTURE_LEVEL))
	name := spec.VolumeName
	if name == "" {
		name = "TESTVOL"
	}
	copy(b[consts.HOME_VOLUME_NAME:], padBytes(name, consts.HOME_VOLUME_NAME_LEN))
	copy(b[consts.HOME_CREATION_DATE:], padBytes("01JAN86120000", consts.HOME_CREATION_DATE_LEN))
	ApplyChecksums(b)
	return b
}

// ApplyChecksums recomputes and stores both home-block checksums. Call it
// again after mutating a generated block.
func ApplyChecksums(b block.Block) {
	putU16(b, consts.HOME_FIRST_CHECKSUM, sum(b, consts.HOME_FIRST_CHECKSUM))
	putU16(b, consts.HOME_SECOND_CHECKSUM, sum(b, consts.HOME_SECOND_CHECKSUM))
}

func sum(b block.Block, length int) uint16 {
	var s uint16
	for off := 0; off < length; off += 2 {
		s += b.U16(off)
	}
	return s
}

// Ext is one extent of a generated file map.
type Ext struct {
	LBN   uint32
	Count uint32 // real block count; stored minus one
}

// HeaderSpec describes a file header to generate.
type HeaderSpec struct {
	FileNumber     uint16
	FileSequence   uint16
	StructureLevel u16OrDefault
	Name           string
	Type           string
	Version        uint16
	// Format selects the retrieval-pointer encoding: 1 (default), 2 or 3.
	Format  int
	Extents []Ext
	// ExtensionFileNumber and ExtensionSequence link the next segment.
	ExtensionFileNumber uint16
	ExtensionSequence   uint16
	ExtensionSegment    uint8
	ExtensionVolume     uint8
}

// FileHeader generates a header block with its ident and map areas.
func FileHeader(spec HeaderSpec) block.Block {
	b := make(block.Block, consts.ODS1_BLOCK_SIZE)
	b[consts.HEADER_IDENT_AREA_OFFSET] = IdentOffsetWords
	b[consts.HEADER_MAP_AREA_OFFSET] = MapOffsetWords
	putU16(b, consts.HEADER_FILE_NUMBER, spec.FileNumber)
	putU16(b, consts.HEADER_FILE_SEQUENCE, spec.FileSequence)
	putU16(b, consts.HEADER_STRUCTURE_LEVEL, spec.StructureLevel.or(consts.ODS1_STRUCTURE_LEVEL))

	ident := IdentOffsetWords * 2
	name := spec.Name
	if name == "" {
		name = "FILE"
	}
	for i, w := range rad50(padString(name, 9)) {
		putU16(b, ident+consts.IDENT_FILE_NAME+2*i, w)
	}
	typ := spec.Type
	if typ == "" {
		typ = "DAT"
	}
	putU16(b, ident+consts.IDENT_FILE_TYPE, rad50(padString(typ, 3))[0])
	putU16(b, ident+consts.IDENT_FILE_VERSION, spec.Version)

	start := MapOffsetWords * 2
	b[start+consts.MAP_EXTENSION_SEGMENT] = spec.ExtensionSegment
	b[start+consts.MAP_EXTENSION_VOLUME] = spec.ExtensionVolume
	putU16(b, start+consts.MAP_EXTENSION_FILE, spec.ExtensionFileNumber)
	putU16(b, start+consts.MAP_EXTENSION_SEQUENCE, spec.ExtensionSequence)

	format := spec.Format
	if format == 0 {
		format = 1
	}
	ptrs := encodePointers(format, spec.Extents)
	switch format {
	case 1:
		b[start+consts.MAP_COUNT_FIELD_SIZE] = 1
		b[start+consts.MAP_LBN_FIELD_SIZE] = 3
	case 2:
		b[start+consts.MAP_COUNT_FIELD_SIZE] = 2
		b[start+consts.MAP_LBN_FIELD_SIZE] = 2
	case 3:
		b[start+consts.MAP_COUNT_FIELD_SIZE] = 2
		b[start+consts.MAP_LBN_FIELD_SIZE] = 4
	default:
		panic("imagetest: format must be 1, 2 or 3")
	}
	b[start+consts.MAP_WORDS_IN_USE] = uint8(len(ptrs) / 2)
	b[start+consts.MAP_WORDS_AVAILABLE] = uint8(len(ptrs)/2 + 4)
	copy(b[start+consts.MAP_HEADER_SIZE:], ptrs)
	return b
}

func encodePointers(format int, extents []Ext) []byte {
	var out []byte
	for _, e := range extents {
		count := e.Count - 1
		switch format {
		case 1:
			out = append(out,
				byte(e.LBN>>16),
				byte(count),
				byte(e.LBN),
				byte(e.LBN>>8))
		case 2:
			out = append(out,
				byte(count), byte(count>>8),
				byte(e.LBN), byte(e.LBN>>8))
		case 3:
			out = append(out,
				byte(count), byte(count>>8),
				byte(e.LBN>>16), byte(e.LBN>>24),
				byte(e.LBN), byte(e.LBN>>8))
		}
	}
	return out
}

// DirectoryEntry generates one 16-byte directory record.
func DirectoryEntry(fileNumber, fileSequence, volumeNumber uint16, name, typ string, version int16) []byte {
	b := make(block.Block, consts.DIRECTORY_ENTRY_SIZE)
	putU16(b, consts.DIRENT_FILE_NUMBER, fileNumber)
	putU16(b, consts.DIRENT_FILE_SEQUENCE, fileSequence)
	putU16(b, consts.DIRENT_VOLUME_NUMBER, volumeNumber)
	for i, w := range rad50(padString(name, 9)) {
		putU16(b, consts.DIRENT_FILE_NAME+2*i, w)
	}
	putU16(b, consts.DIRENT_FILE_TYPE, rad50(padString(typ, 3))[0])
	putU16(b, consts.DIRENT_FILE_VERSION, uint16(version))
	return b
}

func rad50(s string) []uint16 {
	words, err := radix50.Encode(s)
	if err != nil {
		panic("imagetest: " + err.Error())
	}
	return words
}

func padBytes(s string, length int) []byte {
	out := make([]byte, length)
	for i := range out {
		out[i] = ' '
	}
	copy(out, s)
	return out
}

func padString(s string, length int) string {
	return string(padBytes(s, length))
}

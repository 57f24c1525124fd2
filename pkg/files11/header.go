package files11

import (
	"fmt"

	"github.com/keck9939/ods1-kit/pkg/block"
	"github.com/keck9939/ods1-kit/pkg/consts"
	"github.com/keck9939/ods1-kit/pkg/radix50"
)

// FileHeader is one 512-byte file header block. A file owns at least one;
// large or fragmented files chain further headers as extension segments.
type FileHeader struct {
	// IdentOffset and MapOffset locate the ident and map areas, in 16-bit
	// words from the start of the header.
	IdentOffset uint8
	MapOffset   uint8
	// FileNumber and FileSequence are the identity recorded inside the
	// header. They must match the pair used to look the header up; a
	// mismatch means the slot is empty or was reused.
	FileNumber   uint16
	FileSequence uint16
	// StructureLevel must be 0x0101.
	StructureLevel uint16
	// Owner is the file owner UIC.
	Owner uint16
	// Protection is the file protection word.
	Protection uint16
	// Characteristics packs the user and system characteristics bytes.
	Characteristics uint16
	// UserAttributes is the fixed 32-byte user attribute area.
	UserAttributes [consts.HEADER_USER_ATTRIBUTES_LEN]byte

	// Name, Type and Version come from the ident area: a 9-character
	// Radix-50 name, a 3-character Radix-50 type, and a version number.
	Name    string
	Type    string
	Version uint16

	raw block.Block
}

// UnmarshalFileHeader decodes a file header from its block bytes.
func UnmarshalFileHeader(b block.Block) (*FileHeader, error) {
	if len(b) != consts.ODS1_BLOCK_SIZE {
		return nil, fmt.Errorf("file header must be %d bytes, got %d", consts.ODS1_BLOCK_SIZE, len(b))
	}
	h := &FileHeader{
		IdentOffset:     b[consts.HEADER_IDENT_AREA_OFFSET],
		MapOffset:       b[consts.HEADER_MAP_AREA_OFFSET],
		FileNumber:      b.U16(consts.HEADER_FILE_NUMBER),
		FileSequence:    b.U16(consts.HEADER_FILE_SEQUENCE),
		StructureLevel:  b.U16(consts.HEADER_STRUCTURE_LEVEL),
		Owner:           b.U16(consts.HEADER_FILE_OWNER),
		Protection:      b.U16(consts.HEADER_FILE_PROTECTION),
		Characteristics: b.U16(consts.HEADER_CHARACTERISTICS),
		raw:             b,
	}
	copy(h.UserAttributes[:], b[consts.HEADER_USER_ATTRIBUTES:])

	// The ident area is informational; decode it when it fits the block,
	// leave it blank when it doesn't rather than failing the header.
	ident := int(h.IdentOffset) * 2
	if ident > 0 && ident+consts.IDENT_FILE_VERSION+2 <= consts.ODS1_BLOCK_SIZE {
		h.Name = radix50.Decode([]uint16{
			b.U16(ident + consts.IDENT_FILE_NAME),
			b.U16(ident + consts.IDENT_FILE_NAME + 2),
			b.U16(ident + consts.IDENT_FILE_NAME + 4),
		})
		h.Type = radix50.DecodeWord(b.U16(ident + consts.IDENT_FILE_TYPE))
		h.Version = b.U16(ident + consts.IDENT_FILE_VERSION)
	}
	return h, nil
}

// Is reports whether the header's recorded identity matches the given pair.
func (h *FileHeader) Is(fileNumber, fileSequence uint16) bool {
	return h.FileNumber == fileNumber && h.FileSequence == fileSequence
}

func (h *FileHeader) String() string {
	return fmt.Sprintf("header (%d,%d) %s.%s;%d", h.FileNumber, h.FileSequence, h.Name, h.Type, h.Version)
}

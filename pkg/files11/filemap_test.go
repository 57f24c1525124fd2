package files11

import (
	"testing"

	"github.com/keck9939/ods1-kit/internal/imagetest"
	"github.com/keck9939/ods1-kit/pkg/consts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header(t *testing.T, spec imagetest.HeaderSpec) *FileHeader {
	t.Helper()
	h, err := UnmarshalFileHeader(imagetest.FileHeader(spec))
	require.NoError(t, err)
	return h
}

func TestDecodeFormat1(t *testing.T) {
	// count=5 on disk means a 6-block extent.
	h := header(t, imagetest.HeaderSpec{
		FileNumber: 20, FileSequence: 3,
		Extents: []imagetest.Ext{{LBN: 0x010203, Count: 6}},
	})
	m, err := DecodeFileMap(h)
	require.NoError(t, err)
	require.Len(t, m.Extents, 1)
	assert.Equal(t, uint32(0x010203), m.Extents[0].LBN)
	assert.Equal(t, uint32(6), m.Extents[0].Count)
	assert.Equal(t, uint8(1), m.CountFieldSize)
	assert.Equal(t, uint8(3), m.LBNFieldSize)
	assert.Equal(t, uint8(2), m.WordsInUse)
	assert.False(t, m.HasExtension())
}

func TestDecodeFormat2(t *testing.T) {
	h := header(t, imagetest.HeaderSpec{
		FileNumber: 20, FileSequence: 3, Format: 2,
		Extents: []imagetest.Ext{{LBN: 0x8000, Count: 256}, {LBN: 0x9000, Count: 1}},
	})
	m, err := DecodeFileMap(h)
	require.NoError(t, err)
	require.Len(t, m.Extents, 2)
	assert.Equal(t, Extent{LBN: 0x8000, Count: 256}, m.Extents[0])
	assert.Equal(t, Extent{LBN: 0x9000, Count: 1}, m.Extents[1])
}

func TestDecodeFormat3(t *testing.T) {
	h := header(t, imagetest.HeaderSpec{
		FileNumber: 20, FileSequence: 3, Format: 3,
		Extents: []imagetest.Ext{{LBN: 0x00123456, Count: 300}},
	})
	m, err := DecodeFileMap(h)
	require.NoError(t, err)
	require.Len(t, m.Extents, 1)
	assert.Equal(t, Extent{LBN: 0x00123456, Count: 300}, m.Extents[0])
	assert.Equal(t, uint32(300), m.TotalBlocks())
}

func TestDecodeMultipleExtentsPreserveOrder(t *testing.T) {
	h := header(t, imagetest.HeaderSpec{
		FileNumber: 7, FileSequence: 1,
		Extents: []imagetest.Ext{{LBN: 900, Count: 3}, {LBN: 100, Count: 4}, {LBN: 500, Count: 2}},
	})
	m, err := DecodeFileMap(h)
	require.NoError(t, err)
	require.Equal(t, []Extent{{900, 3}, {100, 4}, {500, 2}}, m.Extents)
	assert.Equal(t, uint32(9), m.TotalBlocks())
}

func TestDecodeExtensionLink(t *testing.T) {
	h := header(t, imagetest.HeaderSpec{
		FileNumber: 7, FileSequence: 1,
		Extents:             []imagetest.Ext{{LBN: 100, Count: 4}},
		ExtensionFileNumber: 30, ExtensionSequence: 2, ExtensionSegment: 0,
	})
	m, err := DecodeFileMap(h)
	require.NoError(t, err)
	assert.True(t, m.HasExtension())
	assert.Equal(t, uint16(30), m.ExtensionFileNumber)
	assert.Equal(t, uint16(2), m.ExtensionSequence)
}

func TestDecodeUnrecognizedFormat(t *testing.T) {
	raw := imagetest.FileHeader(imagetest.HeaderSpec{
		FileNumber: 7, FileSequence: 1,
		Extents: []imagetest.Ext{{LBN: 100, Count: 4}},
	})
	// Clobber the field-size pair with an undefined combination.
	start := imagetest.MapOffsetWords * 2
	raw[start+consts.MAP_COUNT_FIELD_SIZE] = 1
	raw[start+consts.MAP_LBN_FIELD_SIZE] = 2
	h, err := UnmarshalFileHeader(raw)
	require.NoError(t, err)

	_, err = DecodeFileMap(h)
	require.ErrorIs(t, err, ErrBadPointerFormat)
}

func TestDecodeCorruptMapArea(t *testing.T) {
	t.Run("map offset past block end", func(t *testing.T) {
		raw := imagetest.FileHeader(imagetest.HeaderSpec{FileNumber: 7, FileSequence: 1})
		raw[consts.HEADER_MAP_AREA_OFFSET] = 255
		h, err := UnmarshalFileHeader(raw)
		require.NoError(t, err)
		_, err = DecodeFileMap(h)
		require.ErrorIs(t, err, ErrCorruptHeader)
	})

	t.Run("words in use past block end", func(t *testing.T) {
		raw := imagetest.FileHeader(imagetest.HeaderSpec{FileNumber: 7, FileSequence: 1})
		start := imagetest.MapOffsetWords * 2
		raw[start+consts.MAP_WORDS_IN_USE] = 255
		h, err := UnmarshalFileHeader(raw)
		require.NoError(t, err)
		_, err = DecodeFileMap(h)
		require.ErrorIs(t, err, ErrCorruptHeader)
	})

	t.Run("truncated pointer region", func(t *testing.T) {
		raw := imagetest.FileHeader(imagetest.HeaderSpec{
			FileNumber: 7, FileSequence: 1,
			Extents: []imagetest.Ext{{LBN: 100, Count: 4}},
		})
		// One word in use is half a Format 1 pointer.
		start := imagetest.MapOffsetWords * 2
		raw[start+consts.MAP_WORDS_IN_USE] = 1
		h, err := UnmarshalFileHeader(raw)
		require.NoError(t, err)
		_, err = DecodeFileMap(h)
		require.ErrorIs(t, err, ErrCorruptHeader)
	})
}

func TestUnmarshalFileHeaderIdentity(t *testing.T) {
	h := header(t, imagetest.HeaderSpec{
		FileNumber: 42, FileSequence: 9,
		Name: "PAYROLL", Type: "TSK", Version: 3,
	})
	assert.True(t, h.Is(42, 9))
	assert.False(t, h.Is(42, 10))
	assert.False(t, h.Is(41, 9))
	assert.Equal(t, "PAYROLL  ", h.Name)
	assert.Equal(t, "TSK", h.Type)
	assert.Equal(t, uint16(3), h.Version)
	assert.Equal(t, uint16(consts.ODS1_STRUCTURE_LEVEL), h.StructureLevel)
}

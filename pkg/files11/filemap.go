package files11

import (
	"fmt"

	"github.com/keck9939/ods1-kit/pkg/consts"
)

// Extent is one contiguous run of physical blocks belonging to a file.
type Extent struct {
	// LBN is the starting logical block number of the run.
	LBN uint32
	// Count is the number of blocks in the run. On disk the count is
	// stored minus one; a decoded Extent always holds the real count.
	Count uint32
}

// FileMap is the decoded map area of one file header: the link to the next
// extension segment, the pointer encoding in effect, and the ordered extent
// list the retrieval pointers describe.
type FileMap struct {
	// ExtensionSegment is this header's ordinal in the chain, starting at 0.
	ExtensionSegment uint8
	// ExtensionVolume is the relative volume number of the next segment.
	ExtensionVolume uint8
	// ExtensionFileNumber and ExtensionSequence identify the next extension
	// header. A zero pair ends the chain.
	ExtensionFileNumber uint16
	ExtensionSequence   uint16
	// CountFieldSize and LBNFieldSize select the retrieval-pointer
	// encoding. The defined pairs are (1,3), (2,2) and (2,4).
	CountFieldSize uint8
	LBNFieldSize   uint8
	// WordsInUse and WordsAvailable size the retrieval-pointer region in
	// 16-bit words.
	WordsInUse     uint8
	WordsAvailable uint8
	// Extents is the decoded pointer list in file-relative order.
	Extents []Extent
}

// HasExtension reports whether another header continues this file's map.
func (m *FileMap) HasExtension() bool {
	return m.ExtensionFileNumber != 0 || m.ExtensionSequence != 0
}

// TotalBlocks sums the block counts of every extent in this map.
func (m *FileMap) TotalBlocks() uint32 {
	var total uint32
	for _, e := range m.Extents {
		total += e.Count
	}
	return total
}

// DecodeFileMap parses the map area of a header. The three defined pointer
// encodings, selected by the (count size, LBN size) byte pair, are:
//
//	1,3: high LBN byte, count byte, low LBN word
//	2,2: count word, LBN word
//	2,4: count word, high LBN word, low LBN word
//
// Stored counts are one less than the run length. Any other field-size pair
// is corruption and fails with ErrBadPointerFormat.
func DecodeFileMap(h *FileHeader) (*FileMap, error) {
	start := int(h.MapOffset) * 2
	if start == 0 || start+consts.MAP_HEADER_SIZE > consts.ODS1_BLOCK_SIZE {
		return nil, fmt.Errorf("map area at word offset %d: %w", h.MapOffset, ErrCorruptHeader)
	}

	b := h.raw
	m := &FileMap{
		ExtensionSegment:    b[start+consts.MAP_EXTENSION_SEGMENT],
		ExtensionVolume:     b[start+consts.MAP_EXTENSION_VOLUME],
		ExtensionFileNumber: b.U16(start + consts.MAP_EXTENSION_FILE),
		ExtensionSequence:   b.U16(start + consts.MAP_EXTENSION_SEQUENCE),
		CountFieldSize:      b[start+consts.MAP_COUNT_FIELD_SIZE],
		LBNFieldSize:        b[start+consts.MAP_LBN_FIELD_SIZE],
		WordsInUse:          b[start+consts.MAP_WORDS_IN_USE],
		WordsAvailable:      b[start+consts.MAP_WORDS_AVAILABLE],
	}

	end := start + consts.MAP_HEADER_SIZE + 2*int(m.WordsInUse)
	if end > consts.ODS1_BLOCK_SIZE {
		return nil, fmt.Errorf("map area claims %d words in use past end of header: %w", m.WordsInUse, ErrCorruptHeader)
	}

	entrySize := int(m.CountFieldSize) + int(m.LBNFieldSize)
	r := b.Reader(start + consts.MAP_HEADER_SIZE)
	for r.Offset() < end {
		if r.Remaining(end) < entrySize {
			return nil, fmt.Errorf("retrieval pointer region truncated at offset %d: %w", r.Offset(), ErrCorruptHeader)
		}
		var count, lbn uint32
		switch {
		case m.CountFieldSize == 1 && m.LBNFieldSize == 3:
			high := uint32(r.U8())
			count = uint32(r.U8())
			lbn = high<<16 | uint32(r.U16())
		case m.CountFieldSize == 2 && m.LBNFieldSize == 2:
			count = uint32(r.U16())
			lbn = uint32(r.U16())
		case m.CountFieldSize == 2 && m.LBNFieldSize == 4:
			count = uint32(r.U16())
			lbn = uint32(r.U16())<<16 | uint32(r.U16())
		default:
			return nil, fmt.Errorf("count size %d, lbn size %d: %w", m.CountFieldSize, m.LBNFieldSize, ErrBadPointerFormat)
		}
		m.Extents = append(m.Extents, Extent{LBN: lbn, Count: count + 1})
	}
	return m, nil
}

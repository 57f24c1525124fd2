package block

import (
	"bytes"
	"testing"

	"github.com/keck9939/ods1-kit/pkg/consts"
	"github.com/stretchr/testify/require"
)

func TestBlockFieldAccess(t *testing.T) {
	b := make(Block, consts.ODS1_BLOCK_SIZE)
	b[10] = 0x34
	b[11] = 0x12
	require.Equal(t, uint16(0x1234), b.U16(10))

	// High word first, each word little-endian.
	b[20] = 0x01
	b[21] = 0x00
	b[22] = 0x03
	b[23] = 0x02
	require.Equal(t, uint32(0x00010203), b.U32HL(20))
}

func TestReaderCursor(t *testing.T) {
	b := make(Block, consts.ODS1_BLOCK_SIZE)
	copy(b[4:], []byte{0xAA, 0xCD, 0xAB, 0x11})
	r := b.Reader(4)
	require.Equal(t, uint8(0xAA), r.U8())
	require.Equal(t, uint16(0xABCD), r.U16())
	require.Equal(t, uint8(0x11), r.U8())
	require.Equal(t, 8, r.Offset())
	require.Equal(t, 2, r.Remaining(10))
}

func TestRamDevice(t *testing.T) {
	dev := NewZeroedRamDevice(3)
	require.Equal(t, consts.ODS1_BLOCK_SIZE, dev.BlockSize())
	require.Equal(t, uint32(3), dev.BlockCount())

	blk := make(Block, consts.ODS1_BLOCK_SIZE)
	for i := range blk {
		blk[i] = 0x5A
	}
	require.NoError(t, dev.WriteBlock(2, blk))

	got, err := dev.ReadBlock(2)
	require.NoError(t, err)
	require.Equal(t, []byte(blk), []byte(got))

	// Reads return copies, not views.
	got[0] = 0xFF
	again, err := dev.ReadBlock(2)
	require.NoError(t, err)
	require.Equal(t, uint8(0x5A), again[0])

	_, err = dev.ReadBlock(3)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.ErrorIs(t, dev.WriteBlock(3, blk), ErrOutOfRange)
}

func TestFileDevice(t *testing.T) {
	img := make([]byte, 2*consts.ODS1_BLOCK_SIZE+100) // ragged tail
	img[consts.ODS1_BLOCK_SIZE] = 0x42
	dev := NewFileDevice(bytes.NewReader(img), int64(len(img)))
	require.Equal(t, uint32(2), dev.BlockCount())

	b, err := dev.ReadBlock(1)
	require.NoError(t, err)
	require.Equal(t, uint8(0x42), b[0])

	_, err = dev.ReadBlock(2)
	require.ErrorIs(t, err, ErrOutOfRange)
}

// Package block provides fixed-size random access to a disk image. A Device
// hands out 512-byte logical blocks by block number; the Block and Reader
// types give the little-endian field access the volume decoders are built on.
package block

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/keck9939/ods1-kit/pkg/consts"
)

// ErrOutOfRange reports a read of a logical block number outside the device.
var ErrOutOfRange = errors.New("logical block number out of range")

// Device is read-only, fixed-block-size storage addressed by logical block
// number. Implementations must return exactly BlockSize bytes per read.
type Device interface {
	BlockSize() int
	BlockCount() uint32
	ReadBlock(lbn uint32) (Block, error)
}

// Block is one logical block's bytes.
type Block []byte

// U16 reads a little-endian 16-bit word at the given byte offset.
func (b Block) U16(off int) uint16 {
	return uint16(b[off]) | uint16(b[off+1])<<8
}

// U32HL reads a 32-bit value stored as two little-endian words with the
// high-order word first, the convention used by the home block's index
// bitmap LBN field.
func (b Block) U32HL(off int) uint32 {
	return uint32(b.U16(off))<<16 | uint32(b.U16(off+2))
}

// Reader returns an auto-advancing cursor positioned at the given offset.
func (b Block) Reader(off int) *Reader {
	return &Reader{b: b, off: off}
}

// Reader walks a Block front to back, advancing past each field it reads.
type Reader struct {
	b   Block
	off int
}

// U8 reads one byte and advances.
func (r *Reader) U8() uint8 {
	v := r.b[r.off]
	r.off++
	return v
}

// U16 reads a little-endian 16-bit word and advances.
func (r *Reader) U16() uint16 {
	v := r.b.U16(r.off)
	r.off += 2
	return v
}

// Offset reports the cursor's current byte offset.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining reports the bytes left between the cursor and the given end
// offset.
func (r *Reader) Remaining(end int) int {
	return end - r.off
}

// FileDevice serves blocks from a disk image behind an io.ReaderAt. The
// image length is truncated to a whole number of blocks; a ragged tail is
// not addressable.
type FileDevice struct {
	reader io.ReaderAt
	closer io.Closer
	blocks uint32
	name   string
}

// OpenFile opens a disk image file as a block device.
func OpenFile(location string) (*FileDevice, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileDevice{
		reader: f,
		closer: f,
		blocks: uint32(fi.Size() / consts.ODS1_BLOCK_SIZE),
		name:   location,
	}, nil
}

// NewFileDevice wraps an already-open reader holding size bytes of image
// data. The caller retains ownership of the reader.
func NewFileDevice(r io.ReaderAt, size int64) *FileDevice {
	return &FileDevice{reader: r, blocks: uint32(size / consts.ODS1_BLOCK_SIZE)}
}

func (d *FileDevice) BlockSize() int {
	return consts.ODS1_BLOCK_SIZE
}

func (d *FileDevice) BlockCount() uint32 {
	return d.blocks
}

func (d *FileDevice) ReadBlock(lbn uint32) (Block, error) {
	if lbn >= d.blocks {
		return nil, fmt.Errorf("block %d of %d: %w", lbn, d.blocks, ErrOutOfRange)
	}
	buf := make(Block, consts.ODS1_BLOCK_SIZE)
	if _, err := d.reader.ReadAt(buf, int64(lbn)*consts.ODS1_BLOCK_SIZE); err != nil {
		return nil, fmt.Errorf("failed to read block %d: %w", lbn, err)
	}
	return buf, nil
}

// Name reports the image location, if opened from a file.
func (d *FileDevice) Name() string {
	return d.name
}

// Close closes the underlying image file, if this device owns one.
func (d *FileDevice) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// RamDevice serves blocks from an in-memory image. Reads return copies, so
// callers cannot mutate the image through a returned Block.
type RamDevice struct {
	data []byte
}

// NewRamDevice wraps an in-memory image. Length is truncated to a whole
// number of blocks.
func NewRamDevice(data []byte) *RamDevice {
	return &RamDevice{data: data}
}

// NewZeroedRamDevice allocates an all-zero image of the given block count.
func NewZeroedRamDevice(blocks int) *RamDevice {
	return &RamDevice{data: make([]byte, blocks*consts.ODS1_BLOCK_SIZE)}
}

func (d *RamDevice) BlockSize() int {
	return consts.ODS1_BLOCK_SIZE
}

func (d *RamDevice) BlockCount() uint32 {
	return uint32(len(d.data) / consts.ODS1_BLOCK_SIZE)
}

func (d *RamDevice) ReadBlock(lbn uint32) (Block, error) {
	if lbn >= d.BlockCount() {
		return nil, fmt.Errorf("block %d of %d: %w", lbn, d.BlockCount(), ErrOutOfRange)
	}
	buf := make(Block, consts.ODS1_BLOCK_SIZE)
	copy(buf, d.data[int(lbn)*consts.ODS1_BLOCK_SIZE:])
	return buf, nil
}

// WriteBlock replaces one block of the in-memory image. It exists so tests
// and image builders can assemble synthetic volumes; the decoder itself
// never writes.
func (d *RamDevice) WriteBlock(lbn uint32, b Block) error {
	if lbn >= d.BlockCount() {
		return fmt.Errorf("block %d of %d: %w", lbn, d.BlockCount(), ErrOutOfRange)
	}
	copy(d.data[int(lbn)*consts.ODS1_BLOCK_SIZE:(int(lbn)+1)*consts.ODS1_BLOCK_SIZE], b)
	return nil
}

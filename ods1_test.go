package ods1_test

import (
	"os"
	"path/filepath"
	"testing"

	ods1 "github.com/keck9939/ods1-kit"
	"github.com/keck9939/ods1-kit/internal/imagetest"
	"github.com/keck9939/ods1-kit/pkg/consts"
	"github.com/keck9939/ods1-kit/pkg/files11"
	"github.com/keck9939/ods1-kit/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestImage assembles a minimal valid volume: home block, index file
// header, MFD header, and one file reachable from the MFD.
func writeTestImage(t *testing.T) string {
	t.Helper()
	img := make([]byte, 30*consts.ODS1_BLOCK_SIZE)
	put := func(lbn int, b []byte) {
		copy(img[lbn*consts.ODS1_BLOCK_SIZE:], b)
	}

	put(1, imagetest.HomeBlock(imagetest.HomeSpec{VolumeName: "APIVOL"}))
	put(3, imagetest.FileHeader(imagetest.HeaderSpec{
		FileNumber: 1, FileSequence: 1, Name: "INDEXF", Type: "SYS", Version: 1,
		Extents: []imagetest.Ext{{LBN: 0, Count: 20}},
	}))
	put(6, imagetest.FileHeader(imagetest.HeaderSpec{
		FileNumber: 4, FileSequence: 4, Name: "000000", Type: "DIR", Version: 1,
		Extents: []imagetest.Ext{{LBN: 20, Count: 1}},
	}))
	put(7, imagetest.FileHeader(imagetest.HeaderSpec{
		FileNumber: 5, FileSequence: 1, Name: "HELLO", Type: "TXT", Version: 1,
		Extents: []imagetest.Ext{{LBN: 21, Count: 1}},
	}))
	put(20, imagetest.DirectoryEntry(5, 1, 0, "HELLO", "TXT", 1))

	content := make([]byte, consts.ODS1_BLOCK_SIZE)
	copy(content, "HELLO FROM AN ODS-1 VOLUME")
	put(21, content)

	path := filepath.Join(t.TempDir(), "test.dsk")
	require.NoError(t, os.WriteFile(path, img, 0o644))
	return path
}

func TestOpenAndBrowse(t *testing.T) {
	vol, err := ods1.Open(writeTestImage(t), options.WithValidation(1))
	require.NoError(t, err)
	defer vol.Close()

	result, err := vol.Validate(1)
	require.NoError(t, err)
	assert.Equal(t, files11.Valid, result)

	home, err := vol.HomeBlock()
	require.NoError(t, err)
	assert.Equal(t, "APIVOL", home.VolumeName)
	assert.Equal(t, "[000000]", vol.CurrentDirectoryLabel())

	entries, err := vol.ListDirectory()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "HELLO.TXT;1", entries[0].FileName())

	data, err := vol.ReadFile(entries[0].FileNumber, entries[0].FileSequence)
	require.NoError(t, err)
	require.Len(t, data, consts.ODS1_BLOCK_SIZE)
	assert.Equal(t, "HELLO FROM AN ODS-1 VOLUME", string(data[:26]))

	lbn, err := vol.ResolveBlock(entries[0].FileNumber, entries[0].FileSequence, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(21), lbn)
}

func TestOpenRejectsInvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.dsk")
	require.NoError(t, os.WriteFile(path, make([]byte, 4*consts.ODS1_BLOCK_SIZE), 0o644))

	_, err := ods1.Open(path, options.WithValidation(1))
	require.Error(t, err)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := ods1.Open(filepath.Join(t.TempDir(), "nope.dsk"))
	require.Error(t, err)
}

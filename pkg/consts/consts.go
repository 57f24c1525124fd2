package consts

const (
	// Files-11 ODS-1 logical block size in bytes. Every block on the volume,
	// including the home block and every file header, is exactly this size.
	ODS1_BLOCK_SIZE = 512

	// Logical block number of the home block.
	ODS1_HOME_BLOCK_LBN = 1

	// Structure levels accepted in the home block. 0x0101 is the original
	// ODS-1 level; 0x0102 volumes are accepted but their extensions are
	// not interpreted.
	ODS1_STRUCTURE_LEVEL     = 0x0101
	ODS1_STRUCTURE_LEVEL_EXT = 0x0102

	// Identity of the index file. Its content holds the storage bitmap and
	// the headers for file numbers beyond the first 16.
	INDEX_FILE_NUMBER   = 1
	INDEX_FILE_SEQUENCE = 1

	// Identity and label of the master file directory, the root of the
	// directory tree. The identity is fixed by the volume structure and is
	// never looked up.
	MFD_FILE_NUMBER   = 4
	MFD_FILE_SEQUENCE = 4
	MFD_LABEL         = "[000000]"

	// Headers for file numbers 1..16 sit immediately after the index file
	// storage bitmap and are addressed directly, without going through the
	// index file's retrieval pointers.
	DIRECT_HEADER_COUNT = 16

	// Home block field offsets in bytes.
	HOME_INDEX_BITMAP_SIZE      = 0
	HOME_INDEX_BITMAP_LBN       = 2 // 32-bit, high word first
	HOME_MAXIMUM_FILES          = 6
	HOME_BITMAP_CLUSTER_FACTOR  = 8
	HOME_DEVICE_TYPE            = 10
	HOME_STRUCTURE_LEVEL        = 12
	HOME_VOLUME_NAME            = 14 // 12 bytes, space padded
	HOME_VOLUME_OWNER           = 30
	HOME_VOLUME_PROTECTION      = 32
	HOME_VOLUME_CHARACTERISTICS = 34
	HOME_DEFAULT_PROTECTION     = 36
	HOME_DEFAULT_WINDOW_SIZE    = 44
	HOME_DEFAULT_FILE_EXTEND    = 45
	HOME_DIRECTORY_LIMIT        = 46
	HOME_FIRST_CHECKSUM         = 58 // covers bytes [0,58)
	HOME_CREATION_DATE          = 60 // 14 bytes
	HOME_SECOND_CHECKSUM        = 510 // covers bytes [0,510)

	HOME_VOLUME_NAME_LEN   = 12
	HOME_CREATION_DATE_LEN = 14

	// File header field offsets in bytes. The ident and map area offsets
	// are stored in 16-bit words from the start of the header.
	HEADER_IDENT_AREA_OFFSET   = 0
	HEADER_MAP_AREA_OFFSET     = 1
	HEADER_FILE_NUMBER         = 2
	HEADER_FILE_SEQUENCE       = 4
	HEADER_STRUCTURE_LEVEL     = 6
	HEADER_FILE_OWNER          = 8
	HEADER_FILE_PROTECTION     = 10
	HEADER_CHARACTERISTICS     = 12
	HEADER_USER_ATTRIBUTES     = 14
	HEADER_USER_ATTRIBUTES_LEN = 32

	// Ident area field offsets in bytes, relative to the ident area start.
	IDENT_FILE_NAME    = 0 // 3 Radix-50 words
	IDENT_FILE_TYPE    = 6 // 1 Radix-50 word
	IDENT_FILE_VERSION = 8

	// Map area field offsets in bytes, relative to the map area start.
	MAP_EXTENSION_SEGMENT  = 0
	MAP_EXTENSION_VOLUME   = 1
	MAP_EXTENSION_FILE     = 2
	MAP_EXTENSION_SEQUENCE = 4
	MAP_COUNT_FIELD_SIZE   = 6
	MAP_LBN_FIELD_SIZE     = 7
	MAP_WORDS_IN_USE       = 8
	MAP_WORDS_AVAILABLE    = 9
	MAP_HEADER_SIZE        = 10

	// Directory entry size in bytes. Entries repeat without gaps across the
	// whole of a directory file's content.
	DIRECTORY_ENTRY_SIZE = 16

	// Directory entry field offsets in bytes.
	DIRENT_FILE_NUMBER   = 0
	DIRENT_FILE_SEQUENCE = 2
	DIRENT_VOLUME_NUMBER = 4
	DIRENT_FILE_NAME     = 6  // 3 Radix-50 words, 9 characters
	DIRENT_FILE_TYPE     = 12 // 1 Radix-50 word, 3 characters
	DIRENT_FILE_VERSION  = 14 // signed

	// File type identifying a subdirectory entry.
	DIRECTORY_FILE_TYPE = "DIR"
)

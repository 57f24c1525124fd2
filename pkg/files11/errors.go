package files11

import "errors"

var (
	// ErrNotFound reports a normal negative lookup result: a header slot
	// whose identity does not match the requested pair, a virtual block
	// beyond the end of a file, or a directory entry that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBadPointerFormat reports a retrieval-pointer field-size pair that
	// is not one of the three defined encodings. The file is unreadable.
	ErrBadPointerFormat = errors.New("unrecognized retrieval pointer format")

	// ErrCorruptHeader reports a header whose map area does not fit inside
	// its block or whose pointer region is truncated.
	ErrCorruptHeader = errors.New("corrupt file header")

	// ErrChainTooLong reports an extension-header chain longer than the
	// volume could legitimately hold, which means the chain cycles.
	ErrChainTooLong = errors.New("file header chain exceeds volume maximum")

	// ErrNotSupported reports a request outside this decoder's scope, such
	// as access through a non-zero relative volume number.
	ErrNotSupported = errors.New("operation not supported")
)

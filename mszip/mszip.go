// Package mszip implements the MS-ZIP block compression scheme used inside
// Microsoft Cabinet files.
//
// MS-ZIP frames raw DEFLATE: the input is split into chunks of at most
// [MaxChunk] bytes, each chunk is compressed as a self-contained DEFLATE
// stream prefixed with the two-byte signature "CK", and consecutive chunks
// share a sliding-window dictionary seeded from the previous chunk's
// uncompressed bytes.
//
// Normative reference: [MS-MCI], Microsoft ZIP Compression and
// Decompression Data Structure.
//
// [MS-MCI]: http://interoperability.blob.core.windows.net/files/MS-MCI/[MS-MCI].pdf
//
// Unless otherwise informed, clients should not assume implementations in
// this package are safe for parallel execution: an [Encoder] or [Decoder]
// carries block-to-block dictionary state.
package mszip

import (
	"errors"
	"fmt"
)

// signature is the two-byte magic prefix of every MS-ZIP block.
var signature = [2]byte{'C', 'K'}

// MaxChunk is the maximum number of uncompressed bytes in a single chunk.
const MaxChunk = 32768

// MaxBlockSize is the maximum size in bytes of an MS-ZIP compressed block,
// signature included.
const MaxBlockSize = MaxChunk + 12

// errMSZip is the base error all package-level sentinel errors wrap.
var errMSZip = errors.New("mszip")

var (
	// ErrBlockSizeTooLarge indicates a block handed to [Decoder.WriteBlock]
	// exceeds [MaxBlockSize] bytes.
	ErrBlockSizeTooLarge = fmt.Errorf("%w: block exceeds maximum size", errMSZip)

	// ErrInvalidBlockSignature indicates a block's first two bytes were not
	// "CK".
	ErrInvalidBlockSignature = fmt.Errorf("%w: invalid block signature", errMSZip)

	// ErrBuffer indicates the DEFLATE layer could not make progress on a
	// block; a well-formed block never triggers this.
	ErrBuffer = fmt.Errorf("%w: decompressor needs more input or output space", errMSZip)

	// ErrDecompression indicates the DEFLATE layer did not report
	// stream-end for a block fed with finish semantics.
	ErrDecompression = fmt.Errorf("%w: block did not decompress to a finished stream", errMSZip)

	// ErrCompression indicates the DEFLATE layer failed while compressing
	// a chunk.
	ErrCompression = fmt.Errorf("%w: compression failed", errMSZip)
)

package mszip

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Block is a single MS-ZIP compressed block produced by an [Encoder].
type Block struct {
	// OriginalSize is the length in bytes of the uncompressed chunk this
	// block was produced from.
	OriginalSize int

	// Payload is the "CK" signature followed by the terminated DEFLATE
	// stream. Its length never exceeds [MaxBlockSize].
	Payload []byte
}

// Encoder reads uncompressed data from an underlying reader and produces a
// sequence of MS-ZIP blocks, one per [Encoder.NextBlock] call, carrying the
// compression dictionary forward from one block's chunk to the next.
type Encoder struct {
	r     *bufio.Reader
	level int

	// dict holds the previous chunk's uncompressed bytes, used to seed the
	// DEFLATE dictionary of the next block. Empty before the first block.
	dict []byte

	chunk []byte
	out   bytes.Buffer
}

// NewEncoder returns an Encoder that reads uncompressed data from r and
// compresses it at the given [flate] compression level (see
// flate.DefaultCompression, flate.BestSpeed, flate.BestCompression).
func NewEncoder(r io.Reader, level int) *Encoder {
	return &Encoder{
		r:     bufio.NewReaderSize(r, MaxChunk),
		level: level,
		chunk: make([]byte, MaxChunk),
	}
}

// NextBlock reads up to [MaxChunk] bytes from the underlying reader and
// returns the MS-ZIP block compressing them. It returns ok == false once the
// underlying reader is exhausted; it is safe to call NextBlock again after
// that, and it will keep returning ok == false.
//
// The returned Block owns its Payload slice; callers may retain it across
// subsequent NextBlock calls.
func (e *Encoder) NextBlock() (block Block, ok bool, err error) {
	n, err := io.ReadFull(e.r, e.chunk)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Block{}, false, fmt.Errorf("%w: reading input: %w", errMSZip, err)
	}
	if n == 0 {
		return Block{}, false, nil
	}
	chunk := e.chunk[:n]

	e.out.Reset()
	e.out.Write(signature[:])

	fw, ferr := flate.NewWriterDict(&e.out, e.level, e.dict)
	if ferr != nil {
		return Block{}, false, fmt.Errorf("%w: %w", ErrCompression, ferr)
	}
	if _, ferr = fw.Write(chunk); ferr != nil {
		return Block{}, false, fmt.Errorf("%w: %w", ErrCompression, ferr)
	}
	if ferr = fw.Close(); ferr != nil {
		return Block{}, false, fmt.Errorf("%w: %w", ErrCompression, ferr)
	}

	// The next block's dictionary is this chunk's bytes: MaxChunk equals
	// the DEFLATE window size, so this is the whole sliding window a
	// dictionary-preserving reset would have retained.
	dict := make([]byte, n)
	copy(dict, chunk)
	e.dict = dict

	payload := make([]byte, e.out.Len())
	copy(payload, e.out.Bytes())

	return Block{OriginalSize: n, Payload: payload}, true, nil
}

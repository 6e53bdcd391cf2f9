package mszip

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Decoder decompresses a sequence of MS-ZIP blocks, written in production
// order, to an underlying sink, carrying the decompression dictionary
// forward from one block's decompressed bytes to the next.
type Decoder struct {
	w    io.Writer
	dict []byte
	buf  []byte
}

// NewDecoder returns a Decoder that writes decompressed chunks to w.
func NewDecoder(w io.Writer) *Decoder {
	return &Decoder{
		w:   w,
		buf: make([]byte, MaxChunk),
	}
}

// WriteBlock decompresses a single MS-ZIP block (signature included) and
// writes the result to the underlying sink. Blocks must be passed in the
// order the corresponding [Encoder] produced them.
func (d *Decoder) WriteBlock(block []byte) error {
	if len(block) > MaxBlockSize {
		return ErrBlockSizeTooLarge
	}
	if len(block) < len(signature) || !bytes.Equal(block[:len(signature)], signature[:]) {
		return ErrInvalidBlockSignature
	}

	fr := flate.NewReaderDict(bytes.NewReader(block[len(signature):]), d.dict)
	defer fr.Close()

	// Read directly rather than through io.ReadFull. ReadFull coerces a
	// trailing io.EOF into io.ErrUnexpectedEOF whenever it already read
	// some bytes, which would make a legitimately short final chunk
	// indistinguishable from a truncated block that ran out of input
	// mid-stream. flate itself keeps that distinction: a cleanly
	// terminated block reports plain io.EOF once every compressed symbol
	// has been consumed, while a block missing bytes it still needs
	// reports io.ErrUnexpectedEOF or another decode error. Reading in our
	// own loop and checking the raw error preserves that distinction.
	var n int
	for n < len(d.buf) {
		m, err := fr.Read(d.buf[n:])
		n += m
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("%w: %w", ErrBuffer, err)
		}
		if m == 0 {
			return fmt.Errorf("%w: decoder made no progress", ErrBuffer)
		}
	}

	if n == len(d.buf) {
		// Filled the full MaxChunk buffer; confirm the stream actually
		// ends here rather than silently truncating a malformed block.
		var extra [1]byte
		if m, err := fr.Read(extra[:]); m > 0 || err != io.EOF {
			return ErrDecompression
		}
	}

	decompressed := d.buf[:n]
	if _, err := d.w.Write(decompressed); err != nil {
		return fmt.Errorf("%w: writing decompressed chunk: %w", errMSZip, err)
	}

	dict := make([]byte, n)
	copy(dict, decompressed)
	d.dict = dict

	return nil
}

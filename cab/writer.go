package cab

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/klauspost/compress/flate"

	"github.com/dolansoft/makecab/mszip"
)

// maxCabinetSize is the largest value the format's 32-bit size and offset
// fields can represent.
const maxCabinetSize = math.MaxUint32

// mszipLevel is the DEFLATE compression level used for every block. The
// reference implementation always uses the codec's default level; this
// package does not expose compression level as a knob, matching it.
const mszipLevel = flate.DefaultCompression

// WriteFile creates a cabinet at outputPath containing the single file at
// inputPath, compressed with MS-ZIP.
//
// The cabinet's CFFILE entry uses inputPath's base name and last
// modification time.
func WriteFile(outputPath, inputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("%w: opening input: %w", errCab, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("%w: statting input: %w", errCab, err)
	}
	if info.Size() > maxCabinetSize {
		return ErrTooLarge
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("%w: creating output: %w", errCab, err)
	}
	defer out.Close()

	name := filepath.Base(inputPath)
	if err := Write(out, name, info.ModTime(), in); err != nil {
		return err
	}
	return out.Close()
}

// Write writes a single-file, single-folder, MS-ZIP-compressed cabinet to
// w, reading the file's content from r. name becomes the CFFILE entry's
// filename and must be valid UTF-8; modTime becomes its date/time fields.
//
// w must be an [io.WriteSeeker]: the cabinet's header and folder fields are
// patched in a second pass once the body's size and offsets are known.
func Write(w io.WriteSeeker, name string, modTime time.Time, r io.Reader) error {
	if name == "" || !utf8.ValidString(name) {
		return ErrBadFilename
	}

	header := cfHeader{CFolders: 1, CFiles: 1}
	if _, err := w.Write(header.marshal()); err != nil {
		return fmt.Errorf("%w: writing header: %w", errCab, err)
	}

	folder := cfFolder{TypeCompress: compressMSZip}
	if _, err := w.Write(folder.marshal()); err != nil {
		return fmt.Errorf("%w: writing folder: %w", errCab, err)
	}

	coffFiles, err := tell(w)
	if err != nil {
		return err
	}
	header.COFFFiles = uint32(coffFiles)

	date, dtime := dosDateTime(toLocalTime(modTime))

	// cbFile is filled in after the data blocks are written, since callers
	// of Write (as opposed to WriteFile) may not know r's length up front.
	fileRecordOffset := coffFiles
	file := cfFile{
		IFolder: 0,
		Date:    date,
		Time:    dtime,
		Attribs: attribArchive,
	}
	if _, err := w.Write(file.marshal()); err != nil {
		return fmt.Errorf("%w: writing file entry: %w", errCab, err)
	}
	if _, err := w.Write(append([]byte(name), 0)); err != nil {
		return fmt.Errorf("%w: writing filename: %w", errCab, err)
	}

	coffCabStart, err := tell(w)
	if err != nil {
		return err
	}
	folder.COFFCabStart = uint32(coffCabStart)

	cbFile, numBlocks, err := writeDataBlocks(w, r)
	if err != nil {
		return err
	}
	folder.CCFData = numBlocks

	cbCabinet, err := tell(w)
	if err != nil {
		return err
	}
	if cbCabinet > maxCabinetSize || cbFile > maxCabinetSize {
		return ErrTooLarge
	}
	header.CBCabinet = uint32(cbCabinet)

	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking to patch header: %w", errCab, err)
	}
	if _, err := w.Write(header.marshal()); err != nil {
		return fmt.Errorf("%w: rewriting header: %w", errCab, err)
	}
	if _, err := w.Write(folder.marshal()); err != nil {
		return fmt.Errorf("%w: rewriting folder: %w", errCab, err)
	}

	file.CBFile = uint32(cbFile)
	if _, err := w.Seek(fileRecordOffset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking to patch file entry: %w", errCab, err)
	}
	if _, err := w.Write(file.marshal()); err != nil {
		return fmt.Errorf("%w: rewriting file entry: %w", errCab, err)
	}

	if _, err := w.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("%w: seeking to end: %w", errCab, err)
	}
	return nil
}

// writeDataBlocks MS-ZIP-encodes r and writes it to w as a sequence of
// CFDATA records, returning the total uncompressed size and block count.
func writeDataBlocks(w io.Writer, r io.Reader) (cbFile uint64, numBlocks uint16, err error) {
	enc := mszip.NewEncoder(r, mszipLevel)
	var blocks uint32
	for {
		block, ok, err := enc.NextBlock()
		if err != nil {
			return 0, 0, fmt.Errorf("%w: encoding: %w", errCab, err)
		}
		if !ok {
			return cbFile, uint16(blocks), nil
		}

		data := cfData{
			CBData:   uint16(len(block.Payload)),
			CBUncomp: uint16(block.OriginalSize),
		}
		if _, err := w.Write(data.marshal()); err != nil {
			return 0, 0, fmt.Errorf("%w: writing data record: %w", errCab, err)
		}
		if _, err := w.Write(block.Payload); err != nil {
			return 0, 0, fmt.Errorf("%w: writing data payload: %w", errCab, err)
		}

		cbFile += uint64(block.OriginalSize)
		blocks++
		if blocks > math.MaxUint16 {
			return 0, 0, ErrTooLarge
		}
	}
}

func tell(s io.Seeker) (int64, error) {
	off, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("%w: getting current offset: %w", errCab, err)
	}
	return off, nil
}

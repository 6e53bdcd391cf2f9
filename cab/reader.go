// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cab

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/dolansoft/makecab/mszip"
)

// Reader provides read-back access to a cabinet written by this package:
// exactly one folder holding exactly one file, compressed with MS-ZIP or
// stored uncompressed.
//
// Reader is narrower than a general MS-CAB parser; it exists to verify this
// package's own output without depending on an external extractor, and as a
// convenience for reading back a cabinet this package just wrote. It
// rejects cabinets with more than one folder or file via
// [ErrUnsupportedLayout].
type Reader struct {
	r      io.ReadSeeker
	hdr    cfHeader
	folder cfFolder
	file   cfFile
	name   string
}

// Open parses the cabinet's CFHEADER, CFFOLDER, and CFFILE records from r.
func Open(r io.ReadSeeker) (*Reader, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seeking to start: %w", errCab, err)
	}

	headerBuf := make([]byte, cfHeaderSize)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", errCab, err)
	}
	hdr, err := unmarshalCFHeader(headerBuf)
	if err != nil {
		return nil, err
	}
	if hdr.CFolders != 1 || hdr.CFiles != 1 {
		return nil, ErrUnsupportedLayout
	}

	folderBuf := make([]byte, cfFolderSize)
	if _, err := io.ReadFull(r, folderBuf); err != nil {
		return nil, fmt.Errorf("%w: reading folder: %w", errCab, err)
	}
	folder, err := unmarshalCFFolder(folderBuf)
	if err != nil {
		return nil, err
	}
	if folder.TypeCompress != compressNone && folder.TypeCompress != compressMSZip {
		return nil, ErrUnsupportedLayout
	}

	if _, err := r.Seek(int64(hdr.COFFFiles), io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seeking to file entry: %w", errCab, err)
	}
	fileBuf := make([]byte, cfFileSize)
	if _, err := io.ReadFull(r, fileBuf); err != nil {
		return nil, fmt.Errorf("%w: reading file entry: %w", errCab, err)
	}
	file, _, err := unmarshalCFFile(fileBuf)
	if err != nil {
		return nil, err
	}
	if file.IFolder != 0 {
		return nil, ErrUnsupportedLayout
	}

	name, err := readCString(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading filename: %w", errCab, err)
	}

	return &Reader{r: r, hdr: hdr, folder: folder, file: file, name: name}, nil
}

// Name returns the cabinet's single file's name.
func (c *Reader) Name() string { return c.name }

// Size returns the cabinet's single file's uncompressed size.
func (c *Reader) Size() uint32 { return c.file.CBFile }

// ModTime returns the cabinet's single file's modification time, decoded
// from the CFFILE date/time fields in local time.
func (c *Reader) ModTime() time.Time {
	return dosDateTimeToLocal(c.file.Date, c.file.Time).toTime()
}

// Content decompresses the folder's CFDATA stream and returns it in full.
func (c *Reader) Content() (io.Reader, error) {
	if _, err := c.r.Seek(int64(c.folder.COFFCabStart), io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seeking to data: %w", errCab, err)
	}

	var out bytes.Buffer
	dec := mszip.NewDecoder(&out)
	for i := uint16(0); i < c.folder.CCFData; i++ {
		dataBuf := make([]byte, cfDataSize)
		if _, err := io.ReadFull(c.r, dataBuf); err != nil {
			return nil, fmt.Errorf("%w: reading data record %d: %w", errCab, i, err)
		}
		data, err := unmarshalCFData(dataBuf)
		if err != nil {
			return nil, err
		}

		payload := make([]byte, data.CBData)
		if _, err := io.ReadFull(c.r, payload); err != nil {
			return nil, fmt.Errorf("%w: reading data payload %d: %w", errCab, i, err)
		}

		switch c.folder.TypeCompress {
		case compressNone:
			if uint16(len(payload)) != data.CBUncomp {
				return nil, fmt.Errorf("%w: stored block %d size mismatch", errCab, i)
			}
			out.Write(payload)
		case compressMSZip:
			if err := dec.WriteBlock(payload); err != nil {
				return nil, fmt.Errorf("%w: decoding block %d: %w", errCab, i, err)
			}
		}
	}

	if out.Len() != int(c.file.CBFile) {
		return nil, fmt.Errorf("%w: decompressed size %d does not match cbFile %d", errCab, out.Len(), c.file.CBFile)
	}
	return bytes.NewReader(out.Bytes()), nil
}

// readCString reads bytes from r up to and including a NUL terminator and
// returns them as a string, excluding the terminator.
func readCString(r io.Reader) (string, error) {
	var b []byte
	var one [1]byte
	for {
		if _, err := io.ReadFull(r, one[:]); err != nil {
			return "", err
		}
		if one[0] == 0 {
			return string(b), nil
		}
		b = append(b, one[0])
	}
}

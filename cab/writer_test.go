package cab

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestWriteAndReadBack(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content []byte
	}{
		{name: "empty", content: []byte{}},
		{name: "small", content: []byte("hello, cabinet\n")},
		{name: "one chunk", content: bytes.Repeat([]byte{0x5a}, 32768)},
		{name: "multi chunk", content: sequence(3*32768 + 17)},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			modTime := time.Date(2021, time.June, 5, 10, 30, 0, 0, time.Local)

			var buf bytes.Buffer
			if err := Write(newSeekBuffer(&buf), "data.bin", modTime, bytes.NewReader(tc.content)); err != nil {
				t.Fatalf("Write: %v", err)
			}

			r, err := Open(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if r.Name() != "data.bin" {
				t.Errorf("Name() = %q, want %q", r.Name(), "data.bin")
			}
			if r.Size() != uint32(len(tc.content)) {
				t.Errorf("Size() = %d, want %d", r.Size(), len(tc.content))
			}
			if !r.ModTime().Equal(modTime.Truncate(2 * time.Second)) {
				t.Errorf("ModTime() = %v, want %v", r.ModTime(), modTime)
			}

			content, err := r.Content()
			if err != nil {
				t.Fatalf("Content: %v", err)
			}
			got, err := io.ReadAll(content)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if diff := cmp.Diff(tc.content, got); diff != "" {
				t.Errorf("content round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	srcPath := filepath.Join(dir, "readme.txt")
	want := []byte("this is the input file\n")
	if err := os.WriteFile(srcPath, want, 0o644); err != nil {
		t.Fatalf("WriteFile(source): %v", err)
	}

	cabPath := filepath.Join(dir, "readme.cab")
	if err := WriteFile(cabPath, srcPath); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := os.Open(cabPath)
	if err != nil {
		t.Fatalf("Open(cab): %v", err)
	}
	defer f.Close()

	r, err := Open(f)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if r.Name() != "readme.txt" {
		t.Errorf("Name() = %q, want %q", r.Name(), "readme.txt")
	}

	content, err := r.Content()
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	got, err := io.ReadAll(content)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("content (-want +got):\n%s", diff)
	}
}

func TestWriteRejectsBadFilename(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Write(newSeekBuffer(&buf), "", time.Now(), strings.NewReader("x"))
	if !errors.Is(err, ErrBadFilename) {
		t.Errorf("Write() = %v, want ErrBadFilename", err)
	}
}

func TestWriteRejectsInvalidUTF8Filename(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Write(newSeekBuffer(&buf), "bad\xffname", time.Now(), strings.NewReader("x"))
	if !errors.Is(err, ErrBadFilename) {
		t.Errorf("Write() = %v, want ErrBadFilename", err)
	}
}

func TestOpenRejectsBadSignature(t *testing.T) {
	t.Parallel()

	if _, err := Open(bytes.NewReader(make([]byte, cfHeaderSize))); !errors.Is(err, ErrBadSignature) {
		t.Errorf("Open() = %v, want ErrBadSignature", err)
	}
}

// sequence returns an i-mod-256 byte sequence of length n.
func sequence(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 256)
	}
	return b
}

// seekBuffer adapts a *bytes.Buffer into an io.WriteSeeker backed by an
// in-memory byte slice, for tests that exercise Write's two-pass patching
// without touching the filesystem.
type seekBuffer struct {
	buf *bytes.Buffer
	b   []byte
	pos int
}

func newSeekBuffer(buf *bytes.Buffer) *seekBuffer {
	return &seekBuffer{buf: buf}
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	end := s.pos + len(p)
	if end > len(s.b) {
		grown := make([]byte, end)
		copy(grown, s.b)
		s.b = grown
	}
	copy(s.b[s.pos:end], p)
	s.pos = end
	s.syncBuf()
	return len(p), nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var base int
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = s.pos
	case io.SeekEnd:
		base = len(s.b)
	}
	s.pos = base + int(offset)
	return int64(s.pos), nil
}

func (s *seekBuffer) syncBuf() {
	s.buf.Reset()
	s.buf.Write(s.b)
}

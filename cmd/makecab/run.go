package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dolansoft/makecab/cab"
)

// makeCab holds one invocation's resolved arguments and runs it.
type makeCab struct {
	source      string
	destination string
	destDir     string
	directives  map[string]string
	verbosity   int
	stdout      io.Writer
}

// Run creates the cabinet and, if requested, prints a one-line summary.
func (mc *makeCab) Run() error {
	info, err := os.Stat(mc.source)
	if err != nil {
		return fmt.Errorf("%w: statting source: %w", ErrFlagParse, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s: is a directory", ErrFlagParse, mc.source)
	}

	destName := mc.destination
	if destName == "" {
		destName = defaultDestinationName(mc.source)
	}
	destDir := mc.destDir
	if destDir == "" {
		destDir = "."
	}
	destPath := filepath.Join(destDir, destName)

	if err := cab.WriteFile(destPath, mc.source); err != nil {
		return err
	}

	if mc.verbosity > 0 {
		fmt.Fprintf(mc.stdout, "%s -> %s (%d bytes)\n", mc.source, destPath, info.Size())
	}
	return nil
}

// defaultDestinationName mirrors makecab.exe's historical DOS-compatible
// default: the source's file-name component with its final character
// replaced by an underscore, e.g. "readme.txt" -> "readme.tx_".
func defaultDestinationName(source string) string {
	name := filepath.Base(source)
	r := []rune(name)
	if len(r) == 0 {
		return "_"
	}
	r[len(r)-1] = '_'
	return string(r)
}

// Package pptx extracts plain text from PowerPoint (PPTX) containers.
//
// A PPTX file is a ZIP archive of OOXML parts. Only the slide parts are read,
// one at a time, and their DrawingML text runs are scanned without a full XML
// parser.
package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// MaxEntryBytes bounds the decompressed size of a single archive entry.
const MaxEntryBytes = 64 * 1024 * 1024

var (
	ErrInvalidArchive = errors.New("invalid PPTX archive")
	ErrEntryRead      = errors.New("failed to read archive entry")
)

// Archive is a read-only view of a ZIP container held in memory.
type Archive struct {
	files map[string]*zip.File
	names []string
}

// Open parses the ZIP central directory of data. Entry bodies are not
// decompressed until ReadEntry is called.
func Open(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	a := &Archive{
		files: make(map[string]*zip.File, len(zr.File)),
		names: make([]string, 0, len(zr.File)),
	}
	for _, f := range zr.File {
		a.names = append(a.names, f.Name)
		// First entry wins for duplicated names.
		if _, ok := a.files[f.Name]; !ok {
			a.files[f.Name] = f
		}
	}
	return a, nil
}

// Names returns entry names in central directory order.
func (a *Archive) Names() []string {
	return a.names
}

// ReadEntry decompresses a single entry.
func (a *Archive) ReadEntry(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s: not found", ErrEntryRead, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEntryRead, name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxEntryBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEntryRead, name, err)
	}
	if len(data) > MaxEntryBytes {
		return nil, fmt.Errorf("%w: %s: exceeds %d bytes uncompressed", ErrEntryRead, name, MaxEntryBytes)
	}
	return data, nil
}

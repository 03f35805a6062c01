package dataset

import (
	"agrafa/internal/components/telemetry"
	"errors"
	"os"
	"path/filepath"
)

// File is an Assembler writing to a file. The file is opened once and must be
// closed on every exit path, Close flushes what was written so far so that a
// failed walk leaves the file truncated at its last complete line.
type File struct {
	*Assembler
	f      *os.File
	closed bool
}

// Create creates (or truncates) the file at path and its parent directories.
func Create(path string, tel telemetry.API) (*File, error) {
	dir := filepath.Dir(path)
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &File{
		Assembler: NewAssembler(f, tel),
		f:         f,
	}, nil
}

// Close flushes and closes the file, the file is closed even if flushing fails.
// Closing more than once is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	flushErr := f.Flush()
	closeErr := f.f.Close()
	return errors.Join(flushErr, closeErr)
}

// Package output delivers a rendered diagram to a file or a stream.
package output

import (
	"io"

	"github.com/cockroachdb/errors"
)

const (
	// StandardOutputPath selects the provided stream instead of a file.
	StandardOutputPath = "-"

	lineTerminator   = "\n"
	outputFileMode   = 0o644
	errorWriteFile   = "writing %s"
	errorWriteStream = "writing rendered tree to stream"
)

// ErrWriteFailure marks failures to create, overwrite, or stream the output.
var ErrWriteFailure = errors.New("output write failed")

// Write streams text followed by a newline.
func Write(writer io.Writer, text string) error {
	if _, writeError := io.WriteString(writer, text+lineTerminator); writeError != nil {
		return errors.Mark(errors.Wrap(writeError, errorWriteStream), ErrWriteFailure)
	}
	return nil
}

// WriteFile replaces the file at path with text followed by a newline.
// Readers never observe a partially written file.
func WriteFile(path string, text string) error {
	if writeError := writeFileAtomic(path, []byte(text+lineTerminator), outputFileMode); writeError != nil {
		return errors.Mark(errors.Wrapf(writeError, errorWriteFile, path), ErrWriteFailure)
	}
	return nil
}

// Deliver writes text to path, or to stream when path is StandardOutputPath.
func Deliver(path string, text string, stream io.Writer) error {
	if path == StandardOutputPath {
		return Write(stream, text)
	}
	return WriteFile(path, text)
}

package fastimg

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnknownImageType is returned when no format signature matches the
	// head of the stream, or when a known look-alike (e.g. a Canon RAW file
	// reusing the TIFF byte order prefix) is deliberately rejected.
	ErrUnknownImageType = errors.New("fastimg: unknown image type")

	// errShortRead signals that the producer ended before the requested
	// number of bytes accumulated.
	errShortRead = errors.New("fastimg: short read")

	// Internal sentinel used to unwind out of a decoder; recovered in Decode.
	errStop = errors.New("stop")
)

// InvalidFormatError is returned when the stream matched a format signature
// but its structure could not be parsed, typically because the file is
// corrupt or truncated.
type InvalidFormatError struct {
	Err error
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("fastimg: invalid format: %v", e.Err)
}

func (e *InvalidFormatError) Is(target error) bool {
	_, ok := target.(*InvalidFormatError)
	return ok
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

func newInvalidFormatError(err error) error {
	return &InvalidFormatError{Err: err}
}

func newInvalidFormatErrorf(format string, args ...any) error {
	return &InvalidFormatError{Err: fmt.Errorf(format, args...)}
}

func isInvalidFormatErrorCandidate(err error) bool {
	var ife *InvalidFormatError
	if errors.As(err, &ife) {
		// Already mapped.
		return false
	}
	return errors.Is(err, errShortRead) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

// FetchError wraps a failure reported by the byte producer (transport error,
// decompression error etc.). The core never generates these itself.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fastimg: fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

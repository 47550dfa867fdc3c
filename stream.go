package fastimg

import (
	"encoding/binary"
	"io"
)

// ChunkProducer is a resumable byte source. NextChunk returns the next chunk
// of data, io.EOF when the source is exhausted, or any other error on a
// transport failure. A producer is driven by exactly one stream; no bytes are
// produced ahead of demand beyond the chunk currently in flight.
type ChunkProducer interface {
	NextChunk() ([]byte, error)
}

// LengthReporter is implemented by producers that can report the total byte
// count without parsing (file size, Content-Length header).
type LengthReporter interface {
	KnownLength() (length int64, ok bool)
}

const defaultChunkSize = 8 * 1024

// NewReaderSource adapts r into a ChunkProducer reading chunkSize bytes at a
// time. A chunkSize <= 0 selects the default.
func NewReaderSource(r io.Reader, chunkSize int) ChunkProducer {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &readerSource{r: r, buf: make([]byte, chunkSize)}
}

type readerSource struct {
	r   io.Reader
	buf []byte
}

func (s *readerSource) NextChunk() ([]byte, error) {
	for {
		n, err := s.r.Read(s.buf)
		if n > 0 {
			// Defer a trailing EOF to the next call.
			return s.buf[:n], nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// SourceFromBytes returns a ChunkProducer yielding b as a single chunk.
// Its length is known up front.
func SourceFromBytes(b []byte) ChunkProducer {
	return &bytesSource{b: b}
}

type bytesSource struct {
	b    []byte
	done bool
}

func (s *bytesSource) NextChunk() ([]byte, error) {
	if s.done {
		return nil, io.EOF
	}
	s.done = true
	return s.b, nil
}

func (s *bytesSource) KnownLength() (int64, bool) {
	return int64(len(s.b)), true
}

// streamReader adapts a ChunkProducer into pull operations (peek, read,
// skip) with internal buffering and absolute position tracking. Buffering is
// bounded to roughly one chunk plus any unconsumed remainder; the stream
// never materializes the whole source. Not safe for concurrent use.
type streamReader struct {
	producer  ChunkProducer
	byteOrder binary.ByteOrder

	// Unconsumed bytes; buf[0] is the byte at absolute offset pos.
	buf []byte
	pos int64

	isEOF   bool
	readErr error
}

func newStreamReader(producer ChunkProducer) *streamReader {
	return &streamReader{
		producer:  producer,
		byteOrder: binary.BigEndian,
	}
}

// fill pulls chunks from the producer until at least n unconsumed bytes are
// buffered. Returns errShortRead if the producer ends first.
func (e *streamReader) fill(n int) error {
	for len(e.buf) < n {
		if e.isEOF {
			return errShortRead
		}
		chunk, err := e.producer.NextChunk()
		if err == io.EOF {
			e.isEOF = true
			continue
		}
		if err != nil {
			return &FetchError{Err: err}
		}
		e.buf = append(e.buf, chunk...)
	}
	return nil
}

// peek returns the next n bytes without advancing the position. The returned
// slice is only valid until the next stream operation.
func (e *streamReader) peek(n int) []byte {
	b, err := e.peekE(n)
	if err != nil {
		e.stop(err)
	}
	return b
}

func (e *streamReader) peekE(n int) ([]byte, error) {
	if err := e.fill(n); err != nil {
		return nil, err
	}
	return e.buf[:n], nil
}

// readBytesVolatile reads n bytes and advances the position by n. The
// returned slice is only valid until the next stream operation.
func (e *streamReader) readBytesVolatile(n int) []byte {
	b := e.peek(n)
	e.advance(n)
	return b
}

func (e *streamReader) readBytes(b []byte) {
	copy(b, e.peek(len(b)))
	e.advance(len(b))
}

func (e *streamReader) advance(n int) {
	e.buf = e.buf[n:]
	e.pos += int64(n)
}

// skip advances the position by n bytes. Skipped ranges beyond the current
// buffer are pulled and discarded chunk by chunk, so memory stays bounded.
func (e *streamReader) skip(n int64) {
	if n < 0 {
		e.stop(newInvalidFormatErrorf("negative skip"))
	}
	if buffered := int64(len(e.buf)); n <= buffered {
		e.advance(int(n))
		return
	}
	n -= int64(len(e.buf))
	e.pos += int64(len(e.buf))
	e.buf = e.buf[:0]
	for n > 0 {
		if e.isEOF {
			e.stop(errShortRead)
		}
		chunk, err := e.producer.NextChunk()
		if err == io.EOF {
			e.isEOF = true
			continue
		}
		if err != nil {
			e.stop(&FetchError{Err: err})
		}
		if int64(len(chunk)) > n {
			// Retain the overshoot.
			e.buf = append(e.buf, chunk[n:]...)
			e.pos += n
			return
		}
		e.pos += int64(len(chunk))
		n -= int64(len(chunk))
	}
}

func (e *streamReader) read1() uint8 {
	return e.readBytesVolatile(1)[0]
}

func (e *streamReader) read2() uint16 {
	return e.byteOrder.Uint16(e.readBytesVolatile(2))
}

func (e *streamReader) read4() uint32 {
	return e.byteOrder.Uint32(e.readBytesVolatile(4))
}

func (e *streamReader) read8() uint64 {
	return e.byteOrder.Uint64(e.readBytesVolatile(8))
}

// stop records err and unwinds the current decode. Recovered in Decode.
func (e *streamReader) stop(err error) {
	if err != nil && e.readErr == nil {
		e.readErr = err
	}
	panic(errStop)
}

// reader exposes the stream as a plain io.Reader, consuming bytes from the
// current position. Used where a collaborator wants an io.Reader (RIFF
// chunk walking, charset transforms). Never panics.
func (e *streamReader) reader() io.Reader {
	return streamIOAdapter{e}
}

type streamIOAdapter struct {
	s *streamReader
}

func (r streamIOAdapter) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(r.s.buf) == 0 {
		if err := r.s.fill(1); err != nil {
			if err == errShortRead {
				return 0, io.EOF
			}
			return 0, err
		}
	}
	n := copy(p, r.s.buf)
	r.s.advance(n)
	return n, nil
}

// readDigits consumes an ASCII digit run from r and returns its value
// together with the first non-digit byte read (0 if the run was terminated
// by the end of the stream). ok is false if no digit was seen.
func readDigits(r io.ByteReader) (v uint32, delim byte, ok bool) {
	for {
		c, err := r.ReadByte()
		if err != nil {
			return v, 0, ok
		}
		if c < '0' || c > '9' {
			return v, c, ok
		}
		v = v*10 + uint32(c-'0')
		ok = true
	}
}

package fastimg

import "encoding/binary"

type imageDecoderPSD struct {
	*baseStreamingDecoder
}

func (e *imageDecoderPSD) size() error {
	// Signature (4) + version (2) + reserved (6) + channels (2), then the
	// big-endian height and width.
	b := e.readBytesVolatile(26)
	e.result.Height = binary.BigEndian.Uint32(b[14:18])
	e.result.Width = binary.BigEndian.Uint32(b[18:22])
	return nil
}

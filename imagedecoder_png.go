package fastimg

import "encoding/binary"

type imageDecoderPNG struct {
	*baseStreamingDecoder
}

func (e *imageDecoderPNG) size() error {
	// 8-byte signature + 8-byte IHDR chunk header + width + height.
	b := e.readBytesVolatile(25)
	e.result.Width = binary.BigEndian.Uint32(b[16:20])
	e.result.Height = binary.BigEndian.Uint32(b[20:24])
	return nil
}

// animated walks the chunk list after IHDR. An APNG declares its animation
// control chunk (acTL) before the first IDAT.
func (e *imageDecoderPNG) animated() error {
	e.byteOrder = binary.BigEndian

	// Signature (8) + IHDR (25).
	e.skip(33)
	for {
		chunkLength := e.read4()
		switch string(e.readBytesVolatile(4)) {
		case "acTL":
			e.result.Animated = true
			return nil
		case "IDAT":
			return nil
		}
		e.skip(int64(chunkLength) + 4) // payload + CRC
	}
}

package fastimg

import "encoding/binary"

type imageDecoderICO struct {
	*baseStreamingDecoder
}

func (e *imageDecoderICO) size() error {
	b := e.readBytesVolatile(6)
	// Reserved (2) + type (2): 1 for ICO, 2 for CUR.
	if b[0] != 0 || b[1] != 0 || (b[2] != 1 && b[2] != 2) || b[3] != 0 {
		return ErrUnknownImageType
	}

	iconCount := int(binary.LittleEndian.Uint16(b[4:6]))
	if iconCount == 0 {
		return newInvalidFormatErrorf("ico: empty icon directory")
	}

	// Pick the entry with the largest area. A stored dimension of 0 means 256.
	var bestW, bestH, bestArea uint32
	for i := 0; i < iconCount; i++ {
		entry := e.readBytesVolatile(16)
		w, h := uint32(entry[0]), uint32(entry[1])
		if w == 0 {
			w = 256
		}
		if h == 0 {
			h = 256
		}
		if area := w * h; area > bestArea {
			bestW, bestH, bestArea = w, h, area
		}
	}

	e.result.Width = bestW
	e.result.Height = bestH
	return nil
}

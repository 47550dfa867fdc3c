package fastimg

import "encoding/binary"

type imageDecoderBMP struct {
	*baseStreamingDecoder
}

func (e *imageDecoderBMP) size() error {
	// 14 bytes of file header, then the DIB header. The DIB header size
	// field selects the layout.
	d := e.readBytesVolatile(32)[14:]

	if d[0] == 12 {
		// BITMAPCOREHEADER: 16-bit dimensions.
		e.result.Width = uint32(binary.LittleEndian.Uint16(d[4:6]))
		e.result.Height = uint32(binary.LittleEndian.Uint16(d[6:8]))
		return nil
	}

	// BITMAPINFOHEADER and later (40, 108, 124): signed 32-bit dimensions.
	// Height can be negative for top-down bitmaps.
	w := int32(binary.LittleEndian.Uint32(d[4:8]))
	h := int32(binary.LittleEndian.Uint32(d[8:12]))
	if h < 0 {
		h = -h
	}
	e.result.Width = uint32(w)
	e.result.Height = uint32(h)
	return nil
}

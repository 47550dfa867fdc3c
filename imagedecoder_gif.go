package fastimg

import "encoding/binary"

type imageDecoderGIF struct {
	*baseStreamingDecoder
}

func (e *imageDecoderGIF) size() error {
	// "GIF" + version (3) + width (2) + height (2), all little-endian.
	b := e.peek(11)
	e.result.Width = uint32(binary.LittleEndian.Uint16(b[6:8]))
	e.result.Height = uint32(binary.LittleEndian.Uint16(b[8:10]))
	return nil
}

// animated scans block by block until a second image descriptor proves the
// GIF has more than one frame.
func (e *imageDecoderGIF) animated() error {
	// "GIF" + version (3) + width (2) + height (2)
	e.skip(10)

	// fields (1) + background color (1) + pixel ratio (1)
	fields := e.readBytesVolatile(3)[0]
	e.skipColorTable(fields)

	frames := 0
	for {
		blockType := e.read1()
		switch blockType {
		case 0x21: // extension
			if e.read1() == 0xf9 { // Graphic Control Extension
				e.skip(int64(e.read1()))
			}
			e.skipSubBlocks()
		case 0x2c: // Image Descriptor
			frames++
			if frames > 1 {
				e.result.Animated = true
				return nil
			}
			// Left (2) + top (2) + width (2) + height (2)
			e.skip(8)
			e.skipColorTable(e.read1())
			e.skip(1) // LZW minimum code size
			e.skipSubBlocks()
		default:
			// Trailer or junk; either way there is no second frame.
			return nil
		}
	}
}

func (e *imageDecoderGIF) skipColorTable(fields uint8) {
	if fields&0x80 != 0 {
		e.skip(3 * (1 << ((fields & 0x07) + 1)))
	}
}

func (e *imageDecoderGIF) skipSubBlocks() {
	for {
		blockSize := e.read1()
		if blockSize == 0 {
			return
		}
		e.skip(int64(blockSize))
	}
}

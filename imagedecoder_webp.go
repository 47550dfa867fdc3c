package fastimg

import (
	"encoding/binary"
	"io"

	"golang.org/x/image/riff"
)

var (
	fccWEBP = riff.FourCC{'W', 'E', 'B', 'P'}
	fccVP8  = riff.FourCC{'V', 'P', '8', ' '}
	fccVP8L = riff.FourCC{'V', 'P', '8', 'L'}
	fccVP8X = riff.FourCC{'V', 'P', '8', 'X'}
)

type imageDecoderWebP struct {
	*baseStreamingDecoder
}

func (e *imageDecoderWebP) size() error {
	chunkID, chunkData, err := e.firstChunk()
	if err != nil {
		return err
	}

	switch chunkID {
	case fccVP8:
		// Lossy: 3-byte frame tag + 3-byte start code, then 14-bit
		// dimensions (the top two bits are scaling factors).
		var b [10]byte
		if _, err := io.ReadFull(chunkData, b[:]); err != nil {
			return err
		}
		e.result.Width = uint32(binary.LittleEndian.Uint16(b[6:8]) & 0x3fff)
		e.result.Height = uint32(binary.LittleEndian.Uint16(b[8:10]) & 0x3fff)

	case fccVP8L:
		// Lossless: signature byte, then width-1 and height-1 packed into
		// 14-bit fields.
		var b [5]byte
		if _, err := io.ReadFull(chunkData, b[:]); err != nil {
			return err
		}
		e.result.Width = 1 + (uint32(b[2]&0x3f)<<8 | uint32(b[1]))
		e.result.Height = 1 + (uint32(b[4]&0x0f)<<10 | uint32(b[3])<<2 | uint32(b[2]&0xc0)>>6)

	case fccVP8X:
		// Extended: 4 bytes of flags, then the canvas size minus one as two
		// 24-bit little-endian values.
		var b [10]byte
		if _, err := io.ReadFull(chunkData, b[:]); err != nil {
			return err
		}
		e.result.Width = 1 + uint32(b[4]) + uint32(b[5])<<8 + uint32(b[6])<<16
		e.result.Height = 1 + uint32(b[7]) + uint32(b[8])<<8 + uint32(b[9])<<16

	default:
		return newInvalidFormatErrorf("webp: unexpected first chunk %q", chunkID[:])
	}

	return nil
}

// animated reports the animation bit of the VP8X flags. Simple lossy or
// lossless files have no VP8X chunk and cannot be animated.
func (e *imageDecoderWebP) animated() error {
	chunkID, chunkData, err := e.firstChunk()
	if err != nil {
		return err
	}
	if chunkID != fccVP8X {
		return nil
	}
	var b [4]byte
	if _, err := io.ReadFull(chunkData, b[:]); err != nil {
		return err
	}
	const animationBit = 1 << 1
	e.result.Animated = b[0]&animationBit != 0
	return nil
}

func (e *imageDecoderWebP) firstChunk() (riff.FourCC, io.Reader, error) {
	formType, r, err := riff.NewReader(e.reader())
	if err != nil {
		return riff.FourCC{}, nil, newInvalidFormatError(err)
	}
	if formType != fccWEBP {
		return riff.FourCC{}, nil, newInvalidFormatErrorf("webp: unexpected RIFF form %q", formType[:])
	}
	chunkID, _, chunkData, err := r.Next()
	if err != nil {
		return riff.FourCC{}, nil, newInvalidFormatError(err)
	}
	return chunkID, chunkData, nil
}

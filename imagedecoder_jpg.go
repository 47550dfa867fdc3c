package fastimg

import (
	"bytes"
	"encoding/binary"
)

const (
	markerApp1 = 0xe1
	markerEOI  = 0xd9
	markerSOS  = 0xda
)

var exifHeader = []byte("Exif\x00\x00")

type imageDecoderJPEG struct {
	*baseStreamingDecoder
}

func (e *imageDecoderJPEG) size() error {
	e.byteOrder = binary.BigEndian

	// SOI.
	e.skip(2)

	var exif *exifData

	for {
		if e.read1() != 0xff {
			continue
		}
		marker := e.read1()
		for marker == 0xff {
			// Fill bytes before a marker.
			marker = e.read1()
		}

		switch {
		case marker == markerApp1:
			length := int64(e.read2())
			if length < 2 {
				return newInvalidFormatErrorf("jpeg: invalid segment length %d", length)
			}
			payload := make([]byte, length-2)
			e.readBytes(payload)
			// Only the first APP1 segment counts.
			if exif == nil && len(payload) > len(exifHeader) && bytes.HasPrefix(payload, exifHeader) {
				if data, err := decodeEXIFBytes(payload[len(exifHeader):]); err == nil {
					exif = &data
				} else {
					e.opts.Warnf("jpeg: discarding unreadable EXIF segment: %v", err)
				}
			}

		case isSOFMarker(marker):
			// Length (2) + precision (1), then height and width.
			e.skip(3)
			height := uint32(e.read2())
			width := uint32(e.read2())
			orientation := uint16(1)
			if exif != nil {
				orientation = exif.orientation
				if exif.rotated() {
					width, height = height, width
				}
			}
			e.result.Width = width
			e.result.Height = height
			e.result.Orientation = int(orientation)
			return nil

		case marker == markerEOI || marker == markerSOS:
			return newInvalidFormatErrorf("jpeg: no SOF marker before 0x%02x", marker)

		default:
			length := int64(e.read2())
			if length < 2 {
				return newInvalidFormatErrorf("jpeg: invalid segment length %d", length)
			}
			e.skip(length - 2)
		}
	}
}

// isSOFMarker reports whether marker is a start-of-frame marker carrying the
// frame dimensions. 0xc4 (DHT), 0xc8 (JPG) and 0xcc (DAC) are not frames.
func isSOFMarker(marker uint8) bool {
	switch marker {
	case 0xc0, 0xc1, 0xc2, 0xc3, 0xc5, 0xc6, 0xc7, 0xc9, 0xca, 0xcb, 0xcd, 0xce, 0xcf:
		return true
	}
	return false
}

package fastimg

import (
	"encoding/binary"
)

const (
	byteOrderBigEndian    = 0x4d4d
	byteOrderLittleEndian = 0x4949
	tiffMeaningOfLife     = 42

	exifTagWidth       = 0x0100
	exifTagHeight      = 0x0101
	exifTagOrientation = 0x0112

	exifTypeLong = 4
)

// exifData holds the values extracted from one Image File Directory.
type exifData struct {
	width       uint32
	height      uint32
	orientation uint16
}

// rotated reports whether the orientation implies a 90 or 270 degree
// rotation, i.e. whether width and height should be swapped for display.
func (d exifData) rotated() bool {
	return d.orientation >= 5
}

// metaDecoderEXIF reads width, height and orientation from the first IFD of
// a TIFF-structured blob. Shared by the TIFF decoder (live stream) and the
// JPEG decoder (embedded APP1 payload).
type metaDecoderEXIF struct {
	*streamReader
}

func (e *metaDecoderEXIF) decode() (exifData, error) {
	var data exifData

	byteOrderTag := e.read2()
	switch byteOrderTag {
	case byteOrderBigEndian:
		e.byteOrder = binary.BigEndian
	case byteOrderLittleEndian:
		e.byteOrder = binary.LittleEndian
	default:
		return data, newInvalidFormatErrorf("exif: invalid byte order 0x%04x", byteOrderTag)
	}

	if id := e.read2(); id != tiffMeaningOfLife {
		return data, newInvalidFormatErrorf("exif: invalid magic %d", id)
	}

	ifdOffset := e.read4()
	if ifdOffset < 8 {
		return data, newInvalidFormatErrorf("exif: invalid IFD offset %d", ifdOffset)
	}
	e.skip(int64(ifdOffset) - 8)

	tagCount := e.read2()
	for i := 0; i < int(tagCount); i++ {
		tag := e.read2()
		dataType := e.read2()
		e.skip(4) // value count

		var v uint32
		if dataType == exifTypeLong {
			v = e.read4()
		} else {
			v = uint32(e.read2())
			e.skip(2) // padding
		}

		switch tag {
		case exifTagWidth:
			data.width = v
		case exifTagHeight:
			data.height = v
		case exifTagOrientation:
			if v >= 1 && v <= 8 {
				data.orientation = uint16(v)
			}
		}

		if data.width > 0 && data.height > 0 && data.orientation > 0 {
			// No need to parse more.
			break
		}
	}

	if data.orientation == 0 {
		data.orientation = 1
	}

	return data, nil
}

// decodeEXIFBytes parses an in-memory TIFF-structured blob, converting a
// truncation unwind into a regular error so an embedding decoder can carry
// on.
func decodeEXIFBytes(b []byte) (data exifData, err error) {
	s := newStreamReader(SourceFromBytes(b))

	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok && rerr == errStop {
				err = s.readErr
				if err == nil {
					err = errShortRead
				}
				return
			}
			panic(r)
		}
	}()

	dec := &metaDecoderEXIF{streamReader: s}
	return dec.decode()
}

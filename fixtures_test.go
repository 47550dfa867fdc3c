package fastimg_test

import (
	"encoding/binary"
)

// Minimal hand-built files for each format, just deep enough for the
// decoders to read what they need.

func bmpFixture(width, height int32) []byte {
	b := make([]byte, 46)
	b[0], b[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(b[14:], 40) // BITMAPINFOHEADER
	binary.LittleEndian.PutUint32(b[18:], uint32(width))
	binary.LittleEndian.PutUint32(b[22:], uint32(height))
	return b
}

func gifFixture(width, height uint16, frames int) []byte {
	b := []byte("GIF89a")
	b = binary.LittleEndian.AppendUint16(b, width)
	b = binary.LittleEndian.AppendUint16(b, height)
	b = append(b, 0x00, 0x00, 0x00) // fields, background, aspect
	for i := 0; i < frames; i++ {
		b = append(b, 0x2c)                                     // image descriptor
		b = append(b, 0, 0, 0, 0, 0x11, 0x00, 0x20, 0x00, 0x00) // position, size, fields
		b = append(b, 0x02)                                     // LZW minimum code size
		b = append(b, 0x01, 0xaa)                               // one data sub-block
		b = append(b, 0x00)                                     // terminator
	}
	return append(b, 0x3b) // trailer
}

func pngFixture(width, height uint32, extraChunks ...[]byte) []byte {
	b := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	b = binary.BigEndian.AppendUint32(b, 13)
	b = append(b, "IHDR"...)
	b = binary.BigEndian.AppendUint32(b, width)
	b = binary.BigEndian.AppendUint32(b, height)
	b = append(b, 8, 6, 0, 0, 0)    // bit depth, color type, compression, filter, interlace
	b = append(b, 0, 0, 0, 0)       // CRC (not validated)
	for _, c := range extraChunks {
		b = append(b, c...)
	}
	return b
}

func pngChunk(typ string, payload []byte) []byte {
	b := binary.BigEndian.AppendUint32(nil, uint32(len(payload)))
	b = append(b, typ...)
	b = append(b, payload...)
	return append(b, 0, 0, 0, 0) // CRC
}

// jpegFixture returns a baseline JPEG with an optional EXIF orientation
// carried in an APP1 segment before the SOF0 frame header.
func jpegFixture(width, height uint16, orientation uint16) []byte {
	b := []byte{0xff, 0xd8} // SOI

	// APP0/JFIF.
	b = append(b, 0xff, 0xe0, 0x00, 0x10)
	b = append(b, "JFIF\x00"...)
	b = append(b, make([]byte, 9)...)

	if orientation > 0 {
		tiff := tiffFixture(binary.BigEndian, 0, 0, orientation)
		payload := append([]byte("Exif\x00\x00"), tiff...)
		b = append(b, 0xff, 0xe1)
		b = binary.BigEndian.AppendUint16(b, uint16(len(payload)+2))
		b = append(b, payload...)
	}

	// SOF0: length, precision, height, width, components.
	b = append(b, 0xff, 0xc0, 0x00, 0x11, 0x08)
	b = binary.BigEndian.AppendUint16(b, height)
	b = binary.BigEndian.AppendUint16(b, width)
	b = append(b, 0x03, 1, 0x22, 0, 2, 0x11, 1, 3, 0x11, 1)
	return b
}

// byteOrder combines the read and append sides of encoding/binary; both
// binary.LittleEndian and binary.BigEndian satisfy it.
type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// tiffFixture builds a TIFF header plus one IFD holding the given tags.
// Zero values are left out of the directory.
func tiffFixture(order byteOrder, width, height uint32, orientation uint16) []byte {
	var b []byte
	if order == byteOrder(binary.LittleEndian) {
		b = append(b, "II"...)
	} else {
		b = append(b, "MM"...)
	}
	b = order.AppendUint16(b, 42)
	b = order.AppendUint32(b, 8) // IFD offset

	type entry struct {
		tag   uint16
		value uint16
	}
	var entries []entry
	if width > 0 {
		entries = append(entries, entry{0x0100, uint16(width)})
	}
	if height > 0 {
		entries = append(entries, entry{0x0101, uint16(height)})
	}
	if orientation > 0 {
		entries = append(entries, entry{0x0112, orientation})
	}

	b = order.AppendUint16(b, uint16(len(entries)))
	for _, e := range entries {
		b = order.AppendUint16(b, e.tag)
		b = order.AppendUint16(b, 3) // SHORT
		b = order.AppendUint32(b, 1) // count
		b = order.AppendUint16(b, e.value)
		b = order.AppendUint16(b, 0) // padding
	}
	b = order.AppendUint32(b, 0) // next IFD
	return b
}

func psdFixture(width, height uint32) []byte {
	b := []byte("8BPS")
	b = append(b, 0x00, 0x01)             // version
	b = append(b, make([]byte, 6)...)     // reserved
	b = append(b, 0x00, 0x03)             // channels
	b = binary.BigEndian.AppendUint32(b, height)
	b = binary.BigEndian.AppendUint32(b, width)
	b = append(b, 0x00, 0x08, 0x00, 0x03) // depth, mode
	return b
}

// icoFixture builds an icon directory; a size of 0 encodes 256 pixels.
func icoFixture(typ byte, sizes ...[2]byte) []byte {
	b := []byte{0, 0, typ, 0}
	b = binary.LittleEndian.AppendUint16(b, uint16(len(sizes)))
	for _, s := range sizes {
		entry := make([]byte, 16)
		entry[0], entry[1] = s[0], s[1]
		b = append(b, entry...)
	}
	return b
}

func riffFixture(chunkID string, chunkData []byte) []byte {
	payload := append([]byte(chunkID), binary.LittleEndian.AppendUint32(nil, uint32(len(chunkData)))...)
	payload = append(payload, chunkData...)
	if len(chunkData)%2 == 1 {
		payload = append(payload, 0x00)
	}
	b := []byte("RIFF")
	b = binary.LittleEndian.AppendUint32(b, uint32(4+len(payload)))
	b = append(b, "WEBP"...)
	return append(b, payload...)
}

func webpVP8Fixture(width, height uint16) []byte {
	data := []byte{0x30, 0x01, 0x00, 0x9d, 0x01, 0x2a}
	data = binary.LittleEndian.AppendUint16(data, width)
	data = binary.LittleEndian.AppendUint16(data, height)
	return riffFixture("VP8 ", data)
}

func webpVP8LFixture(width, height uint32) []byte {
	w, h := width-1, height-1
	data := []byte{
		0x2f,
		byte(w),
		byte(w>>8)&0x3f | byte(h&0x03)<<6,
		byte(h >> 2),
		byte(h>>10) & 0x0f,
	}
	return riffFixture("VP8L", data)
}

func webpVP8XFixture(width, height uint32, animated bool) []byte {
	var flags byte
	if animated {
		flags |= 1 << 1
	}
	w, h := width-1, height-1
	data := []byte{
		flags, 0, 0, 0,
		byte(w), byte(w >> 8), byte(w >> 16),
		byte(h), byte(h >> 8), byte(h >> 16),
	}
	return riffFixture("VP8X", data)
}

// ISOBMFF box builders.

func box(typ string, payload ...[]byte) []byte {
	size := 8
	for _, p := range payload {
		size += len(p)
	}
	b := binary.BigEndian.AppendUint32(nil, uint32(size))
	b = append(b, typ...)
	for _, p := range payload {
		b = append(b, p...)
	}
	return b
}

func fullBox(typ string, payload ...[]byte) []byte {
	versionAndFlags := []byte{0, 0, 0, 0}
	return box(typ, append([][]byte{versionAndFlags}, payload...)...)
}

func ftypBox(brand string) []byte {
	return box("ftyp", []byte(brand), []byte{0, 0, 0, 0})
}

func hdlrBox(handler string) []byte {
	return fullBox("hdlr", []byte{0, 0, 0, 0}, []byte(handler), make([]byte, 12))
}

func pitmBox(itemID uint16) []byte {
	return fullBox("pitm", binary.BigEndian.AppendUint16(nil, itemID))
}

func ispeBox(width, height uint32) []byte {
	b := binary.BigEndian.AppendUint32(nil, width)
	b = binary.BigEndian.AppendUint32(b, height)
	return fullBox("ispe", b)
}

func irotBox(angle byte) []byte {
	return box("irot", []byte{angle})
}

// ipmaBox associates one item with one-based property indices.
func ipmaBox(itemID uint16, propIndices ...byte) []byte {
	b := binary.BigEndian.AppendUint32(nil, 1) // entry count
	b = binary.BigEndian.AppendUint16(b, itemID)
	b = append(b, byte(len(propIndices)))
	b = append(b, propIndices...)
	return fullBox("ipma", b)
}

func metaBox(children ...[]byte) []byte {
	return fullBox("meta", children...)
}

// heicFixture builds a minimal image container: the primary item's size
// property preceded by a decoy, so index resolution is observable.
func heicFixture(brand string, width, height uint32) []byte {
	b := ftypBox(brand)
	return append(b, metaBox(
		hdlrBox("pict"),
		pitmBox(1),
		box("iprp",
			box("ipco",
				ispeBox(100, 100),
				ispeBox(width, height),
			),
			ipmaBox(1, 0x02),
		),
	)...)
}

// bitWriter packs bits least significant first, mirroring the JPEG XL
// header encoding.
type bitWriter struct {
	b []byte
	n uint
}

func (w *bitWriter) write(v uint32, bits uint) {
	for i := uint(0); i < bits; i++ {
		if w.n%8 == 0 {
			w.b = append(w.b, 0)
		}
		if v>>i&1 == 1 {
			w.b[w.n/8] |= 1 << (w.n % 8)
		}
		w.n++
	}
}

// jxlCodestream encodes a size header. A ratio selector of 0 stores the
// width explicitly.
func jxlCodestream(width, height uint32, small bool, ratio uint32) []byte {
	w := &bitWriter{}
	if small {
		w.write(1, 1)
		w.write(height/8-1, 5)
		w.write(ratio, 3)
		if ratio == 0 {
			w.write(width/8-1, 5)
		}
	} else {
		w.write(0, 1)
		w.write(1, 2) // 13-bit fields
		w.write(height-1, 13)
		w.write(ratio, 3)
		if ratio == 0 {
			w.write(1, 2)
			w.write(width-1, 13)
		}
	}
	// Pad the trailing byte.
	w.write(0, 7)
	return append([]byte{0xff, 0x0a}, w.b...)
}

func jxlContainer(codestream []byte) []byte {
	b := []byte{0x00, 0x00, 0x00, 0x0c, 'J', 'X', 'L', ' ', 0x0d, 0x0a, 0x87, 0x0a}
	b = append(b, box("ftyp", []byte("jxl "), []byte{0, 0, 0, 0})...)
	return append(b, box("jxlc", codestream)...)
}

package fastimg

import (
	"encoding/binary"
	"errors"
)

// Box types handled by the ISOBMFF walker (HEIC/HEIF/AVIF containers and
// JXL-in-container streams).
var (
	fccMeta = fourCC{'m', 'e', 't', 'a'}
	fccPitm = fourCC{'p', 'i', 't', 'm'}
	fccIpma = fourCC{'i', 'p', 'm', 'a'}
	fccHdlr = fourCC{'h', 'd', 'l', 'r'}
	fccIprp = fourCC{'i', 'p', 'r', 'p'}
	fccIpco = fourCC{'i', 'p', 'c', 'o'}
	fccIspe = fourCC{'i', 's', 'p', 'e'}
	fccIrot = fourCC{'i', 'r', 'o', 't'}
	fccMdat = fourCC{'m', 'd', 'a', 't'}
	fccJxlc = fourCC{'j', 'x', 'l', 'c'}
)

type fourCC [4]byte

// Nested containers deeper than this are treated as malformed rather than
// walked, so adversarial inputs cannot exhaust the stack.
const maxBoxDepth = 16

// errStopWalking is a sentinel to terminate the box walk early, once the
// needed boxes have been seen (or can no longer turn up).
var errStopWalking = errors.New("stop walking")

type imageDecoderISOBMFF struct {
	*baseStreamingDecoder
}

func (e *imageDecoderISOBMFF) size() error {
	w := &isobmffWalker{baseStreamingDecoder: e.baseStreamingDecoder}
	return w.walk()
}

type ispeEntry struct {
	index  int // position within the enclosing property container
	width  uint32
	height uint32
}

type ipmaEntry struct {
	itemID    uint32
	propIndex int // zero-based index into the ipco children
}

// isobmffWalker is a recursive descent over length-prefixed boxes. It
// records pitm, ipma, ispe and irot as they are encountered and resolves the
// primary item's dimensions when the meta box ends.
type isobmffWalker struct {
	*baseStreamingDecoder

	primaryItemID uint32
	hasPrimary    bool
	associations  []ipmaEntry
	ispeEntries   []ispeEntry
	rotation      int // degrees

	width, height uint32
	resolved      bool
}

func (w *isobmffWalker) walk() error {
	err := w.readBoxes(-1, 0)
	if err != nil && err != errStopWalking {
		return err
	}
	if !w.resolved {
		return newInvalidFormatErrorf("isobmff: no image size found")
	}
	if w.rotation == 90 || w.rotation == 270 {
		w.width, w.height = w.height, w.width
	}
	w.result.Width = w.width
	w.result.Height = w.height
	return nil
}

// readBoxes walks sibling boxes until end (absolute position, -1 for
// unbounded). index counts the boxes seen within this container.
func (w *isobmffWalker) readBoxes(end int64, depth int) error {
	if depth > maxBoxDepth {
		return newInvalidFormatErrorf("isobmff: box nesting deeper than %d", maxBoxDepth)
	}

	for index := 0; ; index++ {
		if end >= 0 && w.pos >= end {
			return nil
		}

		boxType, payloadLen := w.readBoxHeader()

		var err error
		switch boxType {
		case fccMeta:
			err = w.handleMeta(payloadLen, depth)
		case fccPitm:
			err = w.handlePitm(payloadLen)
		case fccIpma:
			w.handleIpma()
		case fccHdlr:
			err = w.handleHdlr(payloadLen)
		case fccIprp, fccIpco:
			err = w.readBoxes(w.pos+payloadLen, depth+1)
		case fccIspe:
			err = w.handleIspe(payloadLen, index)
		case fccIrot:
			b := w.readBytesVolatile(int(payloadLen))
			w.rotation = int(b[0]&0x03) * 90
		case fccMdat:
			// Image data; nothing useful can follow.
			return errStopWalking
		case fccJxlc:
			// Embedded JPEG XL codestream: hand over to the bit reader.
			if err := w.decodeJXLCodestream(); err != nil {
				return err
			}
			w.width, w.height = w.result.Width, w.result.Height
			w.resolved = true
			return errStopWalking
		default:
			w.skip(payloadLen)
		}
		if err != nil {
			return err
		}
	}
}

// readBoxHeader returns the box type and remaining payload length. A 32-bit
// size of 1 means the real size follows as a 64-bit value.
func (w *isobmffWalker) readBoxHeader() (fourCC, int64) {
	w.byteOrder = binary.BigEndian
	size := int64(w.read4())
	var boxType fourCC
	w.readBytes(boxType[:])
	headerLen := int64(8)
	if size == 1 {
		size = int64(w.read8())
		headerLen = 16
	}
	if size < headerLen {
		w.stop(newInvalidFormatErrorf("isobmff: box size %d too small", size))
	}
	return boxType, size - headerLen
}

func (w *isobmffWalker) handleMeta(payloadLen int64, depth int) error {
	if payloadLen < 4 {
		return errStopWalking
	}
	w.skip(4) // version + flags
	if err := w.readBoxes(w.pos+payloadLen-4, depth+1); err != nil {
		return err
	}

	if !w.hasPrimary {
		return errStopWalking
	}

	// Intersect the primary item's property indices with the recorded ispe
	// positions; the matching ispe carries the display size.
	for _, ispe := range w.ispeEntries {
		for _, assoc := range w.associations {
			if assoc.itemID == w.primaryItemID && assoc.propIndex == ispe.index {
				w.width, w.height = ispe.width, ispe.height
				w.resolved = true
				return errStopWalking
			}
		}
	}
	return errStopWalking
}

func (w *isobmffWalker) handlePitm(payloadLen int64) error {
	if payloadLen < 6 {
		return errStopWalking
	}
	b := w.readBytesVolatile(int(payloadLen))
	if b[0] == 0 {
		w.primaryItemID = uint32(binary.BigEndian.Uint16(b[4:6]))
	} else {
		// Version 1 and later: 32-bit item ID.
		if payloadLen < 8 {
			return errStopWalking
		}
		w.primaryItemID = binary.BigEndian.Uint32(b[4:8])
	}
	w.hasPrimary = true
	return nil
}

func (w *isobmffWalker) handleIpma() {
	vf := w.read4()
	version := uint8(vf >> 24)
	flags := vf & 0xffffff
	entryCount := w.read4()

	for i := uint32(0); i < entryCount; i++ {
		var itemID uint32
		if version < 1 {
			itemID = uint32(w.read2())
		} else {
			itemID = w.read4()
		}
		assocCount := w.read1()
		for j := uint8(0); j < assocCount; j++ {
			var propIndex int
			if flags&1 == 1 {
				// Extended 15-bit property index.
				propIndex = int(w.read2() & 0x7fff)
			} else {
				propIndex = int(w.read1() & 0x7f)
			}
			// Stored one-based.
			w.associations = append(w.associations, ipmaEntry{itemID: itemID, propIndex: propIndex - 1})
		}
	}
}

func (w *isobmffWalker) handleHdlr(payloadLen int64) error {
	if payloadLen < 12 {
		return errStopWalking
	}
	b := w.readBytesVolatile(int(payloadLen))
	if string(b[8:12]) != "pict" {
		// Not an image handler; the walk cannot succeed.
		return errStopWalking
	}
	return nil
}

func (w *isobmffWalker) handleIspe(payloadLen int64, index int) error {
	if payloadLen < 12 {
		return errStopWalking
	}
	b := w.readBytesVolatile(int(payloadLen))
	w.ispeEntries = append(w.ispeEntries, ispeEntry{
		index:  index,
		width:  binary.BigEndian.Uint32(b[4:8]),
		height: binary.BigEndian.Uint32(b[8:12]),
	})
	return nil
}

package fastimg

// Aspect ratio multipliers, indexed by selector-1. Kept as exact rationals;
// truncating float math would drift for 4/3 and 16/9.
var jxlRatios = [7]rat{
	{1, 1},
	{12, 10},
	{4, 3},
	{3, 2},
	{16, 9},
	{5, 4},
	{2, 1},
}

// Bit lengths of the variable-length dimension field, by 2-bit selector.
var jxlFieldLengths = [4]uint{9, 13, 18, 30}

type imageDecoderJXL struct {
	*baseStreamingDecoder
}

func (e *imageDecoderJXL) size() error {
	b := e.peek(2)
	if b[0] == 0xff && b[1] == 0x0a {
		// Raw codestream.
		return e.decodeJXLCodestream()
	}
	// ISOBMFF container; the walker short-circuits on jxlc.
	w := &isobmffWalker{baseStreamingDecoder: e.baseStreamingDecoder}
	return w.walk()
}

// decodeJXLCodestream reads the bit-packed size header that follows the
// 2-byte codestream signature. Bits are packed least significant first.
func (d *baseStreamingDecoder) decodeJXLCodestream() error {
	d.skip(2)
	br := &bitReader{s: d.streamReader}

	var width, height uint32
	if br.readBits(1) == 1 {
		// Small image: the height is stored in units of 8 pixels.
		height = (br.readBits(5) + 1) * 8
		width = jxlWidth(br, height, true)
	} else {
		height = br.readBits(jxlFieldLengths[br.readBits(2)]) + 1
		width = jxlWidth(br, height, false)
	}

	d.result.Width = width
	d.result.Height = height
	return nil
}

// jxlWidth reads the width, either derived from the height via the aspect
// ratio table or stored explicitly with the same encoding as the height.
func jxlWidth(br *bitReader, height uint32, small bool) uint32 {
	ratio := br.readBits(3)
	if ratio == 0 {
		if small {
			return (br.readBits(5) + 1) * 8
		}
		return br.readBits(jxlFieldLengths[br.readBits(2)]) + 1
	}
	return jxlRatios[ratio-1].scale(height)
}

// bitReader reads a bitstream least significant bit first.
type bitReader struct {
	s     *streamReader
	cur   uint8
	nbits uint8
}

func (r *bitReader) readBits(n uint) uint32 {
	var v uint32
	for i := uint(0); i < n; i++ {
		if r.nbits == 0 {
			r.cur = r.s.read1()
			r.nbits = 8
		}
		v |= uint32(r.cur&1) << i
		r.cur >>= 1
		r.nbits--
	}
	return v
}

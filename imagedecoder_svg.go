package fastimg

import (
	"bufio"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type imageDecoderSVG struct {
	*baseStreamingDecoder
}

// size scans the document byte by byte for width, height and viewBox
// attributes. Resolution priority: explicit width+height, one explicit
// dimension combined with the viewBox aspect ratio, then the viewBox
// dimensions themselves.
func (e *imageDecoderSVG) size() error {
	// Strip a leading BOM and decode UTF-16 documents transparently; the
	// scan below only understands ASCII tags.
	br := bufio.NewReader(transform.NewReader(e.reader(), unicode.BOMOverride(unicode.UTF8.NewDecoder())))

	var (
		width, height       uint32
		hasWidth, hasHeight bool
		ratio               float64
		vbWidth, vbHeight   uint32
	)

	var attrName []byte
scan:
	for !hasWidth || !hasHeight {
		c, err := br.ReadByte()
		if err != nil {
			break
		}
		switch {
		case c == '=':
			name := strings.ToLower(string(attrName))
			switch {
			case strings.Contains(name, "width"):
				br.ReadByte() // opening quote
				if v, _, ok := readDigits(br); ok {
					width, hasWidth = v, true
				}
			case strings.Contains(name, "height"):
				br.ReadByte()
				if v, _, ok := readDigits(br); ok {
					height, hasHeight = v, true
				}
			case strings.Contains(name, "viewbox"):
				values := strings.Fields(readAttrValue(br))
				if len(values) == 4 {
					w, errw := strconv.ParseFloat(values[2], 64)
					h, errh := strconv.ParseFloat(values[3], 64)
					if errw == nil && errh == nil && w > 0 && h > 0 {
						ratio = w / h
						vbWidth = uint32(w)
						vbHeight = uint32(h)
					}
				}
			}
			attrName = attrName[:0]
		case c == '<':
			c2, err := br.ReadByte()
			if err != nil {
				break scan
			}
			attrName = append(attrName[:0], c2)
			if c2 == 'b' {
				// <body etc.: past any sensible svg root element.
				break scan
			}
		case isXMLSpace(c):
			attrName = attrName[:0]
		default:
			attrName = append(attrName, c)
		}
	}

	switch {
	case hasWidth && hasHeight:
	case hasWidth && ratio > 0:
		height = uint32(float64(width) / ratio)
	case hasHeight && ratio > 0:
		width = uint32(float64(height) * ratio)
	case vbWidth > 0 && vbHeight > 0:
		width, height = vbWidth, vbHeight
	default:
		return newInvalidFormatErrorf("svg: no usable dimensions")
	}

	e.result.Width = width
	e.result.Height = height
	return nil
}

// readAttrValue consumes an opening quote and returns everything up to the
// closing quote (or apostrophe).
func readAttrValue(br *bufio.Reader) string {
	br.ReadByte()
	var sb strings.Builder
	for {
		c, err := br.ReadByte()
		if err != nil || c == '"' || c == '\'' {
			return sb.String()
		}
		sb.WriteByte(c)
	}
}

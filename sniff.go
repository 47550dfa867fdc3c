package fastimg

import (
	"bytes"
	"errors"
)

var svgTag = []byte("<svg")

// detectType resolves the image type for this session, sniffing the
// signature window on first use and caching the result.
func (d *baseStreamingDecoder) detectType() (Type, error) {
	if d.typ != TypeUnknown {
		return d.typ, nil
	}
	typ, err := d.sniff()
	if err != nil {
		return TypeUnknown, err
	}
	d.typ = typ
	return typ, nil
}

// sniff inspects a small signature window via peek, so the stream position
// stays at 0 for the format decoder that follows.
func (d *baseStreamingDecoder) sniff() (Type, error) {
	b, err := d.peekE(2)
	if err != nil {
		return TypeUnknown, sniffErr(err)
	}

	switch {
	case b[0] == 'B' && b[1] == 'M':
		return BMP, nil
	case b[0] == 'G' && b[1] == 'I':
		return GIF, nil
	case b[0] == 0xff && b[1] == 0xd8:
		return JPEG, nil
	case b[0] == 0x89 && b[1] == 'P':
		return PNG, nil
	case b[0] == 0xff && b[1] == 0x0a:
		// Raw JPEG XL codestream.
		return JXL, nil
	case b[0] == '8' && b[1] == 'B':
		return PSD, nil

	case (b[0] == 'I' && b[1] == 'I') || (b[0] == 'M' && b[1] == 'M'):
		h, err := d.peekE(11)
		if err != nil {
			return TypeUnknown, sniffErr(err)
		}
		// Canon RAW files (CRW, CR2) reuse the TIFF byte order prefix.
		// Do not recognise them as TIFF.
		m := h[8:11]
		if string(m) == "APC" || (m[0] == 'C' && m[1] == 'R' && m[2] == 2) {
			return TypeUnknown, ErrUnknownImageType
		}
		return TIFF, nil

	case b[0] == 0 && b[1] == 0:
		h, err := d.peekE(3)
		if err != nil {
			return TypeUnknown, sniffErr(err)
		}
		switch h[2] {
		case 0:
			// ISOBMFF: the brand string sits at offset 4 of the ftyp box.
			// See http://www.ftyps.com/what.html
			if h12, err := d.peekE(12); err == nil {
				switch string(h12[4:12]) {
				case "ftypavif", "ftypavis":
					return AVIF, nil
				case "ftypheic":
					return HEIC, nil
				case "ftypmif1":
					return HEIF, nil
				}
			}
			if h7, err := d.peekE(7); err == nil && string(h7[4:7]) == "JXL" {
				return JXL, nil
			}
		case 1:
			return ICO, nil
		case 2:
			return CUR, nil
		}

	case b[0] == 'R' && b[1] == 'I':
		if h, err := d.peekE(12); err == nil && string(h[8:12]) == "WEBP" {
			return WebP, nil
		}

	case b[0] == '<' && b[1] == 's':
		if h, err := d.peekE(4); err == nil && bytes.Equal(h, svgTag) {
			return SVG, nil
		}

	case maybeSVGPrefix(b):
		if d.svgScan() {
			return SVG, nil
		}
	}

	return TypeUnknown, ErrUnknownImageType
}

// maybeSVGPrefix reports whether the two leading bytes could open an SVG
// document: whitespace, an XML prolog (<? / <!) or a UTF-8 BOM.
func maybeSVGPrefix(b []byte) bool {
	switch {
	case isXMLSpace(b[0]) && (isXMLSpace(b[1]) || b[1] == '<'):
		return true
	case b[0] == '<' && (b[1] == '?' || b[1] == '!'):
		return true
	case b[0] == 0xef && b[1] == 0xbb:
		return true
	}
	return false
}

func isXMLSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// svgScan peeks in growing 10-byte windows, up to roughly a kilobyte,
// looking for an <svg tag. Exhaustion or a short stream means no match.
func (d *baseStreamingDecoder) svgScan() bool {
	for n := 1; n <= 100; n++ {
		b, err := d.peekE(10 * n)
		if err != nil {
			return false
		}
		if bytes.Contains(b, svgTag) {
			return true
		}
	}
	return false
}

func sniffErr(err error) error {
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return ErrUnknownImageType
}

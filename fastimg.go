package fastimg

import (
	"fmt"
	"io"
)

const (
	// Size requests the pixel dimensions (with orientation applied).
	Size Property = iota
	// TypeOnly requests only the detected image type.
	TypeOnly
	// Orientation requests the EXIF orientation (1-8, default 1).
	Orientation
	// Animated requests the animation flag.
	Animated
	// ContentLength requests the total byte count of the source.
	ContentLength
)

// Property is the property to extract from the image.
//
//go:generate stringer -type=Property
type Property int

const (
	// TypeUnknown means the type could not be detected.
	TypeUnknown Type = iota
	// BMP is the Windows bitmap format.
	BMP
	// GIF is the Graphics Interchange Format.
	GIF
	// JPEG is the JPEG format.
	JPEG
	// PNG is the Portable Network Graphics format.
	PNG
	// TIFF is the Tagged Image File Format.
	TIFF
	// PSD is the Photoshop Document format.
	PSD
	// ICO is the Windows icon format.
	ICO
	// CUR is the Windows cursor format.
	CUR
	// WebP is the WebP format.
	WebP
	// SVG is Scalable Vector Graphics.
	SVG
	// HEIC is the HEIF variant with HEVC payload.
	HEIC
	// HEIF is the High Efficiency Image File Format.
	HEIF
	// AVIF is the AV1 Image File Format.
	AVIF
	// JXL is the JPEG XL format.
	JXL
)

// Type is the detected image type.
//
//go:generate stringer -type=Type
type Type int

// Options contains the options for the Decode function.
type Options struct {
	// The producer to pull byte chunks from.
	Source ChunkProducer

	// Convenience alternative to Source: an io.Reader wrapped in a chunked
	// producer. Ignored if Source is set.
	R io.Reader

	// The property to extract. Defaults to Size.
	Property Property

	// Chunk size used when wrapping R. Defaults to 8 KiB.
	ChunkSize int

	// Warnf will be called for each warning.
	Warnf func(string, ...any)
}

// Result contains the outcome of a Decode operation. Only the fields
// matching the requested property are guaranteed to be set; Type is set
// whenever the sniffer ran.
type Result struct {
	Type          Type
	Width         uint32
	Height        uint32
	Orientation   int
	Animated      bool
	ContentLength int64
}

// Decode reads the requested property from the image in opts, pulling only
// as many bytes as that property requires.
func Decode(opts Options) (result Result, err error) {
	var base *baseStreamingDecoder

	errFinal := func(err2 error) error {
		if err2 == nil {
			if base != nil {
				err2 = base.readErr
			}
		}
		if err2 == nil || err2 == errStop {
			return nil
		}
		if isInvalidFormatErrorCandidate(err2) {
			err2 = newInvalidFormatError(err2)
		}
		return err2
	}

	defer func() {
		err = errFinal(err)
	}()

	// Runs before the errFinal defer above.
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				panic(r)
			}
			if rerr != errStop {
				err = rerr
			}
		}
	}()

	producer := opts.Source
	if producer == nil {
		if opts.R == nil {
			return result, fmt.Errorf("fastimg: no source provided")
		}
		producer = NewReaderSource(opts.R, opts.ChunkSize)
	}

	if opts.Warnf == nil {
		opts.Warnf = func(string, ...any) {}
	}

	if opts.Property == ContentLength {
		result.ContentLength, err = contentLength(producer)
		return result, err
	}

	base = &baseStreamingDecoder{
		streamReader: newStreamReader(producer),
		opts:         opts,
		result:       &result,
	}

	typ, err := base.detectType()
	if err != nil {
		return result, err
	}
	result.Type = typ

	if opts.Property == TypeOnly {
		return result, nil
	}

	dec := base.decoderFor(typ)

	switch opts.Property {
	case Size, Orientation:
		result.Orientation = 1
		err = dec.size()
	case Animated:
		if ad, ok := dec.(animationDecoder); ok {
			err = ad.animated()
		}
	default:
		err = fmt.Errorf("fastimg: unsupported property %v", opts.Property)
	}

	return result, err
}

// DetectType reads just enough of r to identify its image type.
func DetectType(r io.Reader) (Type, error) {
	result, err := Decode(Options{R: r, Property: TypeOnly})
	return result.Type, err
}

// DetectSize reads just enough of r to determine its pixel dimensions.
func DetectSize(r io.Reader) (Result, error) {
	return Decode(Options{R: r, Property: Size})
}

// IsAnimated reports whether the image in r has more than one frame.
// Formats without an animation concept report false.
func IsAnimated(r io.Reader) (bool, error) {
	result, err := Decode(Options{R: r, Property: Animated})
	return result.Animated, err
}

// contentLength returns the total byte count of the producer, using
// KnownLength when available and draining the producer otherwise.
func contentLength(producer ChunkProducer) (int64, error) {
	if lr, ok := producer.(LengthReporter); ok {
		if n, ok := lr.KnownLength(); ok {
			return n, nil
		}
	}
	var total int64
	for {
		chunk, err := producer.NextChunk()
		total += int64(len(chunk))
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return 0, &FetchError{Err: err}
		}
	}
}

// baseStreamingDecoder is the per-parse session: the stream, the options and
// the cached detected type. Discarded once Decode returns.
type baseStreamingDecoder struct {
	*streamReader
	opts   Options
	typ    Type
	result *Result
}

// decoder extracts the pixel dimensions (and, where the format carries one,
// the display orientation) into the session result.
type decoder interface {
	size() error
}

// animationDecoder is implemented by decoders for formats that can hold more
// than one frame.
type animationDecoder interface {
	animated() error
}

func (d *baseStreamingDecoder) decoderFor(typ Type) decoder {
	switch typ {
	case BMP:
		return &imageDecoderBMP{baseStreamingDecoder: d}
	case GIF:
		return &imageDecoderGIF{baseStreamingDecoder: d}
	case JPEG:
		return &imageDecoderJPEG{baseStreamingDecoder: d}
	case PNG:
		return &imageDecoderPNG{baseStreamingDecoder: d}
	case TIFF:
		return &imageDecoderTIF{baseStreamingDecoder: d}
	case PSD:
		return &imageDecoderPSD{baseStreamingDecoder: d}
	case ICO, CUR:
		return &imageDecoderICO{baseStreamingDecoder: d}
	case WebP:
		return &imageDecoderWebP{baseStreamingDecoder: d}
	case SVG:
		return &imageDecoderSVG{baseStreamingDecoder: d}
	case HEIC, HEIF, AVIF:
		return &imageDecoderISOBMFF{baseStreamingDecoder: d}
	case JXL:
		return &imageDecoderJXL{baseStreamingDecoder: d}
	default:
		panic(fmt.Errorf("fastimg: no decoder for type %d", typ))
	}
}

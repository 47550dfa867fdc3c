package fastimg

type imageDecoderTIF struct {
	*baseStreamingDecoder
}

func (e *imageDecoderTIF) size() error {
	dec := &metaDecoderEXIF{streamReader: e.streamReader}
	data, err := dec.decode()
	if err != nil {
		return err
	}
	if data.width == 0 || data.height == 0 {
		return newInvalidFormatErrorf("tiff: no dimensions in IFD")
	}

	width, height := data.width, data.height
	if data.rotated() {
		width, height = height, width
	}
	e.result.Width = width
	e.result.Height = height
	e.result.Orientation = int(data.orientation)
	return nil
}

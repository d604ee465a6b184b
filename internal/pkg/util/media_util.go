package util

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// MaxScanSide 送去识别前的最长边，超过时等比缩小
const MaxScanSide = 2048

var ErrNotImage = errors.New("file is not a supported image")

var scanFormats = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
	"image/bmp":  imaging.BMP,
	"image/tiff": imaging.TIFF,
}

// PreparedImage 处理后的图片
type PreparedImage struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// PrepareScanImage 按内容识别图片类型，过大的图片缩小后统一转为 JPEG
func PrepareScanImage(r io.Reader, maxSide int) (*PreparedImage, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	mtype := mimetype.Detect(raw)
	if _, ok := scanFormats[mtype.String()]; !ok {
		return nil, ErrNotImage
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= maxSide && bounds.Dy() <= maxSide && mtype.Is("image/jpeg") {
		return &PreparedImage{Data: raw, ContentType: "image/jpeg", Ext: ".jpg", Width: bounds.Dx(), Height: bounds.Dy()}, nil
	}

	var resized image.Image = img
	if bounds.Dx() > maxSide || bounds.Dy() > maxSide {
		resized = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err = imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	b := resized.Bounds()
	return &PreparedImage{Data: buf.Bytes(), ContentType: "image/jpeg", Ext: ".jpg", Width: b.Dx(), Height: b.Dy()}, nil
}

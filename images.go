package microlog

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	maxImageSide = 1200
	thumbWidth   = 300
	thumbHeight  = 200
	jpegQuality  = 85
)

// NormalizeImage decodes an image, flattens any alpha channel onto
// white, caps the longest side at maxImageSide, and re-encodes as JPEG.
// This is the general-purpose form used for publishing and uploads.
func NormalizeImage(data []byte) ([]byte, error) {
	img, err := decodeFlat(data)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxImageSide || h > maxImageSide {
		nw, nh := w, h
		if w >= h {
			nw = maxImageSide
			nh = h * maxImageSide / w
		} else {
			nh = maxImageSide
			nw = w * maxImageSide / h
		}
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
	}

	return encodeJPEG(img)
}

// ThumbnailImage center-crops an image to a 3:2 aspect and resizes it to
// exactly 300x200 for ledger link-card thumbnails.
func ThumbnailImage(data []byte) ([]byte, error) {
	img, err := decodeFlat(data)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	const targetRatio = 3.0 / 2.0
	if float64(w)/float64(h) > targetRatio {
		// Wider than 3:2, crop the sides.
		nw := int(float64(h) * targetRatio)
		left := (w - nw) / 2
		img = img.SubImage(image.Rect(b.Min.X+left, b.Min.Y, b.Min.X+left+nw, b.Max.Y)).(*image.RGBA)
	} else {
		// Taller than 3:2, crop top and bottom.
		nh := int(float64(w) / targetRatio)
		top := (h - nh) / 2
		img = img.SubImage(image.Rect(b.Min.X, b.Min.Y+top, b.Max.X, b.Min.Y+top+nh)).(*image.RGBA)
	}

	dst := image.NewRGBA(image.Rect(0, 0, thumbWidth, thumbHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return encodeJPEG(dst)
}

// decodeFlat decodes any supported format and flattens it onto a white
// background, since JPEG has no alpha channel.
func decodeFlat(data []byte) (*image.RGBA, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := src.Bounds()
	flat := image.NewRGBA(b)
	draw.Draw(flat, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, b, src, b.Min, draw.Over)
	return flat, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

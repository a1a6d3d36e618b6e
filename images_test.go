package microlog

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	return img
}

func TestNormalizeImageCapsLongestSide(t *testing.T) {
	data := pngBytes(t, 2400, 1200, color.RGBA{R: 200, A: 255})
	out, err := NormalizeImage(data)
	if err != nil {
		t.Fatalf("NormalizeImage: %v", err)
	}
	b := decodeJPEG(t, out).Bounds()
	if b.Dx() != 1200 || b.Dy() != 600 {
		t.Errorf("normalized size = %dx%d, want 1200x600", b.Dx(), b.Dy())
	}
}

func TestNormalizeImageKeepsSmallImages(t *testing.T) {
	data := pngBytes(t, 640, 480, color.RGBA{G: 200, A: 255})
	out, err := NormalizeImage(data)
	if err != nil {
		t.Fatalf("NormalizeImage: %v", err)
	}
	b := decodeJPEG(t, out).Bounds()
	if b.Dx() != 640 || b.Dy() != 480 {
		t.Errorf("small image resized to %dx%d", b.Dx(), b.Dy())
	}
}

func TestNormalizeImageTallImage(t *testing.T) {
	data := pngBytes(t, 600, 2400, color.RGBA{B: 200, A: 255})
	out, err := NormalizeImage(data)
	if err != nil {
		t.Fatalf("NormalizeImage: %v", err)
	}
	b := decodeJPEG(t, out).Bounds()
	if b.Dx() != 300 || b.Dy() != 1200 {
		t.Errorf("normalized size = %dx%d, want 300x1200", b.Dx(), b.Dy())
	}
}

func TestThumbnailImageExactSize(t *testing.T) {
	for _, dims := range [][2]int{{1000, 400}, {400, 1000}, {300, 200}, {150, 100}} {
		data := pngBytes(t, dims[0], dims[1], color.RGBA{R: 100, G: 100, B: 100, A: 255})
		out, err := ThumbnailImage(data)
		if err != nil {
			t.Fatalf("ThumbnailImage(%dx%d): %v", dims[0], dims[1], err)
		}
		b := decodeJPEG(t, out).Bounds()
		if b.Dx() != 300 || b.Dy() != 200 {
			t.Errorf("thumbnail of %dx%d = %dx%d, want 300x200", dims[0], dims[1], b.Dx(), b.Dy())
		}
	}
}

func TestNormalizeImageFlattensAlpha(t *testing.T) {
	// Fully transparent pixels should come out white, not black.
	data := pngBytes(t, 10, 10, color.RGBA{})
	out, err := NormalizeImage(data)
	if err != nil {
		t.Fatalf("NormalizeImage: %v", err)
	}
	img := decodeJPEG(t, out)
	r, g, b, _ := img.At(5, 5).RGBA()
	if r < 0xf000 || g < 0xf000 || b < 0xf000 {
		t.Errorf("transparent pixel flattened to %v, want near-white", img.At(5, 5))
	}
}

func TestNormalizeImageRejectsGarbage(t *testing.T) {
	if _, err := NormalizeImage([]byte("not an image")); err == nil {
		t.Error("expected error for undecodable input")
	}
}

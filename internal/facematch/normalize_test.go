package facematch

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

// encodePNG builds a solid test image of the given dimensions.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestResizeImage_SmallImageUnchanged(t *testing.T) {
	data := encodePNG(t, 640, 480)

	out, err := ResizeImage(data, MaxImageDim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(out, data) {
		t.Error("expected image within bounds to be returned unchanged")
	}
}

func TestResizeImage_LargeImageDownscaled(t *testing.T) {
	data := encodePNG(t, 4000, 3000)

	out, err := ResizeImage(data, MaxImageDim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("resized output not decodable: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != MaxImageDim {
		t.Errorf("expected width %d, got %d", MaxImageDim, bounds.Dx())
	}
	if bounds.Dy() != 1440 {
		t.Errorf("expected height 1440 preserving aspect ratio, got %d", bounds.Dy())
	}
}

func TestResizeImage_PortraitAspectPreserved(t *testing.T) {
	data := encodePNG(t, 1500, 3000)

	out, err := ResizeImage(data, MaxImageDim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("resized output not decodable: %v", err)
	}

	if img.Bounds().Dy() != MaxImageDim {
		t.Errorf("expected height %d, got %d", MaxImageDim, img.Bounds().Dy())
	}
	if img.Bounds().Dx() != 960 {
		t.Errorf("expected width 960, got %d", img.Bounds().Dx())
	}
}

func TestResizeImage_GarbageInput(t *testing.T) {
	if _, err := ResizeImage([]byte("not an image"), MaxImageDim); err == nil {
		t.Fatal("expected error for undecodable input")
	}
}

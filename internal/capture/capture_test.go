package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/kozaktomas/timebooth/internal/catalog"
)

func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		for y := range height {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func identityFilter(t *testing.T) catalog.VisualFilter {
	t.Helper()
	f, ok := catalog.FilterByID("none")
	if !ok {
		t.Fatal("identity filter missing from catalog")
	}
	return f
}

func decodeStill(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode still: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg still, got %s", format)
	}
	return img
}

// --- SquareStill tests ---

func TestSquareStill_Landscape(t *testing.T) {
	frame := encodeJPEG(createTestImage(1280, 720, color.White))

	still, err := SquareStill(frame, identityFilter(t))
	if err != nil {
		t.Fatalf("SquareStill failed: %v", err)
	}

	bounds := decodeStill(t, still).Bounds()
	if bounds.Dx() != 720 || bounds.Dy() != 720 {
		t.Errorf("expected 720x720 still, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestSquareStill_Portrait(t *testing.T) {
	frame := encodeJPEG(createTestImage(600, 1024, color.White))

	still, err := SquareStill(frame, identityFilter(t))
	if err != nil {
		t.Fatalf("SquareStill failed: %v", err)
	}

	bounds := decodeStill(t, still).Bounds()
	if bounds.Dx() != 600 || bounds.Dy() != 600 {
		t.Errorf("expected 600x600 still, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestSquareStill_AlreadySquare(t *testing.T) {
	frame := encodeJPEG(createTestImage(512, 512, color.White))

	still, err := SquareStill(frame, identityFilter(t))
	if err != nil {
		t.Fatalf("SquareStill failed: %v", err)
	}

	bounds := decodeStill(t, still).Bounds()
	if bounds.Dx() != 512 || bounds.Dy() != 512 {
		t.Errorf("expected 512x512 still, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestSquareStill_CropIsCentered(t *testing.T) {
	// Left third red, middle third green, right third blue. The centered
	// square crop of a 300x100 frame must keep only the green band.
	img := image.NewRGBA(image.Rect(0, 0, 300, 100))
	for x := range 300 {
		for y := range 100 {
			switch {
			case x < 100:
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			case x < 200:
				img.Set(x, y, color.RGBA{0, 255, 0, 255})
			default:
				img.Set(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}

	still, err := SquareStill(encodePNG(img), identityFilter(t))
	if err != nil {
		t.Fatalf("SquareStill failed: %v", err)
	}

	decoded := decodeStill(t, still)
	r, g, b, _ := decoded.At(50, 50).RGBA()
	if g>>8 < 200 || r>>8 > 60 || b>>8 > 60 {
		t.Errorf("expected green center pixel, got r=%d g=%d b=%d", r>>8, g>>8, b>>8)
	}
}

func TestSquareStill_NoirFilterDesaturates(t *testing.T) {
	frame := encodePNG(createTestImage(200, 200, color.RGBA{200, 40, 40, 255}))
	noir, _ := catalog.FilterByID("noir")

	still, err := SquareStill(frame, noir)
	if err != nil {
		t.Fatalf("SquareStill failed: %v", err)
	}

	decoded := decodeStill(t, still)
	r, g, b, _ := decoded.At(100, 100).RGBA()
	r8, g8, b8 := int(r>>8), int(g>>8), int(b>>8)
	if abs(r8-g8) > 8 || abs(g8-b8) > 8 {
		t.Errorf("expected gray pixel after noir filter, got r=%d g=%d b=%d", r8, g8, b8)
	}
}

func TestSquareStill_InvertFilter(t *testing.T) {
	frame := encodePNG(createTestImage(100, 100, color.RGBA{255, 255, 255, 255}))
	inv, _ := catalog.FilterByID("invert")

	still, err := SquareStill(frame, inv)
	if err != nil {
		t.Fatalf("SquareStill failed: %v", err)
	}

	decoded := decodeStill(t, still)
	r, _, _, _ := decoded.At(50, 50).RGBA()
	if r>>8 > 30 {
		t.Errorf("expected near-black pixel after invert, got %d", r>>8)
	}
}

func TestSquareStill_FilterDoesNotLeak(t *testing.T) {
	// A capture after a filtered capture must be unaffected by it.
	frame := encodePNG(createTestImage(100, 100, color.RGBA{200, 40, 40, 255}))
	noir, _ := catalog.FilterByID("noir")

	if _, err := SquareStill(frame, noir); err != nil {
		t.Fatalf("filtered capture failed: %v", err)
	}

	still, err := SquareStill(frame, identityFilter(t))
	if err != nil {
		t.Fatalf("identity capture failed: %v", err)
	}

	decoded := decodeStill(t, still)
	r, g, _, _ := decoded.At(50, 50).RGBA()
	if int(r>>8)-int(g>>8) < 80 {
		t.Errorf("expected red pixel from identity capture, got r=%d g=%d", r>>8, g>>8)
	}
}

func TestSquareStill_InvalidFrame(t *testing.T) {
	if _, err := SquareStill([]byte("not an image"), identityFilter(t)); err == nil {
		t.Error("expected error for undecodable frame")
	}
}

func TestSquareStill_EmptyFrame(t *testing.T) {
	if _, err := SquareStill(nil, identityFilter(t)); err == nil {
		t.Error("expected error for empty frame")
	}
}

// --- Downscale tests ---

func TestDownscale_NoResizeNeeded(t *testing.T) {
	data := encodeJPEG(createTestImage(400, 300, color.White))

	out, err := Downscale(data, 1024)
	if err != nil {
		t.Fatalf("Downscale failed: %v", err)
	}

	bounds := decodeStill(t, out).Bounds()
	if bounds.Dx() != 400 || bounds.Dy() != 300 {
		t.Errorf("expected 400x300, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestDownscale_Landscape(t *testing.T) {
	data := encodeJPEG(createTestImage(2048, 1024, color.White))

	out, err := Downscale(data, 512)
	if err != nil {
		t.Fatalf("Downscale failed: %v", err)
	}

	bounds := decodeStill(t, out).Bounds()
	if bounds.Dx() != 512 || bounds.Dy() != 256 {
		t.Errorf("expected 512x256, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestDownscale_PNGInputBecomesJPEG(t *testing.T) {
	data := encodePNG(createTestImage(100, 100, color.White))

	out, err := Downscale(data, 200)
	if err != nil {
		t.Fatalf("Downscale failed: %v", err)
	}
	decodeStill(t, out)
}

func TestDownscale_InvalidData(t *testing.T) {
	if _, err := Downscale([]byte{0x00, 0x01}, 512); err == nil {
		t.Error("expected error for invalid image data")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

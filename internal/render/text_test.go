package render

import (
	"testing"

	"github.com/ivlev/words2video/internal/config"
)

// testFont resolves to the embedded fallback face on any machine, keeping
// rendering tests deterministic.
var testFont = config.Font{Family: "NoSuchFamily", Size: 48, Color: "#102030"}

func inkPixels(t *testing.T, pix []uint8) int {
	t.Helper()
	n := 0
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0 {
			n++
		}
	}
	return n
}

func TestRenderHorizontal(t *testing.T) {
	r := NewRenderer(NewFontCache())

	img, err := r.Render("Hello", testFont, "horizontal")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	b := img.Bounds()
	if b.Dx() <= 2*textPadding || b.Dy() <= 2*textPadding {
		t.Fatalf("Bitmap %dx%d too small to contain glyphs", b.Dx(), b.Dy())
	}
	if b.Dx() <= b.Dy() {
		t.Errorf("Horizontal \"Hello\" should be wider than tall, got %dx%d", b.Dx(), b.Dy())
	}

	if inkPixels(t, img.Pix) == 0 {
		t.Errorf("Expected some opaque glyph pixels")
	}

	// Every inked pixel carries the configured fill color.
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] == 255 {
			if img.Pix[i] != 0x10 || img.Pix[i+1] != 0x20 || img.Pix[i+2] != 0x30 {
				t.Fatalf("Fully opaque pixel has wrong color (%d,%d,%d)",
					img.Pix[i], img.Pix[i+1], img.Pix[i+2])
			}
			break
		}
	}
}

func TestRenderVertical(t *testing.T) {
	r := NewRenderer(NewFontCache())

	img, err := r.Render("abc", testFont, "vertical")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	b := img.Bounds()
	if b.Dy() <= b.Dx() {
		t.Errorf("Vertical \"abc\" should be taller than wide, got %dx%d", b.Dx(), b.Dy())
	}
	if inkPixels(t, img.Pix) == 0 {
		t.Errorf("Expected some opaque glyph pixels")
	}
}

func TestRenderPrefixNarrower(t *testing.T) {
	r := NewRenderer(NewFontCache())

	full, err := r.Render("typewriter", testFont, "horizontal")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	prefix, err := r.Render("type", testFont, "horizontal")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if prefix.Bounds().Dx() >= full.Bounds().Dx() {
		t.Errorf("Prefix bitmap (%d) should be narrower than full text (%d)",
			prefix.Bounds().Dx(), full.Bounds().Dx())
	}
}

func TestRenderEmpty(t *testing.T) {
	r := NewRenderer(NewFontCache())

	img, err := r.Render("", testFont, "horizontal")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if inkPixels(t, img.Pix) != 0 {
		t.Errorf("Empty text should produce a fully transparent bitmap")
	}
}

func TestFontCacheReuse(t *testing.T) {
	cache := NewFontCache()

	a := cache.Face("NoSuchFamily", 24)
	b := cache.Face("NoSuchFamily", 24)
	if a != b {
		t.Errorf("Expected cached face to be reused")
	}

	c := cache.Face("NoSuchFamily", 36)
	if a == c {
		t.Errorf("Different sizes must produce different faces")
	}
}

func TestRenderQR(t *testing.T) {
	img, err := RenderQR("https://example.com", 128)
	if err != nil {
		t.Fatalf("RenderQR failed: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 128 || b.Dy() != 128 {
		t.Fatalf("Expected 128x128, got %dx%d", b.Dx(), b.Dy())
	}

	// A QR code has both dark and light modules.
	dark, light := false, false
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] < 128 {
			dark = true
		} else {
			light = true
		}
	}
	if !dark || !light {
		t.Errorf("Expected both dark and light modules, dark=%v light=%v", dark, light)
	}
}

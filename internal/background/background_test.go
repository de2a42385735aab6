package background

import (
	"math"
	"testing"

	"github.com/ivlev/words2video/internal/config"
)

func TestGenerateSolid(t *testing.T) {
	spec := config.BackgroundSpec{Type: "solid", Color: "#336699"}
	img, err := Generate(spec, 64, 48)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("Expected 64x48, got %dx%d", b.Dx(), b.Dy())
	}

	for _, pt := range [][2]int{{0, 0}, {63, 47}, {32, 24}} {
		i := img.PixOffset(pt[0], pt[1])
		r, g, bb, a := img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]
		if r != 0x33 || g != 0x66 || bb != 0x99 || a != 255 {
			t.Errorf("Pixel (%d,%d): expected opaque #336699, got (%d,%d,%d,%d)", pt[0], pt[1], r, g, bb, a)
		}
	}
}

func TestGeneratePaper(t *testing.T) {
	spec := config.BackgroundSpec{Type: "paper", Color: "#F0E8D8", TextureIntensity: 0.5}
	img, err := Generate(spec, 100, 80)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 100 || b.Dy() != 80 {
		t.Fatalf("Expected 100x80, got %dx%d", b.Dx(), b.Dy())
	}

	// Fully opaque, and every pixel within noise range of the base color.
	varied := false
	for y := 0; y < 80; y++ {
		for x := 0; x < 100; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i+3] != 255 {
				t.Fatalf("Pixel (%d,%d) not opaque: alpha %d", x, y, img.Pix[i+3])
			}
			if math.Abs(float64(img.Pix[i])-0xF0) > 10.001 {
				t.Fatalf("Pixel (%d,%d) red %d too far from base 0xF0", x, y, img.Pix[i])
			}
			if img.Pix[i] != 0xF0 {
				varied = true
			}
		}
	}
	if !varied {
		t.Errorf("Expected textured background to deviate from base color somewhere")
	}
}

func TestGeneratePaperZeroIntensity(t *testing.T) {
	// intensity 0 degenerates to a solid fill
	spec := config.BackgroundSpec{Type: "paper", Color: "#FFFFFF", TextureIntensity: 0}
	img, err := Generate(spec, 10, 10)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for i := 0; i < len(img.Pix); i++ {
		if img.Pix[i] != 255 {
			t.Fatalf("Expected pure white, found byte %d at offset %d", img.Pix[i], i)
		}
	}
}

func TestGenerateBadColor(t *testing.T) {
	spec := config.BackgroundSpec{Type: "solid", Color: "#nope"}
	if _, err := Generate(spec, 10, 10); err == nil {
		t.Errorf("Expected error for invalid color")
	}
}

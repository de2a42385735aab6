// Package background produces the opaque base image frames are composited
// onto: a uniform fill, or a paper-like texture built from coarse noise.
package background

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"
	"time"

	"github.com/ivlev/words2video/internal/colors"
	"github.com/ivlev/words2video/internal/config"
)

// Generate renders the configured background at exactly width x height.
// The result is fully opaque. Texture noise is randomized per call; callers
// that need frame-to-frame stability generate once and reuse the bitmap.
func Generate(spec config.BackgroundSpec, width, height int) (*image.RGBA, error) {
	base, err := colors.ParseHex(spec.Color)
	if err != nil {
		return nil, err
	}

	if spec.Type == "solid" || spec.TextureIntensity == 0 {
		return solid(base, width, height), nil
	}
	return textured(base, width, height, spec.TextureIntensity), nil
}

func solid(c color.NRGBA, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}), image.Point{}, draw.Src)
	return img
}

// textured overlays the base color with blocky per-channel noise. The block
// size shrinks as intensity grows, so stronger texture also means finer grain.
func textured(c color.NRGBA, width, height int, intensity float64) *image.RGBA {
	scale := int(50 * (1 - intensity))
	if scale < 1 {
		scale = 1
	}

	gridW := (width + scale - 1) / scale
	gridH := (height + scale - 1) / scale

	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Noise per grid cell per channel, in [-20, 20] scaled by intensity.
	noise := make([][3]float64, gridW*gridH)
	for i := range noise {
		for ch := 0; ch < 3; ch++ {
			noise[i][ch] = (r.Float64()*40 - 20) * intensity
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		gy := y / scale
		row := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			n := noise[gy*gridW+x/scale]
			i := x * 4
			row[i] = clampByte(float64(c.R) + n[0])
			row[i+1] = clampByte(float64(c.G) + n[1])
			row[i+2] = clampByte(float64(c.B) + n[2])
			row[i+3] = 255
		}
	}
	return img
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Package render turns text and QR specs into transparent RGBA bitmaps
// sized to their content. Opacity and shadows are applied later, during
// compositing; everything produced here is at full alpha.
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/words2video/internal/colors"
	"github.com/ivlev/words2video/internal/config"
)

// textPadding keeps descenders and antialiasing fringes inside the bitmap.
const textPadding = 30

// Renderer rasterizes text through a font cache owned by one assembly run.
type Renderer struct {
	fonts *FontCache
}

func NewRenderer(fonts *FontCache) *Renderer {
	return &Renderer{fonts: fonts}
}

// Render rasterizes text into a tight transparent bitmap. The caller passes
// only the currently visible prefix; this function renders whatever it gets.
func (r *Renderer) Render(text string, spec config.Font, orientation string) (*image.RGBA, error) {
	if text == "" {
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	fill, err := colors.ParseHex(spec.Color)
	if err != nil {
		return nil, err
	}

	face := r.fonts.Face(spec.Family, spec.Size)

	if orientation == "vertical" {
		return renderVertical(text, face, fill), nil
	}
	return renderHorizontal(text, face, fill), nil
}

func renderHorizontal(text string, face font.Face, fill color.NRGBA) *image.RGBA {
	bounds, _ := font.BoundString(face, text)

	width := (bounds.Max.X - bounds.Min.X).Ceil() + 2*textPadding
	height := (bounds.Max.Y - bounds.Min.Y).Ceil() + 2*textPadding

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fill),
		Face: face,
		// Shift so the ink's top-left lands at (padding, padding).
		Dot: fixed.Point26_6{
			X: fixed.I(textPadding) - bounds.Min.X,
			Y: fixed.I(textPadding) - bounds.Min.Y,
		},
	}
	d.DrawString(text)

	return img
}

// renderVertical stacks runes top-to-bottom, each centered horizontally.
// Line height comes from the face metrics so spacing matches the font.
func renderVertical(text string, face font.Face, fill color.NRGBA) *image.RGBA {
	runes := []rune(text)
	metrics := face.Metrics()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil()

	maxAdvance := 0
	for _, rn := range runes {
		if adv := font.MeasureString(face, string(rn)).Ceil(); adv > maxAdvance {
			maxAdvance = adv
		}
	}

	width := maxAdvance + 2*textPadding
	height := lineHeight*len(runes) + 2*textPadding

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fill),
		Face: face,
	}

	for i, rn := range runes {
		s := string(rn)
		adv := font.MeasureString(face, s)
		d.Dot = fixed.Point26_6{
			X: fixed.I(textPadding) + (fixed.I(maxAdvance)-adv)/2,
			Y: fixed.I(textPadding + i*lineHeight) + metrics.Ascent,
		}
		d.DrawString(s)
	}

	return img
}

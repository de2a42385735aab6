// Package compose implements painter's-algorithm layer compositing and the
// per-frame builder that drives it.
package compose

import (
	"image"
	"log"
	"sort"

	"github.com/ivlev/words2video/internal/colors"
	"github.com/ivlev/words2video/internal/config"
)

// Layer is one bitmap scheduled for compositing. Layers live for a single
// frame: built, composited, discarded.
type Layer struct {
	Image  *image.RGBA
	Origin image.Point
	Z      int
	Seq    int // declaration order, breaks Z ties
	Alpha  float64
	Shadow *config.DropShadow // nil when disabled
}

// CompositeLayers draws layers onto dst back-to-front: ascending Z, ties by
// declaration order. Shadows go beneath their glyph bitmap. Layers that fall
// completely outside the canvas are skipped with a warning.
func CompositeLayers(dst *image.RGBA, layers []Layer) {
	sorted := make([]Layer, len(layers))
	copy(sorted, layers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Z != sorted[j].Z {
			return sorted[i].Z < sorted[j].Z
		}
		return sorted[i].Seq < sorted[j].Seq
	})

	for i := range sorted {
		l := &sorted[i]

		if l.Shadow != nil {
			shadow := shadowBitmap(l.Image, l.Shadow)
			shadowOrigin := l.Origin.Add(image.Pt(l.Shadow.OffsetX, l.Shadow.OffsetY))
			blendOver(dst, shadow, shadowOrigin, l.Alpha)
		}

		if !blendOver(dst, l.Image, l.Origin, l.Alpha) {
			log.Printf("[!] Layer %d (z=%d) is fully off-canvas, skipped", l.Seq, l.Z)
		}
	}
}

// blendOver composites src onto dst at origin with standard source-over
// blending, mult pre-applied to the source alpha. Both images carry
// premultiplied alpha, so the operator is out = src*m + dst*(1 - srcA*m).
// Returns false when src does not intersect dst at all.
func blendOver(dst *image.RGBA, src *image.RGBA, origin image.Point, mult float64) bool {
	if mult <= 0 {
		return true
	}
	if mult > 1 {
		mult = 1
	}

	target := src.Bounds().Sub(src.Bounds().Min).Add(origin).Intersect(dst.Bounds())
	if target.Empty() {
		return false
	}

	m := uint32(mult * 65536)

	for y := target.Min.Y; y < target.Max.Y; y++ {
		sy := y - origin.Y + src.Bounds().Min.Y
		di := dst.PixOffset(target.Min.X, y)
		si := src.PixOffset(target.Min.X-origin.X+src.Bounds().Min.X, sy)

		for x := target.Min.X; x < target.Max.X; x++ {
			sa := (uint32(src.Pix[si+3]) * m) >> 16
			if sa != 0 {
				inv := 255 - sa
				for ch := 0; ch < 4; ch++ {
					s := (uint32(src.Pix[si+ch]) * m) >> 16
					d := uint32(dst.Pix[di+ch])
					dst.Pix[di+ch] = uint8(s + (d*inv+127)/255)
				}
			}
			di += 4
			si += 4
		}
	}
	return true
}

// shadowBitmap builds the drop-shadow sublayer: the glyph alpha mask tinted
// with the shadow color and blurred by the configured radius.
func shadowBitmap(src *image.RGBA, spec *config.DropShadow) *image.RGBA {
	tint, err := colors.ParseHex(spec.Color)
	if err != nil {
		// Validated upstream; fall back to a translucent black shadow.
		tint.R, tint.G, tint.B, tint.A = 0, 0, 0, 64
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	alpha := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sa := src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)+3]
			alpha[y*w+x] = float64(sa) * float64(tint.A) / 255
		}
	}

	if spec.BlurRadius > 0 {
		blurAlpha(alpha, w, h, spec.BlurRadius)
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, a := range alpha {
		if a <= 0 {
			continue
		}
		if a > 255 {
			a = 255
		}
		// Premultiplied shadow pixel.
		out.Pix[i*4] = uint8(float64(tint.R) * a / 255)
		out.Pix[i*4+1] = uint8(float64(tint.G) * a / 255)
		out.Pix[i*4+2] = uint8(float64(tint.B) * a / 255)
		out.Pix[i*4+3] = uint8(a)
	}
	return out
}

// blurAlpha runs three box-blur passes over the mask, a close approximation
// of a Gaussian with the given radius.
func blurAlpha(alpha []float64, w, h, radius int) {
	tmp := make([]float64, len(alpha))
	for pass := 0; pass < 3; pass++ {
		boxBlurH(alpha, tmp, w, h, radius)
		boxBlurV(tmp, alpha, w, h, radius)
	}
}

func boxBlurH(src, dst []float64, w, h, radius int) {
	norm := 1.0 / float64(2*radius+1)
	for y := 0; y < h; y++ {
		row := y * w
		sum := 0.0
		for x := -radius; x <= radius; x++ {
			sum += at(src, row, x, w)
		}
		for x := 0; x < w; x++ {
			dst[row+x] = sum * norm
			sum += at(src, row, x+radius+1, w) - at(src, row, x-radius, w)
		}
	}
}

func boxBlurV(src, dst []float64, w, h, radius int) {
	norm := 1.0 / float64(2*radius+1)
	for x := 0; x < w; x++ {
		sum := 0.0
		for y := -radius; y <= radius; y++ {
			sum += atCol(src, x, y, w, h)
		}
		for y := 0; y < h; y++ {
			dst[y*w+x] = sum * norm
			sum += atCol(src, x, y+radius+1, w, h) - atCol(src, x, y-radius, w, h)
		}
	}
}

func at(src []float64, row, x, w int) float64 {
	if x < 0 || x >= w {
		return 0
	}
	return src[row+x]
}

func atCol(src []float64, x, y, w, h int) float64 {
	if y < 0 || y >= h {
		return 0
	}
	return src[y*w+x]
}

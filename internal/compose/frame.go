package compose

import (
	"image"
	"log"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/words2video/internal/animation"
	"github.com/ivlev/words2video/internal/background"
	"github.com/ivlev/words2video/internal/config"
	"github.com/ivlev/words2video/internal/render"
)

// FrameBuilder produces finished frames for arbitrary elapsed times. All of
// its state (background bitmap, font cache, QR bitmap) is built once and
// read-only afterwards, so BuildFrame is safe to call concurrently and two
// calls with the same t yield identical output.
type FrameBuilder struct {
	cfg      *config.Config
	bg       *image.RGBA
	renderer *render.Renderer
	qr       *image.RGBA
}

func NewFrameBuilder(cfg *config.Config) (*FrameBuilder, error) {
	// The texture is generated once and shared by every frame; see DESIGN.md
	// for the regenerate-vs-cache decision.
	bg, err := background.Generate(cfg.Background, cfg.Video.Width, cfg.Video.Height)
	if err != nil {
		return nil, err
	}

	b := &FrameBuilder{
		cfg:      cfg,
		bg:       bg,
		renderer: render.NewRenderer(render.NewFontCache()),
	}

	if cfg.QR != nil {
		qr, err := render.RenderQR(cfg.QR.Content, cfg.QR.Size)
		if err != nil {
			return nil, err
		}
		b.qr = qr
	}

	return b, nil
}

// BuildFrame returns the composited frame at elapsed time t.
func (b *FrameBuilder) BuildFrame(t float64) *image.RGBA {
	frame := image.NewRGBA(b.bg.Bounds())
	b.BuildFrameInto(frame, t)
	return frame
}

// BuildFrameInto composites the frame at time t into dst, which must have
// the canvas dimensions. Used by the assembly loop to recycle frame buffers.
func (b *FrameBuilder) BuildFrameInto(dst *image.RGBA, t float64) {
	copy(dst.Pix, b.bg.Pix)

	var layers []Layer

	for i := range b.cfg.Texts {
		seq := &b.cfg.Texts[i]

		opacity := animation.Opacity(seq, t)
		if opacity <= 0 {
			continue
		}

		prefix := visiblePrefix(seq, t)
		if prefix == "" {
			continue
		}

		bmp, err := b.renderer.Render(prefix, seq.Font, seq.Orientation)
		if err != nil {
			// Render failures degrade to a missing layer, never a failed frame.
			log.Printf("[!] Rendering text %d failed: %v", i, err)
			continue
		}

		if scale := animation.ScaleFactor(seq, t); scale != 1 {
			bmp = scaleBitmap(bmp, scale)
		}

		layer := Layer{
			Image:  bmp,
			Origin: b.resolveOrigin(&seq.Position, bmp.Bounds()),
			Z:      seq.ZIndex,
			Seq:    i,
			Alpha:  opacity,
		}
		if seq.Effects.DropShadow.Enabled {
			layer.Shadow = &seq.Effects.DropShadow
		}
		layers = append(layers, layer)
	}

	if b.qr != nil {
		layers = append(layers, Layer{
			Image:  b.qr,
			Origin: b.resolveOrigin(&b.cfg.QR.Position, b.qr.Bounds()),
			Z:      b.cfg.QR.ZIndex,
			Seq:    len(b.cfg.Texts),
			Alpha:  1,
		})
	}

	CompositeLayers(dst, layers)
}

func visiblePrefix(seq *config.TextSequence, t float64) string {
	runes := []rune(seq.Content)
	n := animation.VisibleChars(seq, t)
	if n >= len(runes) {
		return seq.Content
	}
	return string(runes[:n])
}

// resolveOrigin converts a position spec to absolute pixels for a bitmap of
// the given size. Relative coordinates anchor the bitmap's top-left corner at
// round(fraction * canvas); center splits the remaining space evenly.
func (b *FrameBuilder) resolveOrigin(p *config.Position, bounds image.Rectangle) image.Point {
	w, h := b.cfg.Video.Width, b.cfg.Video.Height

	switch p.Mode {
	case "absolute":
		return image.Pt(int(*p.X), int(*p.Y))
	case "relative":
		return image.Pt(
			int(math.Round(*p.X*float64(w))),
			int(math.Round(*p.Y*float64(h))),
		)
	default: // center
		return image.Pt((w-bounds.Dx())/2, (h-bounds.Dy())/2)
	}
}

func scaleBitmap(src *image.RGBA, factor float64) *image.RGBA {
	w := int(math.Round(float64(src.Bounds().Dx()) * factor))
	h := int(math.Round(float64(src.Bounds().Dy()) * factor))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

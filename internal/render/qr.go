package render

import (
	"image"
	"image/draw"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// RenderQR renders content as a QR code bitmap of size x size pixels.
func RenderQR(content string, size int) (*image.RGBA, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, errors.Wrap(err, "encoding qr content")
	}

	src := qr.Image(size)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	return img, nil
}

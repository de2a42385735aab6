// Package video hands finished frame streams to ffmpeg.
package video

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Params describes the stream geometry and output quality.
type Params struct {
	Width   int
	Height  int
	FPS     int
	Quality int // x264 CRF
}

// Encoder consumes an ordered raw RGBA frame stream (width*height*4 bytes
// per frame, ascending frame index) and writes an encoded video file.
type Encoder interface {
	Encode(frames io.Reader, params Params, outputPath string) error
}

// FFmpegEncoder pipes raw frames into an ffmpeg process.
type FFmpegEncoder struct {
	Verbose bool
}

func (e *FFmpegEncoder) Encode(frames io.Reader, params Params, outputPath string) error {
	stream := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"format":       "rawvideo",
		"pixel_format": "rgba",
		"video_size":   fmt.Sprintf("%dx%d", params.Width, params.Height),
		"framerate":    params.FPS,
	}).Output(outputPath, ffmpeg.KwArgs{
		"c:v":      "libx264",
		"preset":   "medium",
		"crf":      params.Quality,
		"pix_fmt":  "yuv420p",
		"movflags": "+faststart",
		"r":        params.FPS,
	}).OverWriteOutput().WithInput(frames)

	if e.Verbose {
		stream = stream.ErrorToStdOut()
	}

	if err := stream.Run(); err != nil {
		return errors.Wrapf(err, "ffmpeg encoding to %s", outputPath)
	}
	return nil
}

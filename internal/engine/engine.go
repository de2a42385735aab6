// Package engine drives the whole assembly: frame production across a
// worker pool, in-order delivery, and the encoder handoff.
package engine

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/words2video/internal/compose"
	"github.com/ivlev/words2video/internal/config"
	"github.com/ivlev/words2video/internal/system"
	"github.com/ivlev/words2video/internal/timing"
	"github.com/ivlev/words2video/internal/video"
)

// Assembly renders one configured video into one output file.
type Assembly struct {
	Config  *config.Config
	Encoder video.Encoder
	Workers int // 0 = probe the host
	Quality int // x264 CRF
	Verbose bool
}

func NewAssembly(cfg *config.Config, enc video.Encoder) *Assembly {
	return &Assembly{
		Config:  cfg,
		Encoder: enc,
		Quality: 23,
	}
}

type builtFrame struct {
	index int
	frame *image.RGBA
}

// Run renders every frame and streams them, in ascending index order, into
// the encoder. Frames are computed independently on a worker pool; only the
// delivery order is serialized. Encoder failure is fatal and removes any
// partial output file.
func (a *Assembly) Run(ctx context.Context, outputPath string) error {
	duration := a.Config.Duration()
	if duration <= 0 {
		return fmt.Errorf("no text sequences configured, nothing to render")
	}

	fps := a.Config.Video.FPS
	frameCount := timing.FrameCount(duration, fps)

	builder, err := compose.NewFrameBuilder(a.Config)
	if err != nil {
		return errors.Wrap(err, "preparing frame builder")
	}

	workers := a.Workers
	if workers <= 0 {
		workers = system.OptimalWorkers(a.Config.Video.Width, a.Config.Video.Height)
	}
	if workers > frameCount {
		workers = frameCount
	}

	log.Printf("[*] %dx%d @ %d FPS | %.2fs | %d frames | %d workers",
		a.Config.Video.Width, a.Config.Video.Height, fps, duration, frameCount, workers)

	startTime := time.Now()
	rect := image.Rect(0, 0, a.Config.Video.Width, a.Config.Video.Height)

	pr, pw := io.Pipe()

	// Encoder owns the output path until it returns.
	encDone := make(chan error, 1)
	go func() {
		err := a.Encoder.Encode(pr, video.Params{
			Width:   a.Config.Video.Width,
			Height:  a.Config.Video.Height,
			FPS:     fps,
			Quality: a.Quality,
		}, outputPath)
		// Unblock producers if ffmpeg died mid-stream.
		if err != nil {
			pr.CloseWithError(err)
		} else {
			pr.Close()
		}
		encDone <- err
	}()

	buildErr := a.produceFrames(ctx, builder, rect, frameCount, workers, pw)
	if buildErr != nil {
		pw.CloseWithError(buildErr)
	} else {
		buildErr = pw.Close()
	}

	encErr := <-encDone
	if encErr != nil {
		// No partial file retained on encoder failure.
		os.Remove(outputPath)
		return errors.Wrap(encErr, "encoding failed")
	}
	if buildErr != nil {
		os.Remove(outputPath)
		return buildErr
	}

	elapsed := time.Since(startTime)
	log.Printf("[+++] %d frames in %.2fs (%.1f frames/s) -> %s",
		frameCount, elapsed.Seconds(), float64(frameCount)/elapsed.Seconds(), outputPath)
	return nil
}

// produceFrames builds frames [0, frameCount) on the pool and writes their
// raw pixels to w in ascending index order.
func (a *Assembly) produceFrames(ctx context.Context, builder *compose.FrameBuilder, rect image.Rectangle, frameCount, workers int, w io.Writer) error {
	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan int)
	results := make(chan builtFrame, workers*2)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < frameCount; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for idx := range jobs {
				frame := system.GetImage(rect)
				builder.BuildFrameInto(frame, timing.FrameToTime(idx, a.Config.Video.FPS))
				select {
				case results <- builtFrame{index: idx, frame: frame}:
				case <-ctx.Done():
					system.PutImage(frame)
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	g.Go(func() error {
		pending := make(map[int]*image.RGBA, workers*2)
		next := 0
		for res := range results {
			pending[res.index] = res.frame
			for {
				frame, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				if _, err := w.Write(frame.Pix); err != nil {
					system.PutImage(frame)
					return errors.Wrapf(err, "delivering frame %d", next)
				}
				system.PutImage(frame)
				next++

				if a.Verbose && next%(a.Config.Video.FPS*5) == 0 {
					log.Printf("[>] %d/%d frames", next, frameCount)
				}
			}
		}
		if next != frameCount {
			return fmt.Errorf("frame pipeline ended early: delivered %d of %d", next, frameCount)
		}
		return nil
	})

	return g.Wait()
}

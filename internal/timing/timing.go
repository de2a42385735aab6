// Package timing converts between frame indices and elapsed seconds for a
// fixed frame rate.
package timing

import "math"

// FrameToTime returns the elapsed time in seconds at the start of frame n.
func FrameToTime(frame int, fps int) float64 {
	return float64(frame) / float64(fps)
}

// TimeToFrame returns the frame index covering time t.
func TimeToFrame(t float64, fps int) int {
	return int(t * float64(fps))
}

// FrameCount returns the number of frames needed to cover duration seconds.
// A partial trailing frame interval still gets a frame.
func FrameCount(duration float64, fps int) int {
	if duration <= 0 {
		return 0
	}
	return int(math.Ceil(duration * float64(fps)))
}

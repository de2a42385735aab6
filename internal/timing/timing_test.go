package timing

import (
	"math"
	"testing"
)

func TestFrameToTime(t *testing.T) {
	if got := FrameToTime(0, 30); got != 0 {
		t.Errorf("Expected 0, got %f", got)
	}
	if got := FrameToTime(15, 30); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected 0.5, got %f", got)
	}
	if got := FrameToTime(45, 30); math.Abs(got-1.5) > 1e-9 {
		t.Errorf("Expected 1.5, got %f", got)
	}
}

func TestTimeToFrame(t *testing.T) {
	if got := TimeToFrame(0.5, 30); got != 15 {
		t.Errorf("Expected frame 15, got %d", got)
	}
	if got := TimeToFrame(0, 30); got != 0 {
		t.Errorf("Expected frame 0, got %d", got)
	}
}

func TestFrameCount(t *testing.T) {
	// 5 seconds at 30 fps
	if got := FrameCount(5.0, 30); got != 150 {
		t.Errorf("Expected 150 frames, got %d", got)
	}

	// Partial trailing interval rounds up
	if got := FrameCount(5.01, 30); got != 151 {
		t.Errorf("Expected 151 frames, got %d", got)
	}

	if got := FrameCount(0, 30); got != 0 {
		t.Errorf("Expected 0 frames, got %d", got)
	}
}

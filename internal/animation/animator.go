// Package animation computes per-frame animation state for text sequences.
// Everything here is a pure function of (sequence, elapsed time): no counters,
// no lifecycle, so any frame can be computed in isolation and out of order.
package animation

import (
	"math"
	"unicode/utf8"

	"github.com/ivlev/words2video/internal/config"
)

// Opacity returns the opacity of a sequence at elapsed time t, in [0,1].
// The timeline is piecewise linear over half-open windows:
//
//	[start, start+fadeIn)            ramp 0 -> 1
//	[.., ..+display)                 1
//	[.., ..+fadeOut)                 ramp 1 -> 0
//
// Outside [start, end) the opacity is exactly 0; a zero-length fade window
// skips its ramp entirely.
func Opacity(seq *config.TextSequence, t float64) float64 {
	if t < seq.StartTime {
		return 0
	}

	fadeInEnd := seq.StartTime + seq.FadeInDuration
	if t < fadeInEnd {
		progress := (t - seq.StartTime) / seq.FadeInDuration
		return clamp01(progress)
	}

	displayEnd := fadeInEnd + seq.DisplayDuration
	if t < displayEnd {
		return 1
	}

	fadeOutEnd := displayEnd + seq.FadeOutDuration
	if t < fadeOutEnd {
		progress := (t - displayEnd) / seq.FadeOutDuration
		return clamp01(1 - progress)
	}

	return 0
}

// VisibleChars returns how many runes of the content are revealed at time t.
// With the typing effect disabled every rune is visible. Typing progress is
// driven only by elapsed time since start, independent of the fade phase.
func VisibleChars(seq *config.TextSequence, t float64) int {
	total := utf8.RuneCountInString(seq.Content)

	if !seq.Effects.Typing.Enabled {
		return total
	}
	if t < seq.StartTime {
		return 0
	}

	visible := int(math.Floor((t - seq.StartTime) * seq.Effects.Typing.CharsPerSecond))
	if visible > total {
		return total
	}
	return visible
}

// ScaleFactor returns the depth-effect scale at time t: InitialScale -> 1
// during fade-in, 1 during display, and 1 -> InitialScale during fade-out
// when ApplyToFadeOut is set. 1.0 whenever the effect does not apply.
func ScaleFactor(seq *config.TextSequence, t float64) float64 {
	eff := seq.Effects.Scale
	if !eff.Enabled {
		return 1
	}

	fadeInEnd := seq.StartTime + seq.FadeInDuration
	fadeOutStart := fadeInEnd + seq.DisplayDuration
	fadeOutEnd := fadeOutStart + seq.FadeOutDuration

	if t < seq.StartTime || t >= fadeOutEnd {
		return 1
	}

	if t < fadeInEnd {
		progress := applyEasing((t-seq.StartTime)/seq.FadeInDuration, eff.Easing)
		return eff.InitialScale + (1-eff.InitialScale)*progress
	}

	if t < fadeOutStart {
		return 1
	}

	if eff.ApplyToFadeOut {
		progress := applyEasing((t-fadeOutStart)/seq.FadeOutDuration, eff.Easing)
		return 1 - (1-eff.InitialScale)*progress
	}

	return 1
}

// applyEasing maps linear progress in [0,1] through the named easing curve.
func applyEasing(t float64, easing string) float64 {
	t = clamp01(t)

	switch easing {
	case "ease_in":
		return t * t
	case "ease_out":
		return 1 - (1-t)*(1-t)
	case "ease_in_out":
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - 2*(1-t)*(1-t)
	default: // linear
		return t
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

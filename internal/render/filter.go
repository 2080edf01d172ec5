package render

import (
	"fmt"
	"strings"

	"github.com/reelworks/trailcut/internal/timeline"
)

// xfadeName maps a timeline transition to its ffmpeg xfade variant. A "cut"
// boundary still goes through xfade with a near-zero duration so the whole
// join stays in one filter graph.
func xfadeName(t timeline.Transition) string {
	switch t {
	case timeline.TransitionDip:
		return "fadeblack"
	case timeline.TransitionFade:
		return "fade"
	default:
		return "fade"
	}
}

// boundaryFade returns the effective fade duration at the join into a clip.
func boundaryFade(t timeline.Transition, fade float64) float64 {
	if t == timeline.TransitionCut {
		return 0.05
	}
	return fade
}

// CueFilter returns the audio filter expression for a clip's audio cue.
// Cues are presentation hints only; unknown cues pass audio through.
func CueFilter(cue timeline.AudioCue, clipSeconds float64) string {
	switch cue {
	case timeline.CueRise:
		d := minF(0.6, clipSeconds/2)
		return fmt.Sprintf("afade=t=in:st=0:d=%.3f", d)
	case timeline.CueDrop:
		d := minF(0.8, clipSeconds/2)
		return fmt.Sprintf("afade=t=out:st=%.3f:d=%.3f", clipSeconds-d, d)
	case timeline.CueSting:
		return "volume=1.2"
	default: // motif
		return "anull"
	}
}

// JoinFilter builds the filter_complex graph chaining every segment with the
// transition declared on the incoming clip: xfade for video, acrossfade for
// audio. The per-clip durations come from the timeline, so offsets line up
// with what the assembler budgeted.
func JoinFilter(clips []timeline.Clip, fade float64) string {
	if len(clips) < 2 {
		return ""
	}

	// A transition longer than half the shortest neighbor would swallow the
	// clip; clamp once for the whole chain.
	minDur := clips[0].Duration()
	for _, c := range clips[1:] {
		if d := c.Duration(); d < minDur {
			minDur = d
		}
	}
	if fade >= minDur/2 {
		fade = minDur / 2
	}

	var b strings.Builder
	lastV := "[0:v]"
	lastA := "[0:a]"
	offset := 0.0

	for i := 1; i < len(clips); i++ {
		f := boundaryFade(clips[i].Transition, fade)
		offset += clips[i-1].Duration() - f

		outV := fmt.Sprintf("[v%d]", i)
		fmt.Fprintf(&b, "%s[%d:v]xfade=transition=%s:duration=%.3f:offset=%.3f%s;",
			lastV, i, xfadeName(clips[i].Transition), f, offset, outV)
		lastV = outV

		outA := fmt.Sprintf("[a%d]", i)
		fmt.Fprintf(&b, "%s[%d:a]acrossfade=d=%.3f%s;",
			lastA, i, f, outA)
		lastA = outA
	}

	graph := strings.TrimSuffix(b.String(), ";")
	return graph
}

// joinOutputs returns the final video/audio pad names produced by JoinFilter.
func joinOutputs(n int) (string, string) {
	return fmt.Sprintf("[v%d]", n-1), fmt.Sprintf("[a%d]", n-1)
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

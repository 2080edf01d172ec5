package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/reelworks/trailcut/internal/timeline"
)

func clipAt(in, out float64, tr timeline.Transition) timeline.Clip {
	return timeline.Clip{In: in, Out: out, Transition: tr, AudioCue: timeline.CueMotif}
}

func TestJoinFilterChainsEverySegment(t *testing.T) {
	clips := []timeline.Clip{
		clipAt(0, 10, timeline.TransitionCut),
		clipAt(10, 18, timeline.TransitionFade),
		clipAt(18, 30, timeline.TransitionDip),
	}

	graph := JoinFilter(clips, 0.5)

	if got := strings.Count(graph, "xfade="); got != 2 {
		t.Errorf("expected 2 xfade stages, got %d in %s", got, graph)
	}
	if got := strings.Count(graph, "acrossfade="); got != 2 {
		t.Errorf("expected 2 acrossfade stages, got %d", got)
	}
	if !strings.Contains(graph, "transition=fadeblack") {
		t.Errorf("dip must map to fadeblack: %s", graph)
	}
	if strings.HasSuffix(graph, ";") {
		t.Error("graph must not end with a dangling separator")
	}

	outV, outA := joinOutputs(len(clips))
	if !strings.Contains(graph, outV) || !strings.Contains(graph, outA) {
		t.Errorf("graph missing final pads %s/%s: %s", outV, outA, graph)
	}
}

func TestJoinFilterOffsetsAccountForFade(t *testing.T) {
	clips := []timeline.Clip{
		clipAt(0, 10, timeline.TransitionCut),
		clipAt(10, 20, timeline.TransitionFade),
	}

	graph := JoinFilter(clips, 0.5)

	// The fade starts before the first clip ends by the fade duration.
	if !strings.Contains(graph, "offset=9.500") {
		t.Errorf("expected offset 9.500 in %s", graph)
	}
}

func TestJoinFilterClampsFadeToShortClips(t *testing.T) {
	clips := []timeline.Clip{
		clipAt(0, 2, timeline.TransitionFade),
		clipAt(2, 4, timeline.TransitionFade),
	}

	graph := JoinFilter(clips, 5.0)
	if strings.Contains(graph, "duration=5.000") {
		t.Errorf("fade must be clamped below clip length: %s", graph)
	}
}

func TestJoinFilterDegenerateInputs(t *testing.T) {
	if g := JoinFilter(nil, 0.5); g != "" {
		t.Errorf("empty clip list must yield empty graph, got %s", g)
	}
	if g := JoinFilter([]timeline.Clip{clipAt(0, 10, timeline.TransitionCut)}, 0.5); g != "" {
		t.Errorf("single clip needs no graph, got %s", g)
	}
}

func TestCueFilterMapping(t *testing.T) {
	cases := []struct {
		cue  timeline.AudioCue
		want string
	}{
		{timeline.CueRise, "afade=t=in"},
		{timeline.CueDrop, "afade=t=out"},
		{timeline.CueSting, "volume="},
		{timeline.CueMotif, "anull"},
	}
	for _, c := range cases {
		got := CueFilter(c.cue, 10)
		if !strings.Contains(got, c.want) {
			t.Errorf("CueFilter(%s) = %s, want prefix %s", c.cue, got, c.want)
		}
	}
}

func TestCueFilterShortClip(t *testing.T) {
	// Fades never exceed half the clip.
	got := CueFilter(timeline.CueRise, 0.8)
	if !strings.Contains(got, fmt.Sprintf("d=%.3f", 0.4)) {
		t.Errorf("rise fade not clamped on short clip: %s", got)
	}
}

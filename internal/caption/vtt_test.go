package caption

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reelworks/trailcut/internal/catalog"
	"github.com/reelworks/trailcut/internal/timeline"
)

func TestFormatTime(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{2.35, "00:00:02.350"},
		{61.5, "00:01:01.500"},
		{3661.042, "01:01:01.042"},
		{-1, "00:00:00.000"},
	}
	for _, c := range cases {
		if got := FormatTime(c.seconds); got != c.want {
			t.Errorf("FormatTime(%.3f) = %s, want %s", c.seconds, got, c.want)
		}
	}
}

func TestWriteVTT(t *testing.T) {
	tl := timeline.Timeline{
		Clips: []timeline.Clip{
			{SceneID: "s1", In: 0, Out: 8.5, Transition: timeline.TransitionCut, AudioCue: timeline.CueRise},
			{SceneID: "s2", In: 8.5, Out: 15, Transition: timeline.TransitionFade, AudioCue: timeline.CueMotif},
		},
		EstimatedDuration: 15,
	}
	scenes := map[string]catalog.Scene{
		"s1": {ID: "s1", Emotions: []string{"Joy"}, Labels: []string{"beach", "sunset"}},
		"s2": {ID: "s2"},
	}

	path := filepath.Join(t.TempDir(), "captions.vtt")
	if err := WriteVTT(tl, scenes, path); err != nil {
		t.Fatalf("WriteVTT failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	if !strings.HasPrefix(text, "WEBVTT\n") {
		t.Error("missing WEBVTT header")
	}
	if !strings.Contains(text, "00:00:00.000 --> 00:00:08.500") {
		t.Errorf("missing first cue timing:\n%s", text)
	}
	if !strings.Contains(text, "Joy / beach, sunset") {
		t.Errorf("missing tag summary cue text:\n%s", text)
	}
	// One cue per clip, even without tags.
	if !strings.Contains(text, "Scene s2") {
		t.Errorf("missing fallback cue for untagged scene:\n%s", text)
	}
	if got := strings.Count(text, "-->"); got != len(tl.Clips) {
		t.Errorf("expected %d cues, got %d", len(tl.Clips), got)
	}
}

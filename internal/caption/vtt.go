package caption

import (
	"fmt"
	"os"
	"strings"

	"github.com/reelworks/trailcut/internal/catalog"
	"github.com/reelworks/trailcut/internal/timeline"
)

// WriteVTT writes a WebVTT caption track with one cue per timeline clip,
// timed in trailer-relative seconds. Cue text summarizes the scene's tags so
// downstream caption tooling has something human-readable per cut.
func WriteVTT(tl timeline.Timeline, scenes map[string]catalog.Scene, path string) error {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")

	for i, clip := range tl.Clips {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", FormatTime(clip.In), FormatTime(clip.Out))
		b.WriteString(cueText(clip, scenes[clip.SceneID]))
		b.WriteString("\n\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

// FormatTime renders seconds as a VTT timestamp like "00:00:02.350".
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int(seconds*1000 + 0.5)
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func cueText(clip timeline.Clip, scene catalog.Scene) string {
	var parts []string
	if len(scene.Emotions) > 0 {
		parts = append(parts, strings.Join(scene.Emotions, ", "))
	}
	if len(scene.Labels) > 0 {
		parts = append(parts, strings.Join(scene.Labels, ", "))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Scene %s", clip.SceneID)
	}
	return strings.Join(parts, " / ")
}

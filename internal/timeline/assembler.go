package timeline

import (
	"math/rand"

	"github.com/reelworks/trailcut/internal/config"
	"github.com/reelworks/trailcut/internal/personalize"
)

// Transition is the visual join into a clip.
type Transition string

// AudioCue is a best-effort stylistic hint for the clip's audio treatment.
type AudioCue string

const (
	TransitionCut  Transition = "cut"
	TransitionFade Transition = "fade"
	TransitionDip  Transition = "dip"

	CueRise  AudioCue = "rise"
	CueDrop  AudioCue = "drop"
	CueSting AudioCue = "sting"
	CueMotif AudioCue = "motif"
)

var (
	transitions = []Transition{TransitionCut, TransitionFade, TransitionDip}
	audioCues   = []AudioCue{CueRise, CueDrop, CueSting, CueMotif}
)

// Clip is one frame-accurate cut in the output trailer. In/Out are
// trailer-relative; SourceStart/SourceEnd are source-relative.
type Clip struct {
	SceneID     string     `yaml:"scene_id" json:"sceneId"`
	In          float64    `yaml:"in" json:"in"`
	Out         float64    `yaml:"out" json:"out"`
	SourceStart float64    `yaml:"source_start" json:"sourceStart"`
	SourceEnd   float64    `yaml:"source_end" json:"sourceEnd"`
	PadBefore   float64    `yaml:"pad_before" json:"padBefore"`
	PadAfter    float64    `yaml:"pad_after" json:"padAfter"`
	Transition  Transition `yaml:"transition" json:"transition"`
	AudioCue    AudioCue   `yaml:"audio_cue" json:"audioCue"`
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	return c.Out - c.In
}

// Timeline is the gapless, duration-bounded cut list for one variant.
// Consecutive clips satisfy clips[i].Out == clips[i+1].In, and
// EstimatedDuration never exceeds the requested target.
type Timeline struct {
	Clips             []Clip  `yaml:"clips" json:"clips"`
	EstimatedDuration float64 `yaml:"estimated_duration" json:"estimatedDuration"`
}

// Assembler converts a start-ordered scene list into a timeline, padding
// clip boundaries without ever duplicating or skipping source frames
// relative to neighboring clips.
type Assembler struct {
	cfg config.Engine
	rng *rand.Rand
}

// NewAssembler creates an assembler. The generator is an explicit dependency
// so a fixed seed reproduces the timeline byte-for-byte.
func NewAssembler(cfg config.Engine, rng *rand.Rand) *Assembler {
	return &Assembler{cfg: cfg, rng: rng}
}

// Assemble walks the scenes in order with a trailer-relative cursor.
// Processing stops when the scene list is exhausted or the budget is.
// The budget bound is exact, unlike the softer region quotas upstream.
func (a *Assembler) Assemble(scenes []personalize.RankedScene, targetSeconds, sourceSeconds float64) Timeline {
	var tl Timeline
	cursor := 0.0
	lastSourceEnd := 0.0

	for i, sc := range scenes {
		if cursor >= targetSeconds {
			break
		}

		// Pre-pad is limited by the gap since the previous clip's source
		// end: frames already shown are never re-shown.
		prePad := a.cfg.PrePadSeconds
		if gap := sc.Start - lastSourceEnd; gap < prePad {
			prePad = gap
		}
		if prePad < 0 {
			prePad = 0
		}

		// Post-pad is limited by a share of the gap to the next scene so
		// padding never eats the upcoming clip's material.
		postPad := a.cfg.PostPadSeconds
		if i+1 < len(scenes) {
			gap := scenes[i+1].Start - sc.End
			if gap < 0 {
				gap = 0
			}
			if limit := gap * a.cfg.NextGapShare; limit < postPad {
				postPad = limit
			}
		}

		sourceStart := sc.Start - prePad
		sourceEnd := sc.End + postPad
		if sourceStart < 0 {
			sourceStart = 0
		}
		if sourceSeconds > 0 && sourceEnd > sourceSeconds {
			sourceEnd = sourceSeconds
		}
		// Overlapping scenes in source time: shift forward, never overlap
		// the previous clip.
		if sourceStart < lastSourceEnd {
			sourceStart = lastSourceEnd
		}

		dur := sourceEnd - sourceStart
		if dur < a.cfg.MinClipSeconds {
			// Padding collapsed below the usable floor; skip the scene.
			continue
		}

		if remaining := targetSeconds - cursor; dur > remaining {
			sourceEnd = sourceStart + remaining
			dur = remaining
		}

		clip := Clip{
			SceneID:     sc.ID,
			In:          cursor,
			Out:         cursor + dur,
			SourceStart: sourceStart,
			SourceEnd:   sourceEnd,
			PadBefore:   positive(sc.Start - sourceStart),
			PadAfter:    positive(sourceEnd - sc.End),
			Transition:  transitions[a.rng.Intn(len(transitions))],
			AudioCue:    audioCues[a.rng.Intn(len(audioCues))],
		}

		tl.Clips = append(tl.Clips, clip)
		cursor += dur
		lastSourceEnd = sourceEnd
	}

	tl.EstimatedDuration = cursor
	return tl
}

func positive(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

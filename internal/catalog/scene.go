package catalog

// CharacterTag is one recognized character in a scene, as reported by the
// vision collaborator.
type CharacterTag struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Scene is a contiguous, tagged interval of the source video. Scenes are
// produced upstream and treated as immutable here.
type Scene struct {
	ID         string         `json:"id"`
	Start      float64        `json:"start"`
	End        float64        `json:"end"`
	Emotions   []string       `json:"emotions,omitempty"`
	Labels     []string       `json:"labels,omitempty"`
	Characters []CharacterTag `json:"characters,omitempty"`
	// Quality is the opaque base score supplied by the upstream signal,
	// clamped to [0,1] during normalization.
	Quality float64 `json:"quality"`
}

// Duration returns the scene length in seconds.
func (s Scene) Duration() float64 {
	return s.End - s.Start
}

// Catalog is the normalized record of detected scenes for one source video.
type Catalog struct {
	Source   string  `json:"source"`
	Duration float64 `json:"duration"`
	Scenes   []Scene `json:"scenes"`
}

// Normalize drops scenes with degenerate geometry and clamps quality scores.
// The result is safe for every downstream component: end > start always
// holds and no scene starts at or past the end of the source.
func (c *Catalog) Normalize() {
	kept := c.Scenes[:0]
	for _, s := range c.Scenes {
		if s.End <= s.Start {
			continue
		}
		if c.Duration > 0 && s.Start >= c.Duration {
			continue
		}
		if s.Quality < 0 {
			s.Quality = 0
		}
		if s.Quality > 1 {
			s.Quality = 1
		}
		kept = append(kept, s)
	}
	c.Scenes = kept
}

// TotalSceneSeconds sums the duration of every scene in the catalog.
func (c *Catalog) TotalSceneSeconds() float64 {
	total := 0.0
	for _, s := range c.Scenes {
		total += s.Duration()
	}
	return total
}

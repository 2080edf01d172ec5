package personalize

import (
	"sort"

	"github.com/reelworks/trailcut/internal/catalog"
	"github.com/reelworks/trailcut/internal/config"
)

// RankedScene is a scene with its profile-weighted score and its position in
// the source normalized to [0,1).
type RankedScene struct {
	catalog.Scene
	Score           float64 `json:"score"`
	NormalizedStart float64 `json:"normalizedStart"`
}

// Result is the output of one personalization pass.
type Result struct {
	// Ranked holds every catalog scene ordered by score descending.
	Ranked []RankedScene
	// Regions is the early/middle/late partition with assigned quotas.
	Regions Regions
	// Selection is the default scene selection, ordered by start.
	Selection []RankedScene
}

// SelectedSeconds sums the duration of the default selection.
func (r Result) SelectedSeconds() float64 {
	total := 0.0
	for _, s := range r.Selection {
		total += s.Duration()
	}
	return total
}

// Personalizer scores scenes against a viewer profile and picks a default
// selection spread across the narrative arc.
type Personalizer struct {
	cfg config.Engine
}

func New(cfg config.Engine) *Personalizer {
	return &Personalizer{cfg: cfg}
}

// Rank scores every scene against the profile. The final score is the
// upstream base quality boosted by preference overlap, capped at 1.0.
func (p *Personalizer) Rank(scenes []catalog.Scene, profile catalog.Profile, sourceDuration float64) []RankedScene {
	emotions := toSet(profile.PreferredEmotions)
	tags := toSet(profile.PreferredTags)

	ranked := make([]RankedScene, 0, len(scenes))
	for _, s := range scenes {
		weight := 1.0 +
			p.cfg.EmotionWeight*float64(overlap(s.Emotions, emotions)) +
			p.cfg.LabelWeight*float64(overlap(s.Labels, tags))

		score := s.Quality * weight
		if score > 1.0 {
			score = 1.0
		}

		ns := 0.0
		if sourceDuration > 0 {
			ns = s.Start / sourceDuration
			if ns >= 1.0 {
				ns = 0.999999
			}
		}

		ranked = append(ranked, RankedScene{Scene: s, Score: score, NormalizedStart: ns})
	}

	// Score descending; ties broken by start then ID so repeated runs are
	// byte-identical.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Start != ranked[j].Start {
			return ranked[i].Start < ranked[j].Start
		}
		return ranked[i].ID < ranked[j].ID
	})

	return ranked
}

// Select ranks the catalog, partitions it into regions with proportional
// quotas, and greedily fills each quota by descending score. Regions that
// end up empty get their single best scene regardless of budget, and a final
// top-up pass runs if total coverage falls below the acceptable minimum.
func (p *Personalizer) Select(cat *catalog.Catalog, profile catalog.Profile, targetSeconds float64) Result {
	ranked := p.Rank(cat.Scenes, profile, cat.Duration)

	regions := partition(ranked)
	regions[Early].Quota = targetSeconds * p.cfg.EarlyShare
	regions[Middle].Quota = targetSeconds * p.cfg.MiddleShare
	regions[Late].Quota = targetSeconds * p.cfg.LateShare

	if len(ranked) == 0 || targetSeconds <= 0 {
		return Result{Ranked: ranked, Regions: regions}
	}

	selected := make(map[string]bool)
	var selection []RankedScene
	budgetCap := targetSeconds * p.cfg.OvershootFactor
	total := 0.0

	// Greedy quota fill per region.
	for i := range regions {
		regionTotal := 0.0
		for _, rs := range regions[i].Members {
			if regionTotal >= regions[i].Quota {
				break
			}
			d := rs.Duration()
			if total == 0 || total+d <= budgetCap {
				selection = append(selection, rs)
				selected[rs.ID] = true
				regionTotal += d
				total += d
			}
		}
	}

	// A region with candidates but no admissions still contributes its best
	// scene: coverage across the whole arc beats strict budget adherence.
	for i := range regions {
		if len(regions[i].Members) == 0 {
			continue
		}
		if !regionHasSelection(regions[i], selected) {
			best := regions[i].Members[0]
			selection = append(selection, best)
			selected[best.ID] = true
			total += best.Duration()
		}
	}

	// Top up below minimum coverage, allowing overshoot.
	minTotal := targetSeconds * p.cfg.MinCoverage
	if total < minTotal {
		for _, rs := range ranked {
			if total >= minTotal {
				break
			}
			if selected[rs.ID] {
				continue
			}
			selection = append(selection, rs)
			selected[rs.ID] = true
			total += rs.Duration()
		}
	}

	sort.SliceStable(selection, func(i, j int) bool {
		return selection[i].Start < selection[j].Start
	})

	return Result{Ranked: ranked, Regions: regions, Selection: selection}
}

func regionHasSelection(r Region, selected map[string]bool) bool {
	for _, rs := range r.Members {
		if selected[rs.ID] {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func overlap(values []string, set map[string]struct{}) int {
	n := 0
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := set[v]; ok {
			n++
		}
	}
	return n
}

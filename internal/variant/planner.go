package variant

import (
	"math"
	"sort"

	"github.com/reelworks/trailcut/internal/config"
	"github.com/reelworks/trailcut/internal/personalize"
)

// Spec describes one edit archetype: how the variant distributes its scenes
// across the narrative regions, and the stride offset used to diversify
// picks between variants that share the same source.
type Spec struct {
	Name   string  `json:"name"`
	Early  float64 `json:"early"`
	Middle float64 `json:"middle"`
	Late   float64 `json:"late"`
	Offset int     `json:"offset"`
}

// DefaultSpecs returns the four built-in archetypes.
func DefaultSpecs() []Spec {
	return []Spec{
		{Name: "opening-act", Early: 0.60, Middle: 0.30, Late: 0.10, Offset: 0},
		{Name: "middle-climax", Early: 0.20, Middle: 0.60, Late: 0.20, Offset: 1},
		{Name: "grand-finale", Early: 0.10, Middle: 0.30, Late: 0.60, Offset: 0},
		{Name: "balanced-mix", Early: 0.33, Middle: 0.34, Late: 0.33, Offset: 1},
	}
}

// Variant is one distinct edit of the source: a start-ordered scene list
// with no duplicate scene IDs.
type Variant struct {
	Name   string                    `json:"name"`
	Spec   Spec                      `json:"distribution"`
	Scenes []personalize.RankedScene `json:"scenes"`
}

// UsedSet tracks scene IDs claimed by earlier variants in a planning run.
type UsedSet map[string]struct{}

func (u UsedSet) clone() UsedSet {
	c := make(UsedSet, len(u))
	for id := range u {
		c[id] = struct{}{}
	}
	return c
}

// Planner builds edit variants from a ranked, regioned catalog.
type Planner struct {
	cfg config.Engine
}

func New(cfg config.Engine) *Planner {
	return &Planner{cfg: cfg}
}

// PlanAll folds Plan over the specs, threading the used-set accumulator so
// each variant sees everything its predecessors claimed.
func (p *Planner) PlanAll(specs []Spec, regions personalize.Regions, ranked []personalize.RankedScene, targetSeconds float64) []Variant {
	used := UsedSet{}
	variants := make([]Variant, 0, len(specs))
	for _, spec := range specs {
		v, next := p.Plan(spec, regions, ranked, targetSeconds, used)
		variants = append(variants, v)
		used = next
	}
	return variants
}

// Plan builds one variant. Novelty against the used-set is best-effort: when
// skip-one striding cannot fill a region's count from unclaimed scenes, the
// planner backfills from the remaining candidates in score order rather than
// under-fill the variant.
func (p *Planner) Plan(spec Spec, regions personalize.Regions, ranked []personalize.RankedScene, targetSeconds float64, used UsedSet) (Variant, UsedSet) {
	next := used.clone()
	picked := make(map[string]struct{})
	var scenes []personalize.RankedScene

	ratios := [3]float64{spec.Early, spec.Middle, spec.Late}
	for i := range regions {
		count := regionCount(targetSeconds, ratios[i], p.cfg.AvgSceneSeconds)
		candidates := regions[i].Members
		got := 0

		// Pass 1: skip-one striding over novel candidates.
		for j := spec.Offset; j < len(candidates) && got < count; j += 2 {
			id := candidates[j].ID
			if _, taken := next[id]; taken {
				continue
			}
			if _, dup := picked[id]; dup {
				continue
			}
			picked[id] = struct{}{}
			scenes = append(scenes, candidates[j])
			got++
		}

		// Pass 2: backfill in score order, ignoring the global used-set.
		for j := 0; j < len(candidates) && got < count; j++ {
			id := candidates[j].ID
			if _, dup := picked[id]; dup {
				continue
			}
			picked[id] = struct{}{}
			scenes = append(scenes, candidates[j])
			got++
		}
	}

	// Degenerate catalog: take the head of the global ranking instead of
	// producing an empty cut.
	if len(scenes) == 0 {
		limit := p.cfg.FallbackScenes
		if limit > len(ranked) {
			limit = len(ranked)
		}
		for _, rs := range ranked[:limit] {
			if _, dup := picked[rs.ID]; dup {
				continue
			}
			picked[rs.ID] = struct{}{}
			scenes = append(scenes, rs)
		}
	}

	for id := range picked {
		next[id] = struct{}{}
	}

	sort.SliceStable(scenes, func(i, j int) bool {
		return scenes[i].Start < scenes[j].Start
	})

	return Variant{Name: spec.Name, Spec: spec, Scenes: scenes}, next
}

// regionCount converts a region ratio to an approximate scene count.
func regionCount(targetSeconds, ratio, avgSceneSeconds float64) int {
	n := int(math.Floor(targetSeconds * ratio / avgSceneSeconds))
	if n < 1 {
		n = 1
	}
	return n
}

// Overlap counts scene IDs shared between two variants. Exposed for
// diagnostics: cross-variant reuse is minimized, never forbidden.
func Overlap(a, b Variant) int {
	ids := make(map[string]struct{}, len(a.Scenes))
	for _, s := range a.Scenes {
		ids[s.ID] = struct{}{}
	}
	n := 0
	for _, s := range b.Scenes {
		if _, ok := ids[s.ID]; ok {
			n++
		}
	}
	return n
}

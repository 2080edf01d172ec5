package engine

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reelworks/trailcut/internal/catalog"
	"github.com/reelworks/trailcut/internal/config"
	"github.com/reelworks/trailcut/internal/personalize"
	"github.com/reelworks/trailcut/internal/render"
	"github.com/reelworks/trailcut/internal/timeline"
	"github.com/reelworks/trailcut/internal/variant"
)

// Job is one personalization request: one source video, one viewer profile,
// one target duration.
type Job struct {
	ID            string  `json:"id"`
	Source        string  `json:"source"`
	ProfileID     string  `json:"profile_id"`
	TargetSeconds float64 `json:"target_seconds"`
}

// NewJob creates a job with a fresh identifier.
func NewJob(source, profileID string, targetSeconds float64) Job {
	return Job{
		ID:            uuid.NewString(),
		Source:        source,
		ProfileID:     profileID,
		TargetSeconds: targetSeconds,
	}
}

// Result is the serializable payload the host's job store persists.
type Result struct {
	Job          Job                            `json:"job"`
	Selection    []personalize.RankedScene      `json:"selection"`
	Variants     []variant.Variant              `json:"variants"`
	Timelines    map[string]timeline.Timeline   `json:"timelines"`
	Deliverables map[string]render.Deliverables `json:"deliverables,omitempty"`
}

// Pipeline wires the catalog provider, the selection/planning/assembly core,
// and the render coordinator into one synchronous run per job. It holds no
// mutable state between runs; concurrent jobs each get their own Pipeline
// values or share one safely.
type Pipeline struct {
	cfg         *config.Config
	provider    catalog.Provider
	coordinator *render.Coordinator // nil skips the encode step
	log         zerolog.Logger
}

func NewPipeline(cfg *config.Config, provider catalog.Provider, coordinator *render.Coordinator, log zerolog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, provider: provider, coordinator: coordinator, log: log}
}

// Run executes one job end to end. Selection and planning never fail for
// well-typed input; only the collaborator boundaries (catalog load, encode)
// can return errors.
func (p *Pipeline) Run(ctx context.Context, job Job) (*Result, error) {
	cat, err := p.provider.Load(ctx, job.Source)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	profile, err := catalog.LookupProfile(job.ProfileID)
	if err != nil {
		return nil, err
	}

	p.log.Info().
		Str("job", job.ID).
		Str("profile", profile.ID).
		Int("scenes", len(cat.Scenes)).
		Float64("target", job.TargetSeconds).
		Msg("personalizing")

	personalizer := personalize.New(p.cfg.Engine)
	sel := personalizer.Select(cat, profile, job.TargetSeconds)

	planner := variant.New(p.cfg.Engine)
	variants := planner.PlanAll(variant.DefaultSpecs(), sel.Regions, sel.Ranked, job.TargetSeconds)

	// One generator per job, seeded from the job ID: repeated runs of the
	// same job produce identical timelines.
	rng := rand.New(rand.NewSource(seedFrom(job.ID)))
	assembler := timeline.NewAssembler(p.cfg.Engine, rng)

	timelines := make(map[string]timeline.Timeline, len(variants))
	for _, v := range variants {
		tl := assembler.Assemble(v.Scenes, job.TargetSeconds, cat.Duration)
		timelines[v.Name] = tl
		p.log.Debug().
			Str("variant", v.Name).
			Int("clips", len(tl.Clips)).
			Float64("duration", tl.EstimatedDuration).
			Msg("timeline assembled")
	}

	result := &Result{
		Job:       job,
		Selection: sel.Selection,
		Variants:  variants,
		Timelines: timelines,
	}

	if p.coordinator != nil {
		deliverables, err := p.coordinator.Render(ctx, cat, job.TargetSeconds, variants, timelines)
		result.Deliverables = deliverables
		if err != nil {
			return result, fmt.Errorf("render: %w", err)
		}
	}

	return result, nil
}

// seedFrom hashes a job ID into an RNG seed.
func seedFrom(jobID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(jobID))
	return int64(h.Sum64())
}

package engine

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/reelworks/trailcut/internal/catalog"
	"github.com/reelworks/trailcut/internal/config"
	"github.com/reelworks/trailcut/internal/logging"
)

// memoryProvider serves a fixed catalog, standing in for the tagging
// collaborator.
type memoryProvider struct {
	cat catalog.Catalog
}

func (m *memoryProvider) Load(ctx context.Context, source string) (*catalog.Catalog, error) {
	cat := m.cat
	cat.Scenes = append([]catalog.Scene(nil), m.cat.Scenes...)
	cat.Normalize()
	return &cat, nil
}

func testCatalog(n int) catalog.Catalog {
	cat := catalog.Catalog{Source: "movie.mp4", Duration: float64(n) * 10}
	for i := 0; i < n; i++ {
		emotion := "Joy"
		if i%2 == 1 {
			emotion = "Fear"
		}
		cat.Scenes = append(cat.Scenes, catalog.Scene{
			ID:       fmt.Sprintf("s%02d", i),
			Start:    float64(i) * 10,
			End:      float64(i+1) * 10,
			Emotions: []string{emotion},
			Quality:  0.5 + float64(i%7)*0.05,
		})
	}
	return cat
}

func planOnlyPipeline(cat catalog.Catalog) *Pipeline {
	return NewPipeline(config.Default(), &memoryProvider{cat: cat}, nil, logging.NewLogger())
}

func TestPipelineRunPlanOnly(t *testing.T) {
	p := planOnlyPipeline(testCatalog(24))
	job := Job{ID: "job-1", Source: "movie.mp4", ProfileID: "heartfelt", TargetSeconds: 60}

	result, err := p.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Selection) == 0 {
		t.Error("expected a non-empty default selection")
	}
	if len(result.Variants) != 4 {
		t.Fatalf("expected 4 variants, got %d", len(result.Variants))
	}
	for _, v := range result.Variants {
		tl, ok := result.Timelines[v.Name]
		if !ok {
			t.Errorf("missing timeline for variant %s", v.Name)
			continue
		}
		if tl.EstimatedDuration > job.TargetSeconds+1e-9 {
			t.Errorf("variant %s overshoots target: %.3f", v.Name, tl.EstimatedDuration)
		}
	}
	if result.Deliverables != nil {
		t.Error("plan-only run must not produce deliverables")
	}
}

func TestPipelineRunDeterministicPerJobID(t *testing.T) {
	cat := testCatalog(24)
	job := Job{ID: "fixed-job", Source: "movie.mp4", ProfileID: "action", TargetSeconds: 45}

	a, err := planOnlyPipeline(cat).Run(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	b, err := planOnlyPipeline(cat).Run(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("same job ID and catalog must reproduce the result exactly")
	}
}

func TestPipelineRunEmptyCatalog(t *testing.T) {
	p := planOnlyPipeline(catalog.Catalog{Source: "empty.mp4"})
	job := Job{ID: "job-empty", Source: "empty.mp4", ProfileID: "comedy", TargetSeconds: 60}

	result, err := p.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("empty catalog must degrade, not fail: %v", err)
	}

	if len(result.Selection) != 0 {
		t.Error("expected empty selection")
	}
	for name, tl := range result.Timelines {
		if tl.EstimatedDuration != 0 || len(tl.Clips) != 0 {
			t.Errorf("variant %s: expected empty timeline, got %.1fs", name, tl.EstimatedDuration)
		}
	}
}

func TestPipelineRunUnknownProfile(t *testing.T) {
	p := planOnlyPipeline(testCatalog(5))
	job := Job{ID: "job-x", Source: "movie.mp4", ProfileID: "nope", TargetSeconds: 60}

	if _, err := p.Run(context.Background(), job); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestNewJobAssignsID(t *testing.T) {
	a := NewJob("movie.mp4", "action", 60)
	b := NewJob("movie.mp4", "action", 60)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("jobs must get distinct IDs: %q vs %q", a.ID, b.ID)
	}
}

func TestSeedFromStable(t *testing.T) {
	if seedFrom("job-1") != seedFrom("job-1") {
		t.Error("seed must be stable for a job ID")
	}
	if seedFrom("job-1") == seedFrom("job-2") {
		t.Error("different job IDs should not collide on seed")
	}
}

package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/reelworks/trailcut/internal/caption"
	"github.com/reelworks/trailcut/internal/catalog"
	"github.com/reelworks/trailcut/internal/config"
	"github.com/reelworks/trailcut/internal/storyboard"
	"github.com/reelworks/trailcut/internal/system"
	"github.com/reelworks/trailcut/internal/timeline"
	"github.com/reelworks/trailcut/internal/variant"
)

// Deliverables are the packaged outputs for one variant.
type Deliverables struct {
	Master     string `json:"master"`
	Captions   string `json:"captions"`
	Storyboard string `json:"storyboard"`
	CutList    string `json:"cutlist"`
}

// Coordinator drives the encoder collaborator once per variant and packages
// the deliverables. Variants render independently: a failed encode discards
// that variant's partial artifacts and leaves the others untouched.
type Coordinator struct {
	enc Encoder
	cfg config.Render
	log zerolog.Logger
}

func NewCoordinator(enc Encoder, cfg config.Render, log zerolog.Logger) *Coordinator {
	return &Coordinator{enc: enc, cfg: cfg, log: log}
}

// Render produces deliverables for every variant whose encode succeeds,
// keyed by variant name. The first per-variant error (if any) is returned
// alongside the successful entries.
func (c *Coordinator) Render(ctx context.Context, cat *catalog.Catalog, targetSeconds float64, variants []variant.Variant, timelines map[string]timeline.Timeline) (map[string]Deliverables, error) {
	if err := os.MkdirAll(c.cfg.OutputDir, 0755); err != nil {
		return nil, err
	}

	workers := c.cfg.Workers
	if workers <= 0 {
		workers = system.EncodeWorkers()
	}
	c.log.Info().Int("workers", workers).Int("variants", len(variants)).Msg("starting render")

	sceneIndex := make(map[string]catalog.Scene, len(cat.Scenes))
	for _, s := range cat.Scenes {
		sceneIndex[s.ID] = s
	}

	var mu sync.Mutex
	out := make(map[string]Deliverables, len(variants))

	g := &errgroup.Group{}
	g.SetLimit(workers)

	for _, v := range variants {
		v := v
		g.Go(func() error {
			tl, ok := timelines[v.Name]
			if !ok || len(tl.Clips) == 0 {
				c.log.Warn().Str("variant", v.Name).Msg("empty timeline, skipping render")
				return nil
			}

			d, err := c.renderVariant(ctx, cat, targetSeconds, v, tl, sceneIndex)
			if err != nil {
				c.log.Error().Err(err).Str("variant", v.Name).Msg("variant render failed")
				return fmt.Errorf("variant %s: %w", v.Name, err)
			}

			mu.Lock()
			out[v.Name] = d
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	return out, err
}

func (c *Coordinator) renderVariant(ctx context.Context, cat *catalog.Catalog, targetSeconds float64, v variant.Variant, tl timeline.Timeline, sceneIndex map[string]catalog.Scene) (Deliverables, error) {
	tmpDir, err := os.MkdirTemp("", "trailcut_"+v.Name+"_")
	if err != nil {
		return Deliverables{}, err
	}
	defer os.RemoveAll(tmpDir)

	segments := make([]string, len(tl.Clips))
	for i, clip := range tl.Clips {
		segPath := filepath.Join(tmpDir, fmt.Sprintf("s%02d.mp4", i))
		if err := c.enc.CutSegment(ctx, cat.Source, clip, segPath); err != nil {
			return Deliverables{}, err
		}
		segments[i] = segPath
		c.log.Debug().Str("variant", v.Name).Int("segment", i+1).Int("total", len(tl.Clips)).Msg("segment ready")
	}

	d := Deliverables{
		Master:     filepath.Join(c.cfg.OutputDir, v.Name+".mp4"),
		Captions:   filepath.Join(c.cfg.OutputDir, v.Name+".vtt"),
		Storyboard: filepath.Join(c.cfg.OutputDir, v.Name+"_storyboard.png"),
		CutList:    filepath.Join(c.cfg.OutputDir, v.Name+"_cutlist.yaml"),
	}

	if err := c.enc.Join(ctx, segments, tl.Clips, tmpDir, d.Master); err != nil {
		c.cleanup(d)
		return Deliverables{}, err
	}

	cl := &timeline.CutList{
		Version:  "1.0",
		Variant:  v.Name,
		Source:   cat.Source,
		Target:   targetSeconds,
		Timeline: tl,
	}
	if err := timeline.WriteCutList(cl, d.CutList); err != nil {
		c.cleanup(d)
		return Deliverables{}, err
	}

	if err := caption.WriteVTT(tl, sceneIndex, d.Captions); err != nil {
		c.cleanup(d)
		return Deliverables{}, err
	}

	shareURL := ""
	if c.cfg.ShareBaseURL != "" {
		shareURL = c.cfg.ShareBaseURL + "/" + v.Name
	}
	boards := storyboard.NewBuilder(c.enc)
	if err := boards.Build(ctx, cat.Source, tl, tmpDir, d.Storyboard, shareURL); err != nil {
		// The storyboard is a secondary deliverable; log and carry on with
		// the master cut and captions intact.
		c.log.Warn().Err(err).Str("variant", v.Name).Msg("storyboard skipped")
		d.Storyboard = ""
	}

	return d, nil
}

// cleanup removes partially written deliverables so a failed variant never
// presents incomplete artifacts as complete.
func (c *Coordinator) cleanup(d Deliverables) {
	for _, p := range []string{d.Master, d.Captions, d.Storyboard, d.CutList} {
		if p != "" {
			os.Remove(p)
		}
	}
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/reelworks/trailcut/internal/catalog"
	"github.com/reelworks/trailcut/internal/config"
	"github.com/reelworks/trailcut/internal/engine"
	"github.com/reelworks/trailcut/internal/logging"
	"github.com/reelworks/trailcut/internal/render"
	"github.com/reelworks/trailcut/internal/system"
)

func main() {
	sourcePtr := flag.String("source", "", "Path to the source video")
	catalogPtr := flag.String("catalog", "", "Path to the scene catalog JSON from the tagging service")
	profilePtr := flag.String("profile", "action", "Viewer profile preset (action, heartfelt, comedy, thriller)")
	durationPtr := flag.Float64("duration", 60, "Target trailer duration in seconds")
	configPtr := flag.String("config", "", "Optional YAML preset overriding engine defaults")
	planOnlyPtr := flag.Bool("plan-only", false, "Plan variants and timelines without invoking the encoder")
	verbosePtr := flag.Bool("verbose", false, "Debug logging")

	flag.Parse()

	godotenv.Load()
	logging.Init(*verbosePtr)
	log := logging.WithComponent("trailcut")

	if *catalogPtr == "" {
		log.Fatal().Msg("missing -catalog (scene catalog JSON)")
	}
	if !*planOnlyPtr && *sourcePtr == "" {
		log.Fatal().Msg("missing -source (required unless -plan-only)")
	}

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatal().Err(err).Msg("config load failed")
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	system.InitResourceLimits()

	provider, err := catalog.NewProvider("file", *catalogPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog provider")
	}

	var coordinator *render.Coordinator
	if !*planOnlyPtr {
		enc := render.NewFFmpegEncoder(cfg.Render)
		coordinator = render.NewCoordinator(enc, cfg.Render, logging.WithComponent("render"))
	}

	pipeline := engine.NewPipeline(cfg, provider, coordinator, log)
	job := engine.NewJob(*sourcePtr, *profilePtr, *durationPtr)

	result, err := pipeline.Run(context.Background(), job)
	if err != nil {
		log.Fatal().Err(err).Str("job", job.ID).Msg("job failed")
	}

	if err := os.MkdirAll(cfg.Render.OutputDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("output dir")
	}
	resultPath := filepath.Join(cfg.Render.OutputDir, "result_"+job.ID+".json")
	if err := writeResult(result, resultPath); err != nil {
		log.Fatal().Err(err).Msg("write result")
	}

	for name, tl := range result.Timelines {
		fmt.Printf("[*] %-14s %2d clips, %.1fs\n", name, len(tl.Clips), tl.EstimatedDuration)
	}
	for name, d := range result.Deliverables {
		fmt.Printf("[+] %-14s %s\n", name, d.Master)
	}
	fmt.Printf("[+] Result payload: %s\n", resultPath)
}

func writeResult(result *engine.Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

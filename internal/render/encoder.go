package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/reelworks/trailcut/internal/config"
	"github.com/reelworks/trailcut/internal/system"
	"github.com/reelworks/trailcut/internal/timeline"
)

// Encoder is the contract with the external encoder process: cut one source
// slice per clip, join the segments into the master cut, and grab still
// frames for the storyboard. Transition/audio-cue decoration is best-effort.
type Encoder interface {
	CutSegment(ctx context.Context, source string, clip timeline.Clip, outPath string) error
	Join(ctx context.Context, segments []string, clips []timeline.Clip, tmpDir, outPath string) error
	GrabFrame(ctx context.Context, source string, atSeconds float64, outPath string) error
}

// FFmpegEncoder shells out to ffmpeg.
type FFmpegEncoder struct {
	cfg config.Render
}

func NewFFmpegEncoder(cfg config.Render) *FFmpegEncoder {
	if cfg.VideoEncoder == "" || cfg.VideoEncoder == "auto" {
		cfg.VideoEncoder = system.BestH264Encoder()
	}
	return &FFmpegEncoder{cfg: cfg}
}

// CutSegment re-encodes one [SourceStart, SourceEnd] slice to H.264/AAC so
// every segment is concat-compatible regardless of the source codec. The
// clip's audio cue is applied here as a segment-local filter.
func (e *FFmpegEncoder) CutSegment(ctx context.Context, source string, clip timeline.Clip, outPath string) error {
	dur := clip.SourceEnd - clip.SourceStart
	if dur <= 0 {
		return fmt.Errorf("segment %s: non-positive duration", clip.SceneID)
	}

	args := []string{
		"-y",
		"-ss", fmt.Sprintf("%.3f", clip.SourceStart),
		"-i", source,
		"-t", fmt.Sprintf("%.3f", dur),
		"-af", CueFilter(clip.AudioCue, dur),
		"-r", fmt.Sprintf("%d", e.cfg.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", e.cfg.VideoEncoder,
	}
	args = append(args, e.qualityArgs()...)
	args = append(args, "-c:a", "aac", outPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg cut %s: %w, output: %s", clip.SceneID, err, string(out))
	}
	return nil
}

// Join assembles the segments in order. With a single segment, or when the
// local ffmpeg lacks xfade, it falls back to the concat demuxer with stream
// copy; otherwise it runs the full transition filter graph.
func (e *FFmpegEncoder) Join(ctx context.Context, segments []string, clips []timeline.Clip, tmpDir, outPath string) error {
	if len(segments) == 0 {
		return fmt.Errorf("no segments to join")
	}
	if len(segments) != len(clips) {
		return fmt.Errorf("segment/clip count mismatch: %d vs %d", len(segments), len(clips))
	}

	if len(segments) == 1 || !system.CheckFilterSupport("xfade") {
		return e.concatCopy(ctx, segments, tmpDir, outPath)
	}

	args := []string{"-y"}
	for _, p := range segments {
		args = append(args, "-i", p)
	}

	graph := JoinFilter(clips, e.cfg.FadeSeconds)
	outV, outA := joinOutputs(len(segments))

	args = append(args, "-filter_complex", graph)
	args = append(args, "-map", outV, "-map", outA)
	args = append(args, "-c:v", e.cfg.VideoEncoder, "-pix_fmt", "yuv420p")
	args = append(args, e.qualityArgs()...)
	args = append(args, "-c:a", "aac", outPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg join: %w, output: %s", err, string(out))
	}
	return nil
}

// GrabFrame extracts a single frame at the given source time as PNG.
func (e *FFmpegEncoder) GrabFrame(ctx context.Context, source string, atSeconds float64, outPath string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-ss", fmt.Sprintf("%.3f", atSeconds),
		"-i", source,
		"-frames:v", "1",
		outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg frame at %.3fs: %w, output: %s", atSeconds, err, string(out))
	}
	return nil
}

func (e *FFmpegEncoder) concatCopy(ctx context.Context, segments []string, tmpDir, outPath string) error {
	listPath, err := writeConcatList(segments, tmpDir)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-c", "copy", outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat: %w, output: %s", err, string(out))
	}
	return nil
}

func writeConcatList(segments []string, tmpDir string) (string, error) {
	listPath := filepath.Join(tmpDir, "inputs.txt")
	f, err := os.Create(listPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	for _, p := range segments {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(f, "file '%s'\n", absPath)
	}
	return listPath, nil
}

func (e *FFmpegEncoder) qualityArgs() []string {
	switch e.cfg.VideoEncoder {
	case "h264_videotoolbox":
		// VideoToolbox handles -q:v inconsistently across versions; use a
		// bitrate derived from the quality knob instead.
		return []string{"-b:v", fmt.Sprintf("%dk", e.cfg.Quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", e.cfg.Quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", e.cfg.Quality), "-preset", "medium"}
	}
}

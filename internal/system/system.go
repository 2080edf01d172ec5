package system

import (
	"fmt"
	"os/exec"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits raises the open-file limit so concurrent ffmpeg
// invocations don't starve on descriptors (macOS/Linux).
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Warn().Err(err).Msg("could not read file limit")
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn().Err(err).Msg("could not raise file limit")
	}
}

// ProbeDuration returns the media duration in seconds via ffprobe.
func ProbeDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration)
	if err != nil {
		return 0, err
	}

	return duration, nil
}

// BestH264Encoder probes ffmpeg for hardware H.264 encoders.
// Priority: VideoToolbox (macOS), NVENC (NVIDIA), then software libx264.
func BestH264Encoder() string {
	encoders := []string{"h264_videotoolbox", "h264_nvenc"}

	cmd := exec.Command("ffmpeg", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "libx264"
	}
	for _, enc := range encoders {
		if strings.Contains(string(out), enc) {
			return enc
		}
	}

	return "libx264"
}

// CheckFilterSupport reports whether the local ffmpeg build supports the
// given filter (xfade is missing from some older/minimal builds).
func CheckFilterSupport(name string) bool {
	cmd := exec.Command("ffmpeg", "-hide_banner", "-filters")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return false
	}
	return strings.Contains(string(out), " "+name+" ")
}

// EncodeWorkers sizes the bounded encode pool from the machine: half the
// logical cores, held back further when available memory is tight, capped at
// 4 so concurrent encoders don't thrash the GPU/encoder hardware.
func EncodeWorkers() int {
	workers := 2

	if n, err := cpu.Counts(true); err == nil && n > 0 {
		workers = n / 2
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		// Budget roughly 1.5 GB of headroom per concurrent encode.
		byMem := int(vm.Available / (1536 * 1024 * 1024))
		if byMem < workers {
			workers = byMem
		}
	}

	if workers < 1 {
		workers = 1
	}
	if workers > 4 {
		workers = 4
	}
	return workers
}

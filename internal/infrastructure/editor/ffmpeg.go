package editor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"ShortsPublisher/internal/ports"
)

// Edit filter: trim 20px from each border and rotate by one degree, enough to
// distance the re-edit from the source material.
const editFilter = "crop=in_w-40:in_h-40:20:20,rotate=1*PI/180"

// FFmpeg re-cuts downloaded videos via the ffmpeg binary, optionally
// book-ending them with intro and outro clips.
type FFmpeg struct {
	binary       string
	processedDir string
	introPath    string
	outroPath    string
	logger       *slog.Logger
}

var _ ports.Editor = (*FFmpeg)(nil)

// NewFFmpeg wires the processed-output directory and optional intro/outro
// asset paths.
func NewFFmpeg(processedDir, introPath, outroPath string, logger *slog.Logger) *FFmpeg {
	return &FFmpeg{
		binary:       "ffmpeg",
		processedDir: processedDir,
		introPath:    introPath,
		outroPath:    outroPath,
		logger:       logger,
	}
}

// Edit produces the processed artifact for src and returns its path. The
// output keeps the source file name so the source id stays recoverable from
// the artifact.
func (f *FFmpeg) Edit(ctx context.Context, src string) (string, error) {
	if err := os.MkdirAll(f.processedDir, 0o755); err != nil {
		return "", fmt.Errorf("create processed dir: %w", err)
	}

	out := filepath.Join(f.processedDir, filepath.Base(src))

	if f.introPath != "" && f.outroPath != "" {
		intermediate := out + ".edit.mp4"
		if err := f.run(ctx, buildEditArgs(src, intermediate)); err != nil {
			return "", fmt.Errorf("ffmpeg edit: %w", err)
		}
		defer os.Remove(intermediate)

		if err := f.run(ctx, buildConcatArgs(f.introPath, intermediate, f.outroPath, out)); err != nil {
			return "", fmt.Errorf("ffmpeg concat: %w", err)
		}
		return out, nil
	}

	if err := f.run(ctx, buildEditArgs(src, out)); err != nil {
		return "", fmt.Errorf("ffmpeg edit: %w", err)
	}
	return out, nil
}

func (f *FFmpeg) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, f.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, tail(string(output), 400))
	}
	if f.logger != nil {
		f.logger.Debug("ffmpeg done", "args", strings.Join(args, " "))
	}
	return nil
}

func buildEditArgs(src, out string) []string {
	return []string{
		"-y",
		"-i", src,
		"-vf", editFilter,
		"-c:v", "libx264",
		"-c:a", "copy",
		out,
	}
}

func buildConcatArgs(intro, clip, outro, out string) []string {
	return []string{
		"-y",
		"-i", intro,
		"-i", clip,
		"-i", outro,
		"-filter_complex", "[0:v][0:a][1:v][1:a][2:v][2:a]concat=n=3:v=1:a=1[v][a]",
		"-map", "[v]",
		"-map", "[a]",
		"-c:v", "libx264",
		out,
	}
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

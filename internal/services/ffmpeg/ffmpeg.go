// Package ffmpeg shells out to ffmpeg and ffprobe for cutting, probing, and
// concatenating media files.
package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/gnzdotmx/clipper/internal/utils"
)

// execCommand allows us to mock exec.CommandContext in tests
var execCommand = exec.CommandContext

// timestampLayout matches the creation_time tag ffmpeg writes.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// Service implements the FFmpeg interface with the ffmpeg and ffprobe
// binaries from PATH.
type Service struct{}

// New creates a new ffmpeg service
func New() *Service {
	return &Service{}
}

// Cut extracts one clip from a source file.
func (s *Service) Cut(ctx context.Context, req CutRequest) error {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if req.Encode {
		args = append(args, "-hwaccel", "auto")
	}
	args = append(args, "-i", req.Source)

	if req.Encode {
		args = append(args,
			"-c:v", "libx264", "-preset", "slow", "-crf", "18", "-pix_fmt", "yuv420p",
			"-movflags", "+faststart",
			"-c:a", "aac", "-b:a", "192k")
	} else {
		args = append(args, "-c", "copy")
	}

	if !req.CreationTime.IsZero() {
		args = append(args, "-metadata", "creation_time="+formatTimestamp(req.CreationTime))
	}

	args = append(args, "-ss", formatSeconds(req.Start))
	if req.End > 0 {
		args = append(args, "-to", formatSeconds(req.End))
	}
	args = append(args, req.Output)

	utils.LogDebug("ffmpeg %s", strings.Join(args, " "))

	cmd := execCommand(ctx, "ffmpeg", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg cut failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// probeFormat is the subset of ffprobe's JSON output we read.
type probeFormat struct {
	Format struct {
		Duration string            `json:"duration"`
		Tags     map[string]string `json:"tags"`
	} `json:"format"`
}

func (s *Service) probe(ctx context.Context, path string) (probeFormat, error) {
	cmd := execCommand(ctx, "ffprobe",
		"-v", "error", "-show_format", "-of", "json", path)
	output, err := cmd.Output()
	if err != nil {
		return probeFormat{}, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	var result probeFormat
	if err := json.Unmarshal(output, &result); err != nil {
		return probeFormat{}, fmt.Errorf("failed to parse ffprobe output for %s: %w", path, err)
	}
	return result, nil
}

// Duration returns the total duration of a media file in seconds.
func (s *Service) Duration(ctx context.Context, path string) (float64, error) {
	result, err := s.probe(ctx, path)
	if err != nil {
		return 0, err
	}

	var seconds float64
	if _, err := fmt.Sscanf(result.Format.Duration, "%f", &seconds); err != nil {
		return 0, fmt.Errorf("no duration reported for %s", path)
	}
	return seconds, nil
}

// CreationTime returns the creation_time tag of a media file, or the zero
// time when the file carries none.
func (s *Service) CreationTime(ctx context.Context, path string) (time.Time, error) {
	result, err := s.probe(ctx, path)
	if err != nil {
		return time.Time{}, err
	}

	raw := result.Format.Tags["creation_time"]
	if raw == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid creation_time %q in %s: %w", raw, path, err)
	}
	return t, nil
}

// Concat losslessly joins parts into a single output file using the concat
// demuxer. The first part's creation_time tag, when present, carries over.
func (s *Service) Concat(ctx context.Context, parts []string, output string) error {
	if len(parts) == 0 {
		return fmt.Errorf("no input files to concatenate")
	}

	creationTime, err := s.CreationTime(ctx, parts[0])
	if err != nil {
		utils.LogWarning("Could not read creation time of %s: %v", parts[0], err)
	}

	listFile, err := writeConcatList(parts)
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(listFile)
	}()

	args := []string{"-hide_banner", "-loglevel", "error", "-f", "concat", "-safe", "0", "-i", listFile}
	if !creationTime.IsZero() {
		args = append(args, "-metadata", "creation_time="+formatTimestamp(creationTime))
	}
	args = append(args, "-c", "copy", output)

	cmd := execCommand(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// writeConcatList writes the concat demuxer list file and returns its path.
func writeConcatList(parts []string) (string, error) {
	f, err := os.CreateTemp("", "clipper-concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create concat list: %w", err)
	}

	for _, part := range parts {
		// The demuxer expects single-quoted paths with quotes escaped as '\''.
		quoted := strings.ReplaceAll(part, "'", `'\''`)
		if _, err := fmt.Fprintf(f, "file '%s'\n", quoted); err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
			return "", fmt.Errorf("failed to write concat list: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to close concat list: %w", err)
	}
	return f.Name(), nil
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

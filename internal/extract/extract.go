// Package extract decides which clips of a plan still need cutting and
// drives ffmpeg for exactly those. The only completion signal is the
// existence of the output file: deleting a clip file is how the user forces
// its re-extraction, and an unchanged schedule reruns with zero cuts.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gnzdotmx/clipper/internal/plan"
	"github.com/gnzdotmx/clipper/internal/report"
	ffmpegsvc "github.com/gnzdotmx/clipper/internal/services/ffmpeg"
	"github.com/gnzdotmx/clipper/internal/utils"

	"github.com/gofrs/flock"
)

// Status of one clip relative to the output directory.
type Status int

const (
	// Pending means no output file exists yet; the clip must be cut.
	Pending Status = iota
	// AlreadyExtracted means the output file exists. No content verification
	// is performed; schedule edits must not force re-cutting unrelated clips.
	AlreadyExtracted
)

// lockFile guards an output directory against concurrent extraction runs,
// which would race the existence checks.
const lockFile = ".clipper.lock"

// Error reports a failed extraction. It is fatal to that clip only.
type Error struct {
	Output string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to extract %s: %v", e.Output, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Track reports whether a clip's output already exists in outputDir.
func Track(clip plan.Clip, outputDir string) Status {
	if _, err := os.Stat(filepath.Join(outputDir, clip.Output)); err == nil {
		return AlreadyExtracted
	}
	return Pending
}

// Options configures one extraction run.
type Options struct {
	OutputDir   string
	Encode      bool
	Concurrency int // max source files cut in parallel; 0 means 1
}

// Extractor cuts pending clips through the ffmpeg collaborator.
type Extractor struct {
	ffmpeg ffmpegsvc.FFmpeg
}

// New creates a new extractor
func New(ff ffmpegsvc.FFmpeg) *Extractor {
	return &Extractor{ffmpeg: ff}
}

// Run extracts every pending clip of the plan. Clips from the same source
// are cut sequentially; different sources run in parallel up to
// Options.Concurrency. Per-clip failures are recorded in the report and do
// not stop sibling clips.
func (e *Extractor) Run(ctx context.Context, p *plan.Plan, opts Options, rep *report.Report) error {
	info, err := os.Stat(opts.OutputDir)
	if err != nil {
		return fmt.Errorf("output directory does not exist: %s", opts.OutputDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path is not a directory: %s", opts.OutputDir)
	}

	lock := flock.New(filepath.Join(opts.OutputDir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock output directory: %w", err)
	}
	if !locked {
		return fmt.Errorf("another extraction run is using %s", opts.OutputDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			utils.LogWarning("Failed to release output directory lock: %v", err)
		}
	}()

	// Group by source, preserving the plan's file-then-time order.
	var sources []string
	pending := make(map[string][]plan.Clip)
	for _, clip := range p.Clips {
		if Track(clip, opts.OutputDir) == AlreadyExtracted {
			utils.LogVerbose("Already exists: %s", clip.Output)
			rep.Skip(clip.Output, "already extracted")
			continue
		}
		if _, ok := pending[clip.Source]; !ok {
			sources = append(sources, clip.Source)
		}
		pending[clip.Source] = append(pending[clip.Source], clip)
	}

	if len(sources) == 0 {
		utils.LogInfo("All clips are already extracted")
		return nil
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)
	for _, source := range sources {
		wg.Add(1)
		go func(source string, clips []plan.Clip) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			e.extractSource(ctx, source, clips, opts, rep)
		}(source, pending[source])
	}
	wg.Wait()

	return nil
}

// extractSource cuts the pending clips of one source file in order.
func (e *Extractor) extractSource(ctx context.Context, source string, clips []plan.Clip, opts Options, rep *report.Report) {
	if _, err := os.Stat(source); err != nil {
		for _, clip := range clips {
			rep.Fail(clip.Output, &Error{Output: clip.Output, Err: fmt.Errorf("source file does not exist: %s", source)})
		}
		return
	}

	creationTime, err := e.ffmpeg.CreationTime(ctx, source)
	if err != nil {
		utils.LogWarning("Could not read creation time of %s: %v", source, err)
		creationTime = time.Time{}
	}

	for _, clip := range clips {
		if err := e.extractClip(ctx, clip, creationTime, opts); err != nil {
			rep.Fail(clip.Output, err)
			continue
		}
		rep.Success(clip.Output)
	}
}

func (e *Extractor) extractClip(ctx context.Context, clip plan.Clip, sourceCreationTime time.Time, opts Options) error {
	end := clip.End
	if clip.EndsAtEOF() {
		duration, err := e.ffmpeg.Duration(ctx, clip.Source)
		if err != nil {
			return &Error{Output: clip.Output, Err: err}
		}
		if duration <= clip.Start {
			return &Error{Output: clip.Output, Err: fmt.Errorf("inpoint %s is beyond the source duration %s",
				plan.FormatSeconds(clip.Start), plan.FormatSeconds(duration))}
		}
		end = duration
	}

	utils.LogInfo("Clipping: %s (%s)", clip.Output, time.Duration(float64(time.Second)*(end-clip.Start)).Round(time.Second))

	req := ffmpegsvc.CutRequest{
		Source: clip.Source,
		Output: filepath.Join(opts.OutputDir, clip.Output),
		Start:  clip.Start,
		End:    end,
		Encode: opts.Encode,
	}
	if !sourceCreationTime.IsZero() {
		// The clip's creation time is the source's, shifted by the inpoint.
		req.CreationTime = sourceCreationTime.Add(time.Duration(float64(time.Second) * clip.Start))
	}

	if err := e.ffmpeg.Cut(ctx, req); err != nil {
		return &Error{Output: clip.Output, Err: err}
	}

	// A zero exit with no output file still counts as a failed extraction.
	if _, err := os.Stat(req.Output); err != nil {
		return &Error{Output: clip.Output, Err: fmt.Errorf("cutting tool exited cleanly but produced no output")}
	}

	return nil
}

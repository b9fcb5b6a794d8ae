package ffmpeg

import (
	"context"
	"time"
)

// CutRequest describes one clip extraction.
type CutRequest struct {
	Source       string
	Output       string
	Start        float64   // seconds from the start of Source
	End          float64   // exclusive end offset; <= 0 means end of file
	Encode       bool      // re-encode instead of stream copying
	CreationTime time.Time // written as container metadata when non-zero
}

// FFmpeg is the cutting collaborator. Everything the reconciliation engines
// need from the media tool goes through this interface so tests can
// substitute a fake.
type FFmpeg interface {
	// Cut extracts one clip from a source file.
	Cut(ctx context.Context, req CutRequest) error

	// Duration returns the total duration of a media file in seconds.
	Duration(ctx context.Context, path string) (float64, error)

	// CreationTime returns the creation_time container tag, or the zero
	// time when the file carries none.
	CreationTime(ctx context.Context, path string) (time.Time, error)

	// Concat losslessly joins parts into a single output file.
	Concat(ctx context.Context, parts []string, output string) error
}

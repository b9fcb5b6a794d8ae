package concat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnzdotmx/clipper/internal/report"
	ffmpegsvc "github.com/gnzdotmx/clipper/internal/services/ffmpeg"
)

type fakeFFmpeg struct {
	concats [][]string
	outputs []string
	fail    bool
}

func (f *fakeFFmpeg) Cut(ctx context.Context, req ffmpegsvc.CutRequest) error { return nil }

func (f *fakeFFmpeg) Duration(ctx context.Context, path string) (float64, error) { return 0, nil }

func (f *fakeFFmpeg) CreationTime(ctx context.Context, path string) (time.Time, error) {
	return time.Time{}, nil
}

func (f *fakeFFmpeg) Concat(ctx context.Context, parts []string, output string) error {
	if f.fail {
		return errors.New("concat failed")
	}
	f.concats = append(f.concats, parts)
	f.outputs = append(f.outputs, output)
	return os.WriteFile(output, []byte("joined"), 0o644)
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
}

func TestRunConcatenatesPartsInOrder(t *testing.T) {
	dirIn := t.TempDir()
	dirOut := t.TempDir()
	writeFiles(t, dirIn, "DJI_0012_002.MP4", "DJI_0012_001.MP4", "notes.txt")

	ff := &fakeFFmpeg{}
	rep := report.New()
	require.NoError(t, Run(context.Background(), ff, dirIn, dirOut, rep))

	require.Len(t, ff.concats, 1)
	assert.Equal(t, []string{
		filepath.Join(dirIn, "DJI_0012_001.MP4"),
		filepath.Join(dirIn, "DJI_0012_002.MP4"),
	}, ff.concats[0])
	assert.Equal(t, []string{filepath.Join(dirOut, "DJI_0012.MP4")}, ff.outputs)

	succeeded, skipped, failed := rep.Counts()
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 0, failed)
}

func TestRunCopiesSingleRecordings(t *testing.T) {
	dirIn := t.TempDir()
	dirOut := t.TempDir()
	writeFiles(t, dirIn, "DJI_0034.MP4")

	ff := &fakeFFmpeg{}
	rep := report.New()
	require.NoError(t, Run(context.Background(), ff, dirIn, dirOut, rep))

	assert.Empty(t, ff.concats)
	data, err := os.ReadFile(filepath.Join(dirOut, "DJI_0034.MP4"))
	require.NoError(t, err)
	assert.Equal(t, "DJI_0034.MP4", string(data))
}

func TestRunSameDirSkipsCopy(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "DJI_0034.MP4")

	ff := &fakeFFmpeg{}
	rep := report.New()
	require.NoError(t, Run(context.Background(), ff, dir, dir, rep))

	// Not a success, not a failure: the single is already where it should be.
	succeeded, skipped, failed := rep.Counts()
	assert.Equal(t, 0, succeeded)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 0, failed)
}

func TestRunSkipsExistingOutputs(t *testing.T) {
	dirIn := t.TempDir()
	dirOut := t.TempDir()
	writeFiles(t, dirIn, "DJI_0012_001.MP4", "DJI_0012_002.MP4")
	writeFiles(t, dirOut, "DJI_0012.MP4")

	ff := &fakeFFmpeg{}
	rep := report.New()
	require.NoError(t, Run(context.Background(), ff, dirIn, dirOut, rep))

	assert.Empty(t, ff.concats)
	_, skipped, _ := rep.Counts()
	assert.Equal(t, 1, skipped)
}

func TestRunIgnoresForeignFiles(t *testing.T) {
	dirIn := t.TempDir()
	dirOut := t.TempDir()
	writeFiles(t, dirIn, "GOPRO_0001.MP4", "readme.md")

	ff := &fakeFFmpeg{}
	rep := report.New()
	require.NoError(t, Run(context.Background(), ff, dirIn, dirOut, rep))

	assert.Empty(t, ff.concats)
	assert.Empty(t, rep.Items())
}

func TestRunReportsConcatFailure(t *testing.T) {
	dirIn := t.TempDir()
	dirOut := t.TempDir()
	writeFiles(t, dirIn, "DJI_0012_001.MP4", "DJI_0012_002.MP4")

	ff := &fakeFFmpeg{fail: true}
	rep := report.New()
	require.NoError(t, Run(context.Background(), ff, dirIn, dirOut, rep))

	_, _, failed := rep.Counts()
	assert.Equal(t, 1, failed)
}

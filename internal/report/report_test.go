package report

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/gnzdotmx/clipper/internal/utils"

	"github.com/stretchr/testify/assert"
)

func TestReportCounts(t *testing.T) {
	rep := New()
	rep.Success("a")
	rep.Success("b")
	rep.Skip("c", "already extracted")
	rep.Fail("d", fmt.Errorf("boom"))

	succeeded, skipped, failed := rep.Counts()
	assert.Equal(t, 2, succeeded)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 1, failed)
	assert.True(t, rep.Failed())
}

func TestReportNoFailures(t *testing.T) {
	rep := New()
	rep.Success("a")
	assert.False(t, rep.Failed())

	var buf bytes.Buffer
	rep.Render(&buf)
	assert.Contains(t, buf.String(), "1 succeeded, 0 skipped, 0 failed")
	assert.NotContains(t, buf.String(), "Error", "no failure table without failures")
}

func TestReportRenderVerboseListsSkipReasons(t *testing.T) {
	orig := utils.CurrentLogLevel
	defer utils.SetLogLevel(orig)

	rep := New()
	rep.Skip("a-0.mp4", "already extracted")

	utils.SetLogLevel(utils.LevelNormal)
	var normal bytes.Buffer
	rep.Render(&normal)
	assert.NotContains(t, normal.String(), "already extracted")

	utils.SetLogLevel(utils.LevelVerbose)
	var verbose bytes.Buffer
	rep.Render(&verbose)
	assert.Contains(t, verbose.String(), "skipped a-0.mp4: already extracted")
}

func TestReportRenderListsFailures(t *testing.T) {
	rep := New()
	rep.Success("good.mp4")
	rep.Fail("bad.mp4", fmt.Errorf("tool exited with status 1"))

	var buf bytes.Buffer
	rep.Render(&buf)

	out := buf.String()
	assert.Contains(t, out, "1 succeeded, 0 skipped, 1 failed")
	assert.Contains(t, out, "bad.mp4")
	assert.Contains(t, out, "tool exited with status 1")
	assert.NotContains(t, out, "good.mp4", "only failures are tabled")
}

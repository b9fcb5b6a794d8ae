// Package concat recombines multi-segment camera recordings into single
// files. DJI cameras split long recordings into DJI_1234_001.MP4,
// DJI_1234_002.MP4, and so on; this pass joins them back into DJI_1234.MP4
// before the recording enters a cut schedule.
package concat

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gnzdotmx/clipper/internal/report"
	ffmpegsvc "github.com/gnzdotmx/clipper/internal/services/ffmpeg"
	"github.com/gnzdotmx/clipper/internal/utils"
)

// Run scans dirIn for DJI recordings, concatenating multi-part ones into
// dirOut and copying single-part ones through. Existing outputs are left
// alone so the pass is rerunnable.
func Run(ctx context.Context, ff ffmpegsvc.FFmpeg, dirIn, dirOut string, rep *report.Report) error {
	entries, err := os.ReadDir(dirIn)
	if err != nil {
		return fmt.Errorf("failed to read input directory: %w", err)
	}

	// recording number -> part suffixes (with extension), e.g. "1234" -> ["001.MP4", "002.MP4"]
	parts := make(map[string][]string)
	var singles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		fields := strings.Split(name, "_")
		if fields[0] != "DJI" {
			continue
		}
		switch len(fields) {
		case 2: // DJI_1234.MP4
			singles = append(singles, name)
		case 3: // DJI_1234_001.MP4
			parts[fields[1]] = append(parts[fields[1]], fields[2])
		}
	}

	for _, name := range singles {
		dst := filepath.Join(dirOut, name)
		if sameFile(filepath.Join(dirIn, name), dst) {
			continue
		}
		utils.LogInfo("Copying: %s", name)
		if err := copyFile(filepath.Join(dirIn, name), dst); err != nil {
			rep.Fail(name, err)
			continue
		}
		rep.Success(name)
	}

	var numbers []string
	for number := range parts {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)

	for _, number := range numbers {
		outName := fmt.Sprintf("DJI_%s.MP4", number)
		outPath := filepath.Join(dirOut, outName)
		if _, err := os.Stat(outPath); err == nil {
			utils.LogVerbose("Already exists: %s", outName)
			rep.Skip(outName, "already concatenated")
			continue
		}

		suffixes := parts[number]
		sort.Strings(suffixes)
		inputs := make([]string, len(suffixes))
		for i, suffix := range suffixes {
			inputs[i] = filepath.Join(dirIn, fmt.Sprintf("DJI_%s_%s", number, suffix))
		}

		utils.LogInfo("Concatenating: %s (%d parts)", outName, len(inputs))
		if err := ff.Concat(ctx, inputs, outPath); err != nil {
			rep.Fail(outName, err)
			continue
		}
		rep.Success(outName)
	}

	return nil
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy file: %w", err)
	}
	return out.Close()
}

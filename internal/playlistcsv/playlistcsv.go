// Package playlistcsv dumps a playlist into a CSV file and re-applies
// positions from an edited CSV. It is the manual fix-up path for playlist
// order, which the publish pass only ever appends to.
package playlistcsv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	youtubesvc "github.com/gnzdotmx/clipper/internal/services/youtube"
	"github.com/gnzdotmx/clipper/internal/utils"
)

var header = []string{"id", "resourceKind", "videoId", "title", "note"}

// Export writes the playlist's entries to csvPath, sorted by their current
// position, one row per entry.
func Export(ctx context.Context, client youtubesvc.Client, playlistID, csvPath string) error {
	items, err := client.PlaylistItems(ctx, playlistID)
	if err != nil {
		return err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})

	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, item := range items {
		if err := writer.Write([]string{item.ID, item.ResourceKind, item.VideoID, item.Title, item.Note}); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	utils.LogSuccess("Exported %d playlist entries to %s", len(items), csvPath)
	return f.Close()
}

// Apply moves each playlist entry to the position of its row in the CSV,
// top to bottom.
func Apply(ctx context.Context, client youtubesvc.Client, csvPath, playlistID string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("CSV file is empty")
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[name] = i
	}
	for _, required := range header {
		if _, ok := columns[required]; !ok {
			return fmt.Errorf("CSV header is missing the %s column", required)
		}
	}

	for position, record := range records[1:] {
		item := youtubesvc.PlaylistItem{
			ID:           record[columns["id"]],
			ResourceKind: record[columns["resourceKind"]],
			VideoID:      record[columns["videoId"]],
			Title:        record[columns["title"]],
			Note:         record[columns["note"]],
		}

		utils.LogInfo("Moving %q to position %s", item.Title, strconv.Itoa(position))
		if err := client.UpdatePlaylistItem(ctx, playlistID, item, int64(position)); err != nil {
			return err
		}
	}

	return nil
}

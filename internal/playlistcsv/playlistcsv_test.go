package playlistcsv

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	youtubesvc "github.com/gnzdotmx/clipper/internal/services/youtube"
	"github.com/gnzdotmx/clipper/internal/services/youtube/mocks"
)

func TestExportSortsByPosition(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "playlist.csv")

	client := &mocks.MockClient{}
	client.On("PlaylistItems", context.Background(), "PL123").Return([]youtubesvc.PlaylistItem{
		{ID: "pi-2", ResourceKind: "youtube#video", VideoID: "v2", Title: "second", Position: 1},
		{ID: "pi-1", ResourceKind: "youtube#video", VideoID: "v1", Title: "first", Position: 0},
	}, nil)

	require.NoError(t, Export(context.Background(), client, "PL123", csvPath))

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "resourceKind", "videoId", "title", "note"}, records[0])
	assert.Equal(t, []string{"pi-1", "youtube#video", "v1", "first", ""}, records[1])
	assert.Equal(t, []string{"pi-2", "youtube#video", "v2", "second", ""}, records[2])
	client.AssertExpectations(t)
}

func TestApplyUsesRowOrderAsPosition(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "playlist.csv")
	content := "id,resourceKind,videoId,title,note\n" +
		"pi-2,youtube#video,v2,second,\n" +
		"pi-1,youtube#video,v1,first,\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	client := &mocks.MockClient{}
	client.On("UpdatePlaylistItem", context.Background(), "PL123",
		youtubesvc.PlaylistItem{ID: "pi-2", ResourceKind: "youtube#video", VideoID: "v2", Title: "second"},
		int64(0)).Return(nil)
	client.On("UpdatePlaylistItem", context.Background(), "PL123",
		youtubesvc.PlaylistItem{ID: "pi-1", ResourceKind: "youtube#video", VideoID: "v1", Title: "first"},
		int64(1)).Return(nil)

	require.NoError(t, Apply(context.Background(), client, csvPath, "PL123"))
	client.AssertExpectations(t)
}

func TestApplyToleratesReorderedColumns(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "playlist.csv")
	content := "title,id,note,videoId,resourceKind\n" +
		"first,pi-1,keep,v1,youtube#video\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	client := &mocks.MockClient{}
	client.On("UpdatePlaylistItem", context.Background(), "PL123",
		youtubesvc.PlaylistItem{ID: "pi-1", ResourceKind: "youtube#video", VideoID: "v1", Title: "first", Note: "keep"},
		int64(0)).Return(nil)

	require.NoError(t, Apply(context.Background(), client, csvPath, "PL123"))
	client.AssertExpectations(t)
}

func TestApplyRejectsMissingColumn(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "playlist.csv")
	content := "id,videoId,title,note\npi-1,v1,first,\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	client := &mocks.MockClient{}
	err := Apply(context.Background(), client, csvPath, "PL123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resourceKind")
	client.AssertNotCalled(t, "UpdatePlaylistItem")
}

func TestApplyRejectsEmptyFile(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "playlist.csv")
	require.NoError(t, os.WriteFile(csvPath, nil, 0o644))

	err := Apply(context.Background(), &mocks.MockClient{}, csvPath, "PL123")
	assert.Error(t, err)
}

func TestApplyMissingFile(t *testing.T) {
	err := Apply(context.Background(), &mocks.MockClient{}, filepath.Join(t.TempDir(), "nope.csv"), "PL123")
	assert.Error(t, err)
}

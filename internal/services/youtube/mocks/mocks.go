// Package mocks provides a testify mock of the YouTube service client.
package mocks

import (
	"context"

	youtubesvc "github.com/gnzdotmx/clipper/internal/services/youtube"
	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of the youtube.Client interface
type MockClient struct {
	mock.Mock
}

func (m *MockClient) UploadsPlaylistID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockClient) PlaylistVideos(ctx context.Context, playlistID string, limit int) ([]youtubesvc.Video, error) {
	args := m.Called(ctx, playlistID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]youtubesvc.Video), args.Error(1)
}

func (m *MockClient) PlaylistItems(ctx context.Context, playlistID string) ([]youtubesvc.PlaylistItem, error) {
	args := m.Called(ctx, playlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]youtubesvc.PlaylistItem), args.Error(1)
}

func (m *MockClient) UpdateVideo(ctx context.Context, video youtubesvc.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockClient) InsertPlaylistItem(ctx context.Context, playlistID, videoID string) error {
	args := m.Called(ctx, playlistID, videoID)
	return args.Error(0)
}

func (m *MockClient) UpdatePlaylistItem(ctx context.Context, playlistID string, item youtubesvc.PlaylistItem, position int64) error {
	args := m.Called(ctx, playlistID, item, position)
	return args.Error(0)
}

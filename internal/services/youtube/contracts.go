package youtube

import "context"

// Video is the subset of a remote video's state the publish engine reads
// and mutates.
type Video struct {
	ID          string
	Title       string
	Description string
	CategoryID  string
	Privacy     string // "private", "unlisted", or "public"
	Processing  bool   // still being processed by the hosting system
}

// PlaylistItem is one entry of a playlist.
type PlaylistItem struct {
	ID           string
	VideoID      string
	Title        string
	Position     int64
	Note         string
	ResourceKind string
}

// Client defines the hosting collaborator operations. Every mutation is
// idempotent when the target state already holds, which is what makes
// rerunning the publish command the retry mechanism.
type Client interface {
	// UploadsPlaylistID returns the ID of the channel's uploads playlist.
	UploadsPlaylistID(ctx context.Context) (string, error)

	// PlaylistVideos returns the videos of a playlist, newest first as the
	// API lists uploads. A limit <= 0 means all.
	PlaylistVideos(ctx context.Context, playlistID string, limit int) ([]Video, error)

	// PlaylistItems returns the raw playlist entries.
	PlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error)

	// UpdateVideo writes the video's title, description, category, and
	// privacy as given.
	UpdateVideo(ctx context.Context, video Video) error

	// InsertPlaylistItem appends a video to the end of a playlist.
	InsertPlaylistItem(ctx context.Context, playlistID, videoID string) error

	// UpdatePlaylistItem moves an existing playlist entry to position.
	UpdatePlaylistItem(ctx context.Context, playlistID string, item PlaylistItem, position int64) error
}

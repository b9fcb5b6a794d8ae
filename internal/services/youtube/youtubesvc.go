// Package youtube implements the hosting collaborator on the YouTube Data
// API v3.
package youtube

import (
	"context"
	"fmt"
	"os"

	"github.com/gnzdotmx/clipper/internal/utils"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"
)

// Required OAuth scopes for the YouTube API. Updating videos and playlists
// needs the full scope.
var requiredScopes = []string{
	"https://www.googleapis.com/auth/youtube",
}

// pageSize is the maximum the API allows per list call.
const pageSize = 50

// Service implements the Client interface
type Service struct {
	api *youtubeapi.Service
}

// NewService authorizes against the YouTube API and returns a ready client.
// The OAuth token is cached under ~/.clipper; the browser flow only runs
// when no valid token exists.
func NewService(ctx context.Context, credentialsPath string) (*Service, error) {
	credentials, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(credentials, requiredScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth config: %w", err)
	}

	tokenStorage, err := utils.NewTokenStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}

	token, err := tokenStorage.LoadToken("youtube")
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	if token == nil || !token.Valid() {
		callbackServer := utils.NewOAuthCallbackServer()
		if err := callbackServer.Start(8080); err != nil {
			return nil, fmt.Errorf("failed to start callback server: %w", err)
		}
		defer func() {
			if err := callbackServer.Stop(); err != nil {
				utils.LogWarning("Failed to stop callback server: %v", err)
			}
		}()

		config.RedirectURL = "http://localhost:8080"

		authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
		if err := callbackServer.OpenURL(authURL); err != nil {
			return nil, fmt.Errorf("failed to open auth URL: %w", err)
		}

		code := callbackServer.WaitForCode()

		token, err = config.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
		}

		if err := tokenStorage.SaveToken("youtube", token); err != nil {
			utils.LogWarning("Failed to save token: %v", err)
		}
	} else {
		utils.LogVerbose("Using existing authorization token")
	}

	api, err := youtubeapi.NewService(ctx, option.WithTokenSource(config.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Service{api: api}, nil
}

// UploadsPlaylistID returns the ID of the channel's uploads playlist.
func (s *Service) UploadsPlaylistID(ctx context.Context) (string, error) {
	response, err := s.api.Channels.List([]string{"contentDetails"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get channel info: %w", err)
	}
	if len(response.Items) == 0 {
		return "", fmt.Errorf("no channel found for the authorized account")
	}
	return response.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

// PlaylistItems returns the raw entries of a playlist across all pages.
func (s *Service) PlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	var items []PlaylistItem
	pageToken := ""
	for {
		call := s.api.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		response, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list playlist %s: %w", playlistID, err)
		}

		for _, item := range response.Items {
			entry := PlaylistItem{
				ID:      item.Id,
				VideoID: item.ContentDetails.VideoId,
			}
			if item.Snippet != nil {
				entry.Title = item.Snippet.Title
				entry.Position = item.Snippet.Position
				if item.Snippet.ResourceId != nil {
					entry.ResourceKind = item.Snippet.ResourceId.Kind
				}
			}
			if item.ContentDetails != nil {
				entry.Note = item.ContentDetails.Note
			}
			items = append(items, entry)
		}

		pageToken = response.NextPageToken
		if pageToken == "" {
			return items, nil
		}
	}
}

// PlaylistVideos returns the videos of a playlist with their current title,
// description, privacy, and processing state. A limit <= 0 means all.
func (s *Service) PlaylistVideos(ctx context.Context, playlistID string, limit int) ([]Video, error) {
	items, err := s.PlaylistItems(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	var videos []Video
	for start := 0; start < len(items); start += pageSize {
		end := start + pageSize
		if end > len(items) {
			end = len(items)
		}

		ids := make([]string, 0, end-start)
		for _, item := range items[start:end] {
			ids = append(ids, item.VideoID)
		}

		response, err := s.api.Videos.List([]string{"snippet", "status", "processingDetails"}).
			Id(ids...).
			MaxResults(pageSize).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get video details: %w", err)
		}

		for _, v := range response.Items {
			video := Video{ID: v.Id}
			if v.Snippet != nil {
				video.Title = v.Snippet.Title
				video.Description = v.Snippet.Description
				video.CategoryID = v.Snippet.CategoryId
			}
			if v.Status != nil {
				video.Privacy = v.Status.PrivacyStatus
			}
			if v.ProcessingDetails != nil {
				video.Processing = v.ProcessingDetails.ProcessingStatus != "succeeded"
			}
			videos = append(videos, video)
		}
	}

	return videos, nil
}

// UpdateVideo writes the video's snippet and privacy status.
func (s *Service) UpdateVideo(ctx context.Context, video Video) error {
	update := &youtubeapi.Video{
		Id: video.ID,
		Snippet: &youtubeapi.VideoSnippet{
			Title:       video.Title,
			Description: video.Description,
			CategoryId:  video.CategoryID,
		},
		Status: &youtubeapi.VideoStatus{
			PrivacyStatus: video.Privacy,
		},
	}

	if _, err := s.api.Videos.Update([]string{"snippet", "status"}, update).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update video %s: %w", video.ID, err)
	}
	return nil
}

// InsertPlaylistItem appends a video to the end of a playlist.
func (s *Service) InsertPlaylistItem(ctx context.Context, playlistID, videoID string) error {
	item := &youtubeapi.PlaylistItem{
		Snippet: &youtubeapi.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtubeapi.ResourceId{
				Kind:    "youtube#video",
				VideoId: videoID,
			},
		},
	}

	if _, err := s.api.PlaylistItems.Insert([]string{"snippet"}, item).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to add video %s to playlist %s: %w", videoID, playlistID, err)
	}
	return nil
}

// UpdatePlaylistItem moves an existing playlist entry to position.
func (s *Service) UpdatePlaylistItem(ctx context.Context, playlistID string, item PlaylistItem, position int64) error {
	kind := item.ResourceKind
	if kind == "" {
		kind = "youtube#video"
	}

	update := &youtubeapi.PlaylistItem{
		Id: item.ID,
		Snippet: &youtubeapi.PlaylistItemSnippet{
			PlaylistId: playlistID,
			Position:   position,
			ResourceId: &youtubeapi.ResourceId{
				Kind:    kind,
				VideoId: item.VideoID,
			},
		},
		ContentDetails: &youtubeapi.PlaylistItemContentDetails{
			Note: item.Note,
		},
	}
	// Position 0 must still be sent explicitly.
	update.Snippet.ForceSendFields = append(update.Snippet.ForceSendFields, "Position")

	if _, err := s.api.PlaylistItems.Update([]string{"snippet", "contentDetails"}, update).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to move playlist item %s: %w", item.ID, err)
	}
	return nil
}

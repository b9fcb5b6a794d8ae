package publish

import (
	"context"
	"fmt"
	"testing"

	"github.com/gnzdotmx/clipper/internal/plan"
	"github.com/gnzdotmx/clipper/internal/report"
	youtubesvc "github.com/gnzdotmx/clipper/internal/services/youtube"
	"github.com/gnzdotmx/clipper/internal/services/youtube/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testPlaylist = "PL123"

func newPublisher(client youtubesvc.Client) *Publisher {
	return New(client, Options{PlaylistID: testPlaylist, CategoryID: "22", SuppressCredit: true})
}

func TestRunFullPipelineForFreshUpload(t *testing.T) {
	client := &mocks.MockClient{}
	client.On("PlaylistItems", mock.Anything, testPlaylist).Return([]youtubesvc.PlaylistItem{}, nil)

	// Rename carries the final title; the later updates keep it.
	client.On("UpdateVideo", mock.Anything, mock.MatchedBy(func(v youtubesvc.Video) bool {
		return v.ID == "v1" && v.Title == "Opening"
	})).Return(nil)
	client.On("InsertPlaylistItem", mock.Anything, testPlaylist, "v1").Return(nil)

	match := Match{
		Clip:  plan.Clip{Output: "a-0.mp4", Name: "Opening", Description: "First clip"},
		Video: youtubesvc.Video{ID: "v1", Title: "a-0.mp4", Privacy: "private"},
	}

	rep := report.New()
	require.NoError(t, newPublisher(client).Run(context.Background(), []Match{match}, rep))

	succeeded, _, failed := rep.Counts()
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, failed)

	// rename + describe + publish updates, plus one playlist insert.
	client.AssertNumberOfCalls(t, "UpdateVideo", 3)
	client.AssertNumberOfCalls(t, "InsertPlaylistItem", 1)
}

func TestRunAlmostCompleteTaskOnlyFlipsVisibility(t *testing.T) {
	client := &mocks.MockClient{}
	client.On("PlaylistItems", mock.Anything, testPlaylist).Return([]youtubesvc.PlaylistItem{
		{ID: "i1", VideoID: "v1"},
	}, nil)
	client.On("UpdateVideo", mock.Anything, mock.MatchedBy(func(v youtubesvc.Video) bool {
		return v.ID == "v1" && v.Privacy == "public"
	})).Return(nil)

	match := Match{
		Clip: plan.Clip{Output: "a-0.mp4", Name: "Opening", Description: "First clip"},
		Video: youtubesvc.Video{
			ID:          "v1",
			Title:       "Opening",
			Description: "First clip",
			Privacy:     "private",
		},
	}

	rep := report.New()
	require.NoError(t, newPublisher(client).Run(context.Background(), []Match{match}, rep))

	client.AssertNumberOfCalls(t, "UpdateVideo", 1)
	client.AssertNotCalled(t, "InsertPlaylistItem", mock.Anything, mock.Anything, mock.Anything)

	succeeded, _, _ := rep.Counts()
	assert.Equal(t, 1, succeeded)
}

func TestRunFullyPublishedTaskIsNoOp(t *testing.T) {
	client := &mocks.MockClient{}
	client.On("PlaylistItems", mock.Anything, testPlaylist).Return([]youtubesvc.PlaylistItem{
		{ID: "i1", VideoID: "v1"},
	}, nil)

	match := Match{
		Clip: plan.Clip{Output: "a-0.mp4", Name: "Opening", Description: "First clip"},
		Video: youtubesvc.Video{
			ID:          "v1",
			Title:       "Opening",
			Description: "First clip",
			Privacy:     "public",
		},
	}

	rep := report.New()
	require.NoError(t, newPublisher(client).Run(context.Background(), []Match{match}, rep))

	client.AssertNotCalled(t, "UpdateVideo", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "InsertPlaylistItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunPendingUploadIsSkipped(t *testing.T) {
	client := &mocks.MockClient{}
	client.On("PlaylistItems", mock.Anything, testPlaylist).Return([]youtubesvc.PlaylistItem{}, nil)

	rep := report.New()
	match := Match{Clip: plan.Clip{Output: "a-0.mp4", Name: "Opening"}, Pending: true}
	require.NoError(t, newPublisher(client).Run(context.Background(), []Match{match}, rep))

	_, skipped, failed := rep.Counts()
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 0, failed)
	client.AssertNotCalled(t, "UpdateVideo", mock.Anything, mock.Anything)
}

func TestRunStepFailureDoesNotBlockOtherTasks(t *testing.T) {
	client := &mocks.MockClient{}
	client.On("PlaylistItems", mock.Anything, testPlaylist).Return([]youtubesvc.PlaylistItem{}, nil)

	// The first task's rename fails; the second task goes through.
	client.On("UpdateVideo", mock.Anything, mock.MatchedBy(func(v youtubesvc.Video) bool {
		return v.ID == "v1"
	})).Return(fmt.Errorf("quota exceeded"))
	client.On("UpdateVideo", mock.Anything, mock.MatchedBy(func(v youtubesvc.Video) bool {
		return v.ID == "v2"
	})).Return(nil)
	client.On("InsertPlaylistItem", mock.Anything, testPlaylist, "v2").Return(nil)

	matches := []Match{
		{
			Clip:  plan.Clip{Output: "a-0.mp4", Name: "First"},
			Video: youtubesvc.Video{ID: "v1", Title: "a-0.mp4", Privacy: "private"},
		},
		{
			Clip:  plan.Clip{Output: "a-10.mp4", Name: "Second"},
			Video: youtubesvc.Video{ID: "v2", Title: "a-10.mp4", Privacy: "private"},
		},
	}

	rep := report.New()
	require.NoError(t, newPublisher(client).Run(context.Background(), matches, rep))

	succeeded, _, failed := rep.Counts()
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)

	var stepErr *StepError
	for _, item := range rep.Items() {
		if item.Outcome == report.Failed {
			require.ErrorAs(t, item.Err, &stepErr)
		}
	}
	assert.Equal(t, StepRename, stepErr.Step)
	assert.Equal(t, "First", stepErr.Clip)

	// The failed task never reached the visibility flip.
	client.AssertNotCalled(t, "InsertPlaylistItem", mock.Anything, testPlaylist, "v1")
}

func TestDescriptionCredit(t *testing.T) {
	with := New(&mocks.MockClient{}, Options{})
	without := New(&mocks.MockClient{}, Options{SuppressCredit: true})

	assert.Equal(t, "text\n\n"+creditLine, with.description("text"))
	assert.Equal(t, creditLine, with.description(""))
	assert.Equal(t, "text", without.description("text"))
	assert.Equal(t, "", without.description(""))
}

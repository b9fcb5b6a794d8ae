package publish

import (
	"context"
	"fmt"

	"github.com/gnzdotmx/clipper/internal/report"
	youtubesvc "github.com/gnzdotmx/clipper/internal/services/youtube"
	"github.com/gnzdotmx/clipper/internal/utils"
)

// Step is one transition of the publish state machine.
type Step string

const (
	StepRename         Step = "rename"
	StepDescribe       Step = "describe"
	StepPlaylistInsert Step = "playlist-insert"
	StepPublish        Step = "publish"
)

// StepError reports one failed publish sub-step. It is fatal to that task's
// remaining steps; other tasks are unaffected.
type StepError struct {
	Step Step
	Clip string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed for %q: %v", e.Step, e.Clip, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// creditLine is appended to descriptions unless suppressed.
const creditLine = "Published with clipper: https://github.com/gnzdotmx/clipper"

// Options configures one publish run.
type Options struct {
	PlaylistID     string
	CategoryID     string
	SuppressCredit bool
}

// Publisher drives matched tasks through rename, describe, playlist-insert,
// and the final visibility flip. Every step's need is derived from the
// observed remote state, so a run interrupted anywhere simply resumes at
// the first incomplete step next time.
type Publisher struct {
	client youtubesvc.Client
	opts   Options
}

// New creates a new publisher
func New(client youtubesvc.Client, opts Options) *Publisher {
	return &Publisher{client: client, opts: opts}
}

// Run processes every match in plan order. Tasks run sequentially so that
// first-time playlist insertions land in the deterministic file-then-time
// order. A task's failure never blocks the tasks after it.
func (p *Publisher) Run(ctx context.Context, matches []Match, rep *report.Report) error {
	members, err := p.playlistMembers(ctx)
	if err != nil {
		return err
	}

	warnDuplicateNames(matches)

	for _, match := range matches {
		if match.Pending {
			utils.LogInfo("Not uploaded yet or still processing: %s", match.Clip.Output)
			rep.Skip(match.Clip.Output, "pending upload")
			continue
		}

		if err := p.publishOne(ctx, match, members); err != nil {
			utils.LogError("%v", err)
			rep.Fail(match.Clip.Name, err)
			continue
		}
		rep.Success(match.Clip.Name)
	}

	return nil
}

// playlistMembers returns the set of video IDs already in the target
// playlist; membership observed up-front is what makes the insert step
// idempotent.
func (p *Publisher) playlistMembers(ctx context.Context) (map[string]bool, error) {
	items, err := p.client.PlaylistItems(ctx, p.opts.PlaylistID)
	if err != nil {
		return nil, fmt.Errorf("failed to read target playlist: %w", err)
	}
	members := make(map[string]bool, len(items))
	for _, item := range items {
		members[item.VideoID] = true
	}
	return members, nil
}

// publishOne walks a single task through the four transitions in order. The
// visibility flip is strictly last so a viewer never sees a public video
// with stale metadata.
func (p *Publisher) publishOne(ctx context.Context, match Match, members map[string]bool) error {
	video := match.Video
	clip := match.Clip

	if video.Title != clip.Name {
		utils.LogInfo("Renaming: %s -> %q", video.ID, clip.Name)
		video.Title = clip.Name
		if err := p.update(ctx, video); err != nil {
			return &StepError{Step: StepRename, Clip: clip.Name, Err: err}
		}
	} else {
		utils.LogVerbose("Already renamed: %s %q", video.ID, clip.Name)
	}

	if want := p.description(clip.Description); want != "" && video.Description != want {
		utils.LogInfo("Describing: %s", video.ID)
		video.Description = want
		if err := p.update(ctx, video); err != nil {
			return &StepError{Step: StepDescribe, Clip: clip.Name, Err: err}
		}
	}

	if !members[video.ID] {
		utils.LogInfo("Adding to playlist: %s", video.ID)
		if err := p.client.InsertPlaylistItem(ctx, p.opts.PlaylistID, video.ID); err != nil {
			return &StepError{Step: StepPlaylistInsert, Clip: clip.Name, Err: err}
		}
		members[video.ID] = true
	}

	if video.Privacy != "public" {
		utils.LogInfo("Publishing: %s", video.ID)
		video.Privacy = "public"
		if err := p.update(ctx, video); err != nil {
			return &StepError{Step: StepPublish, Clip: clip.Name, Err: err}
		}
	}

	return nil
}

// update writes the video through the collaborator, keeping the category ID
// populated as the API requires on every snippet update.
func (p *Publisher) update(ctx context.Context, video youtubesvc.Video) error {
	if video.CategoryID == "" {
		video.CategoryID = p.opts.CategoryID
	}
	return p.client.UpdateVideo(ctx, video)
}

// description returns the final description text for a clip.
func (p *Publisher) description(text string) string {
	if p.opts.SuppressCredit {
		return text
	}
	if text == "" {
		return creditLine
	}
	return text + "\n\n" + creditLine
}

// warnDuplicateNames flags schedule rows that will publish under the same
// title, since a later rerun could then match ambiguously.
func warnDuplicateNames(matches []Match) {
	seen := make(map[string]int)
	for _, match := range matches {
		seen[match.Clip.Name]++
	}
	for name, count := range seen {
		if count > 1 {
			utils.LogWarning("%d clips will publish under the same title %q", count, name)
		}
	}
}

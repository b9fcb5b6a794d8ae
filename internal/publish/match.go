// Package publish matches schedule-derived clips to uploaded remote videos
// and drives each matched pair to its final published state.
package publish

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnzdotmx/clipper/internal/plan"
	youtubesvc "github.com/gnzdotmx/clipper/internal/services/youtube"
	"github.com/gnzdotmx/clipper/internal/utils"
)

// Match pairs one clip with its uploaded video. Pending matches have no
// video yet; they are reported, not errors, and resolve on a later run once
// the upload happened.
type Match struct {
	Clip    plan.Clip
	Video   youtubesvc.Video
	Pending bool
}

// MatchAmbiguityError reports multiple remote videos matching one clip,
// either through a duplicated title or a renamed and an unrenamed upload
// existing at once. The engine never guesses; none of the videos is mutated
// and the user resolves the conflict manually.
type MatchAmbiguityError struct {
	Clip     string // output filename of the clip that matched ambiguously
	Titles   []string
	VideoIDs []string
}

func (e *MatchAmbiguityError) Error() string {
	quoted := make([]string, len(e.Titles))
	for i, title := range e.Titles {
		quoted[i] = strconv.Quote(title)
	}
	return fmt.Sprintf("clip %s matches multiple uploaded videos (%s) titled %s",
		e.Clip, strings.Join(e.VideoIDs, ", "), strings.Join(quoted, ", "))
}

// MatchClips associates each clip with a remote video. Uploads are done
// unrenamed, so the original clip filename is the join key; a video already
// carrying the clip's final name also matches, which is how a rerun resumes
// after the rename step. Videos still processing are treated as not yet
// uploaded.
func MatchClips(clips []plan.Clip, videos []youtubesvc.Video) ([]Match, []error) {
	byTitle := make(map[string][]youtubesvc.Video)
	for _, video := range videos {
		if video.Processing {
			utils.LogVerbose("Ignoring video that is not done processing: %s %q", video.ID, video.Title)
			continue
		}
		byTitle[video.Title] = append(byTitle[video.Title], video)
	}

	var matches []Match
	var errs []error
	for _, clip := range clips {
		// A video already carrying the final name means an earlier run
		// completed the rename; it takes priority over the original
		// filename. Both present at once is ambiguous.
		renamed := byTitle[clip.Name]
		unrenamed := byTitle[clip.Output]

		candidates := renamed
		if len(candidates) == 0 {
			candidates = unrenamed
		} else {
			candidates = append(append([]youtubesvc.Video{}, renamed...), unrenamed...)
		}

		switch len(candidates) {
		case 0:
			matches = append(matches, Match{Clip: clip, Pending: true})
		case 1:
			matches = append(matches, Match{Clip: clip, Video: candidates[0]})
		default:
			ids := make([]string, len(candidates))
			var titles []string
			seen := make(map[string]bool)
			for i, v := range candidates {
				ids[i] = v.ID
				if !seen[v.Title] {
					seen[v.Title] = true
					titles = append(titles, v.Title)
				}
			}
			errs = append(errs, &MatchAmbiguityError{Clip: clip.Output, Titles: titles, VideoIDs: ids})
		}
	}

	return matches, errs
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gnzdotmx/clipper/internal/plan"
	"github.com/gnzdotmx/clipper/internal/publish"
	"github.com/gnzdotmx/clipper/internal/report"
	"github.com/gnzdotmx/clipper/internal/schedule"
	youtubesvc "github.com/gnzdotmx/clipper/internal/services/youtube"
	"github.com/gnzdotmx/clipper/internal/utils"

	"github.com/spf13/cobra"
)

var (
	uploadsPlaylistIDFlag string
	scanMoreUploadsFlag   int
	categoryIDFlag        string
	suppressCreditFlag    bool
)

var publishCmd = &cobra.Command{
	Use:   "publish SCHEDULE.csv PLAYLIST_ID",
	Short: "Rename, describe, playlist, and publish uploaded clips",
	Long: `Reconcile uploaded clips against the cut schedule. Uploaded videos are
matched to schedule rows by their title, which on upload is the original
clip filename. Each matched video is renamed, described, added to the
playlist, and finally made public. Every step is skipped when the remote
state already satisfies it, so rerunning after a partial run only performs
the remaining work. By default only the last n uploads are scanned, where n
is the number of schedule rows; use --scan-more-uploads to widen that.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		schedulePath, playlistID := args[0], args[1]
		ctx := cmd.Context()

		rep := report.New()
		result, err := schedule.Read(schedulePath)
		if err != nil {
			return err
		}
		for _, rowErr := range result.Errors {
			utils.LogError("%v", rowErr)
			rep.Fail(fmt.Sprintf("%s: %v", schedulePath, rowErr), rowErr)
		}

		p := plan.Build(result.Rows)
		for _, warning := range p.Warnings {
			utils.LogWarning("%s", warning)
		}
		for _, planErr := range p.Errors {
			utils.LogError("%v", planErr)
			rep.Fail(planErr.Error(), planErr)
		}

		client, err := newYouTubeClient(ctx)
		if err != nil {
			return err
		}

		// Scan either the given playlist or the channel's own uploads.
		scanPlaylistID := uploadsPlaylistIDFlag
		limit := 0
		if scanPlaylistID == "" {
			scanPlaylistID, err = client.UploadsPlaylistID(ctx)
			if err != nil {
				return err
			}
			limit = len(p.Clips) + scanMoreUploadsFlag
		}
		videos, err := client.PlaylistVideos(ctx, scanPlaylistID, limit)
		if err != nil {
			return err
		}

		matches, matchErrs := publish.MatchClips(p.Clips, videos)
		for _, matchErr := range matchErrs {
			utils.LogError("%v", matchErr)
			rep.Fail(matchErr.Error(), matchErr)
		}

		categoryID := categoryIDFlag
		if !cmd.Flags().Changed("category-id") && cfg.CategoryID != "" {
			categoryID = cfg.CategoryID
		}

		publisher := publish.New(client, publish.Options{
			PlaylistID:     playlistID,
			CategoryID:     categoryID,
			SuppressCredit: suppressCreditFlag || cfg.SuppressCredit,
		})
		if err := publisher.Run(ctx, matches, rep); err != nil {
			return err
		}

		rep.Render(cmd.OutOrStdout())
		if rep.Failed() {
			return fmt.Errorf("some items failed; see the summary above")
		}
		return nil
	},
}

// newYouTubeClient resolves the credentials path (flag, config file, then
// environment) and authorizes against the API.
func newYouTubeClient(ctx context.Context) (*youtubesvc.Service, error) {
	credentials := credentialsFlag
	if credentials == "" {
		credentials = cfg.Credentials
	}
	if credentials == "" {
		credentials = os.Getenv("GOOGLE_CLIENT_SECRETS_FILE")
	}
	if credentials == "" {
		return nil, fmt.Errorf("credentials file path is required (flag, config file, or GOOGLE_CLIENT_SECRETS_FILE)")
	}

	expanded, err := utils.ExpandHomeDir(credentials)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(expanded); os.IsNotExist(err) {
		return nil, fmt.Errorf("credentials file does not exist: %s", expanded)
	}

	return youtubesvc.NewService(ctx, expanded)
}

func init() {
	publishCmd.Flags().StringVarP(&uploadsPlaylistIDFlag, "uploads-playlist-id", "u", "",
		"Scan this playlist instead of the channel's uploads")
	publishCmd.Flags().IntVar(&scanMoreUploadsFlag, "scan-more-uploads", 0,
		"Number of additional uploads to scan beyond the schedule size")
	publishCmd.Flags().StringVar(&categoryIDFlag, "category-id", "22",
		"YouTube category ID to assign to videos")
	publishCmd.Flags().BoolVar(&suppressCreditFlag, "suppress-credit", false,
		"Omit the credit line at the end of descriptions")
	rootCmd.AddCommand(publishCmd)
}

package cmd

import (
	"github.com/gnzdotmx/clipper/internal/playlistcsv"

	"github.com/spf13/cobra"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Dump a playlist to CSV or re-apply its order from CSV",
}

var playlistExportCmd = &cobra.Command{
	Use:   "export PLAYLIST_ID CSV_PATH",
	Short: "Write a playlist's entries to a CSV file in playback order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newYouTubeClient(cmd.Context())
		if err != nil {
			return err
		}
		return playlistcsv.Export(cmd.Context(), client, args[0], args[1])
	},
}

var playlistApplyCmd = &cobra.Command{
	Use:   "apply CSV_PATH PLAYLIST_ID",
	Short: "Reorder a playlist to match the row order of a CSV file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newYouTubeClient(cmd.Context())
		if err != nil {
			return err
		}
		return playlistcsv.Apply(cmd.Context(), client, args[0], args[1])
	},
}

func init() {
	playlistCmd.AddCommand(playlistExportCmd)
	playlistCmd.AddCommand(playlistApplyCmd)
	rootCmd.AddCommand(playlistCmd)
}

package cmd

import (
	"fmt"

	"github.com/gnzdotmx/clipper/internal/concat"
	"github.com/gnzdotmx/clipper/internal/report"
	ffmpegsvc "github.com/gnzdotmx/clipper/internal/services/ffmpeg"
	"github.com/gnzdotmx/clipper/internal/validator"

	"github.com/spf13/cobra"
)

var concatCmd = &cobra.Command{
	Use:   "concat DIR_IN [DIR_OUT]",
	Short: "Recombine multi-segment camera recordings",
	Long: `Recombine files from the same recording session. For example,
DJI_1234_001.MP4, DJI_1234_002.MP4, and DJI_1234_003.MP4 become DJI_1234.MP4.
Single-part recordings are copied through unchanged. With no DIR_OUT the
combined files are written next to the originals.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validator.ValidateExternalTools(); err != nil {
			return fmt.Errorf("dependency validation failed: %w", err)
		}

		dirIn := args[0]
		dirOut := dirIn
		if len(args) == 2 {
			dirOut = args[1]
		}

		rep := report.New()
		if err := concat.Run(cmd.Context(), ffmpegsvc.New(), dirIn, dirOut, rep); err != nil {
			return err
		}

		rep.Render(cmd.OutOrStdout())
		if rep.Failed() {
			return fmt.Errorf("some recordings failed; see the summary above")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(concatCmd)
}

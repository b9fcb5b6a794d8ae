package cmd

import (
	"fmt"

	"github.com/gnzdotmx/clipper/internal/extract"
	"github.com/gnzdotmx/clipper/internal/plan"
	"github.com/gnzdotmx/clipper/internal/report"
	"github.com/gnzdotmx/clipper/internal/schedule"
	ffmpegsvc "github.com/gnzdotmx/clipper/internal/services/ffmpeg"
	"github.com/gnzdotmx/clipper/internal/utils"
	"github.com/gnzdotmx/clipper/internal/validator"

	"github.com/spf13/cobra"
)

var (
	encodeFlag      bool
	concurrencyFlag int
)

var clipCmd = &cobra.Command{
	Use:   "clip SCHEDULE.csv OUTPUT_DIR",
	Short: "Extract the clips described by a cut schedule",
	Long: `Extract clips from source footage using cut points from a CSV schedule.
Each row's clip runs from its Inpoint to the next row's Inpoint in the same
file; the last row runs to the end of the file. Clips whose output file
already exists are skipped, so rerunning after a schedule edit only cuts
the new clips. Delete an output file to force its re-extraction.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validator.ValidateExternalTools(); err != nil {
			return fmt.Errorf("dependency validation failed: %w", err)
		}

		schedulePath, outputDir := args[0], args[1]

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

		encode := encodeFlag || cfg.Encode
		concurrency := concurrencyFlag
		if concurrency == 0 {
			concurrency = cfg.Concurrency
		}

		extractor := extract.New(ffmpegsvc.New())
		if err := extractor.Run(cmd.Context(), p, extract.Options{
			OutputDir:   outputDir,
			Encode:      encode,
			Concurrency: concurrency,
		}, rep); err != nil {
			return err
		}

		rep.Render(cmd.OutOrStdout())
		if rep.Failed() {
			return fmt.Errorf("some clips failed; see the summary above")
		}
		return nil
	},
}

func init() {
	clipCmd.Flags().BoolVarP(&encodeFlag, "encode", "e", false,
		"Re-encode video and audio instead of stream copying")
	clipCmd.Flags().IntVar(&concurrencyFlag, "concurrency", 0,
		"Max source files to cut in parallel (default 1)")
	rootCmd.AddCommand(clipCmd)
}

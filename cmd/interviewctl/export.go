package main

import (
	"fmt"

	"mockprep/interview/internal/interview"
	"mockprep/interview/internal/jobs"
	"mockprep/interview/internal/models"
	"mockprep/interview/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-summaries",
		Short: "Write summaries of completed, unexported sessions to a JSONL file",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				dir = e.cfg.SummaryExportDir
			}
			batchSize, _ := cmd.Flags().GetInt("batch-size")

			job := jobs.NewSummaryExporterJob(store.NewSessionRepository(e.db), interview.SummaryOptions{
				HiringThreshold:    e.cfg.HiringThreshold,
				DefaultTimeMinutes: models.DefaultTimeMinutes,
			}, &jobs.ExporterConfig{
				ExportDir:     dir,
				ExportEnabled: true,
				BatchSize:     batchSize,
			}, e.logger)

			path, err := job.RunExport(cmd.Context())
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No completed sessions pending export.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported summaries to %s\n", path)
			return nil
		},
	}
	cmd.Flags().String("dir", "", "Output directory (overrides SUMMARY_EXPORT_DIR)")
	cmd.Flags().Int("batch-size", 0, "Sessions read per query")
	return cmd
}

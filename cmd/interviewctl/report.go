package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"mockprep/interview/internal/interview"
	"mockprep/interview/internal/models"
	"mockprep/interview/internal/store"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <sessionId>",
		Short: "Render the report of a session without changing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid format %q: expected text or json", format)
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			session, err := store.NewSessionRepository(e.db).GetSession(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, store.ErrSessionNotFound) {
					return fmt.Errorf("session %s not found", args[0])
				}
				return err
			}

			opts := interview.SummaryOptions{
				HiringThreshold:    e.cfg.HiringThreshold,
				DefaultTimeMinutes: models.DefaultTimeMinutes,
			}
			if !session.IsCompleted() {
				opts.AsOf = time.Now().UTC()
			}
			summary := interview.Aggregate(session, opts)

			out := cmd.OutOrStdout()
			if path, _ := cmd.Flags().GetString("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create %s: %w", path, err)
				}
				defer f.Close()
				out = f
			}
			return writeReport(out, summary, format)
		},
	}
	cmd.Flags().String("format", "text", "Output format, text or json")
	cmd.Flags().StringP("out", "o", "", "Write to a file instead of stdout")
	return cmd
}

func writeReport(w io.Writer, summary interview.Summary, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	return interview.RenderReport(w, summary)
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/pairwise/internal/config"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	chiTransport "github.com/kailas-cloud/pairwise/internal/transport/chi"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var task, metricName, out, incomplete string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the rankings of every participant of a task as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := metric.Parse(metricName)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), opts, func(c *config.Config) {
				if incomplete != "" {
					c.Survey.ExportIncomplete = incomplete
				}
			})
			if err != nil {
				return err
			}
			defer a.Close()

			export, err := a.survey.Export(cmd.Context(), task, m)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			if err := writeExport(w, chiTransport.NewExportResponse(export)); err != nil {
				return err
			}
			if len(export.Skipped) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d incomplete participants\n", len(export.Skipped))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&task, "task", "", "Task name")
	cmd.Flags().StringVar(&metricName, "metric", string(metric.Realistic), "Metric to rank by")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file (- for stdout)")
	cmd.Flags().StringVar(&incomplete, "incomplete", "", "Incomplete participants: skip or fail (default from config)")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}

func writeExport(w io.Writer, resp chiTransport.ExportResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

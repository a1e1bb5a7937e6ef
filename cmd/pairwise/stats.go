package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/pairwise/internal/domain/comparison"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	"github.com/kailas-cloud/pairwise/internal/domain/sample"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	var task, token, metricName string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print every stage of one participant's ranking",
		Long: `Stats prints the reciprocal comparison matrix, its column-normalized form,
the priority vector and the final ranking of one participant for one metric.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := metric.Parse(metricName)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			set, err := a.catalog.Samples(cmd.Context(), task)
			if err != nil {
				return err
			}
			b, err := a.survey.Breakdown(cmd.Context(), task, token, m)
			if err != nil {
				return err
			}
			printBreakdown(cmd.OutOrStdout(), set, b)
			return nil
		},
	}
	cmd.Flags().StringVar(&task, "task", "", "Task name")
	cmd.Flags().StringVar(&token, "token", "", "Participant token")
	cmd.Flags().StringVar(&metricName, "metric", string(metric.Realistic), "Metric to rank by")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func printBreakdown(w io.Writer, set sample.Set, b comparison.Breakdown) {
	heading := color.New(color.FgCyan, color.Bold)
	top := color.New(color.FgGreen, color.Bold)

	heading.Fprintln(w, "Samples")
	for i := 0; i < set.Len(); i++ {
		fmt.Fprintf(w, "  [%d] %s (%s)\n", i, set.NameAt(i), set.At(i))
	}

	heading.Fprintln(w, "\nComparison matrix")
	fmt.Fprintln(w, b.Matrix.String())

	heading.Fprintln(w, "\nNormalized matrix")
	fmt.Fprintln(w, b.Normalized.String())

	heading.Fprintln(w, "\nPriority vector")
	for i, v := range b.Vector {
		fmt.Fprintf(w, "  [%d] %.4f\n", i, v)
	}

	heading.Fprintln(w, "\nRanking")
	for i, r := range b.Ranking {
		line := fmt.Sprintf("  %d. %-24s %.4f", i+1, r.Name, r.Weight)
		if i == 0 {
			top.Fprintln(w, line)
			continue
		}
		fmt.Fprintln(w, line)
	}
}

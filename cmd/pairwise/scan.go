package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cataloguc "github.com/kailas-cloud/pairwise/internal/usecase/catalog"
)

func newScanCommand(opts *rootOptions) *cobra.Command {
	var task string
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the tasks directory and store its samples",
		Long: `Scan walks the configured tasks directory. Every sub-directory is a task and
every .mp4 or .webm file in it is a sample. An optional <name>.data.yml next to
the media file provides the sample fitness.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			var scans []cataloguc.TaskScan
			if task != "" {
				sc, err := a.catalog.ScanTask(cmd.Context(), task)
				if err != nil {
					return err
				}
				scans = []cataloguc.TaskScan{sc}
			} else if scans, err = a.catalog.Scan(cmd.Context()); err != nil {
				return err
			}
			return printScans(cmd.OutOrStdout(), scans)
		},
	}
	cmd.Flags().StringVar(&task, "task", "", "Scan a single task directory")
	return cmd
}

func printScans(w io.Writer, scans []cataloguc.TaskScan) error {
	if len(scans) == 0 {
		_, err := fmt.Fprintln(w, "no tasks found")
		return err
	}
	warn := color.New(color.FgYellow)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tSAMPLES\tWITHOUT DATA")
	for _, sc := range scans {
		missing := "-"
		if len(sc.WithoutData) > 0 {
			missing = warn.Sprint(strings.Join(sc.WithoutData, ", "))
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", sc.Task, sc.Samples, missing)
	}
	return tw.Flush()
}

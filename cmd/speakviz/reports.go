package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-speakviz/pkg/session"
)

var reportsLimit int

var reportsCmd = &cobra.Command{
	Use:   "reports [id]",
	Short: "List stored reports, or print one in full",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if len(args) == 1 {
			res, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printResult(os.Stdout, res)
			return nil
		}

		list, err := st.List(cmd.Context(), reportsLimit)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No reports found in database.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tFRAMES\tCLASSIFICATION")
		fmt.Fprintln(w, "--\t-------\t--------\t------\t--------------")
		for _, r := range list {
			classification := r.Classification
			if classification == "" {
				classification = "(not enough data)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				r.ID,
				r.StartedAt.Local().Format("2006-01-02 15:04"),
				r.StoppedAt.Sub(r.StartedAt).Round(time.Second),
				r.Frames,
				classification)
		}
		return w.Flush()
	},
}

func init() {
	reportsCmd.Flags().IntVar(&reportsLimit, "limit", 20, "Maximum number of reports to list")
	rootCmd.AddCommand(reportsCmd)
}

// printResult writes the human-readable summary of a finished recording.
func printResult(w io.Writer, res session.Result) {
	fmt.Fprintf(w, "Session %s (%s, %d frames)\n", res.ID, res.Duration().Round(time.Second), res.Frames)
	if res.Verdict != "" {
		fmt.Fprintf(w, "Eye contact: %d/%d frames. %s\n", res.EyeContactFrames, res.Frames, res.Verdict)
	}
	if res.Report == nil {
		fmt.Fprintln(w, "Not enough data for a spread analysis.")
		return
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, res.Report.Text())
}

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List evaluation runs in the history",
	Long: `List all history records, newest first.

Each line shows the run id, project name, timestamp, and pass counts.
Ids can be passed (abbreviated to a unique prefix) to compare, explain,
show, and delete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := getStore(cfg)
		if err != nil {
			return err
		}

		records, err := store.List()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "no runs in history (use \"promptdeck import\" to add one)")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tPROJECT\tDATE\tTESTS\tPASSED\tAVG SCORE")
		for _, r := range records {
			id := r.ID
			if len(id) > 8 {
				id = id[:8]
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.2f\n",
				id, r.ProjectName, r.Timestamp.Format("2006-01-02 15:04"),
				r.Stats.TotalTests, r.Stats.Passed, r.Stats.AvgScore)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

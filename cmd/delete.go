package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete one history record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := getStore(cfg)
		if err != nil {
			return err
		}

		record, err := resolveRecord(store, args[0])
		if err != nil {
			return err
		}
		if err := store.Delete(record.ID); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", record.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

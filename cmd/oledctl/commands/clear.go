package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Blank the display",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "success")
			return nil
		},
	}
}

func flushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Push pending drawing to the display",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "success")
			return nil
		},
	}
}

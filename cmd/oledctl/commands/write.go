package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"oledscreen/pkg/screen"
)

// write <text>: draw text into the display buffer, optionally flushing.
func writeCmd() *cobra.Command {
	var req screen.WriteRequest
	var flush bool

	cmd := &cobra.Command{
		Use:   "write <text>",
		Short: "Draw text at a pixel position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Text = args[0]
			if err := client.Write(req); err != nil {
				return err
			}
			if flush {
				if err := client.Flush(); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "success")
			return nil
		},
	}

	cmd.Flags().IntVarP(&req.X, "x", "x", 0, "x coordinate (0-128)")
	cmd.Flags().IntVarP(&req.Y, "y", "y", 0, "y coordinate (0-57)")
	cmd.Flags().StringVarP(&req.Font, "font", "f", "6x8", "font size: 6x8, 6x12, 8x16 or 12x16")
	cmd.Flags().BoolVar(&flush, "flush", false, "flush after writing")
	return cmd
}

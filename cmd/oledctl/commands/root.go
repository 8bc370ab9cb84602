package commands

import (
	"github.com/spf13/cobra"

	"oledscreen/pkg/device/remote"
)

var (
	addr   string
	client *remote.Client
)

func Execute() error {
	return newRoot().Execute()
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "oledctl",
		Short:        "Drive the OLED display service",
		SilenceUsage: true,
	}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		client = remote.New(addr)
	}

	root.PersistentFlags().StringVar(&addr, "addr", "127.0.0.1:3031", "display service addr or URL")

	root.AddCommand(writeCmd(), clearCmd(), flushCmd())
	return root
}

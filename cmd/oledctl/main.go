package main

import (
	"os"

	"oledscreen/cmd/oledctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

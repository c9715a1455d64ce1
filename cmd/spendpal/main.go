package main

import (
	"os"

	"spendpal/cmd/spendpal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

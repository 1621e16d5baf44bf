package main

import (
	"os"

	"github.com/satishbabariya/oragrammar/cmd/oragrammar/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/kazen/backend/cmd/kazenctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/tcboard-dev/tcboard/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"errors"
	"file-explorer/cmd/cli/cmd"
	"fmt"
	"os"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// Command failures were already shown by the explorer
		if !errors.Is(err, cmd.ErrCommandFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

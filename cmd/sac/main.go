// cmd/sac/main.go
//
// Entry point for the sac CLI. All behavior lives in internal/cli;
// running without a subcommand opens the transcription TUI.

package main

import (
	"fmt"
	"os"

	"sac/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}

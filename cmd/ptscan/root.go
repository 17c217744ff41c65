package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ptscan",
		Short: "Scan a live process's memory for values matching a predicate",
		Long: `ptscan attaches to a running process, reads its memory, and narrows a
set of candidate addresses down to those whose bytes satisfy a predicate
(equal to a value, changed since the last scan, increased by X, ...).`,
		SilenceUsage: true,
	}

	root.AddCommand(
		attachCmd(),
		scanCmd(),
		readCmd(),
		interactiveCmd(),
	)
	return root
}

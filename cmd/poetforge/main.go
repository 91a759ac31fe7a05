package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "poetforge",
		Short: "PoetForge - template-driven Chinese poem generator",
		Long: `PoetForge composes modern Chinese poems from a lexicon of tagged words
and sentence templates. Poems can be generated in batches, served over HTTP
or printed straight to the terminal.`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newCounterCmd())
	rootCmd.AddCommand(newCheckpointCmd())

	return rootCmd
}

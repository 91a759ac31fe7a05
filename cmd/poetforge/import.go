package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lamim/poetforge/internal/lexicon"
	"github.com/lamim/poetforge/internal/printer"
)

func newImportCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <csv-dir> <out.db>",
		Short: "Import legacy CSV tables into a SQLite lexicon",
		Long: `Convert a directory of legacy CSV tables (nouns.csv, intransitive_verbs.csv,
transitive_verbs.csv, adjectives.csv, interjections.csv, special_words.csv and
structures.csv) into a SQLite lexicon usable with --lexicon.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0], args[1], force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing database")

	return cmd
}

func runImport(csvDir, out string, force bool) error {
	if _, err := os.Stat(out); err == nil {
		if !force {
			return fmt.Errorf("output database already exists: %s (use --force to overwrite)", out)
		}
		if err := os.Remove(out); err != nil {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	tables, err := lexicon.ImportLegacyCSV(csvDir)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", csvDir, err)
	}
	if err := lexicon.WriteSQLite(out, tables); err != nil {
		return err
	}

	counts := tables.Counts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	printer.Success("Imported lexicon into %s\n", out)
	for _, name := range names {
		fmt.Printf("  %-16s %d\n", name, counts[name])
	}
	return nil
}

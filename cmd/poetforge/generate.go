package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lamim/poetforge/internal/checkpoint"
	"github.com/lamim/poetforge/internal/config"
	"github.com/lamim/poetforge/internal/lexicon"
	"github.com/lamim/poetforge/internal/metrics"
	"github.com/lamim/poetforge/internal/orchestrator"
	"github.com/lamim/poetforge/internal/printer"
	"github.com/lamim/poetforge/internal/writer"
	"github.com/lamim/poetforge/pkg/models"
)

type generateFlags struct {
	configPath  string
	envFile     string
	style       string
	stanzas     int
	lines       int
	rhyme       bool
	scheme      string
	count       int
	seed        uint64
	lexicon     string
	quietOutput bool
	verbose     bool
}

func newGenerateCmd() *cobra.Command {
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a batch of poems",
		Long: `Generate poems into a new session directory:
1. Pick one sentence template per line position
2. Expand the templates for every stanza
3. Fill each slot from the lexicon and archive the numbered poem

Flags override the values from the configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, f)
		},
	}

	bindGenerateFlags(cmd, f)

	return cmd
}

func bindGenerateFlags(cmd *cobra.Command, f *generateFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", defaultConfigPath, "Path to configuration file")
	flags.StringVar(&f.envFile, "env-file", ".env", "Path to environment file")
	flags.StringVar(&f.style, "style", "", "Poem style (quiet or bold)")
	flags.IntVar(&f.stanzas, "stanzas", 0, "Number of stanzas per poem")
	flags.IntVar(&f.lines, "lines", 0, "Number of lines per stanza")
	flags.BoolVar(&f.rhyme, "rhyme", false, "Rhyme the poem")
	flags.StringVar(&f.scheme, "scheme", "", "Rhyme class, e.g. ang or eng (implies --rhyme)")
	flags.IntVar(&f.count, "count", 0, "Number of poems to generate")
	flags.Uint64Var(&f.seed, "seed", 0, "Random seed (0 = entropy)")
	flags.StringVar(&f.lexicon, "lexicon", "", "Lexicon file (.toml, .yaml or .db)")
	flags.BoolVar(&f.quietOutput, "quiet-output", false, "Do not print poems to stdout")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Enable verbose logging")
}

// applyGenerateFlags copies explicitly set flags over the loaded configuration
func applyGenerateFlags(cmd *cobra.Command, f *generateFlags, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("style") {
		cfg.Generation.Style = f.style
	}
	if flags.Changed("stanzas") {
		cfg.Generation.Stanzas = f.stanzas
	}
	if flags.Changed("lines") {
		cfg.Generation.LinesPerStanza = f.lines
	}
	if flags.Changed("rhyme") {
		cfg.Generation.UseRhyme = f.rhyme
	}
	if flags.Changed("scheme") {
		cfg.Generation.RhymeScheme = f.scheme
		if !flags.Changed("rhyme") {
			cfg.Generation.UseRhyme = f.scheme != ""
		}
	}
	if flags.Changed("count") {
		cfg.Generation.Count = f.count
	}
	if flags.Changed("seed") {
		cfg.Generation.Seed = f.seed
	}
	if flags.Changed("lexicon") {
		cfg.Lexicon.Path = f.lexicon
	}
}

func runGenerate(cmd *cobra.Command, f *generateFlags) error {
	loadEnv(f.envFile, f.verbose)

	configPath := resolveConfigPath(cmd, f.configPath)
	cfg, secrets, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	applyGenerateFlags(cmd, f, cfg)
	if err := cfg.Finalize(); err != nil {
		return err
	}

	return runSession(cfg, secrets, configPath, f.verbose, f.quietOutput)
}

// runSession runs one batch, either fresh or resumed from
// cfg.Generation.ResumeFromSession
func runSession(cfg *config.Config, secrets *config.Secrets, configPath string, verbose, quietOutput bool) error {
	resumeMode := cfg.Generation.ResumeFromSession != ""

	sessionMgr, err := writer.NewSessionManager(cfg.Output.Dir, slog.Default(), cfg.Generation.ResumeFromSession)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	// Printed poems own stdout; logs move to stderr while they are shown
	console := io.Writer(os.Stdout)
	if !quietOutput {
		console = os.Stderr
	}
	logger, logFile, err := writer.SetupLogger(sessionMgr, logLevel(verbose), console)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	defer func() {
		if logFile != nil {
			_ = logFile.Sync()
			_ = logFile.Close()
		}
	}()
	sessionMgr.SetLogger(logger)

	logger.Info("PoetForge starting",
		"version", Version,
		"config", configPath,
		"session_dir", sessionMgr.GetSessionDir())

	if configPath != "" {
		if err := sessionMgr.BackupConfig(configPath); err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
	}
	if !resumeMode {
		// Flags are not in the backup; resume reads this instead
		if err := cfg.Save(sessionMgr.GetEffectiveConfigPath()); err != nil {
			logger.Warn("Failed to save effective config", "error", err)
		}
	}

	store, err := lexicon.Load(cfg.Lexicon.Path, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poemCounter, err := openCounter(ctx, cfg, secrets)
	if err != nil {
		return err
	}
	defer func() {
		if err := poemCounter.Close(); err != nil {
			logger.Error("failed to close counter", "error", err)
		}
	}()

	var checkpointMgr *checkpoint.Manager
	if resumeMode {
		existing, err := checkpoint.Load(sessionMgr.GetSessionDir(), logger)
		if err != nil {
			return fmt.Errorf("failed to load checkpoint: %w", err)
		}
		if err := checkpoint.ValidateCheckpoint(existing, cfg); err != nil {
			return fmt.Errorf("checkpoint validation failed: %w", err)
		}

		checkpointMgr = checkpoint.NewManagerFromCheckpoint(sessionMgr.GetSessionDir(), existing, cfg, logger)
		logger.Info("Loaded checkpoint",
			"phase", existing.CurrentPhase,
			"completed_jobs", len(existing.CompletedJobIDs),
			"progress", fmt.Sprintf("%.1f%%", checkpoint.GetProgressPercentage(existing)))
	} else {
		checkpointMgr = checkpoint.NewManager(sessionMgr.GetSessionDir(), cfg, logger)
	}

	poemWriter, err := writer.NewPoemWriter(sessionMgr, logger)
	if err != nil {
		return fmt.Errorf("failed to create poem writer: %w", err)
	}
	defer func() {
		if err := poemWriter.Close(); err != nil {
			logger.Error("failed to close poem writer", "error", err)
		}
	}()

	orch := orchestrator.New(cfg, store, poemCounter, poemWriter, checkpointMgr, metrics.NewCollector(logger), resumeMode, logger)
	orch.SetProgressOutput(os.Stderr)
	if !quietOutput {
		orch.OnPoem(func(r models.PoemRecord) {
			printer.Record(os.Stdout, r)
		})
	}

	if err := orch.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			sessionName := sessionMgr.GetSessionName()
			logger.Warn("Generation interrupted - resume from checkpoint", "session_dir", sessionName)
			printer.Warning("Resume with: poetforge checkpoint resume %s\n", sessionName)
			return fmt.Errorf("generation interrupted (resume with: poetforge checkpoint resume %s)", sessionName)
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	stats := orch.GetStats()
	logger.Info("Generation complete",
		"total_poems", stats.TotalPoems,
		"successful", stats.SuccessCount,
		"rejected", stats.RejectedCount,
		"failed", stats.FailureCount,
		"duration", stats.TotalDuration,
		"session_dir", sessionMgr.GetSessionDir())

	return nil
}

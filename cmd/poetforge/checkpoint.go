package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lamim/poetforge/internal/checkpoint"
	"github.com/lamim/poetforge/internal/config"
	"github.com/lamim/poetforge/internal/printer"
	"github.com/lamim/poetforge/internal/writer"
	"github.com/lamim/poetforge/pkg/models"
)

type sessionInfo struct {
	name       string
	hasCheckpt bool
	phase      string
	progress   float64
}

func newCheckpointCmd() *cobra.Command {
	var (
		configPath  string
		verbose     bool
		quietOutput bool
	)

	checkpointCmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage checkpoints",
		Long:  "Manage generation checkpoints for resuming interrupted sessions",
	}
	checkpointCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Path to configuration file")

	loadOutputDir := func(cmd *cobra.Command) (*config.Config, *config.Secrets, string, error) {
		path := resolveConfigPath(cmd, configPath)
		cfg, secrets, err := config.Load(path)
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to load configuration: %w", err)
		}
		return cfg, secrets, path, nil
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all available checkpoint sessions",
		Long:  "List all session directories in the output folder that contain checkpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := loadOutputDir(cmd)
			if err != nil {
				return err
			}
			return listCheckpoints(cmd.OutOrStdout(), cfg.Output.Dir)
		},
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect <session-dir>",
		Short: "Inspect a checkpoint",
		Long:  "Display detailed information about a checkpoint and the last archived poem of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := loadOutputDir(cmd)
			if err != nil {
				return err
			}
			return inspectCheckpoint(cmd.OutOrStdout(), cfg.Output.Dir, args[0])
		},
	}

	resumeCmd := &cobra.Command{
		Use:   "resume <session-dir>",
		Short: "Resume from a checkpoint",
		Long:  "Resume generation from a specific checkpoint session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, secrets, path, err := loadOutputDir(cmd)
			if err != nil {
				return err
			}
			return resumeFromCheckpoint(cfg, secrets, path, args[0], verbose, quietOutput)
		},
	}
	resumeCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	resumeCmd.Flags().BoolVar(&quietOutput, "quiet-output", false, "Do not print poems to stdout")

	checkpointCmd.AddCommand(listCmd)
	checkpointCmd.AddCommand(inspectCmd)
	checkpointCmd.AddCommand(resumeCmd)

	return checkpointCmd
}

// listCheckpoints lists all session directories under outputDir
func listCheckpoints(w io.Writer, outputDir string) error {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "No output directory found. Run a generation first.")
			return nil
		}
		return fmt.Errorf("failed to read output directory: %w", err)
	}

	var sessions []sessionInfo
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "session_") {
			continue
		}

		sessionPath := filepath.Join(outputDir, entry.Name())
		info := sessionInfo{name: entry.Name(), phase: "N/A"}

		if _, err := os.Stat(filepath.Join(sessionPath, checkpoint.CheckpointFilename)); err == nil {
			info.hasCheckpt = true
			if cp, err := checkpoint.Load(sessionPath, slog.Default()); err == nil {
				info.phase = string(cp.CurrentPhase)
				info.progress = checkpoint.GetProgressPercentage(cp)
			}
		}

		sessions = append(sessions, info)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(w, "No session directories found.")
		return nil
	}

	fmt.Fprintln(w, "Available sessions:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-35s %-12s %-12s %s\n", "SESSION", "CHECKPOINT", "PHASE", "PROGRESS")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, s := range sessions {
		checkpointStatus := "No"
		if s.hasCheckpt {
			checkpointStatus = "Yes"
		}
		fmt.Fprintf(w, "%-35s %-12s %-12s %.1f%%\n", s.name, checkpointStatus, s.phase, s.progress)
	}

	return nil
}

// loadSessionCheckpoint validates the session name and loads its checkpoint
func loadSessionCheckpoint(outputDir, sessionDir string) (*models.Checkpoint, string, error) {
	// Reject names that escape the output directory
	if err := writer.ValidateSessionPath(outputDir, sessionDir); err != nil {
		return nil, "", fmt.Errorf("invalid session directory: %w", err)
	}

	fullPath := filepath.Join(outputDir, sessionDir)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil, "", fmt.Errorf("session directory not found: %s", sessionDir)
	}

	cp, err := checkpoint.Load(fullPath, slog.Default())
	if err != nil {
		return nil, "", fmt.Errorf("failed to load checkpoint: %w", err)
	}
	return cp, fullPath, nil
}

// inspectCheckpoint displays detailed information about a checkpoint
func inspectCheckpoint(w io.Writer, outputDir, sessionDir string) error {
	cp, fullPath, err := loadSessionCheckpoint(outputDir, sessionDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Checkpoint Information for: %s\n", sessionDir)
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "Session ID:          %s\n", cp.SessionID)
	fmt.Fprintf(w, "Created At:          %s\n", cp.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Last Saved At:       %s\n", cp.LastSavedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Current Phase:       %s\n", cp.CurrentPhase)
	fmt.Fprintf(w, "Config Hash:         %s\n", cp.ConfigHash)
	fmt.Fprintf(w, "Poems:               %d / %d completed (%.1f%%)\n",
		checkpoint.GetCompletedCount(cp),
		checkpoint.GetTotalCount(cp),
		checkpoint.GetProgressPercentage(cp))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintf(w, "  Successful:        %d\n", cp.Stats.SuccessCount)
	fmt.Fprintf(w, "  Rejected:          %d\n", cp.Stats.RejectedCount)
	fmt.Fprintf(w, "  Failed:            %d\n", cp.Stats.FailureCount)
	fmt.Fprintf(w, "  Total Duration:    %s\n", cp.Stats.TotalDuration)
	if cp.Stats.SuccessCount > 0 {
		fmt.Fprintf(w, "  Average Duration:  %s\n", cp.Stats.AverageDuration)
	}
	fmt.Fprintln(w)

	poems, err := writer.ReadPoems(filepath.Join(fullPath, writer.PoemsFile))
	if err == nil && len(poems) > 0 {
		fmt.Fprintln(w, "Last archived poem:")
		printer.Record(w, poems[len(poems)-1])
	}

	if cp.CurrentPhase != models.PhaseComplete {
		fmt.Fprintln(w, "To resume this session, run:")
		fmt.Fprintf(w, "  poetforge checkpoint resume %s\n", sessionDir)
	} else {
		fmt.Fprintln(w, "This session is complete.")
	}

	return nil
}

// resumeFromCheckpoint resumes generation from a checkpoint
func resumeFromCheckpoint(cfg *config.Config, secrets *config.Secrets, configPath, sessionDir string, verbose, quietOutput bool) error {
	cp, fullPath, err := loadSessionCheckpoint(cfg.Output.Dir, sessionDir)
	if err != nil {
		return err
	}

	if cp.CurrentPhase == models.PhaseComplete {
		return fmt.Errorf("checkpoint is already complete, nothing to resume")
	}

	// Prefer the settings the session was started with
	effective := filepath.Join(fullPath, writer.EffectiveConfigFile)
	if _, err := os.Stat(effective); err == nil {
		sessionCfg, _, err := config.Load(effective)
		if err != nil {
			return fmt.Errorf("failed to load session configuration: %w", err)
		}
		sessionCfg.Output.Dir = cfg.Output.Dir
		cfg = sessionCfg
	}

	if err := checkpoint.ValidateCheckpoint(cp, cfg); err != nil {
		return printer.Error("Checkpoint does not match the configuration",
			err.Error(),
			[]string{
				"Resume with the configuration the session was started with",
				"Start a new session with poetforge generate",
			})
	}

	cfg.Generation.ResumeFromSession = sessionDir

	printer.Info("Resuming generation from checkpoint: %s\n", sessionDir)
	fmt.Printf("Phase: %s, Progress: %.1f%%\n\n", cp.CurrentPhase, checkpoint.GetProgressPercentage(cp))

	return runSession(cfg, secrets, configPath, verbose, quietOutput)
}

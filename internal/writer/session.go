package writer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// SessionTimeFormat is the timestamp layout used in session directory names
const SessionTimeFormat = "2006-01-02T15-04-05"

// File names inside a session directory
const (
	PoemsFile           = "poems.jsonl"
	EffectiveConfigFile = "effective_config.toml"
)

// SessionManager manages session directories and files
type SessionManager struct {
	outputDir  string
	sessionDir string
	resumed    bool
	logger     *slog.Logger
}

// NewSessionManager creates a timestamped session directory under outputDir, or
// reopens resumeFromSession when it is set
func NewSessionManager(outputDir string, logger *slog.Logger, resumeFromSession string) (*SessionManager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var sessionDir string
	if resumeFromSession != "" {
		if err := ValidateSessionPath(outputDir, resumeFromSession); err != nil {
			return nil, err
		}
		sessionDir = filepath.Join(outputDir, resumeFromSession)
		if _, err := os.Stat(sessionDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("session directory not found: %s", sessionDir)
		}
		logger.Info("Resuming from existing session", "path", sessionDir)
	} else {
		timestamp := time.Now().Format(SessionTimeFormat)
		sessionDir = filepath.Join(outputDir, "session_"+timestamp)

		if err := os.MkdirAll(sessionDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}

		logger.Info("Created new session directory", "path", sessionDir)
	}

	return &SessionManager{
		outputDir:  outputDir,
		sessionDir: sessionDir,
		resumed:    resumeFromSession != "",
		logger:     logger,
	}, nil
}

// SetLogger replaces the logger once the session log exists
func (sm *SessionManager) SetLogger(logger *slog.Logger) {
	sm.logger = logger
}

// Resumed reports whether the session was reopened
func (sm *SessionManager) Resumed() bool {
	return sm.resumed
}

// GetSessionDir returns the session directory path
func (sm *SessionManager) GetSessionDir() string {
	return sm.sessionDir
}

// GetSessionName returns the session directory name
func (sm *SessionManager) GetSessionName() string {
	return filepath.Base(sm.sessionDir)
}

// GetPoemsPath returns the full path to the poem archive
func (sm *SessionManager) GetPoemsPath() string {
	return filepath.Join(sm.sessionDir, PoemsFile)
}

// GetLogPath returns the full path to the session log file
func (sm *SessionManager) GetLogPath() string {
	return filepath.Join(sm.sessionDir, "session.log")
}

// GetConfigBackupPath returns the full path to the config backup
func (sm *SessionManager) GetConfigBackupPath() string {
	return filepath.Join(sm.sessionDir, "config.toml.bak")
}

// GetEffectiveConfigPath returns the path of the configuration the session
// ran with, CLI overrides included
func (sm *SessionManager) GetEffectiveConfigPath() string {
	return filepath.Join(sm.sessionDir, EffectiveConfigFile)
}

// BackupConfig copies the config file to the session directory
func (sm *SessionManager) BackupConfig(configPath string) error {
	source, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	backupPath := sm.GetConfigBackupPath()
	if err := os.WriteFile(backupPath, source, 0644); err != nil {
		return fmt.Errorf("failed to write config backup: %w", err)
	}

	sm.logger.Info("Backed up config file", "path", backupPath)
	return nil
}

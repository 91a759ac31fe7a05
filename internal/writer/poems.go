package writer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/lamim/poetforge/pkg/models"
)

// PoemWriter appends poem records to the session archive, one JSON object per line
type PoemWriter struct {
	file   *os.File
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewPoemWriter opens the session archive. A resumed session appends to the
// existing file; a new session truncates it.
func NewPoemWriter(sessionMgr *SessionManager, logger *slog.Logger) (*PoemWriter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	path := sessionMgr.GetPoemsPath()

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if sessionMgr.Resumed() {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open poem archive: %w", err)
	}

	logger.Info("Opened poem archive", "path", path, "append", sessionMgr.Resumed())

	return &PoemWriter{
		file:   file,
		logger: logger,
	}, nil
}

// WriteRecord writes a single poem record
func (pw *PoemWriter) WriteRecord(record models.PoemRecord) error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if _, err := pw.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	pw.count++

	return nil
}

// Count returns the number of records written by this writer
func (pw *PoemWriter) Count() int {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	return pw.count
}

// Close syncs and closes the archive
func (pw *PoemWriter) Close() error {
	if err := pw.file.Sync(); err != nil {
		pw.logger.Warn("Failed to sync poem archive", "error", err)
	}

	if err := pw.file.Close(); err != nil {
		return fmt.Errorf("failed to close poem archive: %w", err)
	}

	pw.logger.Info("Closed poem archive", "records", pw.count)
	return nil
}

// ReadPoems loads every record from a poem archive
func ReadPoems(path string) ([]models.PoemRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open poem archive: %w", err)
	}
	defer file.Close()

	var records []models.PoemRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var record models.PoemRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse record: %w", line, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read poem archive: %w", err)
	}
	return records, nil
}

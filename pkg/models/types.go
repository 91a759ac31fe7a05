package models

import "time"

// Style selects which subset of sentence structures a poem may use
type Style string

const (
	// StyleQuiet restricts generation to the original low-complexity structures
	StyleQuiet Style = "quiet"
	// StyleBold allows every structure in the table
	StyleBold Style = "bold"
)

// Valid reports whether s is a known style
func (s Style) Valid() bool {
	return s == StyleQuiet || s == StyleBold
}

// PoemRecord represents a single archived poem
type PoemRecord struct {
	ID             string    `json:"id"`
	Number         int64     `json:"number"`
	Title          string    `json:"title"`
	Style          Style     `json:"style"`
	Stanzas        int       `json:"stanzas"`
	LinesPerStanza int       `json:"lines_per_stanza"`
	UseRhyme       bool      `json:"use_rhyme"`
	RhymeScheme    string    `json:"rhyme_scheme,omitempty"`
	Lines          []string  `json:"lines"`
	CreatedAt      time.Time `json:"created_at"`
}

// GenerationJob represents a request to generate one poem in a batch
type GenerationJob struct {
	ID int `json:"id"`
}

// GenerationResult represents the result of one generation job
type GenerationResult struct {
	Job      GenerationJob
	Record   *PoemRecord
	Error    error
	Duration time.Duration
}

// SessionStats tracks statistics for a generation session
type SessionStats struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalPoems      int
	SuccessCount    int
	FailureCount    int
	RejectedCount   int // Poems generated but failing validation
	TotalDuration   time.Duration
	AverageDuration time.Duration
}

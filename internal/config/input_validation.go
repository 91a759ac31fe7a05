package config

import (
	"fmt"
	"net/url"
	"unicode"
)

const (
	// MaxTemplateSize is the maximum allowed size for the title template
	MaxTemplateSize = 4 * 1024

	// MaxPathLength is the maximum allowed length for configured paths
	MaxPathLength = 4096
)

// ValidateInputs performs additional validation on user-controllable strings
func (c *Config) ValidateInputs() error {
	if len(c.Output.TitleTemplate) > MaxTemplateSize {
		return fmt.Errorf("output.title_template exceeds maximum size of %d bytes (got %d)",
			MaxTemplateSize, len(c.Output.TitleTemplate))
	}
	if containsControlChars(c.Output.TitleTemplate) {
		return fmt.Errorf("output.title_template contains invalid control characters")
	}

	paths := []struct {
		name  string
		value string
	}{
		{"lexicon.path", c.Lexicon.Path},
		{"output.dir", c.Output.Dir},
		{"generation.resume_from_session", c.Generation.ResumeFromSession},
		{"counter.redis_addr", c.Counter.RedisAddr},
	}
	for _, p := range paths {
		if len(p.value) > MaxPathLength {
			return fmt.Errorf("%s exceeds maximum length of %d (got %d)", p.name, MaxPathLength, len(p.value))
		}
		if containsControlChars(p.value) {
			return fmt.Errorf("%s contains invalid control characters", p.name)
		}
	}

	for _, origin := range c.Server.AllowedOrigins {
		if err := validateOrigin(origin); err != nil {
			return err
		}
	}

	return nil
}

// validateOrigin accepts "*" or an http(s) origin with a host
func validateOrigin(origin string) error {
	if origin == "*" {
		return nil
	}

	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("server.allowed_origins entry %q is invalid: %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.allowed_origins entry %q must use http or https scheme (got %s)", origin, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server.allowed_origins entry %q must have a host", origin)
	}
	return nil
}

// containsControlChars checks if a string contains control characters
// (excluding newlines, tabs, and carriage returns which are acceptable)
func containsControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return true
		}
	}
	return false
}

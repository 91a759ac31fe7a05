package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lamim/poetforge/internal/grammar"
	"github.com/lamim/poetforge/internal/poet"
	"github.com/lamim/poetforge/internal/util"
	"github.com/lamim/poetforge/pkg/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type poemResponse struct {
	Number  int64        `json:"number,omitempty"`
	Title   string       `json:"title,omitempty"`
	Lines   []string     `json:"lines"`
	Stanzas [][]string   `json:"stanzas"`
	Options poet.Options `json:"options"`
}

type rhymesResponse struct {
	Rhymes []grammar.Rhyme `json:"rhymes"`
}

type normalizeResponse struct {
	Input string        `json:"input"`
	Rhyme grammar.Rhyme `json:"rhyme"`
	Known bool          `json:"known"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// poemOptions starts from the configured generation settings and applies
// query overrides: style, stanzas, lines, rhyme, scheme
func (s *Server) poemOptions(r *http.Request) (poet.Options, error) {
	opts := s.cfg.Generation.Options()
	q := r.URL.Query()

	if v := q.Get("style"); v != "" {
		opts.Style = models.Style(v)
	}
	if v := q.Get("stanzas"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New("'stanzas' must be an integer")
		}
		opts.Stanzas = n
	}
	if v := q.Get("lines"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New("'lines' must be an integer")
		}
		opts.LinesPerStanza = n
	}
	if v := q.Get("scheme"); v != "" {
		opts.Scheme = grammar.Rhyme(v)
		opts.UseRhyme = true
	}
	if v := q.Get("rhyme"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New("'rhyme' must be a boolean")
		}
		opts.UseRhyme = b
	}
	return opts, opts.Validate()
}

func (s *Server) handlePoem(w http.ResponseWriter, r *http.Request) {
	opts, err := s.poemOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.engineMu.Lock()
	poem, err := s.engine.Generate(opts)
	s.engineMu.Unlock()
	if err != nil {
		s.logger.Error("Poem generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "poem generation failed")
		return
	}

	resp := poemResponse{
		Lines:   poem.Lines,
		Stanzas: poem.Stanzas(),
		Options: poem.Options,
	}
	if s.counter != nil {
		n, err := s.counter.Next(r.Context())
		if err != nil {
			s.logger.Error("Failed to number poem", "error", err)
			writeError(w, http.StatusInternalServerError, "poem counter unavailable")
			return
		}
		title, err := util.RenderTemplate(s.cfg.Output.TitleTemplate, map[string]any{
			"Number": n,
			"Style":  string(poem.Options.Style),
		})
		if err != nil {
			s.logger.Warn("Failed to render title", "error", err)
		}
		resp.Number = n
		resp.Title = title
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRhymes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rhymesResponse{Rhymes: grammar.AllRhymes})
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("scheme")
	if input == "" {
		writeError(w, http.StatusBadRequest, "missing 'scheme' query parameter")
		return
	}
	rhyme := grammar.NormalizeRhymeScheme(input)
	writeJSON(w, http.StatusOK, normalizeResponse{
		Input: input,
		Rhyme: rhyme,
		Known: rhyme != grammar.RhymeNone,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package promotion

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Source loads promotion records from some backing store.
type Source interface {
	Load(ctx context.Context) ([]Promotion, error)
}

// FileSource reads a JSON array of promotion objects.
type FileSource struct {
	Path string
}

var _ Source = (*FileSource)(nil)

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Load(ctx context.Context) ([]Promotion, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}

	var promotions []Promotion
	if err := json.Unmarshal(raw, &promotions); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return promotions, nil
}

// Store is the read-only in-memory promotion list. Built once at bootstrap;
// safe for concurrent reads.
type Store struct {
	promotions []Promotion
	byID       map[string]Promotion
}

// NewStore loads the source eagerly. Load failures are logged and degrade to
// an empty list so the rest of the agent keeps functioning.
func NewStore(ctx context.Context, src Source) *Store {
	promotions, err := src.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("promotions load failed, starting with empty list")
		promotions = nil
	}

	byID := make(map[string]Promotion, len(promotions))
	for _, p := range promotions {
		byID[p.ID] = p
	}

	log.Info().Int("promotions", len(promotions)).Msg("promotions loaded")

	return &Store{promotions: promotions, byID: byID}
}

// Search returns every promotion that is available at the given instant and
// satisfies the filter. An empty result is a valid outcome, not an error.
func (s *Store) Search(f Filter, at time.Time) []Promotion {
	var matches []Promotion
	for _, p := range s.promotions {
		if !p.Availability.Covers(at) {
			continue
		}
		if !p.Matches(f) {
			continue
		}
		matches = append(matches, p)
	}
	return matches
}

// ListAvailable returns every promotion whose window covers the instant.
func (s *Store) ListAvailable(at time.Time) []Promotion {
	return s.Search(Filter{}, at)
}

// Get looks up a promotion by id. A missing id is a false flag, not an error.
func (s *Store) Get(id string) (Promotion, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Len reports how many promotions were loaded, available or not.
func (s *Store) Len() int {
	return len(s.promotions)
}

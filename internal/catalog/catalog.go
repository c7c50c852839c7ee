// Package catalog supplies candidate videos for pack building.
// Sources may return fewer results than desired or none at all; an empty
// pool is a normal result, not an error. Errors are transport-level only.
package catalog

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/commute-coach/internal/types"
)

// Source fetches candidate videos for a topic. The level is a hint: sources
// that know levels may pre-filter on it, others return everything and leave
// strict filtering to the pack builder.
type Source interface {
	Name() string
	Fetch(ctx context.Context, topic string, level types.Level) ([]types.Candidate, error)
}

// Error represents a catalog transport failure.
type Error struct {
	Source  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("catalog source %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("catalog source %s: %s", e.Source, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// MultiSource fans a fetch out across several sources and merges the
// results, deduplicating by candidate id (first source wins).
type MultiSource struct {
	sources []Source
}

// NewMultiSource creates a MultiSource over the given sources.
func NewMultiSource(sources ...Source) *MultiSource {
	return &MultiSource{sources: sources}
}

// Name implements Source.
func (m *MultiSource) Name() string { return "multi" }

// Fetch queries all sources concurrently. A source failure is tolerated as
// long as at least one source succeeds; if every source fails, the first
// error is returned.
func (m *MultiSource) Fetch(ctx context.Context, topic string, level types.Level) ([]types.Candidate, error) {
	if len(m.sources) == 0 {
		return nil, nil
	}

	// Collected per source index so the merge order matches the configured
	// source order regardless of which fetch finishes first.
	results := make([][]types.Candidate, len(m.sources))
	errs := make([]error, len(m.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range m.sources {
		g.Go(func() error {
			candidates, err := src.Fetch(gctx, topic, level)
			if err != nil {
				log.Printf("[catalog] source %s failed: %v", src.Name(), err)
				errs[i] = err
				return nil
			}
			results[i] = candidates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []types.Candidate
	succeeded := 0
	var firstErr error
	for i := range m.sources {
		if errs[i] != nil {
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		succeeded++
		merged = append(merged, results[i]...)
	}

	if succeeded == 0 && firstErr != nil {
		return nil, firstErr
	}

	return dedupeByID(merged), nil
}

// dedupeByID keeps the first candidate seen for each id.
func dedupeByID(candidates []types.Candidate) []types.Candidate {
	seen := make(map[string]bool, len(candidates))
	out := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

// Package services – WordService
//
// This file implements WordService, the application-level store adapter used
// by both the scheduled pipeline and the HTTP handlers. It wraps the repo
// layer and applies the error policy the callers rely on: writes and history
// reads degrade to a boolean / empty result instead of propagating, so a
// flaky database can never crash a pipeline run, while list/random reads
// keep their errors for the HTTP layer to translate into status codes.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/asukai/go-word-backend/internal/domain"
	"github.com/asukai/go-word-backend/internal/repo"
)

// WordRepo defines the repository contract required by WordService.
// Implementations are responsible for persistence of word entries.
type WordRepo interface {
	// CreateWord inserts a new entry from a generated payload.
	CreateWord(ctx context.Context, db *gorm.DB, g domain.GeneratedWord) (*domain.WordEntry, error)

	// ListWords returns up to limit entries, most-recent first.
	ListWords(ctx context.Context, db *gorm.DB, limit int) ([]domain.WordEntry, error)

	// RecentWords returns up to count word strings, most-recent first.
	RecentWords(ctx context.Context, db *gorm.DB, count int) ([]string, error)

	// RandomWord fetches one random entry, or repo.ErrNotFound when empty.
	RandomWord(ctx context.Context, db *gorm.DB) (*domain.WordEntry, error)
}

// WordService provides store operations for words with the degradation
// semantics the pipeline expects.
type WordService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the word repository used by this service.
	Repo WordRepo
}

// NewWordService constructs a WordService over the given handle.
func NewWordService(db *gorm.DB, r WordRepo) *WordService {
	return &WordService{DB: db, Repo: r}
}

// Save persists a generated word and reports success. Persistence errors are
// logged and reported as false, never propagated: the pipeline continues to
// notification with the failure flag instead.
func (s *WordService) Save(ctx context.Context, g domain.GeneratedWord) bool {
	if err := g.Validate(); err != nil {
		log.Error().Err(err).Str("word", g.Word).Msg("refusing to save incomplete word")
		return false
	}
	if _, err := s.Repo.CreateWord(ctx, s.DB, g); err != nil {
		log.Error().Err(err).Str("word", g.Word).Msg("failed to save word")
		return false
	}
	return true
}

// RecentWords returns up to n recently generated word strings, most-recent
// first. On any store error it returns an empty slice: callers treat empty
// as "no exclusions available", not as a fatal condition.
func (s *WordService) RecentWords(ctx context.Context, n int) []string {
	words, err := s.Repo.RecentWords(ctx, s.DB, n)
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch recent words; proceeding without exclusions")
		return []string{}
	}
	return words
}

// List returns up to limit entries, most-recent first.
func (s *WordService) List(ctx context.Context, limit int) ([]domain.WordEntry, error) {
	return s.Repo.ListWords(ctx, s.DB, limit)
}

// RandomOne fetches one random entry. It returns ErrWordNotFound when the
// table is empty; other store errors are passed through.
func (s *WordService) RandomOne(ctx context.Context) (*domain.WordEntry, error) {
	e, err := s.Repo.RandomWord(ctx, s.DB)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrWordNotFound
		}
		return nil, err
	}
	return e, nil
}

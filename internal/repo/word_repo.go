// Package repo implements the data persistence layer for word entries,
// backed by GORM. This file provides repository functions for the words table.
//
// All functions are context-aware and accept a *gorm.DB handle. They follow
// the "thin repository" approach: no business logic, only CRUD persistence
// and query composition.
//
// Error semantics:
//   - When no word exists, RandomWord returns gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated. Converting failures into the
//     best-effort results the pipeline expects is the service layer's job.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/asukai/go-word-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateWord inserts a new word row from a generated payload. CreatedAt is
// set to UTC; the ID is assigned by SQLite.
//
// On success, it returns the persisted entry. On failure, it returns a DB error.
func CreateWord(ctx context.Context, db *gorm.DB, g domain.GeneratedWord) (*domain.WordEntry, error) {
	e := g.Entry()
	e.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ListWords returns up to limit entries ordered most-recent first
// (descending ID). It returns an empty slice when the table is empty.
func ListWords(ctx context.Context, db *gorm.DB, limit int) ([]domain.WordEntry, error) {
	var out []domain.WordEntry
	q := db.WithContext(ctx).Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// RecentWords returns up to count word strings, most-recent first. Only the
// word column is selected; the result feeds the generator's exclusion list.
func RecentWords(ctx context.Context, db *gorm.DB, count int) ([]string, error) {
	var words []string
	err := db.WithContext(ctx).
		Model(&domain.WordEntry{}).
		Order("id desc").
		Limit(count).
		Pluck("word", &words).Error
	return words, err
}

// RandomWord fetches one entry using SQLite's RANDOM() ordering. If the
// table is empty, it returns ErrNotFound.
func RandomWord(ctx context.Context, db *gorm.DB) (*domain.WordEntry, error) {
	var e domain.WordEntry
	err := db.WithContext(ctx).
		Order("RANDOM()").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CountWords uses a raw COUNT so a missing table surfaces as an error.
func CountWords(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM words").Scan(&total).Error
	return total, err
}

// Package domain defines the persistence model for generated vocabulary
// entries. The single WordEntry type is mapped with GORM and forms the data
// layer of the word-of-the-day backend.
package domain

import (
	"errors"
	"time"
)

// WordEntry represents one persisted vocabulary record: an English word, its
// Japanese translation, and an example sentence with translation.
//
// Fields:
//   - ID: auto-incremented surrogate key; descending ID is the recency order.
//   - Word / Translate: required text columns.
//   - Example / ExampleTranslate: required in the current schema revision.
//   - CreatedAt: insertion timestamp.
//
// Rows are insert-only: entries are never updated or deleted, and the table
// is allowed to grow without a retention policy.
type WordEntry struct {
	ID               int64     `json:"id"               gorm:"primaryKey;autoIncrement"`
	Word             string    `json:"word"             gorm:"type:text;not null"`
	Translate        string    `json:"translate"        gorm:"type:text;not null"`
	Example          string    `json:"example"          gorm:"type:text;not null"`
	ExampleTranslate string    `json:"exampleTranslate" gorm:"column:example_translate;type:text;not null"`
	CreatedAt        time.Time `json:"createdAt"`
}

// TableName returns the database table name for WordEntry.
func (WordEntry) TableName() string { return "words" }

// GeneratedWord is the transient payload produced by the generator and
// consumed by the store and the notifier. It is a WordEntry minus the
// store-assigned ID and timestamp.
type GeneratedWord struct {
	Word             string `json:"word"`
	Translate        string `json:"translate"`
	Example          string `json:"example"`
	ExampleTranslate string `json:"exampleTranslate"`
}

// ErrIncompleteWord indicates a generated payload with one or more empty fields.
var ErrIncompleteWord = errors.New("generated word has empty fields")

// Validate reports whether all four fields are non-empty. Partial payloads
// must never reach the store.
func (g GeneratedWord) Validate() error {
	if g.Word == "" || g.Translate == "" || g.Example == "" || g.ExampleTranslate == "" {
		return ErrIncompleteWord
	}
	return nil
}

// Entry converts the payload into a WordEntry ready for insertion. ID and
// CreatedAt are left for the store to assign.
func (g GeneratedWord) Entry() WordEntry {
	return WordEntry{
		Word:             g.Word,
		Translate:        g.Translate,
		Example:          g.Example,
		ExampleTranslate: g.ExampleTranslate,
	}
}

// Package pipeline orchestrates one scheduled word run:
// fetch history → generate → persist → notify.
//
// Error policy, in order of the steps:
//   - history fetch failure is non-fatal (run proceeds with no exclusions)
//   - generation failure aborts the run: nothing is saved or announced
//   - persistence failure is non-fatal and surfaced in the announcement
//   - notification failure is terminal but only logged
//
// Run never returns an error to its invoker; the timer driving it has no
// retry contract to honor. Everything the run did (or failed to do) is
// captured in the returned Outcome so tests and logs can inspect it.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/asukai/go-word-backend/internal/domain"
)

// WordStore is the persistence contract the pipeline depends on.
type WordStore interface {
	// Save persists a generated word, reporting success without raising.
	Save(ctx context.Context, g domain.GeneratedWord) bool
	// RecentWords returns up to n recently stored word strings; an empty
	// slice means "no exclusions available".
	RecentWords(ctx context.Context, n int) []string
}

// Generator produces one new word, avoiding the excluded ones best-effort.
type Generator interface {
	Generate(ctx context.Context, excludeWords []string) (*domain.GeneratedWord, error)
}

// Notifier announces a word to the chat channel. A non-nil persisted flag
// embeds the storage outcome into the message.
type Notifier interface {
	Notify(ctx context.Context, w domain.GeneratedWord, persisted *bool) bool
}

// Trigger describes the timer firing that started a run. It is used only
// for diagnostics.
type Trigger struct {
	// Schedule is the human-readable schedule descriptor (e.g. a cron
	// expression or interval label).
	Schedule string
	// FiredAt is when the timer fired.
	FiredAt time.Time
}

// Outcome records what a single run did.
type Outcome struct {
	// Generated is the word produced this run, nil when generation failed.
	Generated *domain.GeneratedWord
	// Saved reports whether persistence succeeded.
	Saved bool
	// Notified reports whether the announcement was delivered.
	Notified bool
	// Err is set when the run aborted (generation failure or recovered panic).
	Err error
}

// Pipeline wires the three adapters into the scheduled workflow.
type Pipeline struct {
	Store     WordStore
	Generator Generator
	Notifier  Notifier

	// HistorySize is how many recent words feed the exclusion list.
	HistorySize int
}

// New constructs a Pipeline with the default exclusion window.
func New(store WordStore, gen Generator, notifier Notifier) *Pipeline {
	return &Pipeline{
		Store:       store,
		Generator:   gen,
		Notifier:    notifier,
		HistorySize: 30,
	}
}

// Run executes one full generate→persist→notify sequence. It recovers any
// panic at this boundary so the scheduler can never be crashed by a run.
func (p *Pipeline) Run(ctx context.Context, trigger Trigger) (out Outcome) {
	// Registered before the recover handler so the counter sees the final
	// outcome, including a recovered panic.
	defer func() { runsTotal.WithLabelValues(out.result()).Inc() }()
	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("pipeline panic: %v", r)
			log.Error().Err(out.Err).Msg("word pipeline run aborted")
		}
	}()

	log.Info().Str("schedule", trigger.Schedule).Time("fired_at", trigger.FiredAt).
		Msg("word pipeline run started")

	exclude := p.Store.RecentWords(ctx, p.HistorySize)

	word, err := p.Generator.Generate(ctx, exclude)
	if err != nil {
		// The only fatal-abort point: no persistence, no notification.
		out.Err = fmt.Errorf("generate word: %w", err)
		log.Error().Err(err).Msg("failed to generate word data, aborting run")
		return out
	}
	out.Generated = word

	out.Saved = p.Store.Save(ctx, *word)
	if !out.Saved {
		log.Error().Str("word", word.Word).Msg("failed to save word, continuing to notification")
	}

	out.Notified = p.Notifier.Notify(ctx, *word, &out.Saved)
	if !out.Notified {
		log.Error().Str("word", word.Word).Msg("failed to announce word")
	}

	log.Info().Str("word", word.Word).Bool("saved", out.Saved).Bool("notified", out.Notified).
		Msg("word pipeline run finished")
	return out
}

// Word HTTP handlers.
//
// This file exposes the public endpoints of the word backend:
//   - GET  /               (liveness message)
//   - GET  /word-list      (last 10 entries, newest first)
//   - POST /word-list/random (random entry → Slack, challenge echo)
//
// Handlers are transport-thin: they validate input, call the word service
// and notifier, and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asukai/go-word-backend/internal/domain"
	"github.com/asukai/go-word-backend/internal/services"
)

// listLimit is the fixed window returned by GET /word-list.
const listLimit = 10

// defaultChallenge is echoed when the request body is absent or unparseable.
const defaultChallenge = "challenge"

//
// Service contracts (context-aware)
//

// WordService defines the store operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type WordService interface {
	// List returns up to limit entries, most-recent first.
	List(ctx context.Context, limit int) ([]domain.WordEntry, error)
	// RandomOne fetches one random entry, or services.ErrWordNotFound when
	// the store is empty.
	RandomOne(ctx context.Context) (*domain.WordEntry, error)
}

// Notifier announces a word to the chat channel, reporting success without
// raising.
type Notifier interface {
	Notify(ctx context.Context, w domain.GeneratedWord, persisted *bool) bool
}

//
// Handler wiring
//

// Handlers groups the word endpoints. It depends on abstract contracts to
// keep transport concerns separate from the adapters.
type Handlers struct {
	wordSvc  WordService
	notifier Notifier
}

// New constructs a Handlers instance bound to the given collaborators.
func New(wordSvc WordService, notifier Notifier) *Handlers {
	return &Handlers{wordSvc: wordSvc, notifier: notifier}
}

// Root responds with a plain-text liveness message.
func (h *Handlers) Root(c *gin.Context) {
	c.String(http.StatusOK, "word backend is running")
}

// ListWords returns the 10 most recent entries as a JSON array, newest
// first. A store failure yields 500 with the standard envelope.
func (h *Handlers) ListWords(c *gin.Context) {
	list, err := h.wordSvc.List(c.Request.Context(), listLimit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "failed to fetch word list")
		return
	}
	if list == nil {
		list = []domain.WordEntry{}
	}
	ok(c, http.StatusOK, list)
}

// randomRequest is the optional JSON body of POST /word-list/random. Slack
// sends a challenge token during endpoint verification; it must be echoed
// back as plain text.
type randomRequest struct {
	Challenge string `json:"challenge"`
}

// RandomWord picks one stored entry at random, announces it to the chat
// channel, and echoes the request's challenge token.
//
// Responses:
//   - 200 plain-text challenge echo when the notification succeeded
//   - 404 when the store is empty
//   - 500 when the store read or the notification failed
func (h *Handlers) RandomWord(c *gin.Context) {
	body := randomRequest{Challenge: defaultChallenge}
	if err := c.ShouldBindJSON(&body); err != nil {
		// Absent or unparseable body: keep the literal default.
		body.Challenge = defaultChallenge
	}

	entry, err := h.wordSvc.RandomOne(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrWordNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no words found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to fetch random word")
		return
	}

	word := domain.GeneratedWord{
		Word:             entry.Word,
		Translate:        entry.Translate,
		Example:          entry.Example,
		ExampleTranslate: entry.ExampleTranslate,
	}

	// On-demand posts carry no persistence marker: nothing was written.
	if !h.notifier.Notify(c.Request.Context(), word, nil) {
		fail(c, http.StatusInternalServerError, ErrCodeNotifyFailed, "failed to post to slack")
		return
	}

	c.String(http.StatusOK, body.Challenge)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/asukai/go-word-backend/internal/domain"
	"github.com/asukai/go-word-backend/internal/repo"
	"github.com/asukai/go-word-backend/internal/services"
)

// ---------- test DB + repo shim ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:word_handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.WordEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testWordRepo struct{}

func (testWordRepo) CreateWord(ctx context.Context, db *gorm.DB, g domain.GeneratedWord) (*domain.WordEntry, error) {
	return repo.CreateWord(ctx, db, g)
}

func (testWordRepo) ListWords(ctx context.Context, db *gorm.DB, limit int) ([]domain.WordEntry, error) {
	return repo.ListWords(ctx, db, limit)
}

func (testWordRepo) RecentWords(ctx context.Context, db *gorm.DB, count int) ([]string, error) {
	return repo.RecentWords(ctx, db, count)
}

func (testWordRepo) RandomWord(ctx context.Context, db *gorm.DB) (*domain.WordEntry, error) {
	return repo.RandomWord(ctx, db)
}

// ---------- stubs ----------

type stubWordSvc struct {
	list      func(context.Context, int) ([]domain.WordEntry, error)
	randomOne func(context.Context) (*domain.WordEntry, error)
}

func (s stubWordSvc) List(ctx context.Context, limit int) ([]domain.WordEntry, error) {
	if s.list != nil {
		return s.list(ctx, limit)
	}
	return nil, nil
}

func (s stubWordSvc) RandomOne(ctx context.Context) (*domain.WordEntry, error) {
	if s.randomOne != nil {
		return s.randomOne(ctx)
	}
	return &domain.WordEntry{ID: 1, Word: "w", Translate: "t", Example: "e", ExampleTranslate: "et"}, nil
}

type stubNotifier struct {
	ok       bool
	calls    int
	lastWord domain.GeneratedWord
}

func (n *stubNotifier) Notify(_ context.Context, w domain.GeneratedWord, _ *bool) bool {
	n.calls++
	n.lastWord = w
	return n.ok
}

func newRouter(svc WordService, notifier Notifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(svc, notifier)
	r.GET("/", h.Root)
	r.GET("/word-list", h.ListWords)
	r.POST("/word-list/random", h.RandomWord)
	return r
}

// ---------- tests ----------

func TestRoot(t *testing.T) {
	r := newRouter(stubWordSvc{}, &stubNotifier{ok: true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Fatal("empty liveness body")
	}
}

func TestListWords_ReturnsLastTenNewestFirst(t *testing.T) {
	db := newHandlerDB(t)
	svc := services.NewWordService(db, testWordRepo{})
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		svc.Save(ctx, domain.GeneratedWord{
			Word:             fmt.Sprintf("word-%02d", i),
			Translate:        "訳",
			Example:          "ex",
			ExampleTranslate: "例訳",
		})
	}

	r := newRouter(svc, &stubNotifier{ok: true})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/word-list", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var list []domain.WordEntry
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 10 {
		t.Fatalf("len = %d, want 10", len(list))
	}
	if list[0].Word != "word-11" {
		t.Errorf("first = %q, want word-11 (newest)", list[0].Word)
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID <= list[i].ID {
			t.Fatalf("not newest-first: %+v", list)
		}
	}
}

func TestListWords_StoreFailure(t *testing.T) {
	svc := stubWordSvc{list: func(context.Context, int) ([]domain.WordEntry, error) {
		return nil, errors.New("db down")
	}}
	r := newRouter(svc, &stubNotifier{ok: true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/word-list", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Code != ErrCodeListFailed {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestListWords_EmptyStoreIsEmptyArray(t *testing.T) {
	db := newHandlerDB(t)
	r := newRouter(services.NewWordService(db, testWordRepo{}), &stubNotifier{ok: true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/word-list", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Body.String(); got != "[]" {
		t.Fatalf("body = %q, want empty JSON array", got)
	}
}

func TestRandomWord_ChallengeEcho(t *testing.T) {
	notifier := &stubNotifier{ok: true}
	r := newRouter(stubWordSvc{}, notifier)

	body := bytes.NewBufferString(`{"challenge":"abc123"}`)
	req := httptest.NewRequest(http.MethodPost, "/word-list/random", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "abc123" {
		t.Fatalf("body = %q, want plain-text challenge echo", w.Body.String())
	}
	if notifier.calls != 1 {
		t.Errorf("Notify called %d times", notifier.calls)
	}
	if notifier.lastWord.Word != "w" {
		t.Errorf("notified word = %q", notifier.lastWord.Word)
	}
}

func TestRandomWord_DefaultChallengeOnBadBody(t *testing.T) {
	r := newRouter(stubWordSvc{}, &stubNotifier{ok: true})

	for _, body := range []*bytes.Buffer{
		bytes.NewBufferString(""),           // absent
		bytes.NewBufferString("not json{{"), // unparseable
	} {
		req := httptest.NewRequest(http.MethodPost, "/word-list/random", body)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if w.Body.String() != "challenge" {
			t.Fatalf("body = %q, want literal default challenge", w.Body.String())
		}
	}
}

func TestRandomWord_EmptyStoreIs404(t *testing.T) {
	db := newHandlerDB(t)
	r := newRouter(services.NewWordService(db, testWordRepo{}), &stubNotifier{ok: true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/word-list/random", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Code != ErrCodeNotFound {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestRandomWord_StoreErrorIs500(t *testing.T) {
	svc := stubWordSvc{randomOne: func(context.Context) (*domain.WordEntry, error) {
		return nil, errors.New("db down")
	}}
	r := newRouter(svc, &stubNotifier{ok: true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/word-list/random", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestRandomWord_NotifyFailureIs500(t *testing.T) {
	r := newRouter(stubWordSvc{}, &stubNotifier{ok: false})

	body := bytes.NewBufferString(`{"challenge":"abc123"}`)
	req := httptest.NewRequest(http.MethodPost, "/word-list/random", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 despite challenge", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Code != ErrCodeNotifyFailed {
		t.Errorf("code = %q", resp.Code)
	}
}

package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asukai/go-word-backend/internal/domain"
)

func testWord() domain.GeneratedWord {
	return domain.GeneratedWord{
		Word:             "negotiate",
		Translate:        "交渉する",
		Example:          "We need to negotiate the terms.",
		ExampleTranslate: "条件を交渉する必要があります。",
	}
}

func newTestClient(t *testing.T, responseBody string) (*Client, *map[string]string) {
	t.Helper()

	captured := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat.postMessage" {
			t.Errorf("path = %q", r.URL.Path)
		}
		captured["authorization"] = r.Header.Get("Authorization")

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		captured["channel"] = body["channel"]
		captured["text"] = body["text"]

		fmt.Fprint(w, responseBody)
	}))
	t.Cleanup(srv.Close)

	return NewClient("xoxb-test", "C123", srv.URL), &captured
}

func TestNotify_Success(t *testing.T) {
	c, captured := newTestClient(t, `{"ok":true,"channel":"C123","ts":"1"}`)

	if !c.Notify(context.Background(), testWord(), nil) {
		t.Fatal("Notify = false, want true")
	}
	if (*captured)["authorization"] != "Bearer xoxb-test" {
		t.Errorf("authorization = %q", (*captured)["authorization"])
	}
	if (*captured)["channel"] != "C123" {
		t.Errorf("channel = %q", (*captured)["channel"])
	}
	text := (*captured)["text"]
	for _, want := range []string{"今日の英単語", "negotiate", "交渉する", "We need to negotiate the terms."} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q: %s", want, text)
		}
	}
	// No persistence marker on plain notifications.
	if strings.Contains(text, "保存") {
		t.Errorf("unexpected storage marker: %s", text)
	}
}

func TestNotify_PersistenceMarkers(t *testing.T) {
	okFlag, failFlag := true, false

	success := FormatMessage(testWord(), &okFlag)
	failure := FormatMessage(testWord(), &failFlag)

	if success == failure {
		t.Fatal("success and failure markers are indistinguishable")
	}
	if !strings.Contains(failure, "失敗") {
		t.Errorf("failure marker not recognizable: %s", failure)
	}
}

func TestNotify_FailuresReturnFalse(t *testing.T) {
	t.Run("application-level ok false", func(t *testing.T) {
		c, _ := newTestClient(t, `{"ok":false,"error":"channel_not_found"}`)
		if c.Notify(context.Background(), testWord(), nil) {
			t.Fatal("Notify = true on ok:false")
		}
	})

	t.Run("unparsable response body", func(t *testing.T) {
		c, _ := newTestClient(t, "<html>gateway timeout</html>")
		if c.Notify(context.Background(), testWord(), nil) {
			t.Fatal("Notify = true on unparsable body")
		}
	})

	t.Run("transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()
		c := NewClient("xoxb-test", "C123", srv.URL)
		if c.Notify(context.Background(), testWord(), nil) {
			t.Fatal("Notify = true on dead transport")
		}
	})

	t.Run("misconfigured client", func(t *testing.T) {
		c := NewClient("", "", "")
		if c.Notify(context.Background(), testWord(), nil) {
			t.Fatal("Notify = true without credentials")
		}
	})
}

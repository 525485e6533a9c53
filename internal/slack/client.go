// Package slack implements the notifier adapter posting formatted word
// announcements to a Slack channel via chat.postMessage.
//
// The adapter never raises past its boundary: transport errors, unparsable
// bodies, and application-level ok:false responses all come back as a false
// result, after being logged. One attempt per invocation, no retries.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/asukai/go-word-backend/internal/domain"
)

// DefaultBaseURL is the production Slack Web API root.
const DefaultBaseURL = "https://slack.com/api"

// Client posts messages to a fixed channel using a bot token.
type Client struct {
	botToken   string
	channelID  string
	baseURL    string
	httpClient *http.Client
}

// NewClient registers the bot token and target channel. An empty baseURL
// falls back to the production API.
func NewClient(botToken, channelID, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		botToken:  botToken,
		channelID: channelID,
		baseURL:   strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// apiResponse is the application-level envelope Slack returns for
// chat.postMessage. ok=false carries a short error code string.
type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// FormatMessage renders the announcement text for a word. When persisted is
// non-nil an inline storage marker is appended so operators can see write
// failures without consulting logs.
func FormatMessage(w domain.GeneratedWord, persisted *bool) string {
	msg := fmt.Sprintf("*今日の英単語📝*\n\n*単語:* %s\n*意味:* %s\n\n*例文:* %s\n*例文訳:* %s",
		w.Word, w.Translate, w.Example, w.ExampleTranslate)
	if persisted != nil {
		if *persisted {
			msg += "\n\n💾 保存済み"
		} else {
			msg += "\n\n⚠️ データベースへの保存に失敗しました"
		}
	}
	return msg
}

// Notify posts the formatted word to the configured channel and reports
// success. It returns false on any failure; it never panics or propagates.
func (c *Client) Notify(ctx context.Context, w domain.GeneratedWord, persisted *bool) bool {
	if c.botToken == "" || c.channelID == "" {
		log.Error().Msg("slack notifier misconfigured: missing token or channel")
		return false
	}

	body, err := json.Marshal(map[string]string{
		"channel": c.channelID,
		"text":    FormatMessage(w, persisted),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal slack payload")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat.postMessage", bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Msg("failed to build slack request")
		return false
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("failed to post message to slack")
		return false
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		log.Error().Err(err).Msg("failed to read slack response")
		return false
	}

	var ar apiResponse
	if err := json.Unmarshal(raw, &ar); err != nil {
		log.Error().Err(err).Int("status", resp.StatusCode).
			Str("body", strings.TrimSpace(string(raw))).
			Msg("failed to parse slack response")
		return false
	}
	if !ar.OK {
		log.Error().Str("slack_error", ar.Error).Int("status", resp.StatusCode).
			Msg("slack rejected message")
		return false
	}

	log.Info().Str("channel", c.channelID).Str("word", w.Word).Msg("posted word to slack")
	return true
}

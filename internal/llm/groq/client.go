package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"legalens/internal/llm"
)

// Complete implements llm.Completer over Groq's OpenAI-compatible
// chat/completions endpoint. One synchronous request per call; no retries, no
// backoff, no streaming. Transport and API failures surface with the upstream
// message attached.
func (c *Client) Complete(ctx context.Context, system string, messages []llm.ChatMessage, params llm.Params) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.complete.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", params.Temperature,
		"max_tokens", params.MaxTokens,
		"messages", len(messages),
	)

	msgs := make([]llm.ChatMessage, 0, len(messages)+1)
	msgs = append(msgs, llm.ChatMessage{Role: llm.RoleSystem, Content: system})
	msgs = append(msgs, messages...)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": params.Temperature,
		"max_tokens":  params.MaxTokens,
		"messages":    msgs,
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, status, err := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	if err != nil {
		c.log.Error("llm.complete.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("groq: %s", upstreamMessage(raw, err))
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.complete.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode groq response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.complete.no_choices",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("no choices in groq response")
	}

	content := cc.Choices[0].Message.Content
	c.log.Info("llm.complete.ok",
		"req_id", rid,
		"content_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// upstreamMessage prefers the API error body over the transport error.
func upstreamMessage(raw []byte, err error) string {
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if len(raw) > 0 && json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return err.Error()
}

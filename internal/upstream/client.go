package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// DefaultURL is the completion backend the gateway was built against.
const DefaultURL = "https://mirxakamran893-logiqcurvecode.hf.space/chat"

const maxErrorBody = 512

var (
	// ErrMalformedResponse means a 2xx body that is not JSON.
	ErrMalformedResponse = errors.New("upstream response is not valid json")
	// ErrMissingMessage means a 2xx JSON body without a usable message field.
	ErrMissingMessage = errors.New("upstream response has no message")
)

// StatusError is a non-2xx answer from the completion backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream http error: status=%d body=%s", e.StatusCode, e.Body)
}

type Inputs struct {
	Prompt       string `json:"prompt"`
	EnableSearch bool   `json:"enable_search"`
}

type Payload struct {
	Inputs Inputs `json:"inputs"`
}

type Result struct {
	Message string `json:"message"`
}

// Client issues single, non-retried completion calls.
type Client struct {
	log  zerolog.Logger
	http *resty.Client
	url  string
}

func NewClient(log zerolog.Logger, url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	hc := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json")
	return &Client{log: log, http: hc, url: url}
}

// Complete posts payload with apiKey as bearer token (possibly empty) and
// returns the assistant message. Errors are *StatusError for non-2xx answers,
// ErrMalformedResponse or ErrMissingMessage for unusable 2xx bodies, and the
// transport error otherwise.
func (c *Client) Complete(ctx context.Context, apiKey string, payload Payload) (Result, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetBody(payload).
		Post(c.url)
	if err != nil {
		return Result{}, err
	}

	body := resp.Body()
	status := resp.StatusCode()
	c.log.Debug().
		Int("status", status).
		Dur("latency", time.Since(start)).
		Int("bytes", len(body)).
		Msg("upstream completion call")

	if status < 200 || status >= 300 {
		return Result{}, &StatusError{StatusCode: status, Body: truncate(string(body), maxErrorBody)}
	}
	return parseResult(body)
}

func parseResult(body []byte) (Result, error) {
	if !gjson.ValidBytes(body) {
		return Result{}, ErrMalformedResponse
	}
	msg := gjson.GetBytes(body, "message")
	if msg.Type != gjson.String || msg.Str == "" {
		return Result{}, ErrMissingMessage
	}
	return Result{Message: msg.Str}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

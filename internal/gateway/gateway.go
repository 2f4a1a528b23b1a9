// Package gateway runs one chat request through validation, message logging,
// credential resolution and the upstream completion call.
package gateway

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mirxa893/zola/internal/apperr"
	"github.com/Mirxa893/zola/internal/messages"
	"github.com/Mirxa893/zola/internal/metrics"
	"github.com/Mirxa893/zola/internal/middleware"
	"github.com/Mirxa893/zola/internal/ratelimit"
	"github.com/Mirxa893/zola/internal/schema"
	"github.com/Mirxa893/zola/internal/upstream"
)

// DefaultSystemPrompt is used when the request carries none.
const DefaultSystemPrompt = "You are Zola, a thoughtful and clear assistant. " +
	"Answer directly, keep a calm tone, and say so when you are unsure."

// DefaultTimeout bounds one request end to end.
const DefaultTimeout = 60 * time.Second

const missingInformation = "Error, missing information"

type MessageLogger interface {
	LogUserMessage(ctx context.Context, e messages.UserEntry) error
	LogAssistantMessage(ctx context.Context, e messages.AssistantEntry) error
}

// CredentialResolver returns "" when no credential is configured.
type CredentialResolver interface {
	Resolve(ctx context.Context, userID, provider string) (string, error)
}

type Completer interface {
	Complete(ctx context.Context, apiKey string, p upstream.Payload) (upstream.Result, error)
}

type ProviderRouter interface {
	ProviderForModel(model string) string
}

type Gateway struct {
	log          zerolog.Logger
	msgs         MessageLogger
	creds        CredentialResolver
	upstream     Completer
	router       ProviderRouter
	systemPrompt string
	timeout      time.Duration
}

type Deps struct {
	Messages    MessageLogger
	Credentials CredentialResolver
	Upstream    Completer
	Router      ProviderRouter
}

type Option func(*Gateway)

func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithSystemPrompt(p string) Option {
	return func(g *Gateway) {
		if p != "" {
			g.systemPrompt = p
		}
	}
}

func New(log zerolog.Logger, deps Deps, opts ...Option) *Gateway {
	g := &Gateway{
		log:          log,
		msgs:         deps.Messages,
		creds:        deps.Credentials,
		upstream:     deps.Upstream,
		router:       deps.Router,
		systemPrompt: DefaultSystemPrompt,
		timeout:      DefaultTimeout,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Handle runs the pipeline. A non-nil error is always an *apperr.Error.
func (g *Gateway) Handle(ctx context.Context, req schema.ChatRequest) (schema.ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.run(ctx, req)
	if err != nil {
		ae := classify(ctx, err)
		g.logFailure(ctx, req, ae)
		metrics.ChatRequestsTotal.WithLabelValues(strings.ToLower(string(ae.Kind))).Inc()
		return schema.ChatResponse{}, ae
	}
	metrics.ChatRequestsTotal.WithLabelValues("ok").Inc()
	return resp, nil
}

func (g *Gateway) run(ctx context.Context, req schema.ChatRequest) (schema.ChatResponse, error) {
	if len(req.Messages) == 0 || req.ChatID == "" || req.UserID == "" {
		return schema.ChatResponse{}, apperr.BadRequest(missingInformation)
	}
	last, _ := req.LastMessage()

	// Only a trailing user turn is logged; other roles still go upstream.
	if last.Role == schema.RoleUser {
		err := g.msgs.LogUserMessage(ctx, messages.UserEntry{
			UserID:          req.UserID,
			ChatID:          req.ChatID,
			Content:         last.Content,
			Attachments:     last.Attachments,
			Model:           req.Model,
			IsAuthenticated: req.IsAuthenticated,
		})
		if errors.Is(err, ratelimit.ErrDailyLimitReached) {
			return schema.ChatResponse{}, apperr.LimitReached(err)
		}
		if err != nil {
			return schema.ChatResponse{}, apperr.Collaborator("message logging", err)
		}
	}

	var apiKey string
	if req.IsAuthenticated {
		if provider := g.router.ProviderForModel(req.Model); provider != "" {
			key, err := g.creds.Resolve(ctx, req.UserID, provider)
			if err != nil {
				return schema.ChatResponse{}, apperr.Collaborator("credential lookup", err)
			}
			apiKey = key
		}
	}

	payload := upstream.Payload{Inputs: upstream.Inputs{
		Prompt:       g.prompt(req.SystemPrompt, last.Content),
		EnableSearch: req.EnableSearch,
	}}
	start := time.Now()
	res, err := g.upstream.Complete(ctx, apiKey, payload)
	metrics.UpstreamDuration.WithLabelValues(upstreamStatusLabel(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return schema.ChatResponse{}, upstreamFailure(err)
	}

	err = g.msgs.LogAssistantMessage(ctx, messages.AssistantEntry{
		ChatID: req.ChatID,
		UserID: req.UserID,
		Messages: []messages.AssistantMessage{
			{Role: schema.RoleAssistant, Content: res.Message, Sender: "assistant"},
		},
	})
	if err != nil {
		return schema.ChatResponse{}, apperr.Collaborator("assistant message logging", err)
	}

	return schema.ChatResponse{Message: res.Message}, nil
}

// prompt merges the system prompt with the last message only; earlier turns
// are not forwarded.
func (g *Gateway) prompt(system, content string) string {
	if system == "" {
		system = g.systemPrompt
	}
	return system + "\n" + content
}

func upstreamFailure(err error) *apperr.Error {
	var se *upstream.StatusError
	switch {
	case errors.As(err, &se):
		return apperr.Upstream(se.StatusCode, err)
	case errors.Is(err, upstream.ErrMalformedResponse), errors.Is(err, upstream.ErrMissingMessage):
		return apperr.UpstreamProtocol(err)
	default:
		return apperr.Upstream(0, err)
	}
}

func upstreamStatusLabel(err error) string {
	var se *upstream.StatusError
	switch {
	case err == nil:
		return "200"
	case errors.As(err, &se):
		return strconv.Itoa(se.StatusCode)
	case errors.Is(err, upstream.ErrMalformedResponse), errors.Is(err, upstream.ErrMissingMessage):
		return "invalid"
	default:
		return "transport"
	}
}

// classify turns any pipeline error into an *apperr.Error. Once the request
// budget is spent every failure is reported as a timeout.
func classify(ctx context.Context, err error) *apperr.Error {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Internal(err)
	}
	if ae.Kind != apperr.KindBadRequest && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.Timeout(err)
	}
	return ae
}

func (g *Gateway) logFailure(ctx context.Context, req schema.ChatRequest, ae *apperr.Error) {
	ev := g.log.Error()
	msg := "chat request failed"
	switch ae.Kind {
	case apperr.KindBadRequest, apperr.KindLimitReached:
		ev = g.log.Warn()
		msg = "chat request rejected"
	case apperr.KindUpstream:
		ev = ev.Int("upstream_status", ae.UpstreamStatus)
		msg = "upstream returned an error"
	case apperr.KindUpstreamProtocol:
		msg = "upstream response invalid"
	case apperr.KindTimeout:
		msg = "chat request timed out"
	}
	ev.Err(ae.Err).
		Str("rid", middleware.RequestIDFrom(ctx)).
		Str("kind", string(ae.Kind)).
		Str("chat_id", req.ChatID).
		Str("user_id", req.UserID).
		Str("model", req.Model).
		Msg(msg)
}

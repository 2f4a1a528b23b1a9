package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(zerolog.Nop(), srv.URL, 5*time.Second), &calls
}

func TestComplete_SendsPayloadAndHeaders(t *testing.T) {
	var got Payload
	var auth, ctype, method string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		auth = r.Header.Get("Authorization")
		ctype = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"message":"hello"}`))
	})

	res, err := c.Complete(context.Background(), "sk-or-123", Payload{Inputs: Inputs{Prompt: "sys\nhi", EnableSearch: true}})

	require.NoError(t, err)
	assert.Equal(t, "hello", res.Message)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "Bearer sk-or-123", auth)
	assert.Contains(t, ctype, "application/json")
	assert.Equal(t, "sys\nhi", got.Inputs.Prompt)
	assert.True(t, got.Inputs.EnableSearch)
}

func TestComplete_EmptyKeyStillSendsBearer(t *testing.T) {
	var auth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})

	_, err := c.Complete(context.Background(), "", Payload{})

	require.NoError(t, err)
	assert.Equal(t, "Bearer", strings.TrimSpace(auth))
}

func TestComplete_NonSuccessStatusNoRetry(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("overloaded"))
	})

	_, err := c.Complete(context.Background(), "", Payload{})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, "overloaded", se.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestComplete_InvalidBodies(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"not json":        {`<html>oops</html>`, ErrMalformedResponse},
		"empty":           {``, ErrMalformedResponse},
		"missing message": {`{"reply":"hi"}`, ErrMissingMessage},
		"empty message":   {`{"message":""}`, ErrMissingMessage},
		"non string":      {`{"message":{"text":"hi"}}`, ErrMissingMessage},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := c.Complete(context.Background(), "", Payload{})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestComplete_HonorsContextDeadline(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Complete(ctx, "", Payload{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil)
}

package diceapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"rollingdice-go/internal/config"
	"rollingdice-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	// httptest URL already carries the scheme
	return NewClient(config.WebAPIConfig{Host: srv.URL, TimeoutSeconds: 5}, http.DefaultTransport)
}

func TestNewClientAddsScheme(t *testing.T) {
	c := NewClient(config.WebAPIConfig{Host: "webapi:8081/"}, nil)
	assert.Equal(t, "http://webapi:8081", c.baseURL)

	c = NewClient(config.WebAPIConfig{Host: "https://dice.example.com"}, nil)
	assert.Equal(t, "https://dice.example.com", c.baseURL)
}

func TestRoll(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, rollPath, r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("sleep"))
		assert.Equal(t, "true", r.URL.Query().Get("error"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body model.DiceValue
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.Value)
		assert.Equal(t, 5, *body.Value)

		_, _ = io.WriteString(w, `{"value":5}`)
	})

	body := model.NewDiceValue(5)
	got, err := c.Roll(context.Background(), url.Values{"sleep": {"1"}, "error": {"true"}}, &body)
	require.NoError(t, err)
	require.NotNil(t, got.Value)
	assert.Equal(t, 5, *got.Value)
}

func TestRollWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		b, _ := io.ReadAll(r.Body)
		assert.Empty(t, b)
		_, _ = io.WriteString(w, `{"value":2}`)
	})

	got, err := c.Roll(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, *got.Value)
}

func TestRollServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"code":500}`)
	})

	_, err := c.Roll(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRollBadRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.Roll(context.Background(), url.Values{"sleep": {"abc"}}, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.True(t, strings.Contains(err.Error(), "bad request"))
}

func TestList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, listPath, r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":2,"value":6,"updatedAt":"2026-04-01T12:34:56"},{"id":1,"value":1,"updatedAt":"2026-04-01T12:00:00"}]`)
	})

	list, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint(2), list[0].ID)
	assert.Equal(t, 6, list[0].Value)
	assert.Equal(t, "2026-04-01T12:34:56", list[0].UpdatedAt.String())
}

func TestListInvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	})

	_, err := c.List(context.Background())
	assert.Error(t, err)
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(config.WebAPIConfig{Host: srv.URL, TimeoutSeconds: 1}, http.DefaultTransport)

	_, err := c.List(context.Background())
	assert.Error(t, err)
}

func TestRollWithoutTimeoutWaitsForSlowResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1500 * time.Millisecond)
		_, _ = io.WriteString(w, `{"value":3}`)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(config.WebAPIConfig{Host: srv.URL, TimeoutSeconds: 0}, http.DefaultTransport)
	assert.Zero(t, c.client.Timeout)

	got, err := c.Roll(context.Background(), url.Values{"sleep": {"2"}}, nil)
	require.NoError(t, err)
	require.NotNil(t, got.Value)
	assert.Equal(t, 3, *got.Value)
}

func TestRollHonorsContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	c := NewClient(config.WebAPIConfig{Host: srv.URL}, http.DefaultTransport)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Roll(ctx, nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

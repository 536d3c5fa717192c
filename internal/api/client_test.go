package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/relay"
)

func TestChat(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotReq ChatRequest
		var gotHeader string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/chat", r.URL.Path)
			gotHeader = r.Header.Get("X-Relay-Client")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			json.NewEncoder(w).Encode(ChatResponse{
				Provider: "openai",
				Model:    "gpt-4o-mini",
				Content:  "hello",
				Cost:     0.002,
			})
		}))
		defer srv.Close()

		c := New(srv.URL)
		temp := 0.9
		resp, err := c.Chat(context.Background(), ChatRequest{
			Persona:         "cherry",
			Message:         "hi",
			UseCase:         "casual_chat",
			Complexity:      "simple",
			Provider:        "openai",
			Model:           "gpt-4o-mini",
			Temperature:     &temp,
			FallbackAllowed: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "hello", resp.Content)
		assert.Equal(t, "openai", resp.Provider)
		assert.Equal(t, 0.002, resp.Cost)
		assert.Equal(t, "relay-go/1", gotHeader)
		assert.Equal(t, "cherry", gotReq.Persona)
		assert.Equal(t, "casual_chat", gotReq.UseCase)
	})

	t.Run("empty content is a permanent error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(ChatResponse{Provider: "openai", Model: "gpt-4o-mini"})
		}))
		defer srv.Close()

		_, err := New(srv.URL).Chat(context.Background(), ChatRequest{Persona: "cherry"})
		assert.Error(t, err)
		assert.True(t, relay.IsPermanent(err))
	})

	t.Run("malformed body is a permanent error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}))
		defer srv.Close()

		_, err := New(srv.URL).Chat(context.Background(), ChatRequest{Persona: "cherry"})
		assert.Error(t, err)
		assert.True(t, relay.IsPermanent(err))
	})
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		headers  map[string]string
		category relay.ErrorCategory
	}{
		{"server error is transient", http.StatusInternalServerError, nil, relay.ErrorTransient},
		{"bad gateway is transient", http.StatusBadGateway, nil, relay.ErrorTransient},
		{"rate limit is transient", http.StatusTooManyRequests, nil, relay.ErrorTransient},
		{"unauthorized is permanent", http.StatusUnauthorized, nil, relay.ErrorPermanent},
		{"bad request is user input", http.StatusBadRequest, nil, relay.ErrorUserInput},
		{"not found is user input", http.StatusNotFound, nil, relay.ErrorUserInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := New(srv.URL).Chat(context.Background(), ChatRequest{Persona: "cherry"})
			require.Error(t, err)

			var ce relay.CategorizedError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.category, ce.Category())
			assert.Equal(t, tt.status, ce.StatusCode())
		})
	}

	t.Run("retry-after header is honored", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := New(srv.URL).Chat(context.Background(), ChatRequest{Persona: "cherry"})
		require.Error(t, err)
		assert.Equal(t, 7*time.Second, relay.RetryAfterOf(err))
	})
}

func TestStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stats", r.URL.Path)
		json.NewEncoder(w).Encode(ServerStats{
			TotalRequests: 12,
			TotalCost:     0.34,
			Providers: map[string]ProviderUsage{
				"openai": {Requests: 10, Cost: 0.30},
			},
		})
	}))
	defer srv.Close()

	stats, err := New(srv.URL).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalRequests)
	assert.Equal(t, 10, stats.Providers["openai"].Requests)
}

func TestModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		json.NewEncoder(w).Encode([]ModelInfo{
			{Provider: "openai", Model: "gpt-4o-mini", ContextWindow: 128000, Available: true},
		})
	}))
	defer srv.Close()

	models, err := New(srv.URL).Models(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "gpt-4o-mini", models[0].Model)
}

func TestTestProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/test/anthropic", r.URL.Path)
		json.NewEncoder(w).Encode(ProbeResult{Provider: "anthropic", OK: true, Latency: 42})
	}))
	defer srv.Close()

	probe, err := New(srv.URL).TestProvider(context.Background(), "anthropic")
	require.NoError(t, err)
	assert.True(t, probe.OK)
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		assert.NoError(t, New(srv.URL).Health(context.Background()))
	})

	t.Run("unhealthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		err := New(srv.URL).Health(context.Background())
		assert.Error(t, err)
		assert.True(t, relay.IsTransient(err))
	})
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, WithAPIKey("sk-test"))
	require.NoError(t, c.Health(context.Background()))
	assert.Equal(t, "Bearer sk-test", gotAuth)
}

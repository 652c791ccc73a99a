package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := New(Config{APIKey: "sk-test", Endpoint: server.URL + "/v1/chat/completions"})
	require.NoError(t, err)
	return p
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNew_Defaults(t *testing.T) {
	p, err := New(Config{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, p.endpoint)
	assert.Equal(t, DefaultModel, p.ModelName())
	assert.Equal(t, DefaultMaxTokens, p.maxTokens)
	assert.NoError(t, p.Close())
}

func TestComplete_Success(t *testing.T) {
	var got map[string]any
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"issues\":[]}"}}]}`))
	})

	reply, err := p.Complete(context.Background(), "analyse ce document")
	require.NoError(t, err)
	assert.Equal(t, `{"issues":[]}`, reply)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.EqualValues(t, 4000, got["max_tokens"])
	assert.Contains(t, got, "temperature")
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "analyse ce document", msg["content"])
}

func TestComplete_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		retryable  bool
	}{
		{"server error", http.StatusInternalServerError, `oops`, 500, true},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, 429, true},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, 401, false},
		{"no choices", http.StatusOK, `{"choices":[]}`, 200, false},
		{"null content", http.StatusOK, `{"choices":[{"message":{"content":null}}]}`, 200, false},
		{"numeric content", http.StatusOK, `{"choices":[{"message":{"content":42}}]}`, 200, false},
		{"not json", http.StatusOK, `hello`, 200, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.Complete(context.Background(), "x")
			require.Error(t, err)

			var gwErr *domain.GatewayError
			require.ErrorAs(t, err, &gwErr)
			assert.Equal(t, tt.wantStatus, gwErr.StatusCode)
			assert.Equal(t, tt.retryable, gwErr.Retryable())
		})
	}
}

func TestComplete_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	p, err := New(Config{APIKey: "sk-test", Endpoint: url})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "x")
	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Zero(t, gwErr.StatusCode)
	assert.True(t, gwErr.Retryable())
}

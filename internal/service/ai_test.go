package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in string
		want string
	}{
		{name: "plain", in: `["a","b"]`, want: `["a","b"]`},
		{name: "fenced", in: "```\n[\"a\"]\n```", want: `["a"]`},
		{name: "fenced with language", in: "```json\n[\"a\"]\n```", want: `["a"]`},
		{name: "whitespace", in: "  summary text  ", want: "summary text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}

func aiBackendStub(t *testing.T, response string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)

		json.NewEncoder(w).Encode(generateResponse{Response: response})
	}))
}

func TestSuggestTitles(t *testing.T) {
	server := aiBackendStub(t, "```json\n[\"First Title\", \"Second Title\", \"  \"]\n```")
	defer server.Close()

	viper.Set("ai.origin", server.URL)
	viper.Set("ai.model", "llama3")
	defer viper.Reset()

	svc := newAIService(zap.NewNop())

	titles, err := svc.SuggestTitles(context.Background(), "Some long enough blog post content about Go services.")
	require.NoError(t, err)
	assert.Equal(t, []string{"First Title", "Second Title"}, titles)
}

func TestSuggestTitles_UnparsableResponse(t *testing.T) {
	server := aiBackendStub(t, "here are some titles: ...")
	defer server.Close()

	viper.Set("ai.origin", server.URL)
	viper.Set("ai.model", "llama3")
	defer viper.Reset()

	svc := newAIService(zap.NewNop())

	_, err := svc.SuggestTitles(context.Background(), "Some long enough blog post content about Go services.")
	assert.ErrorIs(t, err, ErrAIUnavailable)
}

func TestSummarize(t *testing.T) {
	server := aiBackendStub(t, "A short summary.")
	defer server.Close()

	viper.Set("ai.origin", server.URL)
	viper.Set("ai.model", "llama3")
	defer viper.Reset()

	svc := newAIService(zap.NewNop())

	summary, err := svc.Summarize(context.Background(), "Some long enough blog post content about Go services.")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", summary)
}

func TestSummarize_BackendDown(t *testing.T) {
	server := aiBackendStub(t, "unused")
	server.Close()

	viper.Set("ai.origin", server.URL)
	viper.Set("ai.model", "llama3")
	defer viper.Reset()

	svc := newAIService(zap.NewNop())

	_, err := svc.Summarize(context.Background(), "Some long enough blog post content about Go services.")
	assert.ErrorIs(t, err, ErrAIUnavailable)
}

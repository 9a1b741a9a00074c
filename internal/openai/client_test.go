package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GenerateComment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, model, req.Model)
		assert.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "Traffic prompt", req.Messages[1].Content)
		assert.Equal(t, maxTokens, req.MaxTokens)

		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "  The seafront traffic is unbearable at school times.  "}}]}`))
	}))
	defer srv.Close()

	client := New("test-key").WithBaseURL(srv.URL)

	comment, err := client.GenerateComment(context.Background(), "Traffic prompt")
	require.NoError(t, err)
	assert.Equal(t, "The seafront traffic is unbearable at school times.", comment)
}

func TestClient_GenerateComment_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{name: "ошибка авторизации", status: http.StatusUnauthorized, payload: `{"error": {"message": "bad key"}}`},
		{name: "нет вариантов ответа", status: http.StatusOK, payload: `{"choices": []}`},
		{name: "пустой текст", status: http.StatusOK, payload: `{"choices": [{"message": {"role": "assistant", "content": "   "}}]}`},
		{name: "некорректный JSON", status: http.StatusOK, payload: `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer srv.Close()

			client := New("test-key").WithBaseURL(srv.URL)

			_, err := client.GenerateComment(context.Background(), "prompt")
			require.Error(t, err)
		})
	}
}

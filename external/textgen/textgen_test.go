package textgen_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/helpity-api/external/textgen"
)

func messageResponse(text string) []byte {
	b, _ := json.Marshal(map[string]interface{}{
		"id":            "msg_01",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-haiku-4-5-20251001",
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
		"usage": map[string]interface{}{
			"input_tokens":  12,
			"output_tokens": 20,
		},
	})
	return b
}

func TestGenerate(t *testing.T) {
	var prompt string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"))
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var body struct {
			Messages []struct {
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Messages) > 0 && len(body.Messages[0].Content) > 0 {
			prompt = body.Messages[0].Content[0].Text
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(messageResponse("  A kind neighbour is needed!  "))
	}))
	defer ts.Close()

	g, err := textgen.New(textgen.Config{APIKey: "test-key", BaseURL: ts.URL + "/"})
	assert.NoError(t, err)

	text, err := g.Generate(context.Background(), "hello")
	assert.NoError(t, err)
	assert.Equal(t, "A kind neighbour is needed!", text)
	assert.Equal(t, "hello", prompt)
}

func TestGenerateServiceError(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	}))
	defer ts.Close()

	g, err := textgen.New(textgen.Config{APIKey: "test-key", BaseURL: ts.URL + "/"})
	assert.NoError(t, err)

	_, err = g.Generate(context.Background(), "hello")
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "generation must not be retried")
}

func TestGenerateEmptyText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(messageResponse("   "))
	}))
	defer ts.Close()

	g, err := textgen.New(textgen.Config{APIKey: "test-key", BaseURL: ts.URL + "/"})
	assert.NoError(t, err)

	_, err = g.Generate(context.Background(), "hello")
	assert.Error(t, err)
}

func TestNewWithoutAPIKey(t *testing.T) {
	_, err := textgen.New(textgen.Config{})
	assert.Error(t, err)
}

package ragchat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragchat/pkg/config"
)

const completionPayload = `{
  "id": "cmpl-1",
  "object": "chat.completion",
  "choices": [
    {
      "index": 0,
      "finish_reason": "stop",
      "message": {
        "role": "assistant",
        "content": "Physical therapy is covered.",
        "context": {
          "citations": [
            {"title": "Health Plan Guide", "filepath": "plans/guide.pdf", "content": "Covered up to 30 visits per year."}
          ]
        }
      }
    }
  ]
}`

func testConfig(endpoint string) config.Config {
	return config.Config{
		ChatEndpoint:   endpoint,
		ChatDeployment: "gpt-4",
		SearchEndpoint: "https://search.example.com",
		SearchIndex:    "documents",
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(testConfig(server.URL), []option.RequestOption{
		azure.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	})
	require.NoError(t, err)
	return client
}

func TestNewRequiresEndpointAndDeployment(t *testing.T) {
	_, err := New(config.Config{ChatDeployment: "gpt-4"}, nil)
	require.Error(t, err)

	_, err = New(config.Config{ChatEndpoint: "https://chat.example.com"}, nil)
	require.Error(t, err)
}

func TestAskReturnsAnswerAndCitations(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionPayload))
	})

	answer, err := client.Ask(context.Background(), "Is physical therapy covered?")
	require.NoError(t, err)
	assert.Equal(t, "Physical therapy is covered.", answer.Content)
	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "Health Plan Guide", answer.Citations[0].Title)
	assert.Equal(t, "plans/guide.pdf", answer.Citations[0].FilePath)

	// The data sources ride along in the request body.
	sources, ok := gotBody["data_sources"].([]any)
	require.True(t, ok)
	require.Len(t, sources, 1)

	// system + user + assistant after a successful round trip.
	assert.Len(t, client.history, 3)
}

func TestAskWithoutSearchSettingsOmitsDataSources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		_ = json.Unmarshal(body, &got)
		_, hasSources := got["data_sources"]
		assert.False(t, hasSources)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionPayload))
	}))
	t.Cleanup(server.Close)

	cfg := config.Config{ChatEndpoint: server.URL, ChatDeployment: "gpt-4"}
	client, err := New(cfg, []option.RequestOption{azure.WithAPIKey("test-key"), option.WithMaxRetries(0)})
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), "hello")
	require.NoError(t, err)
}

func TestAskRollsBackHistoryOnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "bad request"}}`))
	})

	_, err := client.Ask(context.Background(), "question")
	require.Error(t, err)
	assert.Len(t, client.history, 1, "failed round trip must not grow the history")
}

func TestAskRollsBackHistoryOnEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cmpl-2", "object": "chat.completion", "choices": []}`))
	})

	_, err := client.Ask(context.Background(), "question")
	require.Error(t, err)
	assert.Len(t, client.history, 1)
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty question")
	})

	_, err := client.Ask(context.Background(), "   ")
	require.Error(t, err)
	assert.Len(t, client.history, 1)
}

func TestPingSkipsDataSourcesAndHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		_ = json.Unmarshal(body, &got)
		_, hasSources := got["data_sources"]
		assert.False(t, hasSources)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cmpl-3", "object": "chat.completion", "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Hello"}}]}`))
	})

	greeting, err := client.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello", greeting)
	assert.Len(t, client.history, 1, "connection test must not touch the conversation")
}

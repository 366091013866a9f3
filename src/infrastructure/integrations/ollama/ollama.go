package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

const DefaultURL = "http://localhost:11434"

// Message is a single chat message sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the normalized response shape of the chat backend. The
// underlying API reports fragments with model bookkeeping attached; callers
// here only ever see content and completion state.
type ChatResponse struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

// Client wraps the Ollama API for chat completion and embedding generation.
type Client struct {
	client *api.Client
}

// NewClient creates a new Ollama API client. An empty baseURL falls back to
// the local default; a nil http.Client gets a generous timeout suitable for
// model inference.
func NewClient(baseURL string, hc *http.Client) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL: %w", err)
	}
	if hc == nil {
		hc = &http.Client{Timeout: 120 * time.Second}
	}

	return &Client{client: api.NewClient(parsed, hc)}, nil
}

// Chat sends the messages to the model and returns the complete response.
func (c *Client) Chat(ctx context.Context, model string, messages []Message) (*ChatResponse, error) {
	stream := false
	var content strings.Builder

	err := c.client.Chat(ctx, &api.ChatRequest{
		Model:    model,
		Messages: toAPIMessages(messages),
		Stream:   &stream,
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to chat with ollama: %w", err)
	}

	return &ChatResponse{Content: content.String(), Done: true}, nil
}

// ChatStream sends the messages to the model and invokes fn for every
// response fragment in arrival order.
func (c *Client) ChatStream(ctx context.Context, model string, messages []Message, fn func(ChatResponse) error) error {
	stream := true

	err := c.client.Chat(ctx, &api.ChatRequest{
		Model:    model,
		Messages: toAPIMessages(messages),
		Stream:   &stream,
	}, func(resp api.ChatResponse) error {
		return fn(ChatResponse{Content: resp.Message.Content, Done: resp.Done})
	})
	if err != nil {
		return fmt.Errorf("failed to stream chat with ollama: %w", err)
	}
	return nil
}

// Embed generates an embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, model, text string) ([]float32, error) {
	resp, err := c.client.Embed(ctx, &api.EmbedRequest{
		Model: model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get embedding from ollama: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for model %s", model)
	}
	return resp.Embeddings[0], nil
}

// EmbedBatch generates embedding vectors for a batch of texts in one request.
func (c *Client) EmbedBatch(ctx context.Context, model string, texts []string) ([][]float32, error) {
	resp, err := c.client.Embed(ctx, &api.EmbedRequest{
		Model: model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get embeddings from ollama: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}
	return resp.Embeddings, nil
}

// Models returns the names of the models available on the server.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	resp, err := c.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ollama models: %w", err)
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Embedder binds a Client to a fixed embedding model, satisfying the
// embedding backend interface of the vector store.
type Embedder struct {
	client *Client
	model  string
}

// NewEmbedder creates an Embedder for the given model.
func NewEmbedder(client *Client, model string) *Embedder {
	return &Embedder{
		client: client,
		model:  model,
	}
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.client.Embed(ctx, e.model, text)
}

func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.client.EmbedBatch(ctx, e.model, texts)
}

func toAPIMessages(messages []Message) []api.Message {
	out := make([]api.Message, len(messages))
	for i, m := range messages {
		out[i] = api.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

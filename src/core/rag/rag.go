package rag

import (
	"context"
	"fmt"

	"localmind/src/infrastructure/integrations/ollama"
	"localmind/src/infrastructure/log"
	"localmind/src/loader"
	"localmind/src/storage/chroma"
)

// RetrievedChunk is a stored chunk surfaced for a question, with the
// store's similarity distance attached. It is transient; nothing here is
// persisted.
type RetrievedChunk struct {
	Text     string          `json:"text"`
	Metadata loader.Metadata `json:"metadata"`
	Distance float64         `json:"distance"`
}

// VectorStore is the retrieval side of the storage collaborator.
type VectorStore interface {
	Count(ctx context.Context) (int, error)
	Query(ctx context.Context, text string, nResults int) ([]chroma.QueryResult, error)
}

// ChatClient is the chat-model collaborator, already normalized to plain
// content fragments.
type ChatClient interface {
	Chat(ctx context.Context, model string, messages []ollama.Message) (*ollama.ChatResponse, error)
	ChatStream(ctx context.Context, model string, messages []ollama.Message, fn func(ollama.ChatResponse) error) error
}

// Service answers questions over the stored document chunks.
type Service struct {
	store     VectorStore
	llm       ChatClient
	chatModel string
	topK      int
}

// NewService creates a rag Service. topK bounds how many chunks are
// retrieved per question.
func NewService(store VectorStore, llm ChatClient, chatModel string, topK int) *Service {
	return &Service{
		store:     store,
		llm:       llm,
		chatModel: chatModel,
		topK:      topK,
	}
}

// Retrieve returns the most similar stored chunks for the question, best
// match first, in the store's own order. An empty store yields an empty
// result without issuing a query. No distance threshold is applied.
func (s *Service) Retrieve(ctx context.Context, question string, topK int) ([]RetrievedChunk, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count stored chunks: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	if topK > count {
		topK = count
	}
	results, err := s.store.Query(ctx, question, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query store: %w", err)
	}

	chunks := make([]RetrievedChunk, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, RetrievedChunk{
			Text:     r.Text,
			Metadata: r.Metadata,
			Distance: r.Distance,
		})
	}
	return chunks, nil
}

// Ask retrieves context for the question, assembles the prompt and returns
// the model's complete answer along with the chunks it was grounded on.
func (s *Service) Ask(ctx context.Context, question string) (string, []RetrievedChunk, error) {
	chunks, prompt, err := s.prepare(ctx, question)
	if err != nil {
		return "", nil, err
	}

	resp, err := s.llm.Chat(ctx, s.chatModel, []ollama.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate answer: %w", err)
	}
	return resp.Content, chunks, nil
}

// AskStream is Ask in streaming mode: fn receives the answer fragments in
// arrival order. Retrieval and prompt assembly complete before the first
// fragment is requested.
func (s *Service) AskStream(ctx context.Context, question string, fn func(fragment string) error) ([]RetrievedChunk, error) {
	chunks, prompt, err := s.prepare(ctx, question)
	if err != nil {
		return nil, err
	}

	err = s.llm.ChatStream(ctx, s.chatModel, []ollama.Message{{Role: "user", Content: prompt}}, func(resp ollama.ChatResponse) error {
		return fn(resp.Content)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to stream answer: %w", err)
	}
	return chunks, nil
}

func (s *Service) prepare(ctx context.Context, question string) ([]RetrievedChunk, string, error) {
	chunks, err := s.Retrieve(ctx, question, s.topK)
	if err != nil {
		return nil, "", err
	}
	log.Debug("retrieved context", "question", question, "chunks", len(chunks))

	prompt, err := BuildPrompt(question, chunks)
	if err != nil {
		return nil, "", err
	}
	return chunks, prompt, nil
}

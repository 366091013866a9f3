package rag_test

import (
	"context"
	"strings"
	"testing"

	"localmind/src/core/rag"
	"localmind/src/infrastructure/integrations/ollama"
	"localmind/src/loader"
	"localmind/src/storage/chroma"
)

type fakeVectorStore struct {
	count       int
	countErr    error
	results     []chroma.QueryResult
	queryErr    error
	queryCalls  int
	lastNResult int
}

func (f *fakeVectorStore) Count(ctx context.Context) (int, error) {
	return f.count, f.countErr
}

func (f *fakeVectorStore) Query(ctx context.Context, text string, nResults int) ([]chroma.QueryResult, error) {
	f.queryCalls++
	f.lastNResult = nResults
	return f.results, f.queryErr
}

type fakeChatClient struct {
	lastModel    string
	lastMessages []ollama.Message
	answer       string
	fragments    []string
}

func (f *fakeChatClient) Chat(ctx context.Context, model string, messages []ollama.Message) (*ollama.ChatResponse, error) {
	f.lastModel = model
	f.lastMessages = messages
	return &ollama.ChatResponse{Content: f.answer, Done: true}, nil
}

func (f *fakeChatClient) ChatStream(ctx context.Context, model string, messages []ollama.Message, fn func(ollama.ChatResponse) error) error {
	f.lastModel = model
	f.lastMessages = messages
	for i, frag := range f.fragments {
		if err := fn(ollama.ChatResponse{Content: frag, Done: i == len(f.fragments)-1}); err != nil {
			return err
		}
	}
	return nil
}

func TestRetrieveEmptyStore(t *testing.T) {
	store := &fakeVectorStore{count: 0}
	svc := rag.NewService(store, &fakeChatClient{}, "llama3.1:8b", 5)

	chunks, err := svc.Retrieve(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("Retrieve() = %v, want no chunks from an empty store", chunks)
	}
	if store.queryCalls != 0 {
		t.Errorf("Query called %d times on an empty store, want 0", store.queryCalls)
	}
}

func TestRetrieveBoundsTopKByCount(t *testing.T) {
	store := &fakeVectorStore{
		count: 2,
		results: []chroma.QueryResult{
			{Text: "first", Metadata: loader.Metadata{"source": "a.txt"}, Distance: 0.1},
			{Text: "second", Metadata: loader.Metadata{"source": "b.txt"}, Distance: 0.4},
		},
	}
	svc := rag.NewService(store, &fakeChatClient{}, "llama3.1:8b", 5)

	chunks, err := svc.Retrieve(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	if store.lastNResult != 2 {
		t.Errorf("queried for %d results, want count-bounded 2", store.lastNResult)
	}
	if len(chunks) != 2 {
		t.Fatalf("Retrieve() returned %d chunks, want 2", len(chunks))
	}
	if chunks[0].Text != "first" || chunks[1].Text != "second" {
		t.Errorf("Retrieve() reordered results: %v", chunks)
	}
	if chunks[1].Distance != 0.4 {
		t.Errorf("chunk distance = %v, want 0.4", chunks[1].Distance)
	}
}

func TestAskSendsGroundedPrompt(t *testing.T) {
	store := &fakeVectorStore{
		count: 1,
		results: []chroma.QueryResult{
			{Text: "the sky is blue", Metadata: loader.Metadata{"source": "sky.txt"}},
		},
	}
	llm := &fakeChatClient{answer: "It is blue."}
	svc := rag.NewService(store, llm, "llama3.1:8b", 5)

	answer, sources, err := svc.Ask(context.Background(), "what color is the sky?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if answer != "It is blue." {
		t.Errorf("Ask() answer = %q", answer)
	}
	if len(sources) != 1 {
		t.Fatalf("Ask() returned %d sources, want 1", len(sources))
	}
	if llm.lastModel != "llama3.1:8b" {
		t.Errorf("chat model = %q", llm.lastModel)
	}
	if len(llm.lastMessages) != 1 || llm.lastMessages[0].Role != "user" {
		t.Fatalf("messages = %v, want a single user message", llm.lastMessages)
	}

	prompt := llm.lastMessages[0].Content
	if !strings.Contains(prompt, "[Source: sky.txt]\nthe sky is blue") {
		t.Errorf("prompt missing labeled context block:\n%s", prompt)
	}
	if !strings.HasSuffix(prompt, "Question: what color is the sky?") {
		t.Errorf("prompt does not end with the question:\n%s", prompt)
	}
}

func TestAskStreamForwardsFragments(t *testing.T) {
	store := &fakeVectorStore{count: 0}
	llm := &fakeChatClient{fragments: []string{"It ", "is ", "blue."}}
	svc := rag.NewService(store, llm, "llama3.1:8b", 5)

	var got strings.Builder
	sources, err := svc.AskStream(context.Background(), "what color is the sky?", func(fragment string) error {
		got.WriteString(fragment)
		return nil
	})
	if err != nil {
		t.Fatalf("AskStream() error = %v", err)
	}

	if got.String() != "It is blue." {
		t.Errorf("streamed answer = %q", got.String())
	}
	if len(sources) != 0 {
		t.Errorf("sources = %v, want none from an empty store", sources)
	}
	if !strings.Contains(llm.lastMessages[0].Content, "general knowledge") {
		t.Errorf("empty-store prompt is not the general-knowledge fallback:\n%s", llm.lastMessages[0].Content)
	}
}

func TestBuildPromptWithoutContext(t *testing.T) {
	prompt, err := rag.BuildPrompt("who wrote this?", nil)
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}

	if !strings.Contains(prompt, "general knowledge") {
		t.Errorf("fallback prompt missing general-knowledge instruction:\n%s", prompt)
	}
	if !strings.HasSuffix(prompt, "Question: who wrote this?") {
		t.Errorf("prompt does not end with the question:\n%s", prompt)
	}
}

func TestBuildPromptContextBlocks(t *testing.T) {
	chunks := []rag.RetrievedChunk{
		{Text: "intro text", Metadata: loader.Metadata{"source": "guide.pdf", "page": 3}},
		{Text: "closing text", Metadata: loader.Metadata{"source": "notes.txt"}},
		{Text: "orphan text", Metadata: loader.Metadata{}},
	}

	prompt, err := rag.BuildPrompt("q", chunks)
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}

	if !strings.Contains(prompt, "[Source: guide.pdf, page 3]\nintro text") {
		t.Errorf("prompt missing paginated source label:\n%s", prompt)
	}
	if !strings.Contains(prompt, "[Source: notes.txt]\nclosing text") {
		t.Errorf("prompt missing plain source label:\n%s", prompt)
	}
	if !strings.Contains(prompt, "[Source: unknown]\norphan text") {
		t.Errorf("prompt missing unknown-source fallback:\n%s", prompt)
	}
	if strings.Count(prompt, "\n\n---\n\n") != 2 {
		t.Errorf("prompt blocks not joined by separator:\n%s", prompt)
	}
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"localmind/src/core/chunker"
	"localmind/src/core/ingest"
	"localmind/src/core/rag"
	"localmind/src/fsutil"
	"localmind/src/infrastructure/integrations/ollama"
	"localmind/src/loader"
	"localmind/src/storage/chroma"
)

// runtime bundles the wired services shared by the serve, ingest and ask
// commands. Configuration is read once here and nowhere else.
type runtime struct {
	ingestService *ingest.Service
	ragService    *rag.Service
	store         *chroma.SDK
	ollamaClient  *ollama.Client
}

func newRuntime(ctx context.Context) (*runtime, error) {
	ollamaClient, err := ollama.NewClient(viper.GetString("ollama.url"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	embedder := ollama.NewEmbedder(ollamaClient, viper.GetString("models.embedding"))
	store, err := chroma.NewSDK(ctx,
		viper.GetString("chroma.url"),
		viper.GetString("chroma.collection"),
		embedder,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	splitter, err := chunker.New(viper.GetInt("chunk.size"), viper.GetInt("chunk.overlap"))
	if err != nil {
		return nil, fmt.Errorf("invalid chunking configuration: %w", err)
	}

	fs := fsutil.NewLocalFileStore()
	for _, dir := range []string{viper.GetString("data.dir"), viper.GetString("documents.dir")} {
		if err := fs.MakeDirectory(dir); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}
	documentLoader := loader.NewDocumentLoader(fs)

	return &runtime{
		ingestService: ingest.NewService(documentLoader, store, splitter, fs),
		ragService: rag.NewService(store, ollamaClient,
			viper.GetString("models.chat"),
			viper.GetInt("retrieval.top_k"),
		),
		store:        store,
		ollamaClient: ollamaClient,
	}, nil
}

func (r *runtime) close() {
	r.store.Close()
}

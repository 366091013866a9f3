package chroma

import (
	"context"
	"encoding/json"
	"fmt"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"localmind/src/loader"
)

// Embedder is the embedding backend the collection uses to turn raw text
// into vectors. The rest of the system never computes or sees embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// QueryResult is one retrieved document with its similarity distance,
// smaller meaning closer.
type QueryResult struct {
	Text     string
	Metadata loader.Metadata
	Distance float64
}

// SDK encapsulates all ChromaDB operations against a single collection
type SDK struct {
	client     chromago.Client
	collection chromago.Collection
	embedder   Embedder
}

// NewSDK connects to the Chroma server at baseURL and opens (or creates)
// the named collection.
func NewSDK(ctx context.Context, baseURL, collectionName string, embedder Embedder) (*SDK, error) {
	client, err := chromago.NewHTTPClient(chromago.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}

	collection, err := client.GetOrCreateCollection(
		ctx,
		collectionName,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "localMind document chunks"),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create collection %s: %w", collectionName, err)
	}

	return &SDK{
		client:     client,
		collection: collection,
		embedder:   embedder,
	}, nil
}

// Close releases the underlying client resources.
func (s *SDK) Close() error {
	return s.client.Close()
}

// Add inserts the chunks in one batch. ids, texts and metadatas must be
// equal-length and positionally aligned.
func (s *SDK) Add(ctx context.Context, ids []string, texts []string, metadatas []loader.Metadata) error {
	if len(ids) != len(texts) || len(ids) != len(metadatas) {
		return fmt.Errorf("misaligned batch: %d ids, %d texts, %d metadatas", len(ids), len(texts), len(metadatas))
	}
	if len(ids) == 0 {
		return nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunk batch: %w", err)
	}

	docIDs := make([]chromago.DocumentID, len(ids))
	for i, id := range ids {
		docIDs[i] = chromago.DocumentID(id)
	}

	embs := make([]embeddings.Embedding, len(vectors))
	for i, v := range vectors {
		embs[i] = embeddings.NewEmbeddingFromFloat32(v)
	}

	metas := make([]chromago.DocumentMetadata, len(metadatas))
	for i, m := range metadatas {
		metas[i] = toDocumentMetadata(m)
	}

	err = s.collection.Add(ctx,
		chromago.WithIDs(docIDs...),
		chromago.WithTexts(texts...),
		chromago.WithEmbeddings(embs...),
		chromago.WithMetadatas(metas...),
	)
	if err != nil {
		return fmt.Errorf("failed to add chunks to chroma: %w", err)
	}
	return nil
}

// Count returns the number of stored chunks.
func (s *SDK) Count(ctx context.Context) (int, error) {
	count, err := s.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count collection: %w", err)
	}
	return int(count), nil
}

// Query embeds the text through the configured backend and returns the
// nResults closest chunks, best match first.
func (s *SDK) Query(ctx context.Context, text string, nResults int) ([]QueryResult, error) {
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := s.collection.Query(ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chromago.WithNResults(nResults),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chroma: %w", err)
	}

	docGroups := results.GetDocumentsGroups()
	metaGroups := results.GetMetadatasGroups()
	distGroups := results.GetDistancesGroups()
	if len(docGroups) == 0 {
		return nil, nil
	}

	out := make([]QueryResult, 0, len(docGroups[0]))
	for i, doc := range docGroups[0] {
		r := QueryResult{Text: doc.ContentString()}
		if len(metaGroups) > 0 && i < len(metaGroups[0]) {
			r.Metadata = fromDocumentMetadata(metaGroups[0][i])
		}
		if len(distGroups) > 0 && i < len(distGroups[0]) {
			r.Distance = float64(distGroups[0][i])
		}
		out = append(out, r)
	}
	return out, nil
}

func toDocumentMetadata(m loader.Metadata) chromago.DocumentMetadata {
	attrs := make([]*chromago.MetaAttribute, 0, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, chromago.NewStringAttribute(k, val))
		case int:
			attrs = append(attrs, chromago.NewIntAttribute(k, int64(val)))
		case int64:
			attrs = append(attrs, chromago.NewIntAttribute(k, val))
		case float64:
			attrs = append(attrs, chromago.NewFloatAttribute(k, val))
		case bool:
			attrs = append(attrs, chromago.NewBoolAttribute(k, val))
		}
	}
	return chromago.NewDocumentMetadata(attrs...)
}

// fromDocumentMetadata converts the client's metadata struct back into a
// plain map. The struct exposes no direct accessor over its values, so it
// goes through a JSON round trip.
func fromDocumentMetadata(meta chromago.DocumentMetadata) loader.Metadata {
	out := loader.Metadata{}
	if meta == nil {
		return out
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return out
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return out
	}
	for k, v := range m {
		out[k] = v
	}
	return out
}

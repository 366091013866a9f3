package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"localmind/src/core/chunker"
	"localmind/src/fsutil"
	"localmind/src/infrastructure/log"
	"localmind/src/loader"
)

// VectorStore is the storage collaborator: a batch insert of positionally
// aligned ids, texts and metadatas.
type VectorStore interface {
	Add(ctx context.Context, ids []string, texts []string, metadatas []loader.Metadata) error
}

// DocumentLoader resolves files and in-memory content into TextUnits.
type DocumentLoader interface {
	Load(ctx context.Context, path string) ([]loader.TextUnit, error)
	LoadBytes(ctx context.Context, name string, data []byte) ([]loader.TextUnit, error)
	IsSupported(name string) bool
}

// Upload is an in-memory document, typically received over HTTP.
type Upload struct {
	Name string
	Data []byte
}

// Result reports one ingestion invocation: how many chunks reached the
// store, and the per-file problems that did not abort the batch.
type Result struct {
	ChunksAdded int      `json:"chunks_added"`
	Errors      []string `json:"errors,omitempty"`
}

// Service drives the loader and chunker over a batch of inputs and hands
// the accumulated chunks to the vector store in a single call.
type Service struct {
	loader   DocumentLoader
	store    VectorStore
	splitter *chunker.Splitter
	fs       fsutil.FileStore

	// Progress, when set, is called once per processed file.
	Progress func(path string)
}

// NewService creates an ingestion Service.
func NewService(dl DocumentLoader, store VectorStore, splitter *chunker.Splitter, fs fsutil.FileStore) *Service {
	return &Service{
		loader:   dl,
		store:    store,
		splitter: splitter,
		fs:       fs,
	}
}

// batch accumulates the chunks of one ingestion invocation. It is owned
// exclusively by that invocation; nothing is shared across calls.
type batch struct {
	ids       []string
	texts     []string
	metadatas []loader.Metadata
	errs      []string
}

func (b *batch) add(id, text string, meta loader.Metadata) {
	b.ids = append(b.ids, id)
	b.texts = append(b.texts, text)
	b.metadatas = append(b.metadatas, meta)
}

func (b *batch) fail(format string, args ...interface{}) {
	b.errs = append(b.errs, fmt.Sprintf(format, args...))
}

// IngestPaths ingests files and directories. Directories are walked
// recursively and every supported file is picked up. A missing path or an
// unreadable document is recorded as an error string; the batch continues.
// The store is contacted exactly once, and not at all when no chunks were
// produced.
func (s *Service) IngestPaths(ctx context.Context, paths []string) (*Result, error) {
	b := &batch{}

	for _, p := range paths {
		info, err := s.fs.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				b.fail("Not found: %s", p)
			} else {
				b.fail("%s: %v", p, err)
			}
			continue
		}

		if !info.IsDir() {
			s.addFile(ctx, b, p)
			continue
		}

		files, err := s.fs.ListFiles(p)
		if err != nil {
			b.fail("%s: %v", p, err)
			continue
		}
		for _, f := range files {
			if s.loader.IsSupported(f) {
				s.addFile(ctx, b, f)
			}
		}
	}

	return s.flush(ctx, b)
}

// IngestUploads ingests in-memory documents. Chunk ids carry a token
// derived from the content so repeated uploads of same-named files cannot
// collide, and the metadata source is the upload's display name.
func (s *Service) IngestUploads(ctx context.Context, uploads []Upload) (*Result, error) {
	b := &batch{}

	for _, u := range uploads {
		units, err := s.loader.LoadBytes(ctx, u.Name, u.Data)
		if err != nil {
			b.fail("%s: %v", u.Name, err)
			continue
		}
		if len(units) == 0 {
			b.fail("Empty or unreadable: %s", u.Name)
			continue
		}

		token := contentToken(u.Data)
		base := baseName(u.Name)
		idx := 0
		for _, unit := range units {
			meta := unit.Metadata.Clone()
			meta[loader.MetadataKeySource] = u.Name
			for _, text := range s.splitter.Split(unit.Text) {
				b.add(fmt.Sprintf("%s_%d_%s", base, idx, token), text, meta.Clone())
				idx++
			}
		}
		if s.Progress != nil {
			s.Progress(u.Name)
		}
	}

	return s.flush(ctx, b)
}

// addFile loads one file and appends its chunks to the batch. Unsupported
// files load to zero units and are skipped silently; supported files that
// yield nothing are recorded as unreadable.
func (s *Service) addFile(ctx context.Context, b *batch, path string) {
	units, err := s.loader.Load(ctx, path)
	if err != nil {
		b.fail("%s: %v", path, err)
		return
	}
	if len(units) == 0 {
		if s.loader.IsSupported(path) {
			b.fail("Empty or unreadable: %s", path)
		}
		return
	}

	base := baseName(path)
	idx := 0
	for _, unit := range units {
		for _, text := range s.splitter.Split(unit.Text) {
			b.add(fmt.Sprintf("%s_%d", base, idx), text, unit.Metadata.Clone())
			idx++
		}
	}
	if s.Progress != nil {
		s.Progress(path)
	}
}

// flush performs the single store mutation of the invocation. An empty
// batch returns without contacting the store; a store failure is fatal for
// the whole call.
func (s *Service) flush(ctx context.Context, b *batch) (*Result, error) {
	if len(b.ids) == 0 {
		return &Result{ChunksAdded: 0, Errors: b.errs}, nil
	}

	if err := s.store.Add(ctx, b.ids, b.texts, b.metadatas); err != nil {
		return nil, fmt.Errorf("failed to store chunk batch: %w", err)
	}

	log.Info("ingested chunk batch", "chunks", len(b.ids), "errors", len(b.errs))
	return &Result{ChunksAdded: len(b.ids), Errors: b.errs}, nil
}

// baseName strips the directory and extension from a path, leaving the stem
// used as the chunk id prefix.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// contentToken derives a short deterministic token from the uploaded bytes.
func contentToken(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:4])
}

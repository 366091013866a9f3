package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"localmind/src/core/chunker"
	"localmind/src/core/ingest"
	"localmind/src/fsutil"
	"localmind/src/loader"
)

type fakeStore struct {
	calls     int
	ids       []string
	texts     []string
	metadatas []loader.Metadata
	err       error
}

func (f *fakeStore) Add(ctx context.Context, ids []string, texts []string, metadatas []loader.Metadata) error {
	f.calls++
	f.ids = append(f.ids, ids...)
	f.texts = append(f.texts, texts...)
	f.metadatas = append(f.metadatas, metadatas...)
	return f.err
}

func newTestService(t *testing.T, store ingest.VectorStore, chunkSize, overlap int) *ingest.Service {
	t.Helper()
	splitter, err := chunker.New(chunkSize, overlap)
	if err != nil {
		t.Fatalf("chunker.New() error = %v", err)
	}
	fs := fsutil.NewLocalFileStore()
	return ingest.NewService(loader.NewDocumentLoader(fs), store, splitter, fs)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngestPathsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpha.txt", "first document")
	writeFile(t, dir, "beta.md", "second document")
	writeFile(t, dir, "skipme.png", "binary-ish noise")

	store := &fakeStore{}
	svc := newTestService(t, store, 1024, 200)

	var seen []string
	svc.Progress = func(path string) { seen = append(seen, path) }

	result, err := svc.IngestPaths(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("IngestPaths() error = %v", err)
	}

	if result.ChunksAdded != 2 {
		t.Errorf("ChunksAdded = %d, want 2", result.ChunksAdded)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Errors)
	}
	if store.calls != 1 {
		t.Errorf("store.Add called %d times, want exactly 1", store.calls)
	}
	if len(seen) != 2 {
		t.Errorf("progress reported %d files, want 2", len(seen))
	}

	wantIDs := map[string]bool{"alpha_0": true, "beta_0": true}
	for _, id := range store.ids {
		if !wantIDs[id] {
			t.Errorf("unexpected chunk id %q", id)
		}
	}
	for i, m := range store.metadatas {
		if m.Source() == "" {
			t.Errorf("chunk %d has no source metadata", i)
		}
	}
}

func TestIngestPathsChunkIDSequence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "long.txt", strings.Repeat("alpha beta gamma delta ", 20))

	store := &fakeStore{}
	svc := newTestService(t, store, 50, 0)

	result, err := svc.IngestPaths(context.Background(), []string{filepath.Join(dir, "long.txt")})
	if err != nil {
		t.Fatalf("IngestPaths() error = %v", err)
	}

	if result.ChunksAdded < 2 {
		t.Fatalf("ChunksAdded = %d, want multiple chunks", result.ChunksAdded)
	}
	for i, id := range store.ids {
		if want := fmt.Sprintf("long_%d", i); id != want {
			t.Errorf("chunk id[%d] = %q, want %q", i, id, want)
		}
	}
}

func TestIngestPathsMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.txt")

	store := &fakeStore{}
	svc := newTestService(t, store, 1024, 200)

	result, err := svc.IngestPaths(context.Background(), []string{missing})
	if err != nil {
		t.Fatalf("IngestPaths() error = %v", err)
	}

	if result.ChunksAdded != 0 {
		t.Errorf("ChunksAdded = %d, want 0", result.ChunksAdded)
	}
	want := "Not found: " + missing
	if len(result.Errors) != 1 || result.Errors[0] != want {
		t.Errorf("Errors = %v, want [%q]", result.Errors, want)
	}
	if store.calls != 0 {
		t.Errorf("store.Add called %d times for an empty batch, want 0", store.calls)
	}
}

func TestIngestPathsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "blank.txt", "   \n")

	store := &fakeStore{}
	svc := newTestService(t, store, 1024, 200)

	result, err := svc.IngestPaths(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("IngestPaths() error = %v", err)
	}

	want := "Empty or unreadable: " + path
	if len(result.Errors) != 1 || result.Errors[0] != want {
		t.Errorf("Errors = %v, want [%q]", result.Errors, want)
	}
	if store.calls != 0 {
		t.Errorf("store.Add called %d times for an empty batch, want 0", store.calls)
	}
}

func TestIngestPathsPartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "useful content")
	missing := filepath.Join(dir, "gone.txt")

	store := &fakeStore{}
	svc := newTestService(t, store, 1024, 200)

	result, err := svc.IngestPaths(context.Background(), []string{good, missing})
	if err != nil {
		t.Fatalf("IngestPaths() error = %v", err)
	}

	if result.ChunksAdded != 1 {
		t.Errorf("ChunksAdded = %d, want 1", result.ChunksAdded)
	}
	if len(result.Errors) != 1 {
		t.Errorf("Errors = %v, want exactly the missing path", result.Errors)
	}
}

func TestIngestPathsStoreFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.txt", "content")

	store := &fakeStore{err: errors.New("connection refused")}
	svc := newTestService(t, store, 1024, 200)

	result, err := svc.IngestPaths(context.Background(), []string{dir})
	if err == nil {
		t.Fatal("IngestPaths() error = nil, want store failure surfaced")
	}
	if result != nil {
		t.Errorf("result = %v, want nil on store failure", result)
	}
}

func TestIngestUploads(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store, 1024, 200)

	uploads := []ingest.Upload{
		{Name: "notes.txt", Data: []byte("uploaded content")},
	}
	result, err := svc.IngestUploads(context.Background(), uploads)
	if err != nil {
		t.Fatalf("IngestUploads() error = %v", err)
	}

	if result.ChunksAdded != 1 {
		t.Fatalf("ChunksAdded = %d, want 1", result.ChunksAdded)
	}
	if !strings.HasPrefix(store.ids[0], "notes_0_") {
		t.Errorf("chunk id = %q, want prefix %q", store.ids[0], "notes_0_")
	}
	if token := strings.TrimPrefix(store.ids[0], "notes_0_"); len(token) != 8 {
		t.Errorf("content token = %q, want 8 hex chars", token)
	}
	if got := store.metadatas[0].Source(); got != "notes.txt" {
		t.Errorf("metadata source = %q, want %q", got, "notes.txt")
	}
}

func TestIngestUploadsDistinctContentDistinctIDs(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store, 1024, 200)

	uploads := []ingest.Upload{
		{Name: "dup.txt", Data: []byte("first version")},
		{Name: "dup.txt", Data: []byte("second version")},
	}
	if _, err := svc.IngestUploads(context.Background(), uploads); err != nil {
		t.Fatalf("IngestUploads() error = %v", err)
	}

	if len(store.ids) != 2 {
		t.Fatalf("stored %d chunks, want 2", len(store.ids))
	}
	if store.ids[0] == store.ids[1] {
		t.Errorf("same-named uploads produced colliding id %q", store.ids[0])
	}
}

func TestIngestUploadsEmpty(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store, 1024, 200)

	result, err := svc.IngestUploads(context.Background(), []ingest.Upload{
		{Name: "blank.txt", Data: []byte("  ")},
	})
	if err != nil {
		t.Fatalf("IngestUploads() error = %v", err)
	}

	want := "Empty or unreadable: blank.txt"
	if len(result.Errors) != 1 || result.Errors[0] != want {
		t.Errorf("Errors = %v, want [%q]", result.Errors, want)
	}
	if store.calls != 0 {
		t.Errorf("store.Add called %d times for an empty batch, want 0", store.calls)
	}
}

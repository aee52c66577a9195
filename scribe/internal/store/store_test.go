package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/scribe/caption"
	"github.com/hazyhaar/scribe/dbopen"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	return New(db)
}

func testVideo(id string) *Video {
	return &Video{
		VideoID: id,
		URL:     "https://videos.example/" + id,
		Title:   "Title of " + id,
		Author:  "Author",
		Summary: "A summary.",
		Tags:    []string{"go", "testing"},
	}
}

func testChunks(n int) []*Chunk {
	chunks := make([]*Chunk, n)
	for i := range chunks {
		chunks[i] = &Chunk{
			Text:  "chunk text " + string(rune('a'+i)),
			Start: float64(i * 10),
			End:   float64((i + 1) * 10),
		}
	}
	return chunks
}

func TestApplySchema(t *testing.T) {
	// WHAT: Schema creates base tables, FTS mirrors and the search log.
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	for _, table := range []string{"videos", "chunks", "videos_fts", "chunks_fts", "search_log"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestStoreVideo_RoundTrip(t *testing.T) {
	// WHAT: A stored video comes back whole, chunks ordered by start.
	s := openTestStore(t)
	ctx := context.Background()

	views := int64(1234)
	v := testVideo("v1")
	v.ViewCount = &views
	v.TLDR = "too long, did not watch"
	v.FullTranscript = "chunk text a chunk text b"

	chunks := []*Chunk{
		{Text: "second", Start: 30, End: 60, RawCues: []caption.Cue{{Start: 30, Text: "second"}}},
		{Text: "first", Start: 0, End: 30},
	}
	if err := s.StoreVideo(ctx, v, chunks); err != nil {
		t.Fatalf("store: %v", err)
	}
	if v.ProcessedAt == 0 {
		t.Error("processed_at not set at write time")
	}

	got, err := s.GetVideo(ctx, "v1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("video not found")
	}
	if got.Title != v.Title || got.TLDR != v.TLDR {
		t.Errorf("metadata: got %+v", got)
	}
	if got.ViewCount == nil || *got.ViewCount != views {
		t.Errorf("view_count: got %v", got.ViewCount)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" {
		t.Errorf("tags: got %v", got.Tags)
	}
	if len(got.Chunks) != 2 {
		t.Fatalf("chunks: got %d, want 2", len(got.Chunks))
	}
	if got.Chunks[0].Text != "first" || got.Chunks[1].Text != "second" {
		t.Errorf("chunk order: got %q, %q", got.Chunks[0].Text, got.Chunks[1].Text)
	}
	if len(got.Chunks[1].RawCues) != 1 || got.Chunks[1].RawCues[0].Text != "second" {
		t.Errorf("raw cues: got %+v", got.Chunks[1].RawCues)
	}
}

func TestStoreVideo_MissingID(t *testing.T) {
	s := openTestStore(t)
	err := s.StoreVideo(context.Background(), &Video{Title: "nameless"}, nil)
	if !errors.Is(err, ErrMissingVideoID) {
		t.Fatalf("got %v, want ErrMissingVideoID", err)
	}
}

func TestStoreVideo_UpsertReplace(t *testing.T) {
	// WHAT: Re-storing an id discards the old video and ALL its chunks.
	// WHY: Upsert is a full replace, never a partial merge.
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.StoreVideo(ctx, testVideo("v1"), testChunks(3)); err != nil {
		t.Fatalf("first store: %v", err)
	}

	v2 := testVideo("v1")
	v2.Title = "Replaced title"
	if err := s.StoreVideo(ctx, v2, testChunks(2)); err != nil {
		t.Fatalf("second store: %v", err)
	}

	got, err := s.GetVideo(ctx, "v1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Replaced title" {
		t.Errorf("title: got %q", got.Title)
	}
	if len(got.Chunks) != 2 {
		t.Errorf("chunks after replace: got %d, want 2", len(got.Chunks))
	}

	var ftsRows int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM chunks_fts`).Scan(&ftsRows); err != nil {
		t.Fatal(err)
	}
	if ftsRows != 2 {
		t.Errorf("chunks_fts rows after replace: got %d, want 2", ftsRows)
	}
}

func TestStoreVideo_AtomicRollback(t *testing.T) {
	// WHAT: A constraint violation on one chunk mid-store leaves no trace
	// of the new video AND restores the previously stored version intact.
	// WHY: Base tables and FTS mirrors must commit or roll back as a unit.
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.StoreVideo(ctx, testVideo("v1"), testChunks(3)); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	bad := testChunks(3)
	bad[1].Start = 50
	bad[1].End = 10 // violates CHECK (end >= start)
	v2 := testVideo("v1")
	v2.Title = "Should never land"
	err := s.StoreVideo(ctx, v2, bad)
	if err == nil {
		t.Fatal("store with invalid chunk succeeded")
	}

	got, err := s.GetVideo(ctx, "v1")
	if err != nil {
		t.Fatalf("get after rollback: %v", err)
	}
	if got == nil {
		t.Fatal("previous video lost after rollback")
	}
	if got.Title == "Should never land" {
		t.Error("partial replace observed")
	}
	if len(got.Chunks) != 3 {
		t.Errorf("chunks after rollback: got %d, want 3", len(got.Chunks))
	}

	// Fresh id failing mid-store must leave nothing at all.
	err = s.StoreVideo(ctx, testVideo("v2"), bad)
	if err == nil {
		t.Fatal("store with invalid chunk succeeded")
	}
	got, err = s.GetVideo(ctx, "v2")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("partially-inserted video observable: %+v", got)
	}
}

func TestDeleteVideo_Idempotent(t *testing.T) {
	// WHAT: delete(unknown) is a normal false; delete(existing) is true
	// and a following get reports not-found.
	s := openTestStore(t)
	ctx := context.Background()

	existed, err := s.DeleteVideo(ctx, "ghost")
	if err != nil {
		t.Fatalf("delete unknown: %v", err)
	}
	if existed {
		t.Error("delete unknown: got true, want false")
	}

	if err := s.StoreVideo(ctx, testVideo("v1"), testChunks(2)); err != nil {
		t.Fatalf("store: %v", err)
	}
	existed, err = s.DeleteVideo(ctx, "v1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !existed {
		t.Error("delete existing: got false, want true")
	}

	got, err := s.GetVideo(ctx, "v1")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("video still present after delete: %+v", got)
	}

	for _, q := range []string{
		`SELECT COUNT(*) FROM chunks`,
		`SELECT COUNT(*) FROM chunks_fts`,
	} {
		var n int
		if err := s.db.QueryRow(q).Scan(&n); err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Errorf("%s: got %d, want 0", q, n)
		}
	}
}

func TestGetChunks_Embeddings(t *testing.T) {
	// WHAT: Embeddings round-trip through the blob column and are only
	// decoded when asked for.
	s := openTestStore(t)
	ctx := context.Background()

	chunks := testChunks(2)
	chunks[0].Embedding = []float32{0.6, 0.8}
	if err := s.StoreVideo(ctx, testVideo("v1"), chunks); err != nil {
		t.Fatalf("store: %v", err)
	}

	plain, err := s.GetChunks(ctx, "v1", false)
	if err != nil {
		t.Fatalf("get chunks: %v", err)
	}
	if len(plain) != 2 {
		t.Fatalf("got %d chunks", len(plain))
	}
	if plain[0].Embedding != nil {
		t.Error("embedding returned without includeEmbeddings")
	}

	full, err := s.GetChunks(ctx, "v1", true)
	if err != nil {
		t.Fatalf("get chunks with embeddings: %v", err)
	}
	if len(full[0].Embedding) != 2 || full[0].Embedding[0] != 0.6 {
		t.Errorf("embedding: got %v", full[0].Embedding)
	}
	if full[1].Embedding != nil {
		t.Errorf("chunk without embedding: got %v", full[1].Embedding)
	}
}

func TestListRecent(t *testing.T) {
	// WHAT: Most recently processed first, transcript omitted, offset works.
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		v := testVideo(id)
		v.FullTranscript = "very long transcript for " + id
		if err := s.StoreVideo(ctx, v, nil); err != nil {
			t.Fatalf("store %s: %v", id, err)
		}
	}
	// Stores can land in the same millisecond; force a known order.
	for i, id := range []string{"a", "b", "c"} {
		if _, err := s.db.Exec(`UPDATE videos SET processed_at = ? WHERE video_id = ?`, 1000+i, id); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := s.ListRecent(ctx, 2, 0)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d videos, want 2", len(recent))
	}
	if recent[0].VideoID != "c" || recent[1].VideoID != "b" {
		t.Errorf("order: got %s, %s", recent[0].VideoID, recent[1].VideoID)
	}
	if recent[0].FullTranscript != "" {
		t.Error("transcript fetched in summary listing")
	}

	rest, err := s.ListRecent(ctx, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 1 || rest[0].VideoID != "a" {
		t.Errorf("offset page: got %+v", rest)
	}
}

func TestFTSMirror_LockStep(t *testing.T) {
	// WHAT: Every base-table write is mirrored in FTS within the same
	// transaction — counts match after store, replace and delete.
	s := openTestStore(t)
	ctx := context.Background()

	check := func(stage string) {
		t.Helper()
		var base, fts int
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM videos`).Scan(&base); err != nil {
			t.Fatal(err)
		}
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM videos_fts`).Scan(&fts); err != nil {
			t.Fatal(err)
		}
		if base != fts {
			t.Errorf("%s: videos=%d videos_fts=%d", stage, base, fts)
		}
	}

	s.StoreVideo(ctx, testVideo("v1"), testChunks(1))
	check("after store")
	s.StoreVideo(ctx, testVideo("v1"), testChunks(2))
	check("after replace")
	s.DeleteVideo(ctx, "v1")
	check("after delete")
}

func TestSearchLog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.LogSearch(ctx, "raft consensus", "videos", 3); err != nil {
		t.Fatalf("log search: %v", err)
	}
	entries, err := s.ListSearchLog(ctx, 10)
	if err != nil {
		t.Fatalf("list search log: %v", err)
	}
	if len(entries) != 1 || entries[0].Query != "raft consensus" || entries[0].ResultCount != 3 {
		t.Errorf("got %+v", entries)
	}
}

func TestGetVideo_NotFound(t *testing.T) {
	s := openTestStore(t)
	got, err := s.GetVideo(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestStoreVideo_TagsSerialized(t *testing.T) {
	// WHAT: Tags persist as a JSON array and survive odd characters.
	s := openTestStore(t)
	ctx := context.Background()

	v := testVideo("v1")
	v.Tags = []string{`quote"inside`, "ünïcode", ""}
	if err := s.StoreVideo(ctx, v, nil); err != nil {
		t.Fatalf("store: %v", err)
	}

	var raw string
	if err := s.db.QueryRow(`SELECT tags FROM videos WHERE video_id = 'v1'`).Scan(&raw); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(raw, "[") {
		t.Errorf("tags column not a JSON array: %q", raw)
	}

	got, err := s.GetVideo(ctx, "v1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tags) != 3 || got.Tags[0] != v.Tags[0] || got.Tags[1] != v.Tags[1] {
		t.Errorf("tags: got %v, want %v", got.Tags, v.Tags)
	}
}

// CLAUDE:SUMMARY Main Service orchestrator: ingestion pipeline (fetch→parse→chunk→embed→summarize→store) and query methods.
package scribe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazyhaar/scribe/caption"
	"github.com/hazyhaar/scribe/chunk"
	"github.com/hazyhaar/scribe/dbopen"
	"github.com/hazyhaar/scribe/embed"
	"github.com/hazyhaar/scribe/scribe/internal/search"
	"github.com/hazyhaar/scribe/scribe/internal/store"
	"github.com/hazyhaar/scribe/summarize"
	"github.com/hazyhaar/scribe/transcript"
	"github.com/hazyhaar/scribe/vec"
)

const defaultLimit = 10

// Service is the main scribe orchestrator.
type Service struct {
	db         *sql.DB
	ownsDB     bool
	store      *store.Store
	search     *search.Engine
	chunker    chunk.Strategy
	fetcher    transcript.Fetcher
	embedder   embed.Embedder
	summarizer summarize.Summarizer
	logger     *slog.Logger
	config     *Config
}

// ServiceOption configures a Service during creation.
type ServiceOption func(*Service)

// WithFetcher overrides the caption resolver. Used in tests with fakes.
func WithFetcher(f transcript.Fetcher) ServiceOption {
	return func(svc *Service) { svc.fetcher = f }
}

// WithEmbedder overrides the embedding client.
func WithEmbedder(e embed.Embedder) ServiceOption {
	return func(svc *Service) { svc.embedder = e }
}

// WithSummarizer overrides the summarization client.
func WithSummarizer(s summarize.Summarizer) ServiceOption {
	return func(svc *Service) { svc.summarizer = s }
}

// WithChunker overrides the transcript windowing strategy.
func WithChunker(c chunk.Strategy) ServiceOption {
	return func(svc *Service) { svc.chunker = c }
}

// WithDB uses an already-open database instead of opening Config.DBPath.
// The caller keeps ownership; Close will not close it.
func WithDB(db *sql.DB) ServiceOption {
	return func(svc *Service) { svc.db = db }
}

// New creates a scribe Service. The database is opened (and its schema
// applied) from cfg.DBPath unless WithDB provides one.
func New(cfg *Config, logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		cfg = defaultConfig()
	}
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	svc := &Service{
		chunker: chunk.NewWindower(cfg.Chunk),
		logger:  logger,
		config:  cfg,
	}
	for _, opt := range opts {
		opt(svc)
	}

	if svc.db == nil {
		db, err := dbopen.Open(cfg.DBPath, dbopen.WithMkdirAll(), dbopen.WithSchema(store.Schema))
		if err != nil {
			return nil, fmt.Errorf("scribe: open database: %w", err)
		}
		svc.db = db
		svc.ownsDB = true
	} else if err := store.ApplySchema(svc.db); err != nil {
		return nil, fmt.Errorf("scribe: apply schema: %w", err)
	}
	svc.store = store.New(svc.db)
	svc.search = search.New(svc.store)

	if svc.fetcher == nil {
		if cfg.Transcript.Endpoint == "" {
			svc.fetcher = unconfiguredFetcher{}
		} else {
			f, err := transcript.NewClient(cfg.Transcript)
			if err != nil {
				return nil, err
			}
			svc.fetcher = f
		}
	}
	if svc.embedder == nil {
		ecfg := cfg.Embed
		ecfg.Logger = logger
		svc.embedder = embed.New(ecfg)
	}
	if svc.summarizer == nil {
		scfg := cfg.Summarize
		scfg.Logger = logger
		svc.summarizer = summarize.New(scfg)
	}
	return svc, nil
}

// Close releases the database if the service opened it.
func (svc *Service) Close() error {
	if svc.ownsDB {
		return svc.db.Close()
	}
	return nil
}

// unconfiguredFetcher stands in when no resolver endpoint is set: queries
// over existing data still work, ingestion reports the missing config.
type unconfiguredFetcher struct{}

func (unconfiguredFetcher) Fetch(context.Context, string) (*transcript.Source, error) {
	return nil, fmt.Errorf("%w: no transcript resolver endpoint configured", ErrInvalidInput)
}

// Add runs the full ingestion pipeline for one video URL and stores the
// result. If the video was already ingested, its entry is replaced
// wholesale. Returns the stored video with its chunks.
func (svc *Service) Add(ctx context.Context, url string) (*Video, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", ErrInvalidInput)
	}

	src, err := svc.fetcher.Fetch(ctx, url)
	if err != nil {
		if errors.Is(err, transcript.ErrNoTranscript) || errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if src.Metadata.VideoID == "" {
		return nil, fmt.Errorf("%w: resolver returned no video_id for %s", ErrInvalidInput, url)
	}

	cues := caption.Parse(src.Captions)
	if len(cues) == 0 {
		return nil, transcript.ErrNoTranscript
	}
	chunks := svc.chunker.Chunk(cues, src.Metadata.Duration)

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := svc.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embed: %w", ErrUpstream, err)
	}

	sum, err := svc.summarizer.Summarize(ctx, &summarize.Request{
		Title:  src.Metadata.Title,
		Author: src.Metadata.Author,
		Chunks: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: summarize: %w", ErrUpstream, err)
	}

	video := &Video{
		VideoID:        src.Metadata.VideoID,
		URL:            src.Metadata.URL,
		Title:          src.Metadata.Title,
		Author:         src.Metadata.Author,
		Duration:       src.Metadata.Duration,
		ViewCount:      src.Metadata.ViewCount,
		UploadDate:     src.Metadata.UploadDate,
		Description:    src.Metadata.Description,
		Summary:        sum.Summary,
		TLDR:           sum.TLDR,
		Tags:           sum.Tags,
		FullTranscript: strings.Join(texts, " "),
	}
	if video.URL == "" {
		video.URL = url
	}

	rows := make([]*Chunk, len(chunks))
	for i, c := range chunks {
		rows[i] = &Chunk{
			VideoID:   video.VideoID,
			Text:      c.Text,
			Start:     c.Start,
			End:       c.End,
			Embedding: vec.Normalize(vectors[i]),
			RawCues:   c.Cues,
		}
	}

	if err := svc.store.StoreVideo(ctx, video, rows); err != nil {
		return nil, err
	}
	video.Chunks = rows

	svc.logger.Info("video ingested",
		"video_id", video.VideoID,
		"title", video.Title,
		"chunks", len(rows),
		"embedding_dim", svc.embedder.Dimension())
	return video, nil
}

// Reprocess re-runs the ingestion pipeline for a URL. The store replaces
// the previous entry atomically, so this is Add under another name kept
// for CLI symmetry.
func (svc *Service) Reprocess(ctx context.Context, url string) (*Video, error) {
	return svc.Add(ctx, url)
}

// Query runs a lexical search over videos (title, summary, tldr, tags,
// transcript), ranked by FTS5 relevance.
func (svc *Service) Query(ctx context.Context, term string, limit int) ([]VideoHit, error) {
	limit = clampLimit(limit)
	hits, err := svc.search.Videos(ctx, term, limit)
	if err != nil {
		return nil, err
	}
	svc.logSearch(ctx, term, "videos", len(hits))
	return hits, nil
}

// QueryChunks runs a lexical search over chunk text, returning timestamped
// passages with their parent video metadata.
func (svc *Service) QueryChunks(ctx context.Context, term string, limit int) ([]ChunkHit, error) {
	limit = clampLimit(limit)
	hits, err := svc.search.Chunks(ctx, term, limit)
	if err != nil {
		return nil, err
	}
	svc.logSearch(ctx, term, "chunks", len(hits))
	return hits, nil
}

// QuerySemantic embeds the term and ranks chunks by vector similarity.
func (svc *Service) QuerySemantic(ctx context.Context, term string, limit int) ([]ChunkHit, error) {
	limit = clampLimit(limit)
	if strings.TrimSpace(term) == "" {
		return []ChunkHit{}, nil
	}
	qv, err := svc.embedder.Embed(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", ErrUpstream, err)
	}
	hits, err := svc.search.Similar(ctx, vec.Normalize(qv), limit)
	if err != nil {
		return nil, err
	}
	svc.logSearch(ctx, term, "semantic", len(hits))
	return hits, nil
}

// Summary returns one video with its chunks, or nil if unknown.
func (svc *Service) Summary(ctx context.Context, videoID string) (*Video, error) {
	if videoID == "" {
		return nil, fmt.Errorf("%w: empty video_id", ErrInvalidInput)
	}
	return svc.store.GetVideo(ctx, videoID)
}

// Delete removes a video and all its chunks. Returns false if unknown.
func (svc *Service) Delete(ctx context.Context, videoID string) (bool, error) {
	if videoID == "" {
		return false, fmt.Errorf("%w: empty video_id", ErrInvalidInput)
	}
	return svc.store.DeleteVideo(ctx, videoID)
}

// Recent lists videos by processed_at descending, without transcripts.
func (svc *Service) Recent(ctx context.Context, limit, offset int) ([]*Video, error) {
	if offset < 0 {
		offset = 0
	}
	return svc.store.ListRecent(ctx, clampLimit(limit), offset)
}

// Stats returns aggregate counters for the knowledge base.
func (svc *Service) Stats(ctx context.Context) (*Stats, error) {
	return svc.store.GetStats(ctx)
}

// RecentSearches returns the latest entries of the query log.
func (svc *Service) RecentSearches(ctx context.Context, limit int) ([]SearchLogEntry, error) {
	return svc.store.ListSearchLog(ctx, clampLimit(limit))
}

// logSearch records the query without blocking or failing the caller.
func (svc *Service) logSearch(ctx context.Context, term, mode string, results int) {
	if strings.TrimSpace(term) == "" {
		return
	}
	if err := svc.store.LogSearch(context.WithoutCancel(ctx), term, mode, results); err != nil {
		svc.logger.Warn("search log write failed", "error", err)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}

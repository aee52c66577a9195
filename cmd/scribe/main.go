// CLAUDE:SUMMARY CLI entrypoint: add/reprocess/query/summary/list/delete/stats subcommands plus serve (HTTP + MCP stdio).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/scribe/scribe"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	var lvl slog.Level
	switch env("LOG_LEVEL", "info") {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	configPath := flag.String("config", env("SCRIBE_CONFIG", ""), "path to YAML config file")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	svc, err := scribe.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "add":
		cmdAdd(ctx, svc, args[1:], false)
	case "reprocess":
		cmdAdd(ctx, svc, args[1:], true)
	case "query":
		cmdQuery(ctx, svc, args[1:])
	case "summary":
		cmdSummary(ctx, svc, args[1:])
	case "list":
		cmdList(ctx, svc, args[1:])
	case "delete":
		cmdDelete(ctx, svc, args[1:])
	case "stats":
		cmdStats(ctx, svc)
	case "serve":
		cmdServe(ctx, svc, logger)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `scribe — searchable knowledge base for video transcripts

usage:
  scribe [-config file.yaml] <command> [args]

commands:
  add <url>                 Ingest a video: fetch captions, chunk, embed, summarize, store.
  reprocess <url>           Re-run ingestion; replaces the stored entry wholesale.
  query [flags] <term>      Search. Flags: --semantic, --chunks, --limit N.
  summary <video_id>        Print one video with its timestamped chunks.
  list [--limit N] [--offset N]
                            List recently ingested videos.
  delete <video_id>         Remove a video and all its chunks.
  stats                     Print knowledge base counters.
  serve                     HTTP API (HTTP_ADDR, default :8080); MCP on stdio
                            when MCP_TRANSPORT=stdio.

environment:
  SCRIBE_DB, SCRIBE_CONFIG, TRANSCRIPT_ENDPOINT, EMBED_ENDPOINT, EMBED_MODEL,
  SUMMARIZE_ENDPOINT, SUMMARIZE_MODEL, LOG_LEVEL
`)
}

// loadConfig merges the optional YAML file with environment overrides.
func loadConfig(path string) (*scribe.Config, error) {
	cfg := &scribe.Config{}
	if path != "" {
		loaded, err := scribe.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if v := os.Getenv("SCRIBE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TRANSCRIPT_ENDPOINT"); v != "" {
		cfg.Transcript.Endpoint = v
	}
	if v := os.Getenv("EMBED_ENDPOINT"); v != "" {
		cfg.Embed.Endpoint = v
	}
	if v := os.Getenv("EMBED_MODEL"); v != "" {
		cfg.Embed.Model = v
	}
	if v := os.Getenv("SUMMARIZE_ENDPOINT"); v != "" {
		cfg.Summarize.Endpoint = v
	}
	if v := os.Getenv("SUMMARIZE_MODEL"); v != "" {
		cfg.Summarize.Model = v
	}
	return cfg, nil
}

func cmdAdd(ctx context.Context, svc *scribe.Service, args []string, reprocess bool) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "add requires a video URL")
		os.Exit(1)
	}
	var (
		v   *scribe.Video
		err error
	)
	if reprocess {
		v, err = svc.Reprocess(ctx, args[0])
	} else {
		v, err = svc.Add(ctx, args[0])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ingest failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("stored %s (%q by %s): %d chunks\n", v.VideoID, v.Title, v.Author, len(v.Chunks))
	if v.TLDR != "" {
		fmt.Printf("tldr: %s\n", v.TLDR)
	}
}

func cmdQuery(ctx context.Context, svc *scribe.Service, args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	semantic := fs.Bool("semantic", false, "rank by embedding similarity instead of keywords")
	chunks := fs.Bool("chunks", false, "search chunk text instead of video metadata")
	limit := fs.Int("limit", 10, "max results")
	fs.Parse(args)

	term := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(term) == "" {
		fmt.Fprintln(os.Stderr, "query requires a search term")
		os.Exit(1)
	}

	switch {
	case *semantic:
		hits, err := svc.QuerySemantic(ctx, term, *limit)
		exitOn(err)
		for _, h := range hits {
			fmt.Printf("%.4f  [%s @ %s] %s\n", h.Score, h.Title, formatTime(h.Chunk.Start), oneLine(h.Chunk.Text))
		}
	case *chunks:
		hits, err := svc.QueryChunks(ctx, term, *limit)
		exitOn(err)
		for _, h := range hits {
			fmt.Printf("[%s @ %s] %s\n", h.Title, formatTime(h.Chunk.Start), oneLine(h.Chunk.Text))
		}
	default:
		hits, err := svc.Query(ctx, term, *limit)
		exitOn(err)
		for _, h := range hits {
			fmt.Printf("%s  %q by %s", h.Video.VideoID, h.Video.Title, h.Video.Author)
			if h.Video.TLDR != "" {
				fmt.Printf(" — %s", h.Video.TLDR)
			}
			fmt.Println()
		}
	}
}

func cmdSummary(ctx context.Context, svc *scribe.Service, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "summary requires a video_id")
		os.Exit(1)
	}
	v, err := svc.Summary(ctx, args[0])
	exitOn(err)
	if v == nil {
		fmt.Fprintf(os.Stderr, "unknown video: %s\n", args[0])
		os.Exit(1)
	}
	printJSON(v)
}

func cmdList(ctx context.Context, svc *scribe.Service, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("limit", 20, "max results")
	offset := fs.Int("offset", 0, "skip first N results")
	fs.Parse(args)

	videos, err := svc.Recent(ctx, *limit, *offset)
	exitOn(err)
	for _, v := range videos {
		fmt.Printf("%s  %q by %s (%s)\n", v.VideoID, v.Title, v.Author, formatTime(v.Duration))
	}
}

func cmdDelete(ctx context.Context, svc *scribe.Service, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "delete requires a video_id")
		os.Exit(1)
	}
	deleted, err := svc.Delete(ctx, args[0])
	exitOn(err)
	if !deleted {
		fmt.Fprintf(os.Stderr, "unknown video: %s\n", args[0])
		os.Exit(1)
	}
	fmt.Printf("deleted %s\n", args[0])
}

func cmdStats(ctx context.Context, svc *scribe.Service) {
	stats, err := svc.Stats(ctx)
	exitOn(err)
	printJSON(stats)
}

func cmdServe(ctx context.Context, svc *scribe.Service, logger *slog.Logger) {
	if env("MCP_TRANSPORT", "") == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "scribe",
			Version: "1.0.0",
		}, nil)
		svc.RegisterMCP(mcpSrv)

		logger.Info("MCP server starting on stdio")
		transport := &mcp.IOTransport{Reader: os.Stdin, Writer: os.Stdout}
		if err := mcpSrv.Run(ctx, transport); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "mcp server: %v\n", err)
			os.Exit(1)
		}
		return
	}

	addr := env("HTTP_ADDR", ":8080")
	server := &http.Server{Addr: addr, Handler: svc.Router()}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	logger.Info("HTTP server starting", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "http server: %v\n", err)
		os.Exit(1)
	}
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 160 {
		s = s[:160] + "..."
	}
	return s
}

func formatTime(seconds float64) string {
	total := int(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

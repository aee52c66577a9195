// CLAUDE:SUMMARY MCP tool surface: query, chunks, semantic, summary, recent, add, delete, stats.
package scribe

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/scribe/kit"
)

// RegisterMCP registers all scribe tools on an MCP server.
func (svc *Service) RegisterMCP(srv *mcp.Server) {
	svc.registerQuery(srv)
	svc.registerQueryChunks(srv)
	svc.registerQuerySemantic(srv)
	svc.registerSummary(srv)
	svc.registerRecent(srv)
	svc.registerAdd(srv)
	svc.registerDelete(srv)
	svc.registerStats(srv)
}

// instrument logs every tool invocation with its outcome and duration.
func (svc *Service) instrument(tool string) kit.Middleware {
	return func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			if err != nil {
				svc.logger.Warn("tool failed", "tool", tool, "duration", time.Since(start), "error", err)
				return nil, err
			}
			svc.logger.Debug("tool handled", "tool", tool, "duration", time.Since(start))
			return resp, nil
		}
	}
}

// registerTool wires the shared middleware stack in front of a tool endpoint.
func (svc *Service) registerTool(srv *mcp.Server, tool *mcp.Tool, endpoint kit.Endpoint, decode func(*mcp.CallToolRequest) (*kit.MCPDecodeResult, error)) {
	endpoint = kit.Chain(svc.instrument(tool.Name))(endpoint)
	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func (svc *Service) registerQuery(srv *mcp.Server) {
	type req struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}

	tool := &mcp.Tool{
		Name:        "scribe_query",
		Description: "Full-text search over ingested videos (title, summary, tags, transcript)",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Search terms"},
			"limit": map[string]any{"type": "integer", "description": "Max results"},
		}, []string{"query"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return svc.Query(ctx, p.Query, p.Limit)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerQueryChunks(srv *mcp.Server) {
	type req struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}

	tool := &mcp.Tool{
		Name:        "scribe_query_chunks",
		Description: "Full-text search over transcript chunks, returning timestamped passages",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Search terms"},
			"limit": map[string]any{"type": "integer", "description": "Max results"},
		}, []string{"query"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return svc.QueryChunks(ctx, p.Query, p.Limit)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerQuerySemantic(srv *mcp.Server) {
	type req struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}

	tool := &mcp.Tool{
		Name:        "scribe_similar",
		Description: "Semantic search: rank transcript chunks by embedding similarity to the query",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Natural language query"},
			"limit": map[string]any{"type": "integer", "description": "Max results"},
		}, []string{"query"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return svc.QuerySemantic(ctx, p.Query, p.Limit)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerSummary(srv *mcp.Server) {
	type req struct {
		VideoID string `json:"video_id"`
	}

	tool := &mcp.Tool{
		Name:        "scribe_summary",
		Description: "Get one video's summary, metadata and timestamped chunks",
		InputSchema: inputSchema(map[string]any{
			"video_id": map[string]any{"type": "string", "description": "Video ID"},
		}, []string{"video_id"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		v, err := svc.Summary(ctx, p.VideoID)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return map[string]string{"status": "not_found"}, nil
		}
		return v, nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerRecent(srv *mcp.Server) {
	type req struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}

	tool := &mcp.Tool{
		Name:        "scribe_recent",
		Description: "List recently ingested videos",
		InputSchema: inputSchema(map[string]any{
			"limit":  map[string]any{"type": "integer"},
			"offset": map[string]any{"type": "integer"},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return svc.Recent(ctx, p.Limit, p.Offset)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerAdd(srv *mcp.Server) {
	type req struct {
		URL string `json:"url"`
	}

	tool := &mcp.Tool{
		Name:        "scribe_add",
		Description: "Ingest a video URL: fetch captions, chunk, embed, summarize, store",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "Video URL"},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		v, err := svc.Add(ctx, p.URL)
		if err != nil {
			return nil, err
		}
		// Strip heavy fields from the tool response.
		return map[string]any{
			"video_id": v.VideoID,
			"title":    v.Title,
			"chunks":   len(v.Chunks),
			"tldr":     v.TLDR,
		}, nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerDelete(srv *mcp.Server) {
	type req struct {
		VideoID string `json:"video_id"`
	}

	tool := &mcp.Tool{
		Name:        "scribe_delete",
		Description: "Delete a video and all its chunks",
		InputSchema: inputSchema(map[string]any{
			"video_id": map[string]any{"type": "string"},
		}, []string{"video_id"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		deleted, err := svc.Delete(ctx, p.VideoID)
		if err != nil {
			return nil, err
		}
		if !deleted {
			return map[string]string{"status": "not_found"}, nil
		}
		return map[string]string{"status": "deleted"}, nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerStats(srv *mcp.Server) {
	type req struct{}

	tool := &mcp.Tool{
		Name:        "scribe_stats",
		Description: "Get knowledge base statistics (videos, chunks, embedded chunks)",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return svc.Stats(ctx)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if len(r.Params.Arguments) > 0 {
			if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
				return nil, err
			}
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/docgen/internal/config"
	"github.com/hpungsan/docgen/internal/db"
	"github.com/hpungsan/docgen/internal/embed"
	"github.com/hpungsan/docgen/internal/errors"
	"github.com/hpungsan/docgen/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// PathsRequest represents the arguments of tools that only read sources.
type PathsRequest struct {
	Paths []string `json:"paths"`
}

// RenderRequest represents the arguments for render and check.
type RenderRequest struct {
	Paths    []string `json:"paths"`
	Format   string   `json:"format,omitempty"`
	Section  string   `json:"section,omitempty"`
	UseIndex bool     `json:"use_index,omitempty"`
}

// LookupRequest represents the arguments for lookup.
type LookupRequest struct {
	Name   string `json:"name,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	File   string `json:"file,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// HandleExtract handles the extract tool call.
func (h *Handlers) HandleExtract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PathsRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Extract(ctx, h.cfg, ops.ExtractInput{Paths: input.Paths})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCompile handles the compile tool call.
func (h *Handlers) HandleCompile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PathsRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Compile(ctx, h.cfg, ops.CompileInput{Paths: input.Paths})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRender handles the render tool call.
func (h *Handlers) HandleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RenderRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Render(ctx, h.cfg, ops.RenderInput{
		Paths:   input.Paths,
		Format:  input.Format,
		Section: input.Section,
		Extra:   h.extra(input.UseIndex),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCheck handles the check tool call.
func (h *Handlers) HandleCheck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RenderRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Check(ctx, h.cfg, ops.CheckInput{
		Paths:   input.Paths,
		Format:  input.Format,
		Section: input.Section,
		Extra:   h.extra(input.UseIndex),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleIndex handles the index tool call.
func (h *Handlers) HandleIndex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PathsRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Index(ctx, h.db, h.cfg, ops.IndexInput{Paths: input.Paths})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleLookup handles the lookup tool call.
func (h *Handlers) HandleLookup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LookupRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Lookup(h.db, ops.LookupInput{
		Name:   input.Name,
		Kind:   input.Kind,
		Prefix: input.Prefix,
		File:   input.File,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// extra returns the symbol index as an embed source when requested.
func (h *Handlers) extra(useIndex bool) embed.Source {
	if !useIndex || h.db == nil {
		return nil
	}
	return db.Index{DB: h.db}
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if dErr, ok := errors.As(err); ok {
		errorObj := map[string]any{
			"code":    dErr.Code,
			"message": dErr.Message,
		}
		if dErr.Line > 0 {
			errorObj["line"] = dErr.Line
		}
		if dErr.Code != errors.ErrInternal && dErr.Details != nil {
			errorObj["details"] = dErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

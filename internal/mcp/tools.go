package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/filescope/internal/indexer"
	"github.com/dshills/filescope/internal/storage"
	"github.com/dshills/filescope/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeIndexingInProgress = -32002 // Another scan is already running
	ErrorCodeNotIndexed         = -32003 // File name not in the index
)

// drainMax bounds the events collected per receive while waiting for a scan
const drainMax = 256

// handleIndexDirectory runs one scan to completion
func (s *Server) handleIndexDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	session, ok := s.coord.Start(ctx)
	if !ok {
		return nil, newMCPError(ErrorCodeIndexingInProgress, indexer.ErrScanInProgress.Error(), map[string]interface{}{
			"root": s.coord.Root(),
		})
	}

	// The scan blocks on a full channel, so the events are consumed here
	var files []string
	for {
		events, done := session.Drain(drainMax)
		for _, ev := range events {
			if !ev.Done {
				files = append(files, ev.FilePath)
			}
		}
		if done {
			break
		}
	}

	stats, err := session.Wait(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error":         err.Error(),
			"files_reached": len(files),
		})
	}

	response := map[string]interface{}{
		"session_id":    session.ID,
		"root":          s.coord.Root(),
		"files_indexed": stats.FilesIndexed,
		"dirs_pruned":   stats.DirsPruned,
		"batches":       stats.Batches,
		"duration_ms":   stats.Duration.Milliseconds(),
	}
	if len(files) > 10 {
		response["files"] = files[:10]
		response["files_truncated"] = true
	} else {
		response["files"] = files
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListFiles returns every distinct indexed name
func (s *Server) handleListFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.storage.ListNames(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list files", map[string]interface{}{
			"error": err.Error(),
		})
	}
	rows, err := s.storage.Count(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to count rows", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"names": names,
		"count": len(names),
		"rows":  rows,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetFile returns the stored path and vector of the first row for a name
func (s *Server) handleGetFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requireName(request)
	if err != nil {
		return nil, err
	}

	row, err := s.storage.FindByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notIndexed(name)
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to look up file", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"name":      row.FileName,
		"path":      row.FilePath,
		"dimension": len(row.Vector),
		"vector":    row.Vector,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListDefinitions parses the file behind a name
func (s *Server) handleListDefinitions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requireName(request)
	if err != nil {
		return nil, err
	}

	sel, err := s.inspector.Describe(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notIndexed(name)
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read file", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"name":      sel.File.FileName,
		"path":      sel.File.FilePath,
		"classes":   definitionList(sel.Classes),
		"functions": definitionList(sel.Functions),
	}
	if len(sel.ParseErrors) > 0 {
		messages := make([]string, len(sel.ParseErrors))
		for i := range sel.ParseErrors {
			messages[i] = sel.ParseErrors[i].Error()
		}
		response["parse_errors"] = messages
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

func requireName(request mcp.CallToolRequest) (string, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	name, ok := args["name"].(string)
	if !ok || name == "" {
		return "", newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}
	return name, nil
}

func notIndexed(name string) error {
	return newMCPError(ErrorCodeNotIndexed, "file not indexed", map[string]interface{}{
		"name":    name,
		"message": "Run index_directory first or check list_files.",
	})
}

func definitionList(defs []types.Definition) []map[string]interface{} {
	out := make([]map[string]interface{}, len(defs))
	for i, d := range defs {
		out[i] = map[string]interface{}{
			"name": d.Name,
			"line": d.Line,
		}
	}
	return out
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

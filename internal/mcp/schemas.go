package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexDirectoryTool returns the tool definition for index_directory
func indexDirectoryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_directory",
		Description: "Scan the configured root for .py and .md files and append them to the index",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// listFilesTool returns the tool definition for list_files
func listFilesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_files",
		Description: "List the distinct file names in the index",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// getFileTool returns the tool definition for get_file
func getFileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_file",
		Description: "Return the stored path and filename embedding of an indexed file",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "File name as listed by list_files, e.g. models.py",
				},
			},
			Required: []string{"name"},
		},
	}
}

// listDefinitionsTool returns the tool definition for list_definitions
func listDefinitionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_definitions",
		Description: "Parse an indexed Python file and list its classes and functions with their start lines",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "File name as listed by list_files",
				},
			},
			Required: []string{"name"},
		},
	}
}

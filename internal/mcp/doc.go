// Package mcp exposes the file index over the Model Context Protocol.
//
// The server speaks JSON-RPC 2.0 on stdio and offers four tools:
//   - index_directory: scan the configured root and append every .py and .md file
//   - list_files: list the distinct indexed file names
//   - get_file: return the stored path and filename embedding for a name
//   - list_definitions: parse the file behind a name and list its classes and functions
//
// Scans go through the same indexer.Coordinator as the terminal UI, so a
// second index_directory call while one is running fails with code -32002
// and the message "indexing in progress".
//
// # Tool: list_definitions
//
//	Request:
//	{
//	  "name": "list_definitions",
//	  "arguments": {"name": "models.py"}
//	}
//
//	Response:
//	{
//	  "name": "models.py",
//	  "path": "./app/models.py",
//	  "classes": [{"name": "User", "line": 4}],
//	  "functions": [{"name": "create_user", "line": 12}]
//	}
//
// A file that is not Python, or does not parse, yields empty lists and a
// parse_errors entry.
//
// # Error codes
//   - -32602: invalid params
//   - -32603: internal error (store, filesystem, embedder)
//   - -32002: indexing in progress
//   - -32003: file not indexed
//
// # Logging
//
// stdout carries the protocol, so logs go to the configured log file.
package mcp

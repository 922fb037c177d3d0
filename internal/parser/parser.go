package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/dshills/filescope/internal/logging"
	"github.com/dshills/filescope/pkg/types"
)

var (
	// ErrUnsupported is recorded for files whose extension has no grammar
	ErrUnsupported = errors.New("unsupported language")
	// ErrSyntax is recorded when the source does not parse cleanly
	ErrSyntax = errors.New("syntax error")
)

// Node kinds collected from Python trees
const (
	kindClass    = "class_definition"
	kindFunction = "function_definition"
	kindAsync    = "async"
)

// Parser extracts class and function definitions from Python source using
// tree-sitter. Other file types yield empty results.
type Parser struct {
	python *tree_sitter.Language
	logger *slog.Logger
}

// New creates a new Parser instance
func New(logger *slog.Logger) *Parser {
	return &Parser{
		python: tree_sitter.NewLanguage(tree_sitter_python.Language()),
		logger: logging.OrDefault(logger),
	}
}

// ParseFile reads filePath and parses it. Read failures are recorded in the
// result like parse failures.
func (p *Parser) ParseFile(filePath string) *types.ParseResult {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return p.fail(filePath, 0, 0, fmt.Errorf("failed to read file: %w", err))
	}
	return p.Parse(filePath, content)
}

// Parse extracts definitions from src. The returned result always has
// non-nil Classes and Functions; on any failure both are empty and the
// failure is in Errors.
func (p *Parser) Parse(filePath string, src []byte) *types.ParseResult {
	if filepath.Ext(filePath) != ".py" {
		return p.fail(filePath, 0, 0, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(filePath)))
	}
	if !utf8.Valid(src) {
		return p.fail(filePath, 0, 0, errors.New("source is not valid UTF-8"))
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.python); err != nil {
		return p.fail(filePath, 0, 0, fmt.Errorf("failed to load grammar: %w", err))
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return p.fail(filePath, 0, 0, errors.New("parser returned no tree"))
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return p.fail(filePath, 0, 0, errors.New("parser returned no root"))
	}
	if root.HasError() {
		line, col := firstErrorPosition(root)
		return p.fail(filePath, line, col, ErrSyntax)
	}

	result := types.NewParseResult(filePath)
	walk(root, func(node *tree_sitter.Node) {
		var kind types.DefinitionKind
		switch node.Kind() {
		case kindClass:
			kind = types.KindClass
		case kindFunction:
			if isAsync(node) {
				return
			}
			kind = types.KindFunction
		default:
			return
		}

		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return
		}

		_ = result.Add(types.Definition{
			Name: nameNode.Utf8Text(src),
			Kind: kind,
			Line: int(node.StartPosition().Row) + 1,
		})
	})

	return result
}

// fail builds an empty result carrying err and logs it
func (p *Parser) fail(filePath string, line, col int, err error) *types.ParseResult {
	result := types.NewParseResult(filePath)
	result.Fail(line, col, err.Error())

	p.logger.Warn("parse failed",
		slog.String("file", filepath.Base(filePath)),
		slog.Int("line", line),
		slog.String("error", err.Error()))
	return result
}

// walk visits node and its descendants in pre-order, which is source order
func walk(node *tree_sitter.Node, visit func(*tree_sitter.Node)) {
	visit(node)
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			walk(child, visit)
		}
	}
}

// isAsync reports whether a function_definition is a coroutine. Coroutines
// are not collected, though functions nested inside them are.
func isAsync(node *tree_sitter.Node) bool {
	first := node.Child(0)
	return first != nil && first.Kind() == kindAsync
}

// firstErrorPosition returns the 1-based line and column of the first
// ERROR or MISSING node, or 0, 0 if none is found.
func firstErrorPosition(root *tree_sitter.Node) (int, int) {
	line, col := 0, 0
	walk(root, func(node *tree_sitter.Node) {
		if line != 0 {
			return
		}
		if node.IsError() || node.IsMissing() {
			pos := node.StartPosition()
			line, col = int(pos.Row)+1, int(pos.Column)+1
		}
	})
	return line, col
}

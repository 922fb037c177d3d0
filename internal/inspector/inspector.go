package inspector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/dshills/filescope/internal/logging"
	"github.com/dshills/filescope/internal/parser"
	"github.com/dshills/filescope/internal/storage"
	"github.com/dshills/filescope/pkg/types"
)

// Selection is everything shown for one selected file
type Selection struct {
	File       storage.IndexedFile
	VectorText string
	Source     string
	Classes    []types.Definition
	Functions  []types.Definition
	// ParseErrors holds why definitions could not be extracted, if they could not
	ParseErrors []types.ParseError
}

// Inspector looks up a selected file in the index, parses it fresh from disk
// and pushes the result to its views.
type Inspector struct {
	store  storage.Storage
	parser *parser.Parser
	views  Views
	logger *slog.Logger

	mu          sync.Mutex
	classLines  map[string]int
	funcLines   map[string]int
	highlighted int
}

// New creates an inspector bound to views
func New(store storage.Storage, p *parser.Parser, views Views, logger *slog.Logger) *Inspector {
	logger = logging.OrDefault(logger)
	if p == nil {
		p = parser.New(logger)
	}
	return &Inspector{
		store:  store,
		parser: p,
		views:  views,
		logger: logger,
	}
}

// Describe resolves name to its first indexed row and parses the file it
// points at. It touches no views. A file that is indexed but unreadable is
// returned with empty Source and the read error.
func (i *Inspector) Describe(ctx context.Context, name string) (*Selection, error) {
	row, err := i.store.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", name, err)
	}

	vectorText, err := storage.EncodeVector(row.Vector)
	if err != nil {
		return nil, err
	}

	sel := &Selection{
		File:       *row,
		VectorText: vectorText,
		Classes:    []types.Definition{},
		Functions:  []types.Definition{},
	}

	content, err := os.ReadFile(row.FilePath)
	if err != nil {
		return sel, fmt.Errorf("read %s: %w", row.FilePath, err)
	}
	sel.Source = string(content)

	result := i.parser.Parse(row.FilePath, content)
	sel.Classes = result.Classes
	sel.Functions = result.Functions
	sel.ParseErrors = result.Errors
	return sel, nil
}

// Select clears every view, then shows name's path, vector, definitions
// and source. Failures are logged and leave the affected views empty.
func (i *Inspector) Select(ctx context.Context, name string) *Selection {
	sel, err := i.Describe(ctx, name)
	i.Show(name, sel, err)
	return sel
}

// Show applies the outcome of Describe to the views. It is split from
// Select so the lookup can run off the UI goroutine.
func (i *Inspector) Show(name string, sel *Selection, err error) {
	i.clear()

	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			i.logger.Info("file not in index", slog.String("file", name))
		} else {
			i.logger.Error("failed to load file", slog.String("file", name), slog.String("error", err.Error()))
		}
	}
	if sel == nil {
		return
	}

	if v := i.views.Path; v != nil {
		v.ShowPath(sel.File.FilePath)
	}
	if v := i.views.Vector; v != nil {
		v.ShowVector(sel.VectorText)
	}

	// An unreadable file still gets placeholders; only the code stays empty
	i.mu.Lock()
	i.classLines = types.LineIndex(sel.Classes)
	i.funcLines = types.LineIndex(sel.Functions)
	i.mu.Unlock()

	if v := i.views.Definitions; v != nil {
		v.ShowClasses(namesOrPlaceholder(sel.Classes, PlaceholderNoClasses))
		v.ShowFunctions(namesOrPlaceholder(sel.Functions, PlaceholderNoFunctions))
	}
	if err != nil {
		return
	}
	if v := i.views.Code; v != nil {
		v.ShowCode(sel.File.FilePath, sel.Source)
	}
}

// Jump scrolls the code view to the named definition and highlights its
// line, replacing any earlier highlight. For duplicate names the last
// definition wins. Placeholders and unknown names are ignored.
func (i *Inspector) Jump(kind types.DefinitionKind, name string) (int, bool) {
	i.mu.Lock()
	var lines map[string]int
	switch kind {
	case types.KindClass:
		lines = i.classLines
	case types.KindFunction:
		lines = i.funcLines
	}
	line, ok := lines[name]
	if !ok {
		i.mu.Unlock()
		return 0, false
	}
	previous := i.highlighted
	i.highlighted = line
	i.mu.Unlock()

	if v := i.views.Code; v != nil {
		if previous != 0 {
			v.ClearHighlight()
		}
		v.ScrollTo(line)
		v.Highlight(line)
	}
	return line, true
}

// clear empties every view and forgets the previous file's definitions
func (i *Inspector) clear() {
	i.mu.Lock()
	i.classLines = nil
	i.funcLines = nil
	i.highlighted = 0
	i.mu.Unlock()

	if v := i.views.Path; v != nil {
		v.ClearPath()
	}
	if v := i.views.Vector; v != nil {
		v.ClearVector()
	}
	if v := i.views.Definitions; v != nil {
		v.ClearDefinitions()
	}
	if v := i.views.Code; v != nil {
		v.ClearHighlight()
		v.ClearCode()
	}
}

func namesOrPlaceholder(defs []types.Definition, placeholder string) []string {
	if len(defs) == 0 {
		return []string{placeholder}
	}
	return types.Names(defs)
}

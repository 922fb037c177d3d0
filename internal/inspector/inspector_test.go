package inspector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/filescope/internal/storage"
	"github.com/dshills/filescope/pkg/types"
)

// fakeViews records what the inspector shows
type fakeViews struct {
	path      string
	vector    string
	classes   []string
	functions []string
	code      string
	scrolled  int
	highlight int
	calls     []string
}

func (f *fakeViews) ShowPath(path string) { f.path = path; f.calls = append(f.calls, "path") }
func (f *fakeViews) ClearPath()           { f.path = ""; f.calls = append(f.calls, "clear-path") }

func (f *fakeViews) ShowVector(text string) { f.vector = text; f.calls = append(f.calls, "vector") }
func (f *fakeViews) ClearVector()           { f.vector = ""; f.calls = append(f.calls, "clear-vector") }

func (f *fakeViews) ShowClasses(names []string)   { f.classes = names }
func (f *fakeViews) ShowFunctions(names []string) { f.functions = names }
func (f *fakeViews) ClearDefinitions() {
	f.classes, f.functions = nil, nil
	f.calls = append(f.calls, "clear-defs")
}

func (f *fakeViews) ShowCode(path, text string) { f.code = text; f.calls = append(f.calls, "code") }
func (f *fakeViews) ClearCode()                 { f.code = ""; f.calls = append(f.calls, "clear-code") }
func (f *fakeViews) ScrollTo(line int)          { f.scrolled = line }
func (f *fakeViews) Highlight(line int)         { f.highlight = line; f.calls = append(f.calls, "highlight") }
func (f *fakeViews) ClearHighlight()            { f.highlight = 0; f.calls = append(f.calls, "clear-highlight") }

func (f *fakeViews) views() Views {
	return Views{Path: f, Vector: f, Definitions: f, Code: f}
}

func setup(t *testing.T) (storage.Storage, string) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, t.TempDir()
}

func index(t *testing.T, store storage.Storage, dir, name, content string, vector ...float32) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, store.AppendBatch(context.Background(), []storage.IndexedFile{
		{FileName: name, FilePath: path, Vector: vector},
	}))
	return path
}

const fixture = "# module a\n\nclass Foo:\n    value = 1\n\n\ndef bar():\n    return Foo()\n"

func TestSelect_EndToEnd(t *testing.T) {
	store, dir := setup(t)
	path := index(t, store, dir, "a.py", fixture, 0.5, -0.25)

	fv := &fakeViews{}
	insp := New(store, nil, fv.views(), nil)

	sel := insp.Select(context.Background(), "a.py")
	require.NotNil(t, sel)

	assert.Equal(t, path, fv.path)
	assert.Equal(t, "[0.5,-0.25]", fv.vector)
	assert.Equal(t, []string{"Foo"}, fv.classes)
	assert.Equal(t, []string{"bar"}, fv.functions)
	assert.Equal(t, fixture, fv.code)

	line, ok := insp.Jump(types.KindFunction, "bar")
	require.True(t, ok)
	assert.Equal(t, 7, line)
	assert.Equal(t, 7, fv.scrolled)
	assert.Equal(t, 7, fv.highlight)

	line, ok = insp.Jump(types.KindClass, "Foo")
	require.True(t, ok)
	assert.Equal(t, 3, line)
	assert.Equal(t, 3, fv.highlight)
}

func TestSelect_ClearsBeforeShowing(t *testing.T) {
	store, dir := setup(t)
	index(t, store, dir, "a.py", fixture)

	fv := &fakeViews{}
	insp := New(store, nil, fv.views(), nil)
	insp.Select(context.Background(), "a.py")

	require.GreaterOrEqual(t, len(fv.calls), 5)
	assert.Equal(t, []string{"clear-path", "clear-vector", "clear-defs", "clear-highlight", "clear-code"}, fv.calls[:5])
}

func TestSelect_Placeholders(t *testing.T) {
	store, dir := setup(t)
	index(t, store, dir, "consts.py", "class Settings:\n    debug = True\n")
	index(t, store, dir, "README.md", "# Title\n")

	fv := &fakeViews{}
	insp := New(store, nil, fv.views(), nil)

	insp.Select(context.Background(), "consts.py")
	assert.Equal(t, []string{"Settings"}, fv.classes)
	assert.Equal(t, []string{PlaceholderNoFunctions}, fv.functions)

	insp.Select(context.Background(), "README.md")
	assert.Equal(t, []string{PlaceholderNoClasses}, fv.classes)
	assert.Equal(t, []string{PlaceholderNoFunctions}, fv.functions)
	assert.Equal(t, "# Title\n", fv.code)

	_, ok := insp.Jump(types.KindFunction, PlaceholderNoFunctions)
	assert.False(t, ok)
}

func TestSelect_NotIndexed(t *testing.T) {
	store, dir := setup(t)
	index(t, store, dir, "a.py", fixture)

	fv := &fakeViews{}
	insp := New(store, nil, fv.views(), nil)
	insp.Select(context.Background(), "a.py")

	sel := insp.Select(context.Background(), "added_later.py")
	assert.Nil(t, sel)
	assert.Empty(t, fv.path)
	assert.Empty(t, fv.vector)
	assert.Empty(t, fv.classes)
	assert.Empty(t, fv.functions)
	assert.Empty(t, fv.code)

	_, ok := insp.Jump(types.KindFunction, "bar")
	assert.False(t, ok, "definitions from the previous file are forgotten")
}

func TestSelect_FileRemovedFromDisk(t *testing.T) {
	store, dir := setup(t)
	path := index(t, store, dir, "gone.py", fixture, 1)
	require.NoError(t, os.Remove(path))

	fv := &fakeViews{}
	insp := New(store, nil, fv.views(), nil)
	sel := insp.Select(context.Background(), "gone.py")

	require.NotNil(t, sel)
	assert.Equal(t, path, fv.path)
	assert.Equal(t, "[1]", fv.vector)
	assert.Equal(t, []string{PlaceholderNoClasses}, fv.classes)
	assert.Equal(t, []string{PlaceholderNoFunctions}, fv.functions)
	assert.Empty(t, fv.code)

	_, ok := insp.Jump(types.KindClass, PlaceholderNoClasses)
	assert.False(t, ok)
}

func TestSelect_SyntaxErrorShowsPlaceholders(t *testing.T) {
	store, dir := setup(t)
	index(t, store, dir, "broken.py", "def broken(:\n")

	fv := &fakeViews{}
	insp := New(store, nil, fv.views(), nil)
	sel := insp.Select(context.Background(), "broken.py")

	require.NotNil(t, sel)
	assert.NotEmpty(t, sel.ParseErrors)
	assert.Equal(t, []string{PlaceholderNoClasses}, fv.classes)
	assert.Equal(t, []string{PlaceholderNoFunctions}, fv.functions)
	assert.Equal(t, "def broken(:\n", fv.code)
}

func TestJump_LastDefinitionWins(t *testing.T) {
	store, dir := setup(t)
	src := "def run():\n    pass\n\n\ndef run():\n    return 1\n"
	index(t, store, dir, "dup.py", src)

	fv := &fakeViews{}
	insp := New(store, nil, fv.views(), nil)
	insp.Select(context.Background(), "dup.py")

	assert.Equal(t, []string{"run", "run"}, fv.functions)

	line, ok := insp.Jump(types.KindFunction, "run")
	require.True(t, ok)
	assert.Equal(t, 5, line)
}

func TestJump_ClearsPreviousHighlight(t *testing.T) {
	store, dir := setup(t)
	index(t, store, dir, "a.py", fixture)

	fv := &fakeViews{}
	insp := New(store, nil, fv.views(), nil)
	insp.Select(context.Background(), "a.py")

	insp.Jump(types.KindClass, "Foo")
	fv.calls = nil
	insp.Jump(types.KindFunction, "bar")

	assert.Equal(t, []string{"clear-highlight", "highlight"}, fv.calls)
	assert.Equal(t, 7, fv.highlight)
}

func TestJump_UnknownName(t *testing.T) {
	store, dir := setup(t)
	index(t, store, dir, "a.py", fixture)

	fv := &fakeViews{}
	insp := New(store, nil, fv.views(), nil)
	insp.Select(context.Background(), "a.py")

	_, ok := insp.Jump(types.KindClass, "bar")
	assert.False(t, ok)
	assert.Equal(t, 0, fv.highlight)
}

func TestDescribe_TouchesNoViews(t *testing.T) {
	store, dir := setup(t)
	index(t, store, dir, "a.py", fixture, 0.5)

	fv := &fakeViews{}
	insp := New(store, nil, fv.views(), nil)

	sel, err := insp.Describe(context.Background(), "a.py")
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo"}, types.Names(sel.Classes))
	assert.Empty(t, fv.calls)

	_, err = insp.Describe(context.Background(), "missing.py")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSelect_NilViews(t *testing.T) {
	store, dir := setup(t)
	index(t, store, dir, "a.py", fixture)

	insp := New(store, nil, Views{}, nil)
	assert.NotPanics(t, func() {
		insp.Select(context.Background(), "a.py")
		insp.Jump(types.KindFunction, "bar")
	})
}

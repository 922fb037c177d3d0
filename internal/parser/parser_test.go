package parser

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/filescope/pkg/types"
)

func newTestParser() *Parser {
	return New(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestParse_TwoClassesOneFunction(t *testing.T) {
	src := `import os


class First:
    pass


class Second(First):
    x = 1


def helper(a, b):
    return a + b
`
	result := newTestParser().Parse("models.py", []byte(src))

	require.False(t, result.Failed())
	assert.Equal(t, []types.Definition{
		{Name: "First", Kind: types.KindClass, Line: 4},
		{Name: "Second", Kind: types.KindClass, Line: 8},
	}, result.Classes)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, types.Definition{Name: "helper", Kind: types.KindFunction, Line: 12}, result.Functions[0])
}

func TestParse_EndToEndFixture(t *testing.T) {
	src := "# module a\n\nclass Foo:\n    value = 1\n\n\ndef bar():\n    return Foo()\n"
	result := newTestParser().Parse("a.py", []byte(src))

	assert.Equal(t, []string{"Foo"}, types.Names(result.Classes))
	assert.Equal(t, []string{"bar"}, types.Names(result.Functions))
	assert.Equal(t, 3, result.Classes[0].Line)
	assert.Equal(t, 7, result.Functions[0].Line)
}

func TestParse_NoFunctions(t *testing.T) {
	result := newTestParser().Parse("consts.py", []byte("class Config:\n    debug = False\n"))

	require.False(t, result.Failed())
	assert.NotNil(t, result.Functions)
	assert.Empty(t, result.Functions)
	assert.Len(t, result.Classes, 1)
}

func TestParse_EmptyFile(t *testing.T) {
	result := newTestParser().Parse("__init__.py", nil)

	assert.False(t, result.Failed())
	assert.Empty(t, result.Classes)
	assert.Empty(t, result.Functions)
}

func TestParse_NestedAndAsync(t *testing.T) {
	src := `class Outer:
    class Inner:
        def method(self):
            pass

    async def fetch(self):
        def local():
            pass
        return local


@decorator
def decorated():
    pass
`
	result := newTestParser().Parse("nested.py", []byte(src))

	require.False(t, result.Failed())
	assert.Equal(t, []types.Definition{
		{Name: "Outer", Kind: types.KindClass, Line: 1},
		{Name: "Inner", Kind: types.KindClass, Line: 2},
	}, result.Classes)
	assert.Equal(t, []types.Definition{
		{Name: "method", Kind: types.KindFunction, Line: 3},
		{Name: "local", Kind: types.KindFunction, Line: 7},
		{Name: "decorated", Kind: types.KindFunction, Line: 13},
	}, result.Functions)
}

func TestParse_AsyncFunctionsSkipped(t *testing.T) {
	src := "async def fetch():\n    pass\n\n\ndef sync():\n    pass\n"
	result := newTestParser().Parse("a.py", []byte(src))

	require.False(t, result.Failed())
	assert.Equal(t, []types.Definition{
		{Name: "sync", Kind: types.KindFunction, Line: 5},
	}, result.Functions)
}

func TestParse_SyntaxErrorYieldsEmpty(t *testing.T) {
	src := "class Good:\n    pass\n\ndef broken(:\n    pass\n"
	result := newTestParser().Parse("broken.py", []byte(src))

	assert.True(t, result.Failed())
	assert.Empty(t, result.Classes)
	assert.Empty(t, result.Functions)
	assert.Contains(t, result.Errors[0].Message, ErrSyntax.Error())
	assert.Greater(t, result.Errors[0].Line, 0)
}

func TestParse_UnsupportedExtension(t *testing.T) {
	var logs bytes.Buffer
	p := New(slog.New(slog.NewTextHandler(&logs, nil)))

	result := p.Parse("README.md", []byte("# Title\n\nclass NotCode:\n"))

	assert.True(t, result.Failed())
	assert.Empty(t, result.Classes)
	assert.Empty(t, result.Functions)
	assert.Contains(t, result.Errors[0].Message, ErrUnsupported.Error())
	assert.Contains(t, logs.String(), "README.md")
}

func TestParse_InvalidUTF8(t *testing.T) {
	result := newTestParser().Parse("latin1.py", []byte("name = '\xe9t\xe9'\n"))

	assert.True(t, result.Failed())
	assert.Empty(t, result.Functions)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tool.py")
	require.NoError(t, os.WriteFile(path, []byte("def main():\n    pass\n"), 0644))

	p := newTestParser()
	result := p.ParseFile(path)
	require.False(t, result.Failed())
	assert.Equal(t, []string{"main"}, types.Names(result.Functions))

	missing := p.ParseFile(filepath.Join(dir, "gone.py"))
	assert.True(t, missing.Failed())
	assert.Empty(t, missing.Classes)
	assert.Empty(t, missing.Functions)
}

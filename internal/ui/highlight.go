package ui

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

const tabWidth = 4

// expandTabs replaces each tab with spaces up to the next tab stop so
// highlighted and plain lines have equal widths
func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// highlightLines syntax highlights source for display, one entry per line of
// plain. Lines chroma cannot produce fall back to their plain text.
func highlightLines(path string, plain []string) []string {
	out := make([]string, len(plain))
	copy(out, plain)

	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		return out
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, strings.Join(plain, "\n"))
	if err != nil {
		return out
	}

	for i, line := range chroma.SplitTokensIntoLines(iterator.Tokens()) {
		if i >= len(out) {
			break
		}
		if n := len(line); n > 0 {
			line[n-1].Value = strings.TrimSuffix(line[n-1].Value, "\n")
		}

		var buf bytes.Buffer
		if err := formatter.Format(&buf, style, chroma.Literator(line...)); err != nil {
			continue
		}
		out[i] = strings.TrimSuffix(buf.String(), "\n")
	}
	return out
}

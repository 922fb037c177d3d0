package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// pathPane shows the selected file's stored path
type pathPane struct {
	path string
}

func (p *pathPane) ShowPath(path string) { p.path = path }
func (p *pathPane) ClearPath()           { p.path = "" }

// vectorPane shows the embedding text; it has no editing keys
type vectorPane struct {
	text     string
	viewport viewport.Model
}

func newVectorPane() *vectorPane {
	return &vectorPane{viewport: viewport.New(40, 3)}
}

func (v *vectorPane) ShowVector(text string) {
	v.text = text
	v.render()
	v.viewport.GotoTop()
}

func (v *vectorPane) ClearVector() {
	v.text = ""
	v.render()
}

func (v *vectorPane) SetSize(width, height int) {
	v.viewport.Width = width
	v.viewport.Height = height
	v.render()
}

func (v *vectorPane) render() {
	// Break after commas so long vectors wrap between numbers
	text := strings.ReplaceAll(v.text, ",", ", ")
	v.viewport.SetContent(lipgloss.NewStyle().Width(v.viewport.Width).Render(text))
}

// definitionsPane shows the class and function lists side by side
type definitionsPane struct {
	classes   *listPane
	functions *listPane
}

func newDefinitionsPane() *definitionsPane {
	return &definitionsPane{
		classes:   newListPane(classItemStyle),
		functions: newListPane(funcItemStyle),
	}
}

func (d *definitionsPane) ShowClasses(names []string)   { d.classes.SetItems(names) }
func (d *definitionsPane) ShowFunctions(names []string) { d.functions.SetItems(names) }
func (d *definitionsPane) ClearDefinitions() {
	d.classes.Clear()
	d.functions.Clear()
}

// codePane shows the selected file with line numbers and one jump line
type codePane struct {
	path        string
	plain       []string
	highlighted []string
	jumpLine    int
	viewport    viewport.Model
}

func newCodePane() *codePane {
	return &codePane{viewport: viewport.New(60, 10)}
}

func (c *codePane) ShowCode(path, text string) {
	c.path = path
	c.plain = strings.Split(expandTabs(strings.TrimSuffix(text, "\n")), "\n")
	c.highlighted = highlightLines(path, c.plain)
	c.render()
	c.viewport.GotoTop()
}

func (c *codePane) ClearCode() {
	c.path = ""
	c.plain = nil
	c.highlighted = nil
	c.render()
}

// ScrollTo puts the 1-based line near the middle of the view
func (c *codePane) ScrollTo(line int) {
	offset := line - 1 - c.viewport.Height/2
	if offset < 0 {
		offset = 0
	}
	c.viewport.SetYOffset(offset)
}

func (c *codePane) Highlight(line int) {
	c.jumpLine = line
	c.render()
}

func (c *codePane) ClearHighlight() {
	c.jumpLine = 0
	c.render()
}

func (c *codePane) SetSize(width, height int) {
	c.viewport.Width = width
	c.viewport.Height = height
	c.render()
}

func (c *codePane) render() {
	var b strings.Builder
	for i := range c.plain {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(lineNumberStyle.Render(strconv.Itoa(i + 1)))
		if i+1 == c.jumpLine {
			b.WriteString(jumpLineStyle.Render(c.plain[i]))
		} else {
			b.WriteString(c.highlighted[i])
		}
	}
	offset := c.viewport.YOffset
	c.viewport.SetContent(b.String())
	c.viewport.SetYOffset(offset)
}

package inspector

// Placeholder rows shown when a file has no definitions of a kind
const (
	PlaceholderNoClasses   = "[NO CLASSES IN FILE]"
	PlaceholderNoFunctions = "[NO FUNCTIONS IN FILE]"
)

// PathView displays the selected file's stored path
type PathView interface {
	ShowPath(path string)
	ClearPath()
}

// VectorView displays the stored embedding as read-only text
type VectorView interface {
	ShowVector(text string)
	ClearVector()
}

// DefinitionsView displays the class and function name lists
type DefinitionsView interface {
	ShowClasses(names []string)
	ShowFunctions(names []string)
	ClearDefinitions()
}

// CodeView displays file text and a single highlighted line
type CodeView interface {
	ShowCode(path, text string)
	ClearCode()
	// ScrollTo brings the 1-based line into view
	ScrollTo(line int)
	Highlight(line int)
	ClearHighlight()
}

// Views bundles the view handlers an Inspector drives. Nil handlers are skipped.
type Views struct {
	Path        PathView
	Vector      VectorView
	Definitions DefinitionsView
	Code        CodeView
}

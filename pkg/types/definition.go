package types

import "errors"

// DefinitionKind represents the kind of definition recovered from source
type DefinitionKind string

const (
	KindClass    DefinitionKind = "class"
	KindFunction DefinitionKind = "function"
)

// Definition is a named class or function and the 1-based line it starts on
type Definition struct {
	Name string
	Kind DefinitionKind
	Line int
}

// ValidateKind checks if the definition kind is valid
func (d *Definition) ValidateKind() error {
	switch d.Kind {
	case KindClass, KindFunction:
		return nil
	default:
		return ErrInvalidKind
	}
}

// Validate performs validation of the definition
func (d *Definition) Validate() error {
	if d.Name == "" {
		return errors.New("definition name is required")
	}
	if err := d.ValidateKind(); err != nil {
		return err
	}
	if d.Line < 1 {
		return ErrInvalidLine
	}
	return nil
}

// LineIndex maps definition names to their line numbers.
// A later definition with the same name replaces the earlier one.
func LineIndex(defs []Definition) map[string]int {
	index := make(map[string]int, len(defs))
	for _, d := range defs {
		index[d.Name] = d.Line
	}
	return index
}

// Names returns the definition names in order
func Names(defs []Definition) []string {
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

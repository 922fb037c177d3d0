// Package types provides shared type definitions for filescope.
//
// Definition is a class or function recovered from a source file, with the
// 1-based line it starts on. ParseResult carries the classes and functions of
// one file in source order, plus any errors hit while parsing:
//
//	result := p.Parse("a.py", src)
//	for _, cls := range result.Classes {
//	    fmt.Printf("%s at line %d\n", cls.Name, cls.Line)
//	}
//
// LineIndex builds the name to line mapping used for jump-to-definition.
// Duplicate names resolve to the last definition.
package types

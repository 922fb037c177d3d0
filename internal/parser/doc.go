// Package parser extracts class and function definitions from source files.
//
// Python files are parsed with tree-sitter. The whole tree is walked, so
// nested classes, methods and inner functions are all reported, each with
// the 1-based line its definition starts on. async def counts as a function.
//
// Parsing never fails outright. A file that does not parse cleanly, is not
// valid UTF-8, or has no supported grammar (Markdown, for instance) yields
// empty class and function lists with the reason in ParseResult.Errors.
//
//	p := parser.New(logger)
//	result := p.ParseFile("./pkg/models.py")
//	for _, c := range result.Classes {
//	    fmt.Printf("class %s at line %d\n", c.Name, c.Line)
//	}
package parser

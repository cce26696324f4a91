package entity

import (
	"github.com/hpungsan/docgen/internal/cursor"
)

// Functions extracts every function comment reachable from c. The cursor
// itself is not advanced.
func Functions(c *cursor.Cursor, o Options) ([]Function, error) {
	return extractAll(c, o, CategoryFunction, extractFunction)
}

// MacroFunctions extracts every macro_function comment reachable from c.
func MacroFunctions(c *cursor.Cursor, o Options) ([]MacroFunction, error) {
	return extractAll(c, o, CategoryMacroFunction, extractMacroFunction)
}

func extractFunction(p *pass, line int) (Function, error) {
	f := Function{Line: line}
	handlers := map[string]handler{
		"name":        p.once(&f.Name),
		"brief":       p.once(&f.Brief),
		"description": p.block(&f.Description),
		"notes":       p.block(&f.Notes),
		"example":     p.block(&f.Example),
		"param":       p.params(&f.Parameters, true),
		"return":      p.ret(&f.Return, true),
		"error":       p.list(&f.Errors),
		"include":     p.include(&f.Inclusions),
		"reference":   p.reference(&f.References),
	}
	if err := p.loop(CategoryFunction, handlers, "", line); err != nil {
		return Function{}, err
	}
	if err := requireTags(line, CategoryFunction, [2]string{"name", f.Name}, [2]string{"brief", f.Brief}); err != nil {
		return Function{}, err
	}
	return f, nil
}

// Macro parameters and returns are untyped, so no @type companion follows.
func extractMacroFunction(p *pass, line int) (MacroFunction, error) {
	m := MacroFunction{Line: line}
	handlers := map[string]handler{
		"name":        p.once(&m.Name),
		"brief":       p.once(&m.Brief),
		"description": p.block(&m.Description),
		"notes":       p.block(&m.Notes),
		"example":     p.block(&m.Example),
		"param":       p.params(&m.Parameters, false),
		"return":      p.ret(&m.Return, false),
		"error":       p.list(&m.Errors),
		"include":     p.include(&m.Inclusions),
		"reference":   p.reference(&m.References),
	}
	if err := p.loop(CategoryMacroFunction, handlers, "", line); err != nil {
		return MacroFunction{}, err
	}
	if err := requireTags(line, CategoryMacroFunction, [2]string{"name", m.Name}, [2]string{"brief", m.Brief}); err != nil {
		return MacroFunction{}, err
	}
	return m, nil
}

package embed

import (
	"strings"

	"github.com/hpungsan/docgen/internal/entity"
)

const indent = "    "

// declare joins a C type and a name, keeping pointer stars next to the name.
func declare(typ, name string) string {
	typ = strings.TrimSpace(typ)
	if strings.HasSuffix(typ, "*") {
		return typ + name
	}
	return typ + " " + name
}

// FunctionSignature renders the prototype of f.
func FunctionSignature(f *entity.Function) []string {
	ret := "void"
	if f.Return != nil && f.Return.Type != "" {
		ret = f.Return.Type
	}
	params := make([]string, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		params = append(params, declare(p.Type, p.Name))
	}
	list := "void"
	if len(params) > 0 {
		list = strings.Join(params, ", ")
	}
	return []string{declare(ret, f.Name) + "(" + list + ");"}
}

// MacroSignature renders the #define line of a function-like macro.
func MacroSignature(m *entity.MacroFunction) []string {
	names := make([]string, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		names = append(names, p.Name)
	}
	return []string{"#define " + m.Name + "(" + strings.Join(names, ", ") + ")"}
}

// ConstantSignature renders the #define line of a constant.
func ConstantSignature(k *entity.Constant) []string {
	return []string{"#define " + k.Name + " " + k.Value}
}

// StructureSignature renders the declaration of s and its nested structures.
func StructureSignature(s *entity.Structure) []string {
	var lines []string
	writeStructure(&lines, s, "")
	return lines
}

func writeStructure(lines *[]string, s *entity.Structure, prefix string) {
	head := "struct {"
	if s.Name != "" {
		head = "struct " + s.Name + " {"
	}
	*lines = append(*lines, prefix+head)
	for _, f := range s.Fields {
		*lines = append(*lines, prefix+indent+declare(f.Type, f.Name)+";")
	}
	for i := range s.Nested {
		writeStructure(lines, &s.Nested[i], prefix+indent)
	}
	*lines = append(*lines, prefix+"};")
}

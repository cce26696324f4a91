// Package entity holds the typed records built from annotation comments and
// the extractors that build them.
package entity

import "fmt"

// Kind identifies an embeddable record kind. The numeric values appear in the
// compiled intermediate form.
type Kind int

const (
	KindFunction Kind = iota
	KindMacroFunction
	KindConstant
	KindStructure
)

var kindNames = []string{"function", "macro_function", "constant", "structure"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText encodes k by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("unknown kind %q", b)
	}
	*k = parsed
	return nil
}

// ParseKind maps a category keyword to its Kind.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Parameter is a documented parameter. Type is empty for macro functions.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description"`
}

// Return documents a return value. Type is empty for macro functions.
type Return struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// Inclusion is a header the documented entity requires.
type Inclusion struct {
	Path   string `json:"path"`
	System bool   `json:"system"`
}

// Reference is a "see also" entry: manual(section).
type Reference struct {
	Manual  string `json:"manual"`
	Section string `json:"section"`
}

// Function documents a C function.
type Function struct {
	Name        string      `json:"name"`
	Brief       string      `json:"brief"`
	Description string      `json:"description,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	Example     string      `json:"example,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	Return      *Return     `json:"return,omitempty"`
	Errors      []string    `json:"errors,omitempty"`
	Inclusions  []Inclusion `json:"inclusions,omitempty"`
	References  []Reference `json:"references,omitempty"`
	Line        int         `json:"line"`
}

// MacroFunction documents a function-like macro.
type MacroFunction struct {
	Name        string      `json:"name"`
	Brief       string      `json:"brief"`
	Description string      `json:"description,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	Example     string      `json:"example,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	Return      *Return     `json:"return,omitempty"`
	Errors      []string    `json:"errors,omitempty"`
	Inclusions  []Inclusion `json:"inclusions,omitempty"`
	References  []Reference `json:"references,omitempty"`
	Line        int         `json:"line"`
}

// Constant documents an object-like macro.
type Constant struct {
	Name       string      `json:"name"`
	Brief      string      `json:"brief,omitempty"`
	Value      string      `json:"value"`
	Guard      bool        `json:"guard"`
	Inclusions []Inclusion `json:"inclusions,omitempty"`
	Line       int         `json:"line"`
}

// StructField is one member of a Structure.
type StructField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Structure documents a struct. Nested structures are owned by their parent.
type Structure struct {
	Name        string        `json:"name,omitempty"`
	Brief       string        `json:"brief,omitempty"`
	Description string        `json:"description,omitempty"`
	Fields      []StructField `json:"fields,omitempty"`
	Nested      []Structure   `json:"nested,omitempty"`
	Inclusions  []Inclusion   `json:"inclusions,omitempty"`
	References  []Reference   `json:"references,omitempty"`
	Line        int           `json:"line"`
}

// Depth returns the length of the longest nested-structure chain below s.
func (s *Structure) Depth() int {
	depth := 0
	for i := range s.Nested {
		if d := s.Nested[i].Depth() + 1; d > depth {
			depth = d
		}
	}
	return depth
}

// Settings are the boolean switches a project comment may turn on.
type Settings struct {
	FunctionBriefs  bool `json:"function_briefs"`
	MacroBriefs     bool `json:"macro_briefs"`
	ConstantBriefs  bool `json:"constant_briefs"`
	StructureBriefs bool `json:"structure_briefs"`
}

// AllowBrief reports whether embeds of kind k carry their brief comment.
func (s Settings) AllowBrief(k Kind) bool {
	switch k {
	case KindFunction:
		return s.FunctionBriefs
	case KindMacroFunction:
		return s.MacroBriefs
	case KindConstant:
		return s.ConstantBriefs
	case KindStructure:
		return s.StructureBriefs
	}
	return false
}

// EmbedRequest asks for another record's signature to be reinserted.
type EmbedRequest struct {
	Kind       Kind   `json:"kind"`
	Name       string `json:"name"`
	AllowBrief bool   `json:"allow_brief"`
	Line       int    `json:"line"`
}

// Project documents a whole project or a category of entities.
type Project struct {
	Name        string         `json:"name"`
	Brief       string         `json:"brief"`
	Description string         `json:"description,omitempty"`
	Arguments   string         `json:"arguments,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	Example     string         `json:"example,omitempty"`
	Settings    Settings       `json:"settings"`
	Inclusions  []Inclusion    `json:"inclusions,omitempty"`
	References  []Reference    `json:"references,omitempty"`
	Embeds      []EmbedRequest `json:"embeds,omitempty"`
	Line        int            `json:"line"`
}

// Pools collects every record found in one source file, in discovery order.
// Names are not deduplicated; lookups take the first match.
type Pools struct {
	Functions      []Function      `json:"functions,omitempty"`
	MacroFunctions []MacroFunction `json:"macro_functions,omitempty"`
	Constants      []Constant      `json:"constants,omitempty"`
	Structures     []Structure     `json:"structures,omitempty"`
	Projects       []Project       `json:"projects,omitempty"`
	Categories     []Project       `json:"categories,omitempty"`
}

// Len returns the number of records in all pools.
func (p *Pools) Len() int {
	return len(p.Functions) + len(p.MacroFunctions) + len(p.Constants) +
		len(p.Structures) + len(p.Projects) + len(p.Categories)
}

// Append adds the records of other after those of p.
func (p *Pools) Append(other *Pools) {
	p.Functions = append(p.Functions, other.Functions...)
	p.MacroFunctions = append(p.MacroFunctions, other.MacroFunctions...)
	p.Constants = append(p.Constants, other.Constants...)
	p.Structures = append(p.Structures, other.Structures...)
	p.Projects = append(p.Projects, other.Projects...)
	p.Categories = append(p.Categories, other.Categories...)
}

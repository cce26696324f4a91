package embed

import "github.com/hpungsan/docgen/internal/entity"

// PoolSource resolves embeds against extracted pools. The first record with
// a matching name wins.
type PoolSource struct {
	Pools *entity.Pools
}

// Lookup implements Source.
func (s PoolSource) Lookup(kind entity.Kind, name string) (Fragment, bool, error) {
	if s.Pools == nil {
		return Fragment{}, false, nil
	}
	if f, ok := FromPools(s.Pools, kind, name); ok {
		return f, true, nil
	}
	return Fragment{}, false, nil
}

// FromPools linear-searches the pool of kind for name.
func FromPools(p *entity.Pools, kind entity.Kind, name string) (Fragment, bool) {
	switch kind {
	case entity.KindFunction:
		for i := range p.Functions {
			if f := &p.Functions[i]; f.Name == name {
				return Fragment{Kind: kind, Name: name, Brief: f.Brief, Signature: FunctionSignature(f)}, true
			}
		}
	case entity.KindMacroFunction:
		for i := range p.MacroFunctions {
			if m := &p.MacroFunctions[i]; m.Name == name {
				return Fragment{Kind: kind, Name: name, Brief: m.Brief, Signature: MacroSignature(m)}, true
			}
		}
	case entity.KindConstant:
		for i := range p.Constants {
			if k := &p.Constants[i]; k.Name == name {
				return Fragment{Kind: kind, Name: name, Brief: k.Brief, Signature: ConstantSignature(k)}, true
			}
		}
	case entity.KindStructure:
		for i := range p.Structures {
			if s := &p.Structures[i]; s.Name == name {
				return Fragment{Kind: kind, Name: name, Brief: s.Brief, Signature: StructureSignature(s)}, true
			}
		}
	}
	return Fragment{}, false
}

// All returns a fragment for every embeddable record in the pools, in pool
// order. Used to build the cross-file index.
func All(p *entity.Pools) []Fragment {
	var out []Fragment
	for i := range p.Functions {
		f := &p.Functions[i]
		out = append(out, Fragment{Kind: entity.KindFunction, Name: f.Name, Brief: f.Brief, Signature: FunctionSignature(f)})
	}
	for i := range p.MacroFunctions {
		m := &p.MacroFunctions[i]
		out = append(out, Fragment{Kind: entity.KindMacroFunction, Name: m.Name, Brief: m.Brief, Signature: MacroSignature(m)})
	}
	for i := range p.Constants {
		k := &p.Constants[i]
		out = append(out, Fragment{Kind: entity.KindConstant, Name: k.Name, Brief: k.Brief, Signature: ConstantSignature(k)})
	}
	for i := range p.Structures {
		s := &p.Structures[i]
		out = append(out, Fragment{Kind: entity.KindStructure, Name: s.Name, Brief: s.Brief, Signature: StructureSignature(s)})
	}
	return out
}

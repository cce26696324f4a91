// Package embed resolves embed requests into rendered signature fragments.
package embed

import (
	"sort"
	"strings"

	"github.com/hpungsan/docgen/internal/entity"
	"github.com/hpungsan/docgen/internal/errors"
)

// Fragment is the rendered signature of one embeddable record.
type Fragment struct {
	Kind      entity.Kind `json:"kind"`
	Name      string      `json:"name"`
	Brief     string      `json:"brief,omitempty"`
	Signature []string    `json:"signature"`
}

// Commented reports whether the fragment is emitted with its brief comment.
func (f Fragment) Commented() bool { return f.Brief != "" }

// Lines returns the fragment as source lines: the brief comment, if any,
// followed by the signature.
func (f Fragment) Lines() []string {
	if !f.Commented() {
		return f.Signature
	}
	out := make([]string, 0, len(f.Signature)+1)
	out = append(out, "/* "+f.Brief+" */")
	return append(out, f.Signature...)
}

// Source finds embeddable records by kind and exact name.
type Source interface {
	Lookup(kind entity.Kind, name string) (Fragment, bool, error)
}

// Sources tries each source in order and returns the first hit.
type Sources []Source

// Lookup implements Source.
func (s Sources) Lookup(kind entity.Kind, name string) (Fragment, bool, error) {
	for _, src := range s {
		if src == nil {
			continue
		}
		f, ok, err := src.Lookup(kind, name)
		if err != nil || ok {
			return f, ok, err
		}
	}
	return Fragment{}, false, nil
}

// Resolve looks up every request in order. Repeated requests for the same
// kind and name collapse onto the first. A request that no source satisfies
// fails the whole resolution.
func Resolve(requests []entity.EmbedRequest, src Source) ([]Fragment, error) {
	type key struct {
		kind entity.Kind
		name string
	}
	seen := make(map[key]bool, len(requests))
	out := make([]Fragment, 0, len(requests))

	for _, req := range requests {
		k := key{req.Kind, req.Name}
		if seen[k] {
			continue
		}
		seen[k] = true

		f, ok, err := src.Lookup(req.Kind, req.Name)
		if err != nil {
			return nil, err
		}
		if !ok {
			e := errors.NewUnknownEmbed(req.Kind.String(), req.Name)
			e.Line = req.Line
			return nil, e
		}
		if !req.AllowBrief {
			f.Brief = ""
		}
		out = append(out, f)
	}
	return out, nil
}

// Arrange orders fragments for a synopsis: grouped by kind in kind order,
// uncommented entries before commented ones, request order otherwise.
func Arrange(frags []Fragment) []Fragment {
	out := append([]Fragment(nil), frags...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return !out[i].Commented() && out[j].Commented()
	})
	return out
}

// Text joins the lines of arranged fragments, separating kinds with a blank
// line.
func Text(frags []Fragment) string {
	var b strings.Builder
	for i, f := range frags {
		if i > 0 {
			b.WriteByte('\n')
			if frags[i-1].Kind != f.Kind || f.Commented() || len(f.Signature) > 1 {
				b.WriteByte('\n')
			}
		}
		b.WriteString(strings.Join(f.Lines(), "\n"))
	}
	return b.String()
}

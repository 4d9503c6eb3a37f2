// Package jsonpath compiles JSONPath expressions and applies mapping entries to
// the nodes they select.
//
// Expressions are parsed and evaluated by github.com/ohler55/ojg/jp. The
// document is exposed to jp through read-only views, so a match is reported as
// the arena node it came from rather than as a copy.
//
// Supported syntax: root ($), dot names (.name), bracket names (['name']),
// wildcards (.* and [*]), indices ([0], [-1]), slices ([0:4:2]), unions
// ([0,2] or ['a','b']) and recursive descent (..name, ..*, ..[0]).
// Filters and relative (@) expressions are rejected.
package jsonpath

import (
	"github.com/mcncl/jsonrewrite/internal/models"
	"github.com/ohler55/ojg/jp"
)

// Path is a compiled expression. Raw keeps the source text for messages.
type Path struct {
	Expr jp.Expr
	Raw  string

	// steps holds Expr split into single selections. A ".." fragment is kept
	// together with the selector that follows it.
	steps []step
}

type step struct {
	expr       jp.Expr
	descendant bool
}

// Compile parses expr. Errors are *errors.InvalidJSONPathError.
func Compile(expr string) (*Path, error) {
	x, err := parse(expr)
	if err != nil {
		return nil, err
	}
	steps, err := plan(expr, x)
	if err != nil {
		return nil, err
	}
	return &Path{Expr: x, Raw: expr, steps: steps}, nil
}

// MustCompile is Compile for expressions known to be valid. It panics on error.
func MustCompile(expr string) *Path {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the expression as jp renders it.
func (p *Path) String() string {
	return p.Expr.String()
}

// Locate returns the nodes the path selects in doc, in document order and
// without duplicates. A selected node that sits inside another selected node
// is dropped: replacing the outer node detaches it.
//
// Each step runs against the de-duplicated output of the previous one, and a
// ".." step only starts from the outermost of its inputs, so chained
// descents stay linear in the document size.
func (p *Path) Locate(doc *models.Document) []models.NodeID {
	current := []models.NodeID{doc.Root}
	for _, st := range p.steps {
		inputs := current
		if st.descendant {
			inputs = outermost(doc, current)
		}
		seen := make(map[models.NodeID]struct{}, len(inputs))
		var next []models.NodeID
		for _, id := range inputs {
			for _, v := range st.expr.Get(view(doc, id)) {
				child, ok := nodeOf(v)
				if !ok {
					continue
				}
				if _, dup := seen[child]; dup {
					continue
				}
				seen[child] = struct{}{}
				next = append(next, child)
			}
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return outermost(doc, current)
}

// outermost walks doc from the root and returns the members of ids it meets,
// in document order, without looking inside a node once it has been taken.
// IDs that are not reachable from the root are dropped.
func outermost(doc *models.Document, ids []models.NodeID) []models.NodeID {
	if len(ids) == 1 && ids[0] == doc.Root {
		return ids
	}
	want := make(map[models.NodeID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	out := make([]models.NodeID, 0, len(want))
	var walk func(models.NodeID)
	walk = func(id models.NodeID) {
		if _, ok := want[id]; ok {
			out = append(out, id)
			return
		}
		n := doc.Node(id)
		switch n.Kind {
		case models.KindObject:
			for _, m := range n.Members {
				walk(m.Value)
			}
		case models.KindArray:
			for _, e := range n.Elements {
				walk(e)
			}
		}
	}
	walk(doc.Root)
	return out
}

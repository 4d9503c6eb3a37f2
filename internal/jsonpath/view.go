package jsonpath

import (
	"github.com/mcncl/jsonrewrite/internal/models"
	"github.com/ohler55/ojg/jp"
)

// The views below let jp walk the arena directly. Containers implement
// jp.Keyed and jp.Indexed; scalars are wrapped in a named integer type so jp
// treats them as leaves. Every value jp hands back is one of these views, so
// the node ID of a match is always known.
//
// Views are read-only. Writes go through substitute.Substituter, never
// through jp's Set or Remove.

var (
	_ jp.Keyed   = (*objectView)(nil)
	_ jp.Indexed = arrayView{}
)

type objectView struct {
	doc *models.Document
	id  models.NodeID

	// index is built on first lookup; jp asks for every key in turn when it
	// walks an object.
	index map[string]models.NodeID
}

func (o *objectView) ValueForKey(key string) (any, bool) {
	if o.index == nil {
		members := o.doc.Node(o.id).Members
		o.index = make(map[string]models.NodeID, len(members))
		for _, m := range members {
			o.index[m.Key] = m.Value
		}
	}
	child, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return view(o.doc, child), true
}

func (o *objectView) SetValueForKey(string, any) {}

func (o *objectView) RemoveValueForKey(string) {}

func (o *objectView) Keys() []string {
	members := o.doc.Node(o.id).Members
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = m.Key
	}
	return keys
}

type arrayView struct {
	doc *models.Document
	id  models.NodeID
}

func (a arrayView) ValueAtIndex(index int) any {
	elements := a.doc.Node(a.id).Elements
	if index < 0 || index >= len(elements) {
		return nil
	}
	return view(a.doc, elements[index])
}

func (a arrayView) SetValueAtIndex(int, any) {}

func (a arrayView) Size() int {
	return len(a.doc.Node(a.id).Elements)
}

// scalarView stands for a string, number, boolean or null node.
type scalarView models.NodeID

func view(doc *models.Document, id models.NodeID) any {
	switch doc.Node(id).Kind {
	case models.KindObject:
		return &objectView{doc: doc, id: id}
	case models.KindArray:
		return arrayView{doc: doc, id: id}
	default:
		return scalarView(id)
	}
}

func nodeOf(v any) (models.NodeID, bool) {
	switch tv := v.(type) {
	case *objectView:
		return tv.id, true
	case arrayView:
		return tv.id, true
	case scalarView:
		return models.NodeID(tv), true
	}
	return 0, false
}

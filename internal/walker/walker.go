// Package walker applies path-keyed mappings by visiting every node of a
// document depth first and matching its traversal path against each selector.
package walker

import (
	"github.com/mcncl/jsonrewrite/internal/matcher"
	"github.com/mcncl/jsonrewrite/internal/models"
	"github.com/mcncl/jsonrewrite/internal/substitute"
)

// Walker is a substitute.Locator driven by traversal paths.
type Walker struct {
	entries  models.Mappings
	strategy models.PathMappingStrategy
}

// New returns a Walker for entries compared under strategy.
func New(entries models.Mappings, strategy models.PathMappingStrategy) *Walker {
	return &Walker{entries: entries, strategy: strategy}
}

// Apply rewrites doc in place: the first matching entry of every visited node
// replaces its value. The root itself has no path and is never replaced.
func Apply(doc *models.Document, entries models.Mappings, strategy models.PathMappingStrategy, ctx models.VariableContext) error {
	_, err := substitute.New(ctx, nil).Run(doc, New(entries, strategy))
	return err
}

// Locate implements substitute.Locator. Children are visited in document order;
// a matched node is handed to visit and not descended into.
func (w *Walker) Locate(doc *models.Document, visit func(substitute.Match) error) error {
	if len(w.entries) == 0 {
		return nil
	}
	return w.children(doc, doc.Root, matcher.Root, visit)
}

func (w *Walker) children(doc *models.Document, id models.NodeID, path matcher.Path, visit func(substitute.Match) error) error {
	node := doc.Node(id)
	switch node.Kind {
	case models.KindObject:
		for _, m := range node.Members {
			if err := w.visit(doc, m.Value, path.Field(m.Key), visit); err != nil {
				return err
			}
		}
	case models.KindArray:
		for i, e := range node.Elements {
			if err := w.visit(doc, e, path.Index(i), visit); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Walker) visit(doc *models.Document, id models.NodeID, path matcher.Path, visit func(substitute.Match) error) error {
	if entry, ok := matcher.FirstMatch(w.entries, path, w.strategy); ok {
		return visit(substitute.Match{Node: id, Entry: entry, Path: path.String()})
	}
	if doc.Node(id).Kind.IsContainer() {
		return w.children(doc, id, path, visit)
	}
	return nil
}

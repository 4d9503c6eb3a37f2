package jsonpath

import (
	"github.com/mcncl/jsonrewrite/internal/models"
	"github.com/mcncl/jsonrewrite/internal/substitute"
)

type compiledEntry struct {
	entry models.MappingEntry
	path  *Path
}

// Locator is a substitute.Locator over JSONPath selectors. Entries are applied
// in configured order, so when two expressions select the same node the later
// entry's value is the one left in the document.
type Locator struct {
	entries []compiledEntry
}

// NewLocator compiles every selector up front. One invalid expression fails
// the whole set, before anything is substituted.
func NewLocator(entries models.Mappings) (*Locator, error) {
	l := &Locator{entries: make([]compiledEntry, 0, len(entries))}
	for _, entry := range entries {
		p, err := Compile(entry.Selector)
		if err != nil {
			return nil, err
		}
		l.entries = append(l.entries, compiledEntry{entry: entry, path: p})
	}
	return l, nil
}

// Locate implements substitute.Locator. Each entry is evaluated against the
// document as left by the entries before it, and visits only nodes still
// attached to it: see Path.Locate.
func (l *Locator) Locate(doc *models.Document, visit func(substitute.Match) error) error {
	for _, ce := range l.entries {
		for _, id := range ce.path.Locate(doc) {
			if err := visit(substitute.Match{Node: id, Entry: ce.entry, Path: ce.path.Raw}); err != nil {
				return err
			}
		}
	}
	return nil
}

// ApplyByExpression rewrites doc in place, evaluating every entry's selector
// as a JSONPath expression. Zero matches is not an error.
func ApplyByExpression(doc *models.Document, entries models.Mappings, ctx models.VariableContext) error {
	loc, err := NewLocator(entries)
	if err != nil {
		return err
	}
	_, err = substitute.New(ctx, nil).Run(doc, loc)
	return err
}

// Package substitute is the "locate then substitute" step shared by the path
// walker and the JSONPath engine. A Locator reports which node each mapping
// entry applies to; the Substituter resolves the entry's replacement against
// that node and overwrites it in the document.
package substitute

import (
	"github.com/mcncl/jsonrewrite/internal/models"
	"github.com/mcncl/jsonrewrite/internal/resolver"
	"go.uber.org/zap"
)

// Match pairs a located node with the entry that applies to it. Path is the
// human-readable location, used for logging only.
type Match struct {
	Node  models.NodeID
	Entry models.MappingEntry
	Path  string
}

// Locator finds matches in a document. visit is called for each match in
// application order and may change the document before the locator moves on;
// an error from visit stops the search and is returned unchanged.
type Locator interface {
	Locate(doc *models.Document, visit func(Match) error) error
}

// Substituter applies located matches.
type Substituter struct {
	ctx    models.VariableContext
	logger *zap.Logger
}

// New returns a Substituter resolving variables from ctx. A nil logger disables logging.
func New(ctx models.VariableContext, logger *zap.Logger) *Substituter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Substituter{ctx: ctx, logger: logger}
}

// Run replaces every node loc reports and returns how many replacements were
// made. The first resolution error aborts the run.
func (s *Substituter) Run(doc *models.Document, loc Locator) (int, error) {
	count := 0
	err := loc.Locate(doc, func(m Match) error {
		if err := s.Apply(doc, m); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// Apply resolves m.Entry against the node currently at m.Node and writes the result.
func (s *Substituter) Apply(doc *models.Document, m Match) error {
	original := doc.Node(m.Node)
	replacement, err := resolver.Resolve(m.Entry.Replacement, m.Entry.Type, original, s.ctx)
	if err != nil {
		return err
	}
	doc.Replace(m.Node, replacement)

	if ce := s.logger.Check(zap.DebugLevel, "replaced value"); ce != nil {
		ce.Write(
			zap.String("selector", m.Entry.Selector),
			zap.String("path", m.Path),
			zap.Stringer("from", original.Kind),
			zap.Stringer("to", replacement.Kind),
		)
	}
	return nil
}

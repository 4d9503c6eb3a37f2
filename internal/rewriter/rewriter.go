// Package rewriter is the entry point of the engine: it parses a JSON payload,
// applies a mapping set through either the path walker or the JSONPath engine,
// and serializes the result.
package rewriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mcncl/jsonrewrite/internal/errors"
	"github.com/mcncl/jsonrewrite/internal/jsonpath"
	"github.com/mcncl/jsonrewrite/internal/models"
	"github.com/mcncl/jsonrewrite/internal/parser"
	"github.com/mcncl/jsonrewrite/internal/serializer"
	"github.com/mcncl/jsonrewrite/internal/substitute"
	"github.com/mcncl/jsonrewrite/internal/walker"
	"go.uber.org/zap"
)

// Mode selects how mapping selectors are interpreted.
type Mode int

const (
	// ModePath matches selectors against traversal paths (first match wins).
	ModePath Mode = iota
	// ModeJSONPath evaluates selectors as JSONPath expressions (last write wins).
	ModeJSONPath
)

func (m Mode) String() string {
	switch m {
	case ModePath:
		return "path"
	case ModeJSONPath:
		return "jsonpath"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses "path" or "jsonpath", case-insensitively. Empty means path.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "path", "dictionary":
		return ModePath, nil
	case "jsonpath", "json-path", "json_path":
		return ModeJSONPath, nil
	default:
		return ModePath, fmt.Errorf("unknown mapping mode %q", s)
	}
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithStrategy sets the path mapping strategy used in ModePath.
func WithStrategy(s models.PathMappingStrategy) Option {
	return func(r *Rewriter) { r.strategy = s }
}

// WithMode selects path or JSONPath selectors.
func WithMode(m Mode) Option {
	return func(r *Rewriter) { r.mode = m }
}

// WithLogger sets the logger for debug records. Errors are returned, not logged.
func WithLogger(l *zap.Logger) Option {
	return func(r *Rewriter) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithIndent makes Rewrite emit indented JSON instead of compact JSON.
func WithIndent(indent string) Option {
	return func(r *Rewriter) { r.out = &serializer.Serializer{Indent: indent} }
}

// Rewriter holds an immutable mapping configuration. It keeps no per-call
// state and may be shared between goroutines.
type Rewriter struct {
	mappings models.Mappings
	strategy models.PathMappingStrategy
	mode     Mode
	logger   *zap.Logger
	out      *serializer.Serializer
	locator  substitute.Locator
}

// New builds a Rewriter for mappings. In ModeJSONPath every selector is
// compiled here, so an invalid expression is reported before any payload is
// touched.
func New(mappings models.Mappings, opts ...Option) (*Rewriter, error) {
	r := &Rewriter{
		mappings: append(models.Mappings(nil), mappings...),
		strategy: models.ExactMatch,
		mode:     ModePath,
		logger:   zap.NewNop(),
		out:      serializer.NewSerializer(),
	}
	for _, opt := range opts {
		opt(r)
	}

	switch r.mode {
	case ModePath:
		r.locator = walker.New(r.mappings, r.strategy)
	case ModeJSONPath:
		loc, err := jsonpath.NewLocator(r.mappings)
		if err != nil {
			return nil, errors.NewJSONPathError("failed to compile mapping expressions", err)
		}
		r.locator = loc
	default:
		return nil, errors.NewConfigError(fmt.Sprintf("unsupported mapping mode %s", r.mode), nil)
	}
	return r, nil
}

// Mode reports how selectors are interpreted.
func (r *Rewriter) Mode() Mode { return r.mode }

// Strategy reports the path mapping strategy.
func (r *Rewriter) Strategy() models.PathMappingStrategy { return r.strategy }

// Mappings returns a copy of the configured entries.
func (r *Rewriter) Mappings() models.Mappings {
	return append(models.Mappings(nil), r.mappings...)
}

// Rewrite parses input, applies the mappings and returns the new JSON text.
// Nothing is returned on failure, so a partial rewrite is never observable.
func (r *Rewriter) Rewrite(input string, ctx models.VariableContext) (string, error) {
	doc, err := parser.ParseString(input)
	if err != nil {
		return "", err
	}
	if err := r.Apply(doc, ctx); err != nil {
		return "", err
	}
	return r.out.Serialize(doc), nil
}

// Serialize renders doc the way Rewrite does.
func (r *Rewriter) Serialize(doc *models.Document) string {
	return r.out.Serialize(doc)
}

// Write renders doc to w the way Rewrite does.
func (r *Rewriter) Write(w io.Writer, doc *models.Document) error {
	return r.out.Write(w, doc)
}

// Apply rewrites an already parsed document in place.
func (r *Rewriter) Apply(doc *models.Document, ctx models.VariableContext) error {
	count, err := substitute.New(ctx, r.logger).Run(doc, r.locator)
	if err != nil {
		return errors.NewResolutionError("failed to apply mappings", err)
	}
	r.logger.Debug("rewrote document",
		zap.Stringer("mode", r.mode),
		zap.Stringer("strategy", r.strategy),
		zap.Int("mappings", len(r.mappings)),
		zap.Int("replaced", count),
	)
	return nil
}

// RewritePaths applies path-keyed mappings to input under strategy.
func RewritePaths(input string, mappings models.Mappings, strategy models.PathMappingStrategy, ctx models.VariableContext) (string, error) {
	r, err := New(mappings, WithStrategy(strategy))
	if err != nil {
		return "", err
	}
	return r.Rewrite(input, ctx)
}

// RewriteJSONPath applies JSONPath-keyed mappings to input.
func RewriteJSONPath(input string, mappings models.Mappings, ctx models.VariableContext) (string, error) {
	r, err := New(mappings, WithMode(ModeJSONPath))
	if err != nil {
		return "", err
	}
	return r.Rewrite(input, ctx)
}

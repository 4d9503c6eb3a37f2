// Package parser turns JSON text into an order-preserving models.Document.
package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors" // Standard errors package
	"github.com/mcncl/jsonrewrite/internal/errors" // Custom errors package
	"github.com/mcncl/jsonrewrite/internal/models"
)

// MaxDepth is the deepest object/array nesting accepted before parsing fails.
const MaxDepth = 1000

// Parse reads exactly one JSON value from reader into a Document.
// Object keys keep their source order and number literals keep their source text.
func Parse(reader io.Reader) (*models.Document, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Ensure numbers are read as json.Number

	b := &builder{dec: decoder, doc: models.NewDocument(64)}

	tok, err := decoder.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) { // nothing was decoded at all
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return nil, b.fail(err)
	}

	root, err := b.value(tok, 0)
	if err != nil {
		return nil, err
	}
	b.doc.Root = root

	// Only whitespace may follow the root value.
	tok, err = decoder.Token()
	switch {
	case stderrors.Is(err, io.EOF):
	case err != nil:
		return nil, b.fail(err)
	default:
		_ = tok
		return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	}

	return b.doc, nil
}

// builder feeds decoder tokens into the document arena.
type builder struct {
	dec *json.Decoder
	doc *models.Document
}

func (b *builder) next() (json.Token, error) {
	tok, err := b.dec.Token()
	if err != nil {
		return nil, b.fail(err)
	}
	return tok, nil
}

func (b *builder) value(tok json.Token, depth int) (models.NodeID, error) {
	switch v := tok.(type) {
	case json.Delim:
		if depth >= MaxDepth {
			return 0, b.malformed(fmt.Sprintf("maximum nesting depth %d exceeded", MaxDepth))
		}
		switch v {
		case '{':
			return b.object(depth + 1)
		case '[':
			return b.array(depth + 1)
		}
		return 0, b.malformed(fmt.Sprintf("unexpected %q", rune(v)))
	case string:
		return b.doc.Add(models.String(v)), nil
	case json.Number:
		return b.doc.Add(models.Number(v.String())), nil
	case bool:
		return b.doc.Add(models.Boolean(v)), nil
	case nil:
		return b.doc.Add(models.Null()), nil
	default:
		return 0, b.malformed(fmt.Sprintf("unexpected token %v", tok))
	}
}

func (b *builder) object(depth int) (models.NodeID, error) {
	id := b.doc.Add(models.Node{Kind: models.KindObject})
	// positions of the keys seen so far; a repeated key overwrites in place
	var seen map[string]int
	for {
		tok, err := b.next()
		if err != nil {
			return 0, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return id, nil
		}
		key, ok := tok.(string)
		if !ok {
			return 0, b.malformed("object key must be a string")
		}

		tok, err = b.next()
		if err != nil {
			return 0, err
		}
		child, err := b.value(tok, depth)
		if err != nil {
			return 0, err
		}
		if i, dup := seen[key]; dup {
			b.doc.SetMember(id, i, child)
			continue
		}
		if seen == nil {
			seen = make(map[string]int)
		}
		seen[key] = b.doc.AddMember(id, key, child)
	}
}

func (b *builder) array(depth int) (models.NodeID, error) {
	id := b.doc.Add(models.Node{Kind: models.KindArray})
	for {
		tok, err := b.next()
		if err != nil {
			return 0, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return id, nil
		}
		child, err := b.value(tok, depth)
		if err != nil {
			return 0, err
		}
		b.doc.AppendElement(id, child)
	}
}

// fail converts a decoder error into a parsing error carrying the byte offset.
func (b *builder) fail(err error) error {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
			&errors.MalformedJSONError{Position: syntaxError.Offset, Reason: syntaxError.Error()},
		)
	}
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return b.malformed("unexpected end of input")
	}
	return errors.NewParsingError("failed to decode JSON", err)
}

func (b *builder) malformed(reason string) error {
	offset := b.dec.InputOffset()
	return errors.NewParsingError(
		fmt.Sprintf("JSON syntax error at offset %d", offset),
		&errors.MalformedJSONError{Position: offset, Reason: reason},
	)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (*models.Document, error) {
	// An all-whitespace string is reported as empty input rather than a syntax error.
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (*models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	// Check for empty file before parsing
	stat, err := file.Stat()
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}

// Package resolver turns a configured replacement string into a typed JSON node.
package resolver

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/mcncl/jsonrewrite/internal/errors"
	"github.com/mcncl/jsonrewrite/internal/models"
)

const (
	placeholderStart = "${"
	placeholderEnd   = "}"
)

// Resolve interpolates variables in raw, then coerces the result to the type
// given by hint, or to the type of original when no hint is set.
func Resolve(raw string, hint models.TypeHint, original models.Node, ctx models.VariableContext) (models.Node, error) {
	text, err := Interpolate(raw, ctx)
	if err != nil {
		return models.Node{}, err
	}
	return Coerce(text, TargetType(hint, original))
}

// Interpolate replaces every ${name} with its value from ctx. Values are not
// scanned again. An unterminated "${" is kept as literal text.
func Interpolate(raw string, ctx models.VariableContext) (string, error) {
	if !strings.Contains(raw, placeholderStart) {
		return raw, nil
	}

	var b strings.Builder
	rest := raw
	for {
		start := strings.Index(rest, placeholderStart)
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+len(placeholderStart):], placeholderEnd)
		if end < 0 {
			break
		}
		name := rest[start+len(placeholderStart) : start+len(placeholderStart)+end]

		var value string
		ok := false
		if ctx != nil {
			value, ok = ctx.Lookup(name)
		}
		if !ok {
			return "", &errors.UnresolvedVariableError{Name: name}
		}

		b.WriteString(rest[:start])
		b.WriteString(value)
		rest = rest[start+len(placeholderStart)+end+len(placeholderEnd):]
	}
	b.WriteString(rest)
	return b.String(), nil
}

// TargetType picks the kind a replacement must have. Numbers and booleans keep
// their type; everything else, null included, becomes a string.
func TargetType(hint models.TypeHint, original models.Node) models.Kind {
	switch hint {
	case models.TypeString:
		return models.KindString
	case models.TypeNumber:
		return models.KindNumber
	case models.TypeBoolean:
		return models.KindBoolean
	}

	switch original.Kind {
	case models.KindNumber:
		return models.KindNumber
	case models.KindBoolean:
		return models.KindBoolean
	default:
		return models.KindString
	}
}

// Coerce converts text into a node of kind target.
func Coerce(text string, target models.Kind) (models.Node, error) {
	switch target {
	case models.KindNumber:
		literal, err := NumberLiteral(text)
		if err != nil {
			return models.Node{}, err
		}
		return models.Number(literal), nil
	case models.KindBoolean:
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "true":
			return models.Boolean(true), nil
		case "false":
			return models.Boolean(false), nil
		}
		return models.Node{}, &errors.TypeCoercionError{Raw: text, Target: models.KindBoolean.String()}
	case models.KindString:
		return models.String(text), nil
	default:
		return models.Node{}, &errors.TypeCoercionError{Raw: text, Target: target.String()}
	}
}

// NumberLiteral validates text as a number and returns the literal to emit.
// Valid JSON literals are kept as written; other forms Go can read, such as
// "+5" or ".5", are rewritten in canonical form.
func NumberLiteral(text string) (string, error) {
	s := strings.TrimSpace(text)
	if isJSONNumber(s) {
		return s, nil
	}

	fail := &errors.TypeCoercionError{Raw: text, Target: models.KindNumber.String()}
	if s == "" || strings.ContainsAny(s, "_xXoObBpP") {
		return "", fail
	}

	if !strings.ContainsAny(s, ".eE") {
		if n, ok := new(big.Int).SetString(s, 10); ok {
			return n.String(), nil
		}
		return "", fail
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", fail
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out, nil
}

// isJSONNumber reports whether s matches the JSON number grammar exactly.
func isJSONNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	if i >= len(s) {
		return false
	}
	switch {
	case s[i] == '0':
		i++
	case s[i] >= '1' && s[i] <= '9':
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}

	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}

	return i == len(s)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

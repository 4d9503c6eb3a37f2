package jsonpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mcncl/jsonrewrite/internal/errors"
	"github.com/ohler55/ojg/jp"
)

// MaxExpressionLength bounds the byte length of a single expression.
const MaxExpressionLength = 10000

// jp reports parse failures as "<message> at <offset from 1> in <expression>".
var parseErrorPattern = regexp.MustCompile(`^(.*?) at (\d+) in `)

func invalid(expr string, pos int, msg string) error {
	return &errors.InvalidJSONPathError{Expression: expr, Pos: pos, Message: msg}
}

// parse runs jp's parser. Expressions without "$" are taken relative to the
// root, so "TestMessage.Text" and "$.TestMessage.Text" are the same query.
func parse(expr string) (jp.Expr, error) {
	switch {
	case expr == "":
		return nil, invalid(expr, 0, "empty expression")
	case len(expr) > MaxExpressionLength:
		return nil, invalid(expr, 0, "expression exceeds maximum length")
	}

	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, parseError(expr, err)
	}
	return x, nil
}

func parseError(expr string, err error) error {
	msg := err.Error()
	m := parseErrorPattern.FindStringSubmatch(msg)
	if m == nil {
		return invalid(expr, 0, msg)
	}
	pos, _ := strconv.Atoi(m[2])
	return invalid(expr, min(max(pos-1, 0), len(expr)), m[1])
}

// plan splits x into steps and rejects the fragments the rewriter does not
// evaluate.
func plan(expr string, x jp.Expr) ([]step, error) {
	var steps []step
	for i := 0; i < len(x); i++ {
		switch f := x[i].(type) {
		case jp.Root, jp.Bracket:
		case jp.At:
			return nil, invalid(expr, 0, "relative '@' expressions are not supported")
		case jp.Descent:
			// runs of ".." collapse into one
			j := i + 1
			for j < len(x) {
				if _, ok := x[j].(jp.Descent); !ok {
					break
				}
				j++
			}
			if j == len(x) {
				return nil, invalid(expr, len(expr), "unexpected end after '..'")
			}
			if err := checkSelector(expr, x[j]); err != nil {
				return nil, err
			}
			steps = append(steps, step{expr: jp.Expr{jp.Descent('.'), x[j]}, descendant: true})
			i = j
		default:
			if err := checkSelector(expr, f); err != nil {
				return nil, err
			}
			steps = append(steps, step{expr: jp.Expr{f}})
		}
	}
	return steps, nil
}

func checkSelector(expr string, f jp.Frag) error {
	switch f.(type) {
	case jp.Child, jp.Nth, jp.Wildcard, jp.Slice, jp.Union:
		return nil
	case *jp.Filter:
		return invalid(expr, max(strings.Index(expr, "[?"), 0), "filter expressions are not supported")
	}
	return invalid(expr, 0, fmt.Sprintf("unsupported selector %q", f.Append(nil, true, false)))
}

package rewriter

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mcncl/jsonrewrite/internal/errors"
	"github.com/mcncl/jsonrewrite/internal/models"
	"github.com/mcncl/jsonrewrite/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRewritePaths(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		mappings models.Mappings
		strategy models.PathMappingStrategy
		ctx      models.VariableContext
		expected string
	}{
		{
			name:     "exact match",
			input:    `{"TestMessage":{"Text":"Hello World!"}}`,
			mappings: models.Mappings{}.Add("TestMessage.Text", "Hello!"),
			strategy: models.ExactMatch,
			expected: `{"TestMessage":{"Text":"Hello!"}}`,
		},
		{
			name:     "starts with",
			input:    `{"TestMessage":{"Text":"x","OtherText":"y"}}`,
			mappings: models.Mappings{}.Add("TestMessage.Other", "Bye!"),
			strategy: models.StartsWith,
			expected: `{"TestMessage":{"Text":"x","OtherText":"Bye!"}}`,
		},
		{
			name:     "array index",
			input:    `{"TestMessage":{"Text":["a","b"]}}`,
			mappings: models.Mappings{}.Add("TestMessage.Text[1]", "c"),
			strategy: models.ExactMatch,
			expected: `{"TestMessage":{"Text":["a","c"]}}`,
		},
		{
			name:     "variable",
			input:    `{"TestMessage":{"Text":"Hello World!"}}`,
			mappings: models.Mappings{}.Add("TestMessage.Text", "${helloText}"),
			strategy: models.ExactMatch,
			ctx:      models.MapContext{"helloText": "Hello!"},
			expected: `{"TestMessage":{"Text":"Hello!"}}`,
		},
		{
			name:     "number inference",
			input:    `{"count":10}`,
			mappings: models.Mappings{}.Add("count", "99"),
			strategy: models.ExactMatch,
			expected: `{"count":99}`,
		},
		{
			name:     "no match keeps document",
			input:    "{\n  \"a\": [1, 2.50, {\"b\": null}],\n  \"c\": \"d\"\n}",
			mappings: models.Mappings{}.Add("does.not.exist", "x"),
			strategy: models.ExactMatch,
			expected: `{"a":[1,2.50,{"b":null}],"c":"d"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RewritePaths(tt.input, tt.mappings, tt.strategy, tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestRewriteJSONPath(t *testing.T) {
	result, err := RewriteJSONPath(
		`[{"Text":"a","Meta":{"Text":"b"}},{"Text":"c"}]`,
		models.Mappings{}.Add("$..Text", "z"),
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, `[{"Text":"z","Meta":{"Text":"z"}},{"Text":"z"}]`, result)
}

func TestRewrite_Errors(t *testing.T) {
	t.Run("malformed input", func(t *testing.T) {
		_, err := RewritePaths(`{"a":`, models.Mappings{}.Add("a", "b"), models.ExactMatch, nil)
		var malformed *errors.MalformedJSONError
		require.True(t, stderrors.As(err, &malformed), "got %v", err)
		assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeParsing})
	})

	t.Run("unresolved variable", func(t *testing.T) {
		result, err := RewritePaths(`{"a":"x"}`, models.Mappings{}.Add("a", "${helloText}"), models.ExactMatch, models.MapContext{})
		var unresolved *errors.UnresolvedVariableError
		require.True(t, stderrors.As(err, &unresolved), "got %v", err)
		assert.Equal(t, "helloText", unresolved.Name)
		assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeResolution})
		assert.Empty(t, result)
	})

	t.Run("type coercion", func(t *testing.T) {
		_, err := RewriteJSONPath(`{"a":true}`, models.Mappings{}.Add("$.a", "maybe"), nil)
		var coercion *errors.TypeCoercionError
		require.True(t, stderrors.As(err, &coercion), "got %v", err)
		assert.Equal(t, "boolean", coercion.Target)
	})

	t.Run("invalid jsonpath fails at construction", func(t *testing.T) {
		_, err := New(models.Mappings{}.Add("$.ok", "1").Add("$[", "2"), WithMode(ModeJSONPath))
		var invalid *errors.InvalidJSONPathError
		require.True(t, stderrors.As(err, &invalid), "got %v", err)
		assert.Equal(t, "$[", invalid.Expression)
		assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeJSONPath})
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := New(nil, WithMode(Mode(9)))
		assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeConfig})
	})
}

func TestRewriter_Options(t *testing.T) {
	mappings := models.Mappings{}.Add("Text", "x")
	r, err := New(mappings, WithStrategy(models.EndsWith), WithIndent("  "))
	require.NoError(t, err)

	assert.Equal(t, ModePath, r.Mode())
	assert.Equal(t, models.EndsWith, r.Strategy())

	result, err := r.Rewrite(`{"a":{"OtherText":"y"}}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": {\n    \"OtherText\": \"x\"\n  }\n}", result)

	// The rewriter keeps its own copy of the mappings.
	mappings[0].Replacement = "changed"
	assert.Equal(t, "x", r.Mappings()[0].Replacement)
}

func TestRewriter_SerializeMatchesRewrite(t *testing.T) {
	r, err := New(models.Mappings{}.Add("a", "2"), WithIndent("\t"))
	require.NoError(t, err)

	input := `{"a":1,"b":[true]}`
	expected, err := r.Rewrite(input, nil)
	require.NoError(t, err)

	doc, err := parser.ParseString(input)
	require.NoError(t, err)
	require.NoError(t, r.Apply(doc, nil))
	assert.Equal(t, expected, r.Serialize(doc))

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, doc))
	assert.Equal(t, expected, buf.String())
	assert.Equal(t, "{\n\t\"a\": 2,\n\t\"b\": [\n\t\ttrue\n\t]\n}", expected)
}

func TestRewriter_DebugLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r, err := New(models.Mappings{}.Add("$..id", "7"), WithMode(ModeJSONPath), WithLogger(zap.New(core)))
	require.NoError(t, err)

	_, err = r.Rewrite(`{"a":{"id":1},"b":{"id":2}}`, nil)
	require.NoError(t, err)

	replaced := logs.FilterMessage("replaced value").All()
	require.Len(t, replaced, 2)
	assert.Equal(t, "$..id", replaced[0].ContextMap()["selector"])
	assert.Equal(t, "number", replaced[0].ContextMap()["to"])

	summary := logs.FilterMessage("rewrote document").All()
	require.Len(t, summary, 1)
	assert.Equal(t, int64(2), summary[0].ContextMap()["replaced"])
	assert.Equal(t, "jsonpath", summary[0].ContextMap()["mode"])
}

func TestRewriter_ErrorsAreNotLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r, err := New(models.Mappings{}.Add("a", "${missing}"), WithLogger(zap.New(core)))
	require.NoError(t, err)

	_, err = r.Rewrite(`{"a":"x"}`, nil)
	require.Error(t, err)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Zero(t, logs.FilterMessage("rewrote document").Len())
}

func TestRewriter_ConcurrentUse(t *testing.T) {
	r, err := New(models.Mappings{}.Add("user.name", "${name}").Add("user.id", "${id}"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx := models.MapContext{"name": fmt.Sprintf("user-%d", i), "id": fmt.Sprint(i)}
			results[i], errs[i] = r.Rewrite(`{"user":{"name":"","id":0}}`, ctx)
		}(i)
	}
	wg.Wait()

	for i, result := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf("user-%d", i), gjson.Get(result, "user.name").String())
		assert.Equal(t, int64(i), gjson.Get(result, "user.id").Int())
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"", ModePath, false},
		{"path", ModePath, false},
		{"JSONPath", ModeJSONPath, false},
		{"json-path", ModeJSONPath, false},
		{"xpath", ModePath, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
		})
	}
}

package matcher

import (
	"testing"

	"github.com/mcncl/jsonrewrite/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_String(t *testing.T) {
	tests := []struct {
		name     string
		path     Path
		expected string
		last     string
	}{
		{"root", Root, "", ""},
		{"single field", Root.Field("TestMessage"), "TestMessage", "TestMessage"},
		{"nested field", Root.Field("TestMessage").Field("Text"), "TestMessage.Text", "Text"},
		{"array element", Root.Field("TestMessage").Field("Text").Index(1), "TestMessage.Text[1]", "Text[1]"},
		{"object in array", Root.Field("TestMessage").Field("Greetings").Index(1).Field("Text"), "TestMessage.Greetings[1].Text", "Text"},
		{"nested arrays", Root.Field("m").Index(0).Index(2), "m[0][2]", "m[0][2]"},
		{"root array", Root.Index(0), "[0]", "[0]"},
		{"root array object", Root.Index(3).Field("id"), "[3].id", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.path.String())
			assert.Equal(t, tt.last, tt.path.Last())
		})
	}
}

func TestPath_IsImmutable(t *testing.T) {
	parent := Root.Field("a")
	left := parent.Field("b")
	right := parent.Field("c")

	assert.Equal(t, "a", parent.String())
	assert.Equal(t, "a.b", left.String())
	assert.Equal(t, "a.c", right.String())
	assert.Equal(t, 2, left.Depth())

	segs := left.Segments()
	segs[0].Key = "changed"
	assert.Equal(t, "a.b", left.String())
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		path     Path
		strategy models.PathMappingStrategy
		expected bool
	}{
		{"exact full path", "TestMessage.Text", Root.Field("TestMessage").Field("Text"), models.ExactMatch, true},
		{"exact bare key", "Text", Root.Field("TestMessage").Field("Text"), models.ExactMatch, true},
		{"exact bare key deep", "Text", Root.Field("a").Field("b").Index(0).Field("Text"), models.ExactMatch, true},
		{"exact no partial key", "Text", Root.Field("TestMessage").Field("OtherText"), models.ExactMatch, false},
		{"exact no prefix", "TestMessage", Root.Field("TestMessage").Field("Text"), models.ExactMatch, false},
		{"exact indexed", "TestMessage.Text[1]", Root.Field("TestMessage").Field("Text").Index(1), models.ExactMatch, true},
		{"exact indexed other", "TestMessage.Text[1]", Root.Field("TestMessage").Field("Text").Index(0), models.ExactMatch, false},
		{"exact bare indexed key", "Text[1]", Root.Field("TestMessage").Field("Text").Index(1), models.ExactMatch, true},
		{"exact middle segment", "Greetings[1].Text", Root.Field("TestMessage").Field("Greetings").Index(1).Field("Text"), models.ExactMatch, false},

		{"prefix branch", "TestMessage.Other", Root.Field("TestMessage").Field("OtherText"), models.StartsWith, true},
		{"prefix sibling untouched", "TestMessage.Other", Root.Field("TestMessage").Field("Text"), models.StartsWith, false},
		{"prefix subtree", "TestMessage", Root.Field("TestMessage").Field("Greetings").Index(0).Field("Text"), models.StartsWith, true},
		{"prefix not bare key", "Text", Root.Field("TestMessage").Field("Text"), models.StartsWith, false},

		{"suffix key", "Text", Root.Field("TestMessage").Field("OtherText"), models.EndsWith, true},
		{"suffix path", "Greetings[1].Text", Root.Field("TestMessage").Field("Greetings").Index(1).Field("Text"), models.EndsWith, true},
		{"suffix miss", "Number", Root.Field("TestMessage").Field("Text"), models.EndsWith, false},
		{"suffix last segment", "Text[0]", Root.Field("x").Field("Text").Index(0), models.EndsWith, true},

		{"unknown strategy", "Text", Root.Field("Text"), models.PathMappingStrategy(42), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Matches(tt.selector, tt.path.String(), tt.path.Last(), tt.strategy)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFirstMatch(t *testing.T) {
	entries := models.Mappings{}.
		Add("Something.Else", "NotFound").
		Add("TestMessage.Text", "first").
		Add("Text", "second")

	entry, ok := FirstMatch(entries, Root.Field("TestMessage").Field("Text"), models.ExactMatch)
	require.True(t, ok)
	assert.Equal(t, "first", entry.Replacement)

	entry, ok = FirstMatch(entries, Root.Field("Other").Field("Text"), models.ExactMatch)
	require.True(t, ok)
	assert.Equal(t, "second", entry.Replacement)

	_, ok = FirstMatch(entries, Root.Field("TestMessage").Field("Id"), models.ExactMatch)
	assert.False(t, ok)

	_, ok = FirstMatch(nil, Root.Field("TestMessage"), models.ExactMatch)
	assert.False(t, ok)
}

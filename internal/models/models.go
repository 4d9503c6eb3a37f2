// Package models holds the in-memory JSON document and the mapping configuration
// shared by the walker, the JSONPath engine and the serializer.
package models

import (
	"fmt"
	"strings"
)

// Kind tags the JSON type of a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsContainer reports whether nodes of this kind hold child nodes.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindObject
}

// NodeID indexes a node inside its Document.
type NodeID int

// Member is a single key/value pair of an object, in insertion order.
type Member struct {
	Key   string
	Value NodeID
}

// Node is one JSON value. Only the fields that belong to Kind are meaningful:
// Text carries the string contents or the number literal, Bool the boolean,
// Members the object entries and Elements the array entries.
type Node struct {
	Kind     Kind
	Text     string
	Bool     bool
	Members  []Member
	Elements []NodeID
}

// Null returns a null node.
func Null() Node { return Node{Kind: KindNull} }

// String returns a string node.
func String(s string) Node { return Node{Kind: KindString, Text: s} }

// Boolean returns a boolean node.
func Boolean(b bool) Node { return Node{Kind: KindBoolean, Bool: b} }

// Number returns a number node for an already validated JSON number literal.
func Number(literal string) Node { return Node{Kind: KindNumber, Text: literal} }

// IsScalar reports whether the node has no children.
func (n Node) IsScalar() bool {
	return !n.Kind.IsContainer()
}

// IsDecimal reports whether a number literal needs decimal notation.
func (n Node) IsDecimal() bool {
	return n.Kind == KindNumber && strings.ContainsAny(n.Text, ".eE")
}

// Document is an arena of nodes. The arena owns every node; callers refer to
// nodes by NodeID. Replacing a value overwrites its slot so parents, key order
// and element order never change.
type Document struct {
	nodes []Node
	Root  NodeID
}

// NewDocument returns an empty document with room for size nodes.
func NewDocument(size int) *Document {
	return &Document{nodes: make([]Node, 0, size)}
}

// Add appends a node to the arena and returns its ID.
func (d *Document) Add(n Node) NodeID {
	d.nodes = append(d.nodes, n)
	return NodeID(len(d.nodes) - 1)
}

// Node returns the node stored at id.
func (d *Document) Node(id NodeID) Node {
	return d.nodes[id]
}

// Replace overwrites the node stored at id. Replacements are always scalars,
// so any children of the previous value simply become unreachable.
func (d *Document) Replace(id NodeID, n Node) {
	d.nodes[id] = n
}

// Len returns the number of nodes in the arena, reachable or not.
func (d *Document) Len() int {
	return len(d.nodes)
}

// AppendMember adds a member to the object at id. A repeated key keeps its
// original position and takes the new value. The duplicate check is linear in
// the member count; bulk builders should track keys themselves and use
// AddMember and SetMember.
func (d *Document) AppendMember(id NodeID, key string, value NodeID) {
	obj := &d.nodes[id]
	for i := range obj.Members {
		if obj.Members[i].Key == key {
			obj.Members[i].Value = value
			return
		}
	}
	obj.Members = append(obj.Members, Member{Key: key, Value: value})
}

// AddMember appends a member to the object at id without checking for an
// existing key, and returns the member's position.
func (d *Document) AddMember(id NodeID, key string, value NodeID) int {
	obj := &d.nodes[id]
	obj.Members = append(obj.Members, Member{Key: key, Value: value})
	return len(obj.Members) - 1
}

// SetMember replaces the value of the member at position i of the object at id.
func (d *Document) SetMember(id NodeID, i int, value NodeID) {
	d.nodes[id].Members[i].Value = value
}

// AppendElement adds an element to the array at id.
func (d *Document) AppendElement(id NodeID, value NodeID) {
	d.nodes[id].Elements = append(d.nodes[id].Elements, value)
}

// Lookup returns the value of key in the object at id.
func (d *Document) Lookup(id NodeID, key string) (NodeID, bool) {
	for _, m := range d.nodes[id].Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return 0, false
}

// PathMappingStrategy selects how a selector is compared with a traversal path.
type PathMappingStrategy int

const (
	ExactMatch PathMappingStrategy = iota
	StartsWith
	EndsWith
)

func (s PathMappingStrategy) String() string {
	switch s {
	case ExactMatch:
		return "EXACT_MATCH"
	case StartsWith:
		return "STARTS_WITH"
	case EndsWith:
		return "ENDS_WITH"
	default:
		return fmt.Sprintf("STRATEGY(%d)", int(s))
	}
}

// ParseStrategy parses a strategy name case-insensitively. "EXACT" is accepted
// for EXACT_MATCH, and dashes may stand in for underscores.
func ParseStrategy(s string) (PathMappingStrategy, error) {
	switch strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_") {
	case "", "EXACT", "EXACT_MATCH":
		return ExactMatch, nil
	case "STARTS_WITH":
		return StartsWith, nil
	case "ENDS_WITH":
		return EndsWith, nil
	default:
		return ExactMatch, fmt.Errorf("unknown path mapping strategy %q", s)
	}
}

// TypeHint forces the JSON type of a replacement value.
type TypeHint int

const (
	// TypeInferred takes the type from the node being replaced.
	TypeInferred TypeHint = iota
	TypeString
	TypeNumber
	TypeBoolean
)

func (t TypeHint) String() string {
	switch t {
	case TypeInferred:
		return "inferred"
	case TypeString:
		return "String"
	case TypeNumber:
		return "Number"
	case TypeBoolean:
		return "Boolean"
	default:
		return fmt.Sprintf("TypeHint(%d)", int(t))
	}
}

// ParseTypeHint parses a configured type name. An empty name means inferred.
// Null is deliberately not a valid hint.
func ParseTypeHint(s string) (TypeHint, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return TypeInferred, nil
	case "string":
		return TypeString, nil
	case "number", "integer", "int", "long", "double", "float", "decimal":
		return TypeNumber, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	default:
		return TypeInferred, fmt.Errorf("unsupported type hint %q", s)
	}
}

// MappingEntry is one configured rewrite rule.
type MappingEntry struct {
	Selector    string
	Replacement string
	Type        TypeHint
}

// Mappings is an ordered set of rules; order is configuration order.
type Mappings []MappingEntry

// Add appends an entry with an inferred type and returns the extended set.
func (m Mappings) Add(selector, replacement string) Mappings {
	return append(m, MappingEntry{Selector: selector, Replacement: replacement})
}

// AddTyped appends an entry with an explicit type hint.
func (m Mappings) AddTyped(selector, replacement string, hint TypeHint) Mappings {
	return append(m, MappingEntry{Selector: selector, Replacement: replacement, Type: hint})
}

// VariableContext resolves variable names during value resolution. The engine
// only reads from it.
type VariableContext interface {
	Lookup(name string) (string, bool)
}

// MapContext is a VariableContext backed by a plain map.
type MapContext map[string]string

// Lookup implements VariableContext.
func (c MapContext) Lookup(name string) (string, bool) {
	v, ok := c[name]
	return v, ok
}

// LookupFunc adapts a function to VariableContext.
type LookupFunc func(name string) (string, bool)

// Lookup implements VariableContext.
func (f LookupFunc) Lookup(name string) (string, bool) {
	return f(name)
}

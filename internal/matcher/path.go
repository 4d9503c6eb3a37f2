package matcher

import (
	"strconv"
	"strings"
)

// Segment is one step of a traversal path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path is an immutable list of segments. Field and Index return a new Path, so a walker
// can hand the same parent to every sibling without copying it first.
type Path struct {
	segments []Segment
}

// Root is the empty path of the document root.
var Root = Path{}

// Field returns the path extended by an object key.
func (p Path) Field(key string) Path {
	return p.with(Segment{Key: key})
}

// Index returns the path extended by an array index.
func (p Path) Index(i int) Path {
	return p.with(Segment{Index: i, IsIndex: true})
}

func (p Path) with(s Segment) Path {
	next := make([]Segment, len(p.segments)+1)
	copy(next, p.segments)
	next[len(p.segments)] = s
	return Path{segments: next}
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []Segment {
	return append([]Segment(nil), p.segments...)
}

// Depth is the number of segments.
func (p Path) Depth() int {
	return len(p.segments)
}

// String renders the path as Field.Sub[2].Leaf.
func (p Path) String() string {
	return render(p.segments)
}

// Last renders the final segment: the last key with any indices after it, or
// the trailing indices alone when the path has no key.
func (p Path) Last() string {
	start := 0
	for i := len(p.segments) - 1; i >= 0; i-- {
		if !p.segments[i].IsIndex {
			start = i
			break
		}
	}
	return render(p.segments[start:])
}

func render(segments []Segment) string {
	var b strings.Builder
	for i, s := range segments {
		if s.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Key)
	}
	return b.String()
}

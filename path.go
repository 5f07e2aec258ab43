package yaml

import (
	"strconv"
	"strings"
)

// PathSegment is one step of a Path: either a mapping key (Key set,
// Index -1) or a sequence index (Index set, Key empty).
type PathSegment struct {
	Key   string
	Index int
}

// Path addresses a node within a Document by a sequence of mapping-key
// or sequence-index steps, independent of the node's own identity, so
// it survives a Copy or a re-parse of equivalent content (spec §4.8's
// path round-trip invariant).
type Path []PathSegment

// ParsePath parses a dotted/bracketed path string such as "a.b[2].c"
// into a Path. An empty string yields an empty (root) Path.
func ParsePath(s string) (Path, error) {
	var p Path
	for len(s) > 0 {
		switch {
		case s[0] == '.':
			s = s[1:]
		case s[0] == '[':
			end := strings.IndexByte(s, ']')
			if end < 0 {
				return nil, newError(InterfaceError, SeverityDocument, 0, 0, "path: unterminated '[' in %q", s)
			}
			idx, err := strconv.Atoi(s[1:end])
			if err != nil {
				return nil, newError(InterfaceError, SeverityDocument, 0, 0, "path: bad index %q", s[1:end])
			}
			p = append(p, PathSegment{Index: idx})
			s = s[end+1:]
		default:
			end := len(s)
			for i, c := range s {
				if c == '.' || c == '[' {
					end = i
					break
				}
			}
			p = append(p, PathSegment{Key: s[:end], Index: -1})
			s = s[end:]
		}
	}
	return p, nil
}

func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.Key != "" || (seg.Index == -1 && i > 0) {
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(seg.Key)
		} else {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// Lookup resolves p against n (which may be a Document or any
// MappingNode/SequenceNode), returning the addressed node or an
// InterfaceError if any step fails to match.
func (n *Node) Lookup(p Path) (*Node, error) {
	cur := n
	if cur != nil && cur.Kind == DocumentNode {
		if len(cur.Sequence) == 0 {
			return nil, newError(InterfaceError, SeverityDocument, 0, 0, "path: empty document")
		}
		cur = cur.Sequence[0]
	}
	for _, seg := range p {
		if cur != nil && cur.Kind == AliasNode {
			cur = cur.Alias
		}
		if cur == nil {
			return nil, newError(InterfaceError, SeverityDocument, 0, 0, "path: nil node mid-path")
		}
		switch {
		case seg.Key != "":
			if cur.Kind != MappingNode {
				return nil, newError(InterfaceError, SeverityDocument, cur.Line, cur.Column, "path: %q is not a mapping", seg.Key)
			}
			next, ok := lookupKey(cur, seg.Key)
			if !ok {
				return nil, newError(InterfaceError, SeverityDocument, cur.Line, cur.Column, "path: key %q not found", seg.Key)
			}
			cur = next
		default:
			if cur.Kind != SequenceNode {
				return nil, newError(InterfaceError, SeverityDocument, cur.Line, cur.Column, "path: index %d used on a non-sequence", seg.Index)
			}
			if seg.Index < 0 || seg.Index >= len(cur.Sequence) {
				return nil, newError(InterfaceError, SeverityDocument, cur.Line, cur.Column, "path: index %d out of range", seg.Index)
			}
			cur = cur.Sequence[seg.Index]
		}
	}
	return cur, nil
}

func lookupKey(m *Node, key string) (*Node, bool) {
	for _, p := range m.Mapping {
		if p.Key.Kind == ScalarNode && p.Key.Value == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Mutate resolves p against n like Lookup, then replaces the addressed
// node's content with
// replacement in place (same *Node identity, new Kind/Tag/Value/
// children), preserving any other code's outstanding pointers to it.
func (n *Node) Mutate(p Path, replacement *Node) error {
	target, err := n.Lookup(p)
	if err != nil {
		return err
	}
	parent := target.Parent
	target.Kind = replacement.Kind
	target.Style = replacement.Style
	target.Tag = replacement.Tag
	target.Value = replacement.Value
	target.Sequence = replacement.Sequence
	target.Mapping = replacement.Mapping
	target.Alias = replacement.Alias
	for _, c := range target.Sequence {
		c.Parent = target
	}
	for _, pr := range target.Mapping {
		pr.Key.Parent = target
		pr.Value.Parent = target
		pr.parent = target
	}
	target.Parent = parent
	return nil
}

// PathOf reconstructs a Path from root to n by walking Parent
// back-references, the inverse of Lookup; used by callers that found a
// node some other way (a compare mismatch, a resolver error) and need
// to report where it lives.
func PathOf(n *Node) Path {
	var segs []PathSegment
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		parent := cur.Parent
		switch parent.Kind {
		case SequenceNode:
			for i, s := range parent.Sequence {
				if s == cur {
					segs = append([]PathSegment{{Index: i}}, segs...)
					break
				}
			}
		case MappingNode:
			for _, pr := range parent.Mapping {
				if pr.Value == cur {
					segs = append([]PathSegment{{Key: pr.Key.Value, Index: -1}}, segs...)
					break
				}
			}
		}
	}
	return segs
}

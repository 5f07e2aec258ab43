package yaml

import "sort"

// Compare reports whether a and b are structurally equal: same Kind,
// Tag, and Value for scalars, same Mapping keys/values (order-sensitive,
// per spec §4.7 — mapping order is part of a document's identity) and
// same Sequence elements. Aliases compare by their resolved target.
func (a *Node) Compare(b *Node) bool {
	return nodeEqual(a, b, map[*Node]*Node{})
}

func nodeEqual(a, b *Node, seen map[*Node]*Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind == AliasNode {
		a = a.Alias
	}
	if b.Kind == AliasNode {
		b = b.Alias
	}
	if a == nil || b == nil {
		return a == b
	}
	if other, ok := seen[a]; ok {
		return other == b
	}
	seen[a] = b

	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ScalarNode:
		return a.Tag == b.Tag && a.Value == b.Value
	case SequenceNode:
		if len(a.Sequence) != len(b.Sequence) {
			return false
		}
		for i := range a.Sequence {
			if !nodeEqual(a.Sequence[i], b.Sequence[i], seen) {
				return false
			}
		}
		return true
	case MappingNode:
		if len(a.Mapping) != len(b.Mapping) {
			return false
		}
		for i := range a.Mapping {
			if !nodeEqual(a.Mapping[i].Key, b.Mapping[i].Key, seen) {
				return false
			}
			if !nodeEqual(a.Mapping[i].Value, b.Mapping[i].Value, seen) {
				return false
			}
		}
		return true
	case DocumentNode:
		if len(a.Sequence) != len(b.Sequence) || len(a.Sequence) == 0 {
			return len(a.Sequence) == len(b.Sequence)
		}
		return nodeEqual(a.Sequence[0], b.Sequence[0], seen)
	}
	return false
}

// Copy returns a deep, anchor-preserving duplicate of n: every node is
// newly allocated, Parent back-references point into the copy, but
// AliasNode targets keep pointing into the ORIGINAL graph unless that
// target was itself copied as part of this call, in which case the
// alias is rebound to the copy (so a self-contained anchored subtree
// copies into another self-contained one, per spec §8's anchor
// integrity invariant).
func (n *Node) Copy() *Node {
	return copyNode(n, map[*Node]*Node{})
}

func copyNode(n *Node, copied map[*Node]*Node) *Node {
	if n == nil {
		return nil
	}
	if cp, ok := copied[n]; ok {
		return cp
	}
	cp := &Node{
		Kind: n.Kind, Style: n.Style, Tag: n.Tag, Value: n.Value,
		Anchor: n.Anchor, Line: n.Line, Column: n.Column,
		HeadComment: n.HeadComment, LineComment: n.LineComment, FootComment: n.FootComment,
	}
	copied[n] = cp

	if n.Kind == AliasNode {
		if target, ok := copied[n.Alias]; ok {
			cp.Alias = target
		} else {
			cp.Alias = n.Alias
		}
		return cp
	}
	for _, child := range n.Sequence {
		rc := copyNode(child, copied)
		rc.Parent = cp
		cp.Sequence = append(cp.Sequence, rc)
	}
	for _, p := range n.Mapping {
		rk := copyNode(p.Key, copied)
		rv := copyNode(p.Value, copied)
		rk.Parent = cp
		rv.Parent = cp
		cp.Mapping = append(cp.Mapping, &NodePair{Key: rk, Value: rv, parent: cp})
	}
	return cp
}

// Insert appends value as the next Sequence element, or as a new
// Mapping pair under key (key must be non-nil for a MappingNode). The
// inserted child's Parent is set to n, giving it a stable identity
// under repeated lookups (spec §8's insert-identity invariant).
func (n *Node) Insert(key, value *Node) error {
	switch n.Kind {
	case SequenceNode:
		value.Parent = n
		n.Sequence = append(n.Sequence, value)
		return nil
	case MappingNode:
		if key == nil {
			return errNilMappingKey
		}
		key.Parent = n
		value.Parent = n
		n.Mapping = append(n.Mapping, &NodePair{Key: key, Value: value, parent: n})
		return nil
	}
	return errNotACollection
}

// Sort reorders a sequence's elements, or a mapping's pairs by key
// text, using less as the comparator; it is a no-op on scalar/alias/
// document nodes.
func (n *Node) Sort(less func(a, b *Node) bool) {
	switch n.Kind {
	case SequenceNode:
		sort.SliceStable(n.Sequence, func(i, j int) bool {
			return less(n.Sequence[i], n.Sequence[j])
		})
	case MappingNode:
		sort.SliceStable(n.Mapping, func(i, j int) bool {
			return less(n.Mapping[i].Key, n.Mapping[j].Key)
		})
	}
}

package yaml

import "fmt"

// Resolve walks n, expanding every AliasNode into a deep copy of its
// target. Merge keys are not processed here: the Document Builder has
// already applied them, and keeps aliases as live graph edges (Node.Alias); this
// is the separate, explicit pass for callers who need an alias-free
// tree (e.g. before serialization formats that cannot express anchors).
//
// Grounded on decode.go's d.alias()/d.merge() pair, generalized from
// reflect-target unmarshaling to Node-to-Node copying.
func Resolve(n *Node) (*Node, error) {
	return resolveNode(n, map[*Node]bool{})
}

func resolveNode(n *Node, inProgress map[*Node]bool) (*Node, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("yaml: unresolved alias %q", n.Value)
		}
		if inProgress[n.Alias] {
			return nil, fmt.Errorf("yaml: cycle detected resolving anchor %q", n.Alias.Anchor)
		}
		inProgress[n.Alias] = true
		resolved, err := resolveNode(n.Alias, inProgress)
		delete(inProgress, n.Alias)
		return resolved, err

	case ScalarNode:
		cp := *n
		return &cp, nil

	case SequenceNode:
		cp := &Node{Kind: SequenceNode, Style: n.Style, Tag: n.Tag, Anchor: n.Anchor,
			Line: n.Line, Column: n.Column}
		inProgress[n] = true
		for _, child := range n.Sequence {
			rc, err := resolveNode(child, inProgress)
			if err != nil {
				return nil, err
			}
			rc.Parent = cp
			cp.Sequence = append(cp.Sequence, rc)
		}
		delete(inProgress, n)
		return cp, nil

	case MappingNode:
		cp := &Node{Kind: MappingNode, Style: n.Style, Tag: n.Tag, Anchor: n.Anchor,
			Line: n.Line, Column: n.Column}
		inProgress[n] = true
		for _, p := range n.Mapping {
			rk, err := resolveNode(p.Key, inProgress)
			if err != nil {
				return nil, err
			}
			rv, err := resolveNode(p.Value, inProgress)
			if err != nil {
				return nil, err
			}
			rk.Parent = cp
			rv.Parent = cp
			cp.Mapping = append(cp.Mapping, &NodePair{Key: rk, Value: rv, parent: cp})
		}
		delete(inProgress, n)
		return cp, nil

	case DocumentNode:
		cp := &Node{Kind: DocumentNode}
		for _, child := range n.Sequence {
			rc, err := resolveNode(child, inProgress)
			if err != nil {
				return nil, err
			}
			rc.Parent = cp
			cp.Sequence = append(cp.Sequence, rc)
		}
		return cp, nil
	}
	return nil, fmt.Errorf("yaml: cannot resolve node of kind %s", n.Kind)
}

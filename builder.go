package yaml

import (
	"fmt"

	"github.com/ohporter/go-fyaml/internal/event"
	"github.com/ohporter/go-fyaml/internal/input"
	"github.com/ohporter/go-fyaml/internal/parser"
	"github.com/ohporter/go-fyaml/internal/token"
)

// eventSource is the pull-based interface the builder consumes;
// internal/parser.Parser satisfies it.
type eventSource interface {
	Next() (*event.Event, error)
}

// builder drives an eventSource into a tree of Nodes, tracking anchors
// and rejecting duplicate mapping keys as it goes. Grounded on the
// teacher's decode.go parser type (document/scalar/sequence/mapping/
// alias methods driving a single-event lookahead over libyaml events),
// adapted to the Sequence/Mapping-split Node and to internal/event's
// Event shape instead of the teacher's yamlh.Event.
type builder struct {
	src eventSource
	cur *event.Event

	anchors map[string]*Node
	nextID  int
}

func newBuilder(src eventSource) *builder {
	return &builder{src: src, anchors: map[string]*Node{}}
}

// buildDocument consumes the stream's first document and returns its
// DocumentNode (nil for an empty stream). Together with
// buildAllDocuments it is the Document Builder's sole externally
// meaningful operation (spec §4.5).
func buildDocument(in *input.Input) (*Node, error) {
	p := parser.New(in)
	b := newBuilder(p)
	if err := b.expect(event.StreamStart); err != nil {
		return nil, err
	}
	next, err := b.peek()
	if err != nil {
		return nil, err
	}
	if next.Kind == event.StreamEnd {
		return nil, nil
	}
	doc, err := b.document()
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// buildAllDocuments consumes every document in the stream.
func buildAllDocuments(in *input.Input) ([]*Node, error) {
	p := parser.New(in)
	b := newBuilder(p)
	if err := b.expect(event.StreamStart); err != nil {
		return nil, err
	}
	var docs []*Node
	for {
		next, err := b.peek()
		if err != nil {
			return nil, err
		}
		if next.Kind == event.StreamEnd {
			return docs, nil
		}
		b.anchors = map[string]*Node{}
		doc, err := b.document()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
}

func (b *builder) peek() (*event.Event, error) {
	if b.cur == nil {
		e, err := b.src.Next()
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, fmt.Errorf("yaml: unexpected end of event stream")
		}
		b.cur = e
	}
	return b.cur, nil
}

func (b *builder) pop() (*event.Event, error) {
	e, err := b.peek()
	if err != nil {
		return nil, err
	}
	b.cur = nil
	return e, nil
}

func (b *builder) expect(k event.Kind) error {
	e, err := b.pop()
	if err != nil {
		return err
	}
	if e.Kind != k {
		return fmt.Errorf("yaml: expected %s event, got %s", k, e.Kind)
	}
	return nil
}

func (b *builder) bindAnchor(n *Node, anchorTok interface{ Text() string }) {
	if anchorTok == nil {
		return
	}
	name := anchorTok.Text()
	if name == "" {
		return
	}
	n.Anchor = name
	b.nextID++
	n.anchorID = b.nextID
	if _, exists := b.anchors[name]; !exists {
		// first-seen binding wins on any later collision (spec §9).
		b.anchors[name] = n
	}
}

func (b *builder) document() (*Node, error) {
	e, err := b.pop()
	if err != nil {
		return nil, err
	}
	if e.Kind != event.DocumentStart {
		return nil, fmt.Errorf("yaml: expected document-start event, got %s", e.Kind)
	}
	doc := &Node{Kind: DocumentNode}
	child, err := b.parseNode()
	if err != nil {
		return nil, err
	}
	doc.Sequence = []*Node{child}
	child.Parent = doc
	end, err := b.pop()
	if err != nil {
		return nil, err
	}
	if end.Kind != event.DocumentEnd {
		return nil, fmt.Errorf("yaml: expected document-end event, got %s", end.Kind)
	}
	return doc, nil
}

// parseNode dispatches on the lookahead event's kind; mirrors decode.go's
// parser.parse().
func (b *builder) parseNode() (*Node, error) {
	e, err := b.peek()
	if err != nil {
		return nil, err
	}
	switch e.Kind {
	case event.Scalar:
		return b.scalar()
	case event.Alias:
		return b.alias()
	case event.MappingStart:
		return b.mapping()
	case event.SequenceStart:
		return b.sequence()
	}
	return nil, fmt.Errorf("yaml: unexpected event %s while parsing node", e.Kind)
}

func (b *builder) newNode(kind Kind, e *event.Event) (*Node, error) {
	var style Style
	var tag string
	var err error
	rawTag := ""
	if e.Tag != nil {
		rawTag = e.Tag.Text()
	}
	value := ""
	if e.Value != nil {
		value = e.Value.Text()
	}
	if rawTag != "" && rawTag != "!" {
		tag = shortTag(rawTag)
		style = TaggedStyle
	} else if kind == ScalarNode {
		tag, _, err = resolveScalar("", value)
		if err != nil {
			return nil, err
		}
	} else if kind == SequenceNode {
		tag = "!!seq"
	} else if kind == MappingNode {
		tag = "!!map"
	}
	n := &Node{Kind: kind, Tag: tag, Value: value, Style: style}
	switch e.ScalarStyle {
	case 1:
		n.Style |= SingleQuotedStyle
	case 2:
		n.Style |= DoubleQuotedStyle
	case 3:
		n.Style |= LiteralStyle
	case 4:
		n.Style |= FoldedStyle
	}
	if e.StartToken != nil {
		switch e.StartToken.Kind {
		case token.FlowSequenceStart, token.FlowMappingStart:
			n.Style |= FlowStyle
		}
	}
	if e.Value != nil {
		n.Line = e.Value.Start.Line + 1
		n.Column = e.Value.Start.Column + 1
	} else if e.StartToken != nil {
		n.Line = e.StartToken.Start.Line + 1
		n.Column = e.StartToken.Start.Column + 1
	}
	b.bindAnchor(n, anchorTokenOf(e))
	return n, nil
}

func anchorTokenOf(e *event.Event) interface{ Text() string } {
	if e.Anchor == nil {
		return nil
	}
	return e.Anchor
}

func (b *builder) scalar() (*Node, error) {
	e, err := b.pop()
	if err != nil {
		return nil, err
	}
	return b.newNode(ScalarNode, e)
}

func (b *builder) alias() (*Node, error) {
	e, err := b.pop()
	if err != nil {
		return nil, err
	}
	name := ""
	if e.AliasName != nil {
		name = e.AliasName.Text()
	}
	n := &Node{Kind: AliasNode, Value: name}
	n.Alias = b.anchors[name]
	if n.Alias == nil {
		return nil, fmt.Errorf("yaml: unknown anchor %q referenced", name)
	}
	return n, nil
}

func (b *builder) sequence() (*Node, error) {
	e, err := b.pop()
	if err != nil {
		return nil, err
	}
	n, err := b.newNode(SequenceNode, e)
	if err != nil {
		return nil, err
	}
	for {
		next, err := b.peek()
		if err != nil {
			return nil, err
		}
		if next.Kind == event.SequenceEnd {
			if _, err := b.pop(); err != nil {
				return nil, err
			}
			return n, nil
		}
		child, err := b.parseNode()
		if err != nil {
			return nil, err
		}
		child.Parent = n
		n.Sequence = append(n.Sequence, child)
	}
}

func (b *builder) mapping() (*Node, error) {
	e, err := b.pop()
	if err != nil {
		return nil, err
	}
	n, err := b.newNode(MappingNode, e)
	if err != nil {
		return nil, err
	}
	var seen []*Node
	for {
		next, err := b.peek()
		if err != nil {
			return nil, err
		}
		if next.Kind == event.MappingEnd {
			if _, err := b.pop(); err != nil {
				return nil, err
			}
			return n, nil
		}
		key, err := b.parseNode()
		if err != nil {
			return nil, err
		}
		val, err := b.parseNode()
		if err != nil {
			return nil, err
		}
		if key.IsScalar() && isMergeKeyNode(key) {
			if err := b.applyMerge(n, val, &seen); err != nil {
				return nil, err
			}
			continue
		}
		if containsKey(seen, key) {
			for _, pr := range n.Mapping {
				if !pr.Key.Compare(key) {
					continue
				}
				if pr.Key.Parent == n {
					return nil, fmt.Errorf("yaml: mapping key %q already defined at line %d", key.Value, pr.Key.Line)
				}
				// An explicit pair replaces the value a "<<" merge brought in;
				// a merged pair still holds its source mapping's key node.
				pr.Key, pr.Value = key, val
				key.Parent, val.Parent = n, n
			}
			continue
		}
		seen = append(seen, key)
		pair := &NodePair{Key: key, Value: val, parent: n}
		key.Parent = n
		val.Parent = n
		n.Mapping = append(n.Mapping, pair)
	}
}

// containsKey reports whether key is structurally equal (spec §4.5/§8:
// deep equality, not just identity) to any key already seen in this
// mapping, regardless of the keys' Kind.
func containsKey(seen []*Node, key *Node) bool {
	for _, k := range seen {
		if k.Compare(key) {
			return true
		}
	}
	return false
}

func isMergeKeyNode(n *Node) bool {
	return n.Kind == ScalarNode && n.Value == "<<" && (n.Tag == "" || n.Tag == "!" || n.ShortTag() == "!!merge")
}

// applyMerge implements spec §4.6's merge-key insertion rule at build
// time: pairs from the merged mapping(s) are inserted positionally
// where "<<" appeared, and do not override keys already present.
// Grounded on decode.go's merge()/isMerge() pair, adapted for the
// Sequence/Mapping Node split (a merge value may itself be a sequence
// of mappings to merge in order).
func (b *builder) applyMerge(into *Node, val *Node, seen *[]*Node) error {
	sources := []*Node{val}
	if val.Kind == SequenceNode {
		sources = val.Sequence
	}
	for _, src := range sources {
		m := src
		if m.Kind == AliasNode {
			m = m.Alias
		}
		if m == nil || m.Kind != MappingNode {
			return fmt.Errorf("yaml: merge value is not a mapping")
		}
		for _, p := range m.Mapping {
			if containsKey(*seen, p.Key) {
				continue
			}
			*seen = append(*seen, p.Key)
			into.Mapping = append(into.Mapping, &NodePair{Key: p.Key, Value: p.Value, parent: into})
		}
	}
	return nil
}

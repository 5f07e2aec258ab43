//
// Copyright (c) 2011-2019 Canonical Ltd
// Copyright (c) 2006-2010 Kirill Simonov
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package yaml

// Kind identifies the shape of a Node's content.
type Kind int

const (
	DocumentNode Kind = 1 + iota
	SequenceNode
	MappingNode
	ScalarNode
	AliasNode
)

func (k Kind) String() string {
	switch k {
	case DocumentNode:
		return "document"
	case SequenceNode:
		return "sequence"
	case MappingNode:
		return "mapping"
	case ScalarNode:
		return "scalar"
	case AliasNode:
		return "alias"
	}
	return "unknown"
}

// Style carries the presentation bits recorded off the scanner/parser,
// independent of the node's resolved value.
type Style int

const (
	TaggedStyle Style = 1 << iota
	DoubleQuotedStyle
	SingleQuotedStyle
	LiteralStyle
	FoldedStyle
	FlowStyle
)

// NodePair is one key/value slot of a mapping, kept as its own struct
// (rather than flattened into alternating Content entries, as the
// go-yaml Node does) so the path engine can address "the value for key
// K" without re-pairing Content on every lookup.
type NodePair struct {
	Key   *Node
	Value *Node

	// parent is a weak back-reference to the owning mapping Node, set by
	// the builder and never counted for ownership purposes.
	parent *Node
}

// Node is a constructed element of a YAML document tree. A Node owns
// its Sequence/Mapping children; Parent and NodePair.parent are weak
// back-references maintained for path traversal and are not part of
// the ownership graph a Copy walks.
type Node struct {
	Kind  Kind
	Style Style

	Tag   string
	Value string

	Anchor string
	Alias  *Node

	Sequence []*Node
	Mapping  []*NodePair

	Line, Column int

	HeadComment string
	LineComment string
	FootComment string

	// Parent is a weak back-reference set by the builder; nil for a root
	// Document node.
	Parent *Node

	// anchorID, if nonzero, is the order in which the builder bound this
	// node's anchor (a per-builder counter); nothing reads it.
	anchorID int
}

// IsScalar reports whether n is a leaf scalar node.
func (n *Node) IsScalar() bool { return n != nil && n.Kind == ScalarNode }

// IsZero reports whether n is the zero Node (no Kind set).
func (n *Node) IsZero() bool {
	return n == nil || (n.Kind == 0 && n.Tag == "" && n.Value == "" && len(n.Sequence) == 0 && len(n.Mapping) == 0)
}

// ShortTag strips a "tag:yaml.org,2002:" prefix down to its "!!" form,
// leaving custom tags untouched.
func (n *Node) ShortTag() string {
	return shortTag(n.Tag)
}

// LongTag expands a "!!" shorthand back to its full "tag:yaml.org,2002:"
// form, leaving custom tags untouched.
func (n *Node) LongTag() string {
	return longTag(n.Tag)
}

// Package yaml implements a YAML 1.1/1.2 core processor: a streaming
// scanner and parser (internal/scanner, internal/parser), a Document
// Builder that turns the parser's event stream into a Node tree
// (builder.go), an alias/merge-key Resolver (resolver.go), and a
// Path-based lookup/mutation engine (path.go).
package yaml

import "github.com/ohporter/go-fyaml/internal/input"

// Document is the root of one parsed YAML document: a thin wrapper
// over the DocumentNode returned by the builder, giving callers a
// named entry point distinct from the Node tree itself.
type Document struct {
	Root *Node
}

// ParseDocument parses the first document out of data, labelling it
// label for error messages. A nil Document with a nil error means the
// input held no document (an empty stream).
func ParseDocument(label string, data []byte) (*Document, error) {
	in := input.New(label, data)
	root, err := buildDocument(in)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	return &Document{Root: root}, nil
}

// ParseAllDocuments parses every document in a multi-document stream.
func ParseAllDocuments(label string, data []byte) ([]*Document, error) {
	in := input.New(label, data)
	roots, err := buildAllDocuments(in)
	if err != nil {
		return nil, err
	}
	docs := make([]*Document, len(roots))
	for i, r := range roots {
		docs[i] = &Document{Root: r}
	}
	return docs, nil
}

// Content returns the document's single top-level node (a scalar,
// sequence, or mapping), or nil for an empty document.
func (d *Document) Content() *Node {
	if d == nil || d.Root == nil || len(d.Root.Sequence) == 0 {
		return nil
	}
	return d.Root.Sequence[0]
}

// Lookup resolves a dotted path against the document's content.
func (d *Document) Lookup(path string) (*Node, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return d.Root.Lookup(p)
}

// Resolve returns an alias-free copy of the document.
func (d *Document) Resolve() (*Document, error) {
	r, err := Resolve(d.Root)
	if err != nil {
		return nil, err
	}
	return &Document{Root: r}, nil
}

// Package token adapts the teacher's internal/yamlh TokenType/YamlToken
// pair to spec §3's Token model: a typed lexeme over an Atom,
// reference-counted, with per-kind payload instead of flattened byte
// slices. Kind names match spec §3's list 1:1, including the synthetic
// block-structure kinds the scanner inserts retroactively.
package token

import (
	"sync/atomic"

	"github.com/ohporter/go-fyaml/internal/atom"
)

type Kind int

const (
	NoToken Kind = iota

	StreamStart
	StreamEnd

	VersionDirective
	TagDirective
	DocumentStart
	DocumentEnd

	BlockSequenceStart
	BlockMappingStart
	BlockEnd

	FlowSequenceStart
	FlowSequenceEnd
	FlowMappingStart
	FlowMappingEnd

	BlockEntry
	FlowEntry
	Key
	Value

	Scalar
	Anchor
	Alias
	Tag
)

func (k Kind) String() string {
	switch k {
	case NoToken:
		return "NoToken"
	case StreamStart:
		return "StreamStart"
	case StreamEnd:
		return "StreamEnd"
	case VersionDirective:
		return "VersionDirective"
	case TagDirective:
		return "TagDirective"
	case DocumentStart:
		return "DocumentStart"
	case DocumentEnd:
		return "DocumentEnd"
	case BlockSequenceStart:
		return "BlockSequenceStart"
	case BlockMappingStart:
		return "BlockMappingStart"
	case BlockEnd:
		return "BlockEnd"
	case FlowSequenceStart:
		return "FlowSequenceStart"
	case FlowSequenceEnd:
		return "FlowSequenceEnd"
	case FlowMappingStart:
		return "FlowMappingStart"
	case FlowMappingEnd:
		return "FlowMappingEnd"
	case BlockEntry:
		return "BlockEntry"
	case FlowEntry:
		return "FlowEntry"
	case Key:
		return "Key"
	case Value:
		return "Value"
	case Scalar:
		return "Scalar"
	case Anchor:
		return "Anchor"
	case Alias:
		return "Alias"
	case Tag:
		return "Tag"
	}
	return "<unknown token kind>"
}

type ScalarStyle int8

const (
	ScalarPlain ScalarStyle = iota
	ScalarSingleQuoted
	ScalarDoubleQuoted
	ScalarLiteral
	ScalarFolded
)

// Position mirrors spec §3's Position: a 0-based line/column plus byte
// offset within the input.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Token is a typed lexeme over an Atom. Synthetic tokens (the block-open/
// close tokens the scanner inserts on indentation changes) carry a nil
// Atom and a zero-length start==end position.
type Token struct {
	Kind  Kind
	Atom  *atom.Atom
	Start Position
	End   Position

	refs int32

	// scalar payload
	ScalarStyle ScalarStyle

	// version-directive payload
	VersionMajor, VersionMinor int8

	// tag-directive payload: byte lengths within the atom, relative to
	// its start, per spec §3.
	HandleLength int
	URILength    int

	// tag payload
	Skip         bool
	TagHandleLen int
	SuffixLen    int
	OwningRef    *Token // the tag-directive token this handle resolves against; the scanner and parser leave it nil

	// anchor/alias/scalar name or value text, cached after first access
	cachedText string
	textCached bool
}

// New constructs a token with a reference count of one.
func New(kind Kind, a *atom.Atom) *Token {
	return &Token{Kind: kind, Atom: a, refs: 1}
}

// Text returns the token's logical text, memoized after first computation.
func (t *Token) Text() string {
	if t.textCached {
		return t.cachedText
	}
	if t.Atom == nil {
		return ""
	}
	t.cachedText = t.Atom.Text()
	t.textCached = true
	return t.cachedText
}

// Ref increments the token's reference count and returns t.
func (t *Token) Ref() *Token {
	atomic.AddInt32(&t.refs, 1)
	return t
}

// Unref decrements the token's reference count, releasing the
// underlying Atom's Input reference once it reaches zero. Returns the
// remaining count.
func (t *Token) Unref() int32 {
	n := atomic.AddInt32(&t.refs, -1)
	if n == 0 && t.Atom != nil && t.Atom.Input != nil {
		t.Atom.Input.Unref()
	}
	return n
}

// Refs reports the current reference count.
func (t *Token) Refs() int32 {
	return atomic.LoadInt32(&t.refs)
}

// IsSynthetic reports whether this token was inserted by the scanner
// rather than corresponding directly to a lexed span of input.
func (t *Token) IsSynthetic() bool {
	switch t.Kind {
	case BlockSequenceStart, BlockMappingStart, BlockEnd:
		return t.Atom == nil || t.Atom.Size() == 0
	}
	return false
}

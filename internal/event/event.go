// Package event implements spec §4.4's pull-based event stream: the
// parser's output, one event per call. Adapted from the teacher's
// internal/yamlh Event/EventType, narrowed to spec §4.4's exact kind
// list and payload shapes (anchor/tag carried as token references
// rather than raw byte slices, per spec §3's Token ownership model).
package event

import (
	"github.com/ohporter/go-fyaml/internal/docstate"
	"github.com/ohporter/go-fyaml/internal/token"
)

type Kind int8

const (
	NoEvent Kind = iota
	StreamStart
	StreamEnd
	DocumentStart
	DocumentEnd
	MappingStart
	MappingEnd
	SequenceStart
	SequenceEnd
	Scalar
	Alias
)

func (k Kind) String() string {
	switch k {
	case NoEvent:
		return "none"
	case StreamStart:
		return "stream-start"
	case StreamEnd:
		return "stream-end"
	case DocumentStart:
		return "document-start"
	case DocumentEnd:
		return "document-end"
	case MappingStart:
		return "mapping-start"
	case MappingEnd:
		return "mapping-end"
	case SequenceStart:
		return "sequence-start"
	case SequenceEnd:
		return "sequence-end"
	case Scalar:
		return "scalar"
	case Alias:
		return "alias"
	}
	return "unknown"
}

// Event is one item of the parser's pull-based output stream.
type Event struct {
	Kind Kind

	// document-start/end
	State    *docstate.DocumentState
	Implicit bool

	// mapping-start/sequence-start/scalar/alias
	Anchor *token.Token
	Tag    *token.Token

	// scalar
	Value          *token.Token
	ScalarStyle    token.ScalarStyle
	TagImplicit    bool
	PlainImplicit  bool
	QuotedImplicit bool

	// alias
	AliasName *token.Token

	// mapping-start/sequence-start anchor token or nil
	StartToken *token.Token
	EndToken   *token.Token
}

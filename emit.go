package yaml

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/ohporter/go-fyaml/internal/emitter"
	"github.com/ohporter/go-fyaml/internal/resolve"
	"github.com/ohporter/go-fyaml/internal/yamlh"
)

// Emitter serializes Documents/Nodes back to YAML text, bridging the
// Sequence/Mapping-split Node to internal/emitter's libyaml-derived
// event-driven writer. Grounded on encode.go's Encoder.encodeNode, the
// reflect-to-Node half of which (marshal/encodeMap/encodeStruct) this
// module does not carry forward since there is no Go-value target in
// this core — only Node-to-Node and Node-to-text operations.
type Emitter struct {
	emitter emitter.Emitter
	cfg     EmitterConfig
}

// NewEmitter constructs an Emitter writing to w under cfg.
func NewEmitter(w io.Writer, cfg EmitterConfig) *Emitter {
	e := &Emitter{emitter: *emitter.New(w), cfg: cfg}
	indent := cfg.Indent
	if indent <= 0 {
		indent = DefaultEmitterConfig().Indent
	}
	e.emitter.SetIndent(indent)
	return e
}

// EmitDocument writes one complete document: STREAM-START, the node
// tree, STREAM-END.
func (e *Emitter) EmitDocument(doc *Document) error {
	if err := e.emitter.Emit(streamStartEvent(), false); err != nil {
		return err
	}
	if err := e.emitter.Emit(documentStartEvent(), false); err != nil {
		return err
	}
	content := doc.Content()
	if content == nil {
		if err := e.encodeNil(); err != nil {
			return err
		}
	} else if err := e.encodeNode(content); err != nil {
		return err
	}
	if err := e.emitter.Emit(documentEndEvent(), false); err != nil {
		return err
	}
	return e.emitter.Emit(streamEndEvent(), true)
}

// Marshal renders doc as a standalone []byte, for callers who don't
// need streaming output.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	e := NewEmitter(&buf, DefaultEmitterConfig())
	if err := e.EmitDocument(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Emitter) encodeNil() error {
	return e.emitter.Emit(scalarEvent(nil, nil, []byte("null"), true, true, yamlh.PLAIN_SCALAR_STYLE), false)
}

func (e *Emitter) encodeNode(n *Node) error {
	if n == nil || n.IsZero() {
		return e.encodeNil()
	}

	tag := n.Tag
	stag := resolve.ShortTag(tag)
	if tag != "" && n.Style&TaggedStyle == 0 {
		switch n.Kind {
		case ScalarNode:
			if stag == resolve.StrTag && n.Style&(SingleQuotedStyle|DoubleQuotedStyle|LiteralStyle|FoldedStyle) != 0 {
				tag = ""
			} else {
				rtag, _, err := resolveScalarTag(n.Value)
				if err != nil {
					return err
				}
				if rtag == stag {
					tag = ""
				}
			}
		case SequenceNode:
			if stag == resolve.SeqTag {
				tag = ""
			}
		case MappingNode:
			if stag == resolve.MapTag {
				tag = ""
			}
		}
	}

	switch n.Kind {
	case ScalarNode:
		return e.encodeScalar(n, tag)

	case AliasNode:
		return e.emitter.Emit(aliasEvent([]byte(n.Value)), false)

	case SequenceNode:
		style := yamlh.BLOCK_SEQUENCE_STYLE
		if n.Style&FlowStyle != 0 {
			style = yamlh.FLOW_SEQUENCE_STYLE
		}
		event := sequenceStartEvent([]byte(n.Anchor), []byte(resolve.LongTag(tag)), tag == "", style)
		event.Head_comment = []byte(n.HeadComment)
		if err := e.emitter.Emit(event, false); err != nil {
			return err
		}
		for _, child := range n.Sequence {
			if err := e.encodeNode(child); err != nil {
				return err
			}
		}
		end := sequenceEndEvent()
		end.Line_comment = []byte(n.LineComment)
		end.Foot_comment = []byte(n.FootComment)
		return e.emitter.Emit(end, false)

	case MappingNode:
		style := yamlh.BLOCK_MAPPING_STYLE
		if n.Style&FlowStyle != 0 {
			style = yamlh.FLOW_MAPPING_STYLE
		}
		event := mappingStartEvent([]byte(n.Anchor), []byte(resolve.LongTag(tag)), tag == "", style)
		event.Head_comment = []byte(n.HeadComment)
		if err := e.emitter.Emit(event, false); err != nil {
			return err
		}
		for _, p := range n.Mapping {
			if err := e.encodeNode(p.Key); err != nil {
				return err
			}
			if err := e.encodeNode(p.Value); err != nil {
				return err
			}
		}
		end := mappingEndEvent()
		end.Line_comment = []byte(n.LineComment)
		end.Foot_comment = []byte(n.FootComment)
		return e.emitter.Emit(end, false)
	}
	return newError(InterfaceError, SeverityDocument, n.Line, n.Column, "cannot encode node of kind %s", n.Kind)
}

func resolveScalarTag(value string) (string, interface{}, error) {
	return resolve.Resolve("", value)
}

func (e *Emitter) encodeScalar(n *Node, tag string) error {
	value := n.Value
	style := yamlh.PLAIN_SCALAR_STYLE
	switch {
	case n.Style&SingleQuotedStyle != 0:
		style = yamlh.SINGLE_QUOTED_SCALAR_STYLE
	case n.Style&DoubleQuotedStyle != 0:
		style = yamlh.DOUBLE_QUOTED_SCALAR_STYLE
	case n.Style&LiteralStyle != 0:
		style = yamlh.LITERAL_SCALAR_STYLE
	case n.Style&FoldedStyle != 0:
		style = yamlh.FOLDED_SCALAR_STYLE
	}
	if !utf8.ValidString(value) {
		return newError(SemanticError, SeverityDocument, n.Line, n.Column, "cannot marshal invalid UTF-8 data as %s", resolve.ShortTag(tag))
	}
	implicit := tag == ""
	var outTag string
	if !implicit {
		outTag = resolve.LongTag(tag)
	}
	event := scalarEvent([]byte(n.Anchor), []byte(outTag), []byte(value), implicit, implicit, style)
	event.Head_comment = []byte(n.HeadComment)
	event.Line_comment = []byte(n.LineComment)
	event.Foot_comment = []byte(n.FootComment)
	return e.emitter.Emit(event, false)
}

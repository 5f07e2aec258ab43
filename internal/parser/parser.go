// Package parser implements spec §4.4: a pull-based event producer
// sitting on top of internal/scanner's token stream, maintaining the
// %YAML/%TAG directive state for the current document and an explicit
// state stack instead of recursion.
//
// Grounded on the teacher's internal/parserc/parser.go (the ParserState
// enum and YamlParser struct) and the state-transition shape of
// internal/parserc/parserc.go's yaml_parser_state_machine, adapted to
// produce internal/event.Event values referencing internal/token.Token
// instead of the teacher's flattened yamlh.Event.
package parser

import (
	"fmt"

	"github.com/ohporter/go-fyaml/internal/docstate"
	"github.com/ohporter/go-fyaml/internal/event"
	"github.com/ohporter/go-fyaml/internal/input"
	"github.com/ohporter/go-fyaml/internal/scanner"
	"github.com/ohporter/go-fyaml/internal/token"
)

type state int

const (
	stateStreamStart state = iota
	stateDocumentStart
	stateDocumentContent
	stateDocumentEnd
	stateBlockNode
	stateBlockSequenceFirstEntry
	stateBlockSequenceEntry
	stateBlockMappingFirstKey
	stateBlockMappingKey
	stateBlockMappingValue
	stateFlowSequenceFirstEntry
	stateFlowSequenceEntry
	stateFlowSequenceEntryMappingKey
	stateFlowSequenceEntryMappingValue
	stateFlowSequenceEntryMappingEnd
	stateFlowMappingFirstKey
	stateFlowMappingKey
	stateFlowMappingValue
	stateFlowMappingEmptyValue
	stateEnd
)

// Parser produces spec §4.4's event stream from one token source.
type Parser struct {
	scan *scanner.Scanner

	states []state
	cur    state

	peeked *token.Token

	docState *docstate.DocumentState

	// pending anchor/tag for the node currently being opened
	pendingAnchor *token.Token
	pendingTag    *token.Token

	streamEndEmitted bool
}

// New constructs a Parser reading tokens produced from in.
func New(in *input.Input) *Parser {
	return &Parser{scan: scanner.New(in), cur: stateStreamStart}
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return fmt.Errorf("parser: %s", fmt.Sprintf(format, args...))
}

func (p *Parser) peek() (*token.Token, error) {
	if p.peeked == nil {
		t, err := p.scan.Next()
		if err != nil {
			return nil, err
		}
		p.peeked = t
	}
	return p.peeked, nil
}

func (p *Parser) pop() (*token.Token, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	p.peeked = nil
	return t, nil
}

func (p *Parser) push(s state) { p.states = append(p.states, s) }

func (p *Parser) popState() {
	if len(p.states) == 0 {
		p.cur = stateEnd
		return
	}
	p.cur = p.states[len(p.states)-1]
	p.states = p.states[:len(p.states)-1]
}

// Next produces the next event, or (nil, nil) once STREAM-END has been
// returned.
func (p *Parser) Next() (*event.Event, error) {
	if p.streamEndEmitted {
		return nil, nil
	}
	switch p.cur {
	case stateStreamStart:
		return p.parseStreamStart()
	case stateDocumentStart:
		return p.parseDocumentStart()
	case stateDocumentContent:
		return p.parseDocumentContent()
	case stateDocumentEnd:
		return p.parseDocumentEnd()
	case stateBlockNode:
		return p.parseNode(true, false)
	case stateBlockSequenceFirstEntry:
		return p.parseBlockSequenceEntry(true)
	case stateBlockSequenceEntry:
		return p.parseBlockSequenceEntry(false)
	case stateBlockMappingFirstKey:
		return p.parseBlockMappingKey(true)
	case stateBlockMappingKey:
		return p.parseBlockMappingKey(false)
	case stateBlockMappingValue:
		return p.parseBlockMappingValue()
	case stateFlowSequenceFirstEntry:
		return p.parseFlowSequenceEntry(true)
	case stateFlowSequenceEntry:
		return p.parseFlowSequenceEntry(false)
	case stateFlowSequenceEntryMappingKey:
		return p.parseFlowSequenceEntryMappingKey()
	case stateFlowSequenceEntryMappingValue:
		return p.parseFlowSequenceEntryMappingValue()
	case stateFlowSequenceEntryMappingEnd:
		return p.parseFlowSequenceEntryMappingEnd()
	case stateFlowMappingFirstKey:
		return p.parseFlowMappingKey(true)
	case stateFlowMappingKey:
		return p.parseFlowMappingKey(false)
	case stateFlowMappingValue:
		return p.parseFlowMappingValue(false)
	case stateFlowMappingEmptyValue:
		return p.parseFlowMappingValue(true)
	case stateEnd:
		p.streamEndEmitted = true
		return &event.Event{Kind: event.StreamEnd}, nil
	}
	return nil, p.errf("unreachable parser state %d", p.cur)
}

func (p *Parser) parseStreamStart() (*event.Event, error) {
	t, err := p.pop()
	if err != nil {
		return nil, err
	}
	if t.Kind != token.StreamStart {
		return nil, p.errf("expected STREAM-START, got %s", t.Kind)
	}
	p.cur = stateDocumentStart
	return &event.Event{Kind: event.StreamStart, StartToken: t}, nil
}

func (p *Parser) parseDocumentStart() (*event.Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}

	for t.Kind == token.VersionDirective || t.Kind == token.TagDirective {
		if err := p.processDirective(t); err != nil {
			return nil, err
		}
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		t, err = p.peek()
		if err != nil {
			return nil, err
		}
	}

	if p.docState == nil {
		p.docState = docstate.New()
	}

	implicit := true
	if t.Kind == token.DocumentStart {
		implicit = false
		if _, err := p.pop(); err != nil {
			return nil, err
		}
	} else if t.Kind == token.StreamEnd {
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		p.cur = stateEnd
		p.streamEndEmitted = true
		return &event.Event{Kind: event.StreamEnd}, nil
	}

	ds := p.docState
	ds.StartImplicit = implicit
	p.docState = nil
	p.push(stateDocumentEnd)
	p.cur = stateDocumentContent
	return &event.Event{Kind: event.DocumentStart, State: ds, Implicit: implicit}, nil
}

func (p *Parser) processDirective(t *token.Token) error {
	if p.docState == nil {
		p.docState = docstate.New()
	}
	switch t.Kind {
	case token.VersionDirective:
		return p.docState.SetVersion(t.VersionMajor, t.VersionMinor)
	case token.TagDirective:
		txt := t.Text()
		if t.HandleLength == 0 && t.URILength == 0 {
			return nil // unrecognized directive name, ignored
		}
		handle := txt[:t.HandleLength]
		uri := txt[len(txt)-t.URILength:]
		return p.docState.AddTagDirective(handle, uri)
	}
	return nil
}

func (p *Parser) parseDocumentContent() (*event.Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case token.VersionDirective, token.TagDirective, token.DocumentStart, token.DocumentEnd, token.StreamEnd:
		p.popState()
		return &event.Event{Kind: event.Scalar, PlainImplicit: true}, nil
	}
	p.cur = stateBlockNode
	return p.Next()
}

func (p *Parser) parseDocumentEnd() (*event.Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	implicit := true
	if t.Kind == token.DocumentEnd {
		implicit = false
		if _, err := p.pop(); err != nil {
			return nil, err
		}
	}
	p.cur = stateDocumentStart
	return &event.Event{Kind: event.DocumentEnd, Implicit: implicit}, nil
}

// parseNode parses a node, consuming any leading anchor/tag/alias and
// routing to the appropriate collection-start or scalar handling.
// block indicates whether block-context indicators (entries, keys) are
// meaningful here; indentless permits a block sequence without its own
// indentation increase (compact sequence-under-mapping-value form).
func (p *Parser) parseNode(block, indentless bool) (*event.Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}

	if t.Kind == token.Alias {
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		p.popState()
		return &event.Event{Kind: event.Alias, AliasName: t}, nil
	}

	var anchor, tag *token.Token
	for t.Kind == token.Anchor || t.Kind == token.Tag {
		if t.Kind == token.Anchor {
			anchor = t
		} else {
			tag = t
		}
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		t, err = p.peek()
		if err != nil {
			return nil, err
		}
	}

	switch t.Kind {
	case token.Scalar:
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		p.popState()
		return &event.Event{
			Kind: event.Scalar, Anchor: anchor, Tag: tag, Value: t,
			ScalarStyle: t.ScalarStyle, PlainImplicit: tag == nil && t.ScalarStyle == token.ScalarPlain,
			QuotedImplicit: tag == nil && t.ScalarStyle != token.ScalarPlain,
		}, nil

	case token.FlowSequenceStart:
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		p.cur = stateFlowSequenceFirstEntry
		return &event.Event{Kind: event.SequenceStart, Anchor: anchor, Tag: tag, StartToken: t}, nil

	case token.FlowMappingStart:
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		p.cur = stateFlowMappingFirstKey
		return &event.Event{Kind: event.MappingStart, Anchor: anchor, Tag: tag, StartToken: t}, nil

	case token.BlockSequenceStart:
		if block {
			if _, err := p.pop(); err != nil {
				return nil, err
			}
			p.cur = stateBlockSequenceFirstEntry
			return &event.Event{Kind: event.SequenceStart, Anchor: anchor, Tag: tag, StartToken: t}, nil
		}

	case token.BlockMappingStart:
		if block {
			if _, err := p.pop(); err != nil {
				return nil, err
			}
			p.cur = stateBlockMappingFirstKey
			return &event.Event{Kind: event.MappingStart, Anchor: anchor, Tag: tag, StartToken: t}, nil
		}

	case token.BlockEntry:
		if indentless {
			p.cur = stateBlockSequenceFirstEntry
			return &event.Event{Kind: event.SequenceStart, Anchor: anchor, Tag: tag}, nil
		}
	}

	if anchor != nil || tag != nil {
		p.popState()
		return &event.Event{Kind: event.Scalar, Anchor: anchor, Tag: tag, PlainImplicit: true}, nil
	}
	return nil, p.errf("did not find expected node content, got %s", t.Kind)
}

func (p *Parser) parseBlockSequenceEntry(_ bool) (*event.Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Kind == token.BlockEntry {
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		nt, err := p.peek()
		if err != nil {
			return nil, err
		}
		if nt.Kind == token.BlockEntry || nt.Kind == token.BlockEnd {
			p.cur = stateBlockSequenceEntry
			return &event.Event{Kind: event.Scalar, PlainImplicit: true}, nil
		}
		p.push(stateBlockSequenceEntry)
		return p.parseNode(true, false)
	}
	if t.Kind == token.BlockEnd {
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		p.popState()
		return &event.Event{Kind: event.SequenceEnd}, nil
	}
	return nil, p.errf("did not find expected '-' indicator, got %s", t.Kind)
}

func (p *Parser) parseBlockMappingKey(first bool) (*event.Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Kind == token.Key {
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		nt, err := p.peek()
		if err != nil {
			return nil, err
		}
		if nt.Kind == token.Key || nt.Kind == token.Value || nt.Kind == token.BlockEnd {
			p.cur = stateBlockMappingValue
			return &event.Event{Kind: event.Scalar, PlainImplicit: true}, nil
		}
		p.push(stateBlockMappingValue)
		return p.parseNode(true, true)
	}
	if t.Kind == token.BlockEnd {
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		p.popState()
		return &event.Event{Kind: event.MappingEnd}, nil
	}
	return nil, p.errf("did not find expected key, got %s", t.Kind)
}

func (p *Parser) parseBlockMappingValue() (*event.Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Kind == token.Value {
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		nt, err := p.peek()
		if err != nil {
			return nil, err
		}
		if nt.Kind == token.Key || nt.Kind == token.Value || nt.Kind == token.BlockEnd {
			p.cur = stateBlockMappingKey
			return &event.Event{Kind: event.Scalar, PlainImplicit: true}, nil
		}
		p.push(stateBlockMappingKey)
		return p.parseNode(true, true)
	}
	p.cur = stateBlockMappingKey
	return &event.Event{Kind: event.Scalar, PlainImplicit: true}, nil
}

func (p *Parser) parseFlowSequenceEntry(first bool) (*event.Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if !first {
		if t.Kind == token.FlowEntry {
			if _, err := p.pop(); err != nil {
				return nil, err
			}
			t, err = p.peek()
			if err != nil {
				return nil, err
			}
		}
	}
	if t.Kind == token.FlowSequenceEnd {
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		p.popState()
		return &event.Event{Kind: event.SequenceEnd}, nil
	}
	if t.Kind == token.Key {
		p.cur = stateFlowSequenceEntryMappingKey
		return &event.Event{Kind: event.MappingStart, PlainImplicit: true}, nil
	}
	p.push(stateFlowSequenceEntry)
	return p.parseNode(false, false)
}

func (p *Parser) parseFlowSequenceEntryMappingKey() (*event.Event, error) {
	t, err := p.pop()
	if err != nil {
		return nil, err
	}
	_ = t // consume the Key indicator
	nt, err := p.peek()
	if err != nil {
		return nil, err
	}
	if nt.Kind == token.Value || nt.Kind == token.FlowEntry || nt.Kind == token.FlowSequenceEnd {
		p.cur = stateFlowSequenceEntryMappingValue
		return &event.Event{Kind: event.Scalar, PlainImplicit: true}, nil
	}
	p.push(stateFlowSequenceEntryMappingValue)
	return p.parseNode(false, false)
}

func (p *Parser) parseFlowSequenceEntryMappingValue() (*event.Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Kind == token.Value {
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		nt, err := p.peek()
		if err != nil {
			return nil, err
		}
		if nt.Kind == token.FlowEntry || nt.Kind == token.FlowSequenceEnd {
			p.cur = stateFlowSequenceEntryMappingEnd
			return &event.Event{Kind: event.Scalar, PlainImplicit: true}, nil
		}
		p.push(stateFlowSequenceEntryMappingEnd)
		return p.parseNode(false, false)
	}
	p.cur = stateFlowSequenceEntryMappingEnd
	return &event.Event{Kind: event.Scalar, PlainImplicit: true}, nil
}

func (p *Parser) parseFlowSequenceEntryMappingEnd() (*event.Event, error) {
	p.cur = stateFlowSequenceEntry
	return &event.Event{Kind: event.MappingEnd}, nil
}

func (p *Parser) parseFlowMappingKey(first bool) (*event.Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if !first && t.Kind == token.FlowEntry {
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		t, err = p.peek()
		if err != nil {
			return nil, err
		}
	}
	if t.Kind == token.FlowMappingEnd {
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		p.popState()
		return &event.Event{Kind: event.MappingEnd}, nil
	}
	if t.Kind == token.Key {
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		nt, err := p.peek()
		if err != nil {
			return nil, err
		}
		if nt.Kind == token.Value || nt.Kind == token.FlowEntry || nt.Kind == token.FlowMappingEnd {
			p.cur = stateFlowMappingValue
			return &event.Event{Kind: event.Scalar, PlainImplicit: true}, nil
		}
		p.push(stateFlowMappingValue)
		return p.parseNode(false, false)
	}
	p.push(stateFlowMappingEmptyValue)
	return p.parseNode(false, false)
}

func (p *Parser) parseFlowMappingValue(empty bool) (*event.Event, error) {
	if empty {
		p.cur = stateFlowMappingKey
		return &event.Event{Kind: event.Scalar, PlainImplicit: true}, nil
	}
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Kind == token.Value {
		if _, err := p.pop(); err != nil {
			return nil, err
		}
		nt, err := p.peek()
		if err != nil {
			return nil, err
		}
		if nt.Kind == token.FlowEntry || nt.Kind == token.FlowMappingEnd {
			p.cur = stateFlowMappingKey
			return &event.Event{Kind: event.Scalar, PlainImplicit: true}, nil
		}
		p.push(stateFlowMappingKey)
		return p.parseNode(false, false)
	}
	p.cur = stateFlowMappingKey
	return &event.Event{Kind: event.Scalar, PlainImplicit: true}, nil
}

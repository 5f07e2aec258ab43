// Package scanner implements spec §4.3: it exposes a single operation,
// "produce the next token", tracking indent column, flow-level depth,
// simple-key candidates, and synthesizing block-open/close tokens.
//
// Structurally grounded on the teacher's internal/parserc/scannerc.go
// (one fetch_/scan_ function per token kind, an Indent/Indents stack, a
// Simple_keys slot per flow level) and internal/parserc/readerc.go's
// UTF-8 decode, collapsed here onto internal/charclass operating over a
// single resident buffer rather than the teacher's chunked raw-buffer
// reader, since raw I/O is out of this core's scope (spec §1).
package scanner

import (
	"fmt"

	"github.com/ohporter/go-fyaml/internal/atom"
	"github.com/ohporter/go-fyaml/internal/charclass"
	"github.com/ohporter/go-fyaml/internal/input"
	"github.com/ohporter/go-fyaml/internal/token"
)

const maxFlowLevel = 10000
const maxIndents = 10000
const maxSimpleKeyDistance = 1024

// simpleKey tracks a candidate implicit mapping key: the earliest
// position at which a "?"-less key could begin.
type simpleKey struct {
	possible    bool
	required    bool
	tokenNumber int
	line, col   int
	offset      int
}

// Scanner produces a token queue from one Input.
type Scanner struct {
	in  *input.Input
	buf []byte

	pos, line, col int

	flowLevel int
	indent    int
	indents   []int

	simpleKeyAllowed bool
	simpleKeys       []simpleKey // one slot per flow level, index 0 == block context

	queued       []*token.Token
	tokensParsed int

	streamStartProduced bool
	streamEndProduced   bool

	docStateDirty bool // have we seen any directive/--- since last reset
}

// New constructs a Scanner over in.
func New(in *input.Input) *Scanner {
	s := &Scanner{in: in, buf: in.Data(), indent: -1}
	s.simpleKeys = append(s.simpleKeys, simpleKey{})
	return s
}

// Next produces the next token, or (nil, nil) once STREAM-END has been
// returned.
func (s *Scanner) Next() (*token.Token, error) {
	if err := s.fetchMoreTokens(); err != nil {
		return nil, err
	}
	if len(s.queued) == 0 {
		return nil, nil
	}
	t := s.queued[0]
	s.queued = s.queued[1:]
	s.tokensParsed++
	return t, nil
}

func (s *Scanner) newAtom(start, end int, style atom.Style) *atom.Atom {
	return atom.New(s.in, start, end, style)
}

func (s *Scanner) mark() token.Position {
	return token.Position{Offset: s.pos, Line: s.line, Column: s.col}
}

func (s *Scanner) markAt(offset, line, col int) token.Position {
	return token.Position{Offset: offset, Line: line, Column: col}
}

func (s *Scanner) syntheticToken(kind token.Kind) *token.Token {
	m := s.mark()
	t := token.New(kind, nil)
	t.Start, t.End = m, m
	return t
}

func (s *Scanner) errf(format string, args ...interface{}) error {
	return fmt.Errorf("scanner: line %d column %d: %s", s.line+1, s.col+1, fmt.Sprintf(format, args...))
}

func (s *Scanner) eof() bool { return s.pos >= len(s.buf) }

func (s *Scanner) at(i int) byte {
	p := s.pos + i
	if p >= len(s.buf) {
		return 0
	}
	return s.buf[p]
}

func (s *Scanner) advance(n int) {
	for i := 0; i < n; i++ {
		if s.eof() {
			return
		}
		if s.buf[s.pos] == '\n' {
			s.line++
			s.col = 0
		} else if !(s.buf[s.pos] == '\r' && s.pos+1 < len(s.buf) && s.buf[s.pos+1] == '\n') {
			s.col++
		}
		s.pos++
	}
}

func (s *Scanner) skipLineBreak() {
	next := charclass.SkipLineBreak(s.buf, s.pos)
	n := next - s.pos
	if n <= 0 {
		return
	}
	s.advance(n)
	// advance() already bumped line on '\n' (including a CRLF's '\n');
	// only a lone CR or a NEL/LS/PS break still needs counting here.
	if s.buf[s.pos-1] != '\n' {
		s.line++
		s.col = 0
	}
}

// insertToken inserts t at absolute token index pos (as returned by
// queueIndex/tokenNumber), shifting later queued tokens back.
func (s *Scanner) insertToken(pos int, t *token.Token) {
	rel := pos - s.tokensParsed
	if rel < 0 {
		rel = 0
	}
	if rel > len(s.queued) {
		rel = len(s.queued)
	}
	s.queued = append(s.queued, nil)
	copy(s.queued[rel+1:], s.queued[rel:])
	s.queued[rel] = t
}

func (s *Scanner) queueIndex() int {
	return s.tokensParsed + len(s.queued)
}

// --- indent stack ---------------------------------------------------

// rollIndent pushes a new indentation level and inserts a block-open
// token at the given absolute token index (the saved simple key's
// position, or the current queue end when there is none) if column
// exceeds the current indent.
func (s *Scanner) rollIndent(column, tokenIndex int, kind token.Kind) (bool, error) {
	if s.flowLevel > 0 {
		return false, nil
	}
	if s.indent < column {
		s.indents = append(s.indents, s.indent)
		if len(s.indents) > maxIndents {
			return false, s.errf("too many nested block collections")
		}
		s.indent = column
		s.insertToken(tokenIndex, s.syntheticToken(kind))
		return true, nil
	}
	return false, nil
}

func (s *Scanner) unrollIndent(column int) {
	if s.flowLevel > 0 {
		return
	}
	for s.indent > column && len(s.indents) > 0 {
		s.queued = append(s.queued, s.syntheticToken(token.BlockEnd))
		s.indent = s.indents[len(s.indents)-1]
		s.indents = s.indents[:len(s.indents)-1]
	}
	if len(s.indents) == 0 && s.indent > column && s.indent != 0 {
		s.queued = append(s.queued, s.syntheticToken(token.BlockEnd))
		s.indent = 0
	}
}

// --- simple keys ------------------------------------------------------

func (s *Scanner) flowLevelIndex() int { return s.flowLevel }

func (s *Scanner) ensureSimpleKeySlot() {
	for len(s.simpleKeys) <= s.flowLevel {
		s.simpleKeys = append(s.simpleKeys, simpleKey{})
	}
}

func (s *Scanner) saveSimpleKey() error {
	required := s.flowLevel == 0 && s.indent == s.col
	if s.simpleKeyAllowed {
		s.removeSimpleKey()
		s.ensureSimpleKeySlot()
		s.simpleKeys[s.flowLevel] = simpleKey{
			possible: true, required: required,
			tokenNumber: s.queueIndex(),
			line:        s.line, col: s.col, offset: s.pos,
		}
	}
	return nil
}

func (s *Scanner) removeSimpleKey() {
	s.ensureSimpleKeySlot()
	sk := &s.simpleKeys[s.flowLevel]
	if sk.possible && sk.required {
		// caller should have already validated; left for error reporting.
	}
	sk.possible = false
}

func (s *Scanner) increaseFlowLevel() error {
	s.simpleKeys = append(s.simpleKeys, simpleKey{})
	s.flowLevel++
	if s.flowLevel > maxFlowLevel {
		return s.errf("too many nested flow collections")
	}
	return nil
}

func (s *Scanner) decreaseFlowLevel() {
	if s.flowLevel > 0 {
		s.flowLevel--
		if len(s.simpleKeys) > s.flowLevel+1 {
			s.simpleKeys = s.simpleKeys[:s.flowLevel+1]
		}
	}
}

// --- main fetch loop --------------------------------------------------

func (s *Scanner) fetchMoreTokens() error {
	for {
		// A queued token may still get a KEY (and a block-mapping start)
		// inserted in front of it while a simple key that begins at the
		// head of the queue is possible, so keep fetching until none is.
		need := len(s.queued) == 0
		for _, sk := range s.simpleKeys {
			if sk.possible && sk.tokenNumber == s.tokensParsed {
				need = true
			}
		}
		if !need || s.streamEndProduced {
			return nil
		}
		if err := s.staleSimpleKeysCheck(); err != nil {
			return err
		}
		if err := s.fetchNextToken(); err != nil {
			return err
		}
	}
}

func (s *Scanner) staleSimpleKeysCheck() error {
	for level := range s.simpleKeys {
		sk := &s.simpleKeys[level]
		if sk.possible && (s.line > sk.line || s.pos-sk.offset > maxSimpleKeyDistance) {
			if sk.required {
				return s.errf("could not find expected ':'")
			}
			sk.possible = false
		}
	}
	return nil
}

func (s *Scanner) fetchNextToken() error {
	if !s.streamStartProduced {
		s.streamStartProduced = true
		s.simpleKeyAllowed = true
		s.queued = append(s.queued, s.syntheticToken(token.StreamStart))
		return nil
	}

	if err := s.scanToNextToken(); err != nil {
		return err
	}
	if err := s.staleSimpleKeysCheck(); err != nil {
		return err
	}
	s.unrollIndent(s.col)

	if s.eof() {
		return s.fetchStreamEnd()
	}

	if s.col == 0 && s.matchDocIndicator("---") {
		return s.fetchDocumentIndicator(token.DocumentStart)
	}
	if s.col == 0 && s.matchDocIndicator("...") {
		return s.fetchDocumentIndicator(token.DocumentEnd)
	}

	c := s.at(0)
	switch {
	case c == '%' && s.col == 0:
		return s.fetchDirective()
	case c == '[':
		return s.fetchFlowCollectionStart(token.FlowSequenceStart)
	case c == '{':
		return s.fetchFlowCollectionStart(token.FlowMappingStart)
	case c == ']':
		return s.fetchFlowCollectionEnd(token.FlowSequenceEnd)
	case c == '}':
		return s.fetchFlowCollectionEnd(token.FlowMappingEnd)
	case c == ',':
		return s.fetchFlowEntry()
	case c == '-' && isPlainEntryIndicator(s, 1):
		return s.fetchBlockEntry()
	case c == '?' && (s.flowLevel > 0 || isPlainEntryIndicator(s, 1)):
		return s.fetchKeyIndicator()
	case c == ':' && (s.flowLevel > 0 || isPlainEntryIndicator(s, 1)):
		return s.fetchValueIndicator()
	case c == '&':
		return s.fetchAnchor()
	case c == '*':
		return s.fetchAlias()
	case c == '!':
		return s.fetchTag()
	case c == '|' && s.flowLevel == 0:
		return s.fetchBlockScalar(true)
	case c == '>' && s.flowLevel == 0:
		return s.fetchBlockScalar(false)
	case c == '\'':
		return s.fetchFlowScalar(true)
	case c == '"':
		return s.fetchFlowScalar(false)
	default:
		if s.isPlainStart() {
			return s.fetchPlainScalar()
		}
	}
	return s.errf("found character %q that cannot start any token", c)
}

func isPlainEntryIndicator(s *Scanner, off int) bool {
	return charclass.IsBlankZ(s.buf, s.pos+off)
}

func (s *Scanner) matchDocIndicator(lit string) bool {
	for i := 0; i < len(lit); i++ {
		if s.at(i) != lit[i] {
			return false
		}
	}
	return charclass.IsBlankZ(s.buf, s.pos+len(lit))
}

func (s *Scanner) isPlainStart() bool {
	c := s.at(0)
	if charclass.IsBlankZ(s.buf, s.pos) {
		return false
	}
	switch c {
	case '-', '?', ':':
		return !isPlainEntryIndicator(s, 1)
	case ',', '[', ']', '{', '}', '#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
		return false
	}
	return true
}

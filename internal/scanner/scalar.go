package scanner

import (
	"github.com/ohporter/go-fyaml/internal/atom"
	"github.com/ohporter/go-fyaml/internal/charclass"
	"github.com/ohporter/go-fyaml/internal/token"
)

func (s *Scanner) fetchFlowScalar(single bool) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	start := s.mark()
	quote := byte('\'')
	style := atom.SingleQuoted
	if !single {
		quote = '"'
		style = atom.DoubleQuoted
	}
	s.advance(1)
	contentStart := s.pos
	for {
		if s.eof() {
			return s.errf("unexpected end of stream inside quoted scalar")
		}
		c := s.at(0)
		if c == quote {
			if single && s.at(1) == '\'' {
				s.advance(2)
				continue
			}
			break
		}
		if !single && c == '\\' {
			s.advance(1)
			if s.eof() {
				return s.errf("unexpected end of stream after escape")
			}
			s.advance(1)
			continue
		}
		if charclass.IsLineBreak(s.buf, s.pos) {
			s.skipLineBreak()
			continue
		}
		s.advance(1)
	}
	contentEnd := s.pos
	s.advance(1) // closing quote
	end := s.mark()
	t := token.New(token.Scalar, s.newAtom(contentStart, contentEnd, style))
	t.Start, t.End = start, end
	if single {
		t.ScalarStyle = token.ScalarSingleQuoted
	} else {
		t.ScalarStyle = token.ScalarDoubleQuoted
	}
	s.queued = append(s.queued, t)
	return nil
}

func (s *Scanner) fetchPlainScalar() error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	start := s.mark()
	contentStart := s.pos
	indent := s.indent + 1
	for {
		if charclass.IsBreakZ(s.buf, s.pos) {
			break
		}
		if charclass.IsWS(s.buf, s.pos) {
			// " #" ends a plain scalar; other runs of blanks are part of
			// the scalar and folded later at the atom level.
			peek := s.pos
			for charclass.IsWS(s.buf, peek) {
				peek++
			}
			if peek < len(s.buf) && s.buf[peek] == '#' {
				break
			}
		}
		if s.at(0) == ':' && (charclass.IsBlankZ(s.buf, s.pos+1) || (s.flowLevel > 0 && isFlowIndicator(s.at(1)))) {
			break
		}
		if s.flowLevel > 0 && isFlowIndicator(s.at(0)) {
			break
		}
		s.advance(1)
		if s.flowLevel == 0 && s.col < indent && s.col == 0 {
			break
		}
	}
	contentEnd := s.pos
	end := s.mark()
	t := token.New(token.Scalar, s.newAtom(contentStart, contentEnd, atom.Plain))
	t.Start, t.End = start, end
	t.ScalarStyle = token.ScalarPlain
	s.queued = append(s.queued, t)
	return nil
}

func isFlowIndicator(c byte) bool {
	switch c {
	case ',', '[', ']', '{', '}':
		return true
	}
	return false
}

// fetchBlockScalar scans a literal ("|") or folded (">") block scalar,
// including its header (indent indicator and chomping indicator).
func (s *Scanner) fetchBlockScalar(literal bool) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = true

	start := s.mark()
	style := atom.Folded
	if literal {
		style = atom.Literal
	}
	s.advance(1) // '|' or '>'

	chomp := atom.ChompClip
	indentIndicator := 0
	for i := 0; i < 2; i++ {
		switch s.at(0) {
		case '+':
			chomp = atom.ChompKeep
			s.advance(1)
		case '-':
			chomp = atom.ChompStrip
			s.advance(1)
		default:
			if s.at(0) >= '1' && s.at(0) <= '9' {
				indentIndicator = int(s.at(0) - '0')
				s.advance(1)
			}
		}
	}
	for charclass.IsWS(s.buf, s.pos) {
		s.advance(1)
	}
	if s.at(0) == '#' {
		for !charclass.IsBreakZ(s.buf, s.pos) {
			s.advance(1)
		}
	}
	if !charclass.IsBreakZ(s.buf, s.pos) {
		return s.errf("unexpected character after block scalar header")
	}
	s.skipLineBreak()

	blockIndent := indentIndicator
	if blockIndent > 0 && s.indent > 0 {
		blockIndent += s.indent
	}
	contentStart := s.pos
	detected := blockIndent > 0

	for {
		lineStart := s.pos
		col := 0
		for charclass.IsSpace(s.buf, s.pos) {
			s.advance(1)
			col++
		}
		if charclass.IsBreakZ(s.buf, s.pos) {
			if s.eof() {
				break
			}
			s.skipLineBreak()
			continue
		}
		if !detected {
			blockIndent = col
			detected = true
		}
		if col < blockIndent {
			s.pos, s.col = lineStart, 0
			break
		}
		for !charclass.IsBreakZ(s.buf, s.pos) {
			s.advance(1)
		}
		if s.eof() {
			break
		}
		s.skipLineBreak()
	}
	contentEnd := s.pos
	end := s.mark()

	a := s.newAtom(contentStart, contentEnd, style)
	a.Indent = blockIndent
	a.Chomp = chomp
	t := token.New(token.Scalar, a)
	t.Start, t.End = start, end
	if literal {
		t.ScalarStyle = token.ScalarLiteral
	} else {
		t.ScalarStyle = token.ScalarFolded
	}
	s.queued = append(s.queued, t)
	return nil
}

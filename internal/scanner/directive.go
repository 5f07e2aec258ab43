package scanner

import (
	"github.com/ohporter/go-fyaml/internal/atom"
	"github.com/ohporter/go-fyaml/internal/charclass"
	"github.com/ohporter/go-fyaml/internal/token"
)

func (s *Scanner) fetchDirective() error {
	s.unrollIndent(-1)
	s.removeSimpleKey()
	s.simpleKeyAllowed = false

	start := s.mark()
	lineStart := s.pos
	s.advance(1) // '%'
	nameStart := s.pos
	for charclass.IsAlpha(s.buf, s.pos) {
		s.advance(1)
	}
	name := string(s.buf[nameStart:s.pos])

	switch name {
	case "YAML":
		return s.fetchVersionDirective(start, lineStart)
	case "TAG":
		return s.fetchTagDirective(start, lineStart)
	default:
		for !charclass.IsBreakZ(s.buf, s.pos) {
			s.advance(1)
		}
		end := s.mark()
		t := token.New(token.TagDirective, s.newAtom(lineStart, s.pos, atom.Directive))
		t.Start, t.End = start, end
		s.queued = append(s.queued, t)
		return nil
	}
}

func (s *Scanner) skipBlanks() {
	for charclass.IsWS(s.buf, s.pos) {
		s.advance(1)
	}
}

func (s *Scanner) fetchVersionDirective(start token.Position, lineStart int) error {
	s.skipBlanks()
	majorStart := s.pos
	for s.pos < len(s.buf) && s.buf[s.pos] >= '0' && s.buf[s.pos] <= '9' {
		s.advance(1)
	}
	major := parseSmallInt(s.buf[majorStart:s.pos])
	if s.at(0) != '.' {
		return s.errf("expected '.' in %%YAML directive")
	}
	s.advance(1)
	minorStart := s.pos
	for s.pos < len(s.buf) && s.buf[s.pos] >= '0' && s.buf[s.pos] <= '9' {
		s.advance(1)
	}
	minor := parseSmallInt(s.buf[minorStart:s.pos])
	for !charclass.IsBreakZ(s.buf, s.pos) {
		s.advance(1)
	}
	end := s.mark()
	t := token.New(token.VersionDirective, s.newAtom(lineStart, s.pos, atom.Directive))
	t.Start, t.End = start, end
	t.VersionMajor = int8(major)
	t.VersionMinor = int8(minor)
	s.queued = append(s.queued, t)
	return nil
}

func (s *Scanner) fetchTagDirective(start token.Position, lineStart int) error {
	s.skipBlanks()
	handleStart := s.pos
	if s.at(0) != '!' {
		return s.errf("expected '!' to start %%TAG handle")
	}
	s.advance(1)
	for charclass.IsAlnum(s.buf, s.pos) {
		s.advance(1)
	}
	if s.at(0) == '!' {
		s.advance(1)
	}
	handleEnd := s.pos
	s.skipBlanks()
	uriStart := s.pos
	for charclass.IsURI(s.buf, s.pos) {
		s.advance(1)
	}
	uriEnd := s.pos
	for !charclass.IsBreakZ(s.buf, s.pos) {
		s.advance(1)
	}
	end := s.mark()
	// The atom spans [handleStart, uriEnd), not the whole "%TAG ..."
	// line: processDirective slices the handle off the front and the
	// URI off the back of this exact text, so the atom must start
	// exactly at the handle and end exactly at the URI, with no
	// leading "%TAG " keyword or trailing blanks/comment included.
	t := token.New(token.TagDirective, s.newAtom(handleStart, uriEnd, atom.Directive))
	t.Start, t.End = start, end
	t.HandleLength = handleEnd - handleStart
	t.URILength = uriEnd - uriStart
	s.queued = append(s.queued, t)
	return nil
}

func parseSmallInt(b []byte) int {
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			continue
		}
		n = n*10 + int(c-'0')
	}
	return n
}

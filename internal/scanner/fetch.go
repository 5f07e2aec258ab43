package scanner

import (
	"github.com/ohporter/go-fyaml/internal/atom"
	"github.com/ohporter/go-fyaml/internal/charclass"
	"github.com/ohporter/go-fyaml/internal/token"
)

// scanToNextToken skips whitespace, line breaks, and comments, leaving
// the cursor on the first significant byte (or at EOF).
func (s *Scanner) scanToNextToken() error {
	for {
		for charclass.IsWS(s.buf, s.pos) {
			s.advance(1)
		}
		if s.at(0) == '#' {
			for !charclass.IsBreakZ(s.buf, s.pos) {
				s.advance(1)
			}
		}
		if charclass.IsLineBreak(s.buf, s.pos) {
			s.skipLineBreak()
			if s.flowLevel == 0 {
				s.simpleKeyAllowed = true
			}
			continue
		}
		break
	}
	return nil
}

func (s *Scanner) fetchStreamEnd() error {
	s.unrollIndent(-1)
	s.removeSimpleKey()
	s.simpleKeyAllowed = false
	s.queued = append(s.queued, s.syntheticToken(token.StreamEnd))
	s.streamEndProduced = true
	return nil
}

func (s *Scanner) fetchDocumentIndicator(kind token.Kind) error {
	s.unrollIndent(-1)
	s.removeSimpleKey()
	s.simpleKeyAllowed = false
	start := s.mark()
	s.advance(3)
	end := s.mark()
	t := token.New(kind, s.newAtom(start.Offset, end.Offset, atom.Directive))
	t.Start, t.End = start, end
	s.queued = append(s.queued, t)
	return nil
}

func (s *Scanner) fetchFlowCollectionStart(kind token.Kind) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	if err := s.increaseFlowLevel(); err != nil {
		return err
	}
	s.simpleKeyAllowed = true
	start := s.mark()
	s.advance(1)
	end := s.mark()
	t := token.New(kind, nil)
	t.Start, t.End = start, end
	s.queued = append(s.queued, t)
	return nil
}

func (s *Scanner) fetchFlowCollectionEnd(kind token.Kind) error {
	s.removeSimpleKey()
	s.decreaseFlowLevel()
	s.simpleKeyAllowed = false
	start := s.mark()
	s.advance(1)
	end := s.mark()
	t := token.New(kind, nil)
	t.Start, t.End = start, end
	s.queued = append(s.queued, t)
	return nil
}

func (s *Scanner) fetchFlowEntry() error {
	s.removeSimpleKey()
	s.simpleKeyAllowed = true
	start := s.mark()
	s.advance(1)
	end := s.mark()
	t := token.New(token.FlowEntry, nil)
	t.Start, t.End = start, end
	s.queued = append(s.queued, t)
	return nil
}

func (s *Scanner) fetchBlockEntry() error {
	if s.flowLevel == 0 {
		if !s.simpleKeyAllowed {
			return s.errf("block sequence entry not allowed in this context")
		}
		if _, err := s.rollIndent(s.col, s.queueIndex(), token.BlockSequenceStart); err != nil {
			return err
		}
	}
	s.removeSimpleKey()
	s.simpleKeyAllowed = true
	start := s.mark()
	s.advance(1)
	end := s.mark()
	t := token.New(token.BlockEntry, nil)
	t.Start, t.End = start, end
	s.queued = append(s.queued, t)
	return nil
}

func (s *Scanner) fetchKeyIndicator() error {
	if s.flowLevel == 0 {
		if !s.simpleKeyAllowed {
			return s.errf("mapping key not allowed in this context")
		}
		if _, err := s.rollIndent(s.col, s.queueIndex(), token.BlockMappingStart); err != nil {
			return err
		}
	}
	s.removeSimpleKey()
	s.simpleKeyAllowed = s.flowLevel == 0
	start := s.mark()
	s.advance(1)
	end := s.mark()
	t := token.New(token.Key, nil)
	t.Start, t.End = start, end
	s.queued = append(s.queued, t)
	return nil
}

func (s *Scanner) fetchValueIndicator() error {
	s.ensureSimpleKeySlot()
	sk := s.simpleKeys[s.flowLevel]
	if sk.possible {
		s.simpleKeys[s.flowLevel].possible = false
		keyPos := sk.tokenNumber
		rolled, err := s.rollIndent(sk.col, keyPos, token.BlockMappingStart)
		if err != nil {
			return err
		}
		if rolled {
			keyPos++
		}
		s.insertToken(keyPos, s.syntheticToken(token.Key))
		s.simpleKeyAllowed = false
	} else {
		if s.flowLevel == 0 {
			if !s.simpleKeyAllowed {
				return s.errf("mapping value not allowed in this context")
			}
			if _, err := s.rollIndent(s.col, s.queueIndex(), token.BlockMappingStart); err != nil {
				return err
			}
		}
		s.simpleKeyAllowed = s.flowLevel == 0
	}
	start := s.mark()
	s.advance(1)
	end := s.mark()
	t := token.New(token.Value, nil)
	t.Start, t.End = start, end
	s.queued = append(s.queued, t)
	return nil
}

func (s *Scanner) fetchAnchor() error { return s.fetchAnchorOrAlias(token.Anchor, '&') }
func (s *Scanner) fetchAlias() error  { return s.fetchAnchorOrAlias(token.Alias, '*') }

func (s *Scanner) fetchAnchorOrAlias(kind token.Kind, indicator byte) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	start := s.mark()
	s.advance(1)
	nameStart := s.pos
	for charclass.IsAlnum(s.buf, s.pos) {
		s.advance(1)
	}
	if s.pos == nameStart {
		return s.errf("did not find expected anchor/alias name")
	}
	end := s.mark()
	t := token.New(kind, s.newAtom(nameStart, s.pos, atom.Plain))
	t.Start, t.End = start, end
	s.queued = append(s.queued, t)
	return nil
}

func (s *Scanner) fetchTag() error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	start := s.mark()
	handleStart := s.pos
	s.advance(1) // leading '!'
	for charclass.IsAlnum(s.buf, s.pos) {
		s.advance(1)
	}
	if s.at(0) == '!' {
		s.advance(1)
	}
	handleEnd := s.pos
	suffixStart := s.pos
	for charclass.IsURI(s.buf, s.pos) {
		s.advance(1)
	}
	end := s.mark()
	t := token.New(token.Tag, s.newAtom(handleStart, s.pos, atom.URI))
	t.Start, t.End = start, end
	t.TagHandleLen = handleEnd - handleStart
	t.SuffixLen = s.pos - suffixStart
	s.queued = append(s.queued, t)
	return nil
}

// Package atom implements spec §4.2: a contiguous region of an Input
// labelled with a YAML lexical style, plus the style-to-text rules that
// turn raw bytes into an atom's logical text.
//
// The teacher (go-yaml) never separates this concept from its token:
// YamlToken.Value already holds post-escape text by the time the scanner
// is done with it. Spec §3/§8 requires Atom to be independently
// observable (the direct-output invariant is tested on its own), so it
// is split out here; internal/scanner constructs one per lexeme.
package atom

import (
	"strings"

	"github.com/ohporter/go-fyaml/internal/charclass"
	"github.com/ohporter/go-fyaml/internal/input"
)

type Style int8

const (
	Plain Style = iota
	SingleQuoted
	DoubleQuoted
	Literal
	Folded
	URI
	Directive
	Comment
	PlainKey
)

func (s Style) String() string {
	switch s {
	case Plain:
		return "plain"
	case SingleQuoted:
		return "single-quoted"
	case DoubleQuoted:
		return "double-quoted"
	case Literal:
		return "literal"
	case Folded:
		return "folded"
	case URI:
		return "uri"
	case Directive:
		return "directive"
	case Comment:
		return "comment"
	case PlainKey:
		return "plain-key"
	}
	return "<unknown atom style>"
}

// ChompMode controls how a block scalar's trailing line breaks are kept.
type ChompMode int8

const (
	ChompClip ChompMode = iota
	ChompStrip
	ChompKeep
)

// Atom is a span of an Input's bytes with an associated lexical style.
type Atom struct {
	Input        *input.Input
	Start, End   int // byte offsets within Input
	Style        Style
	Indent       int       // block scalar content indent column; 0 strips nothing
	Chomp        ChompMode // block scalar chomping mode
	DirectOutput bool      // raw bytes equal the logical text verbatim
}

// New constructs an atom over in[start:end) and computes DirectOutput.
func New(in *input.Input, start, end int, style Style) *Atom {
	a := &Atom{Input: in, Start: start, End: end, Style: style}
	a.DirectOutput = computeDirectOutput(a)
	return a
}

func (a *Atom) Size() int { return a.End - a.Start }

// Data returns the raw byte slice the atom spans.
func (a *Atom) Data() []byte {
	if a.Input == nil {
		return nil
	}
	return a.Input.Slice(a.Start, a.End)
}

// FormatTextLengthHint returns a cheap upper bound on FormatText's output.
func (a *Atom) FormatTextLengthHint() int {
	switch a.Style {
	case Literal, Folded, Plain, PlainKey:
		return a.Size() + 2
	case DoubleQuoted:
		// "\L" and "\P" decode to three-byte runes.
		return a.Size() + a.Size()/2
	default:
		return a.Size()
	}
}

// FormatTextLength returns the exact length of the atom's logical text.
func (a *Atom) FormatTextLength() int {
	return len(a.text())
}

// FormatText writes the atom's logical text into buf, which must be at
// least FormatTextLength() bytes, and returns the number of bytes written.
func (a *Atom) FormatText(buf []byte) int {
	t := a.text()
	return copy(buf, t)
}

// Text is a convenience wrapper returning the logical text as a string.
// When DirectOutput is true this returns the raw bytes as a string
// without decoding them.
func (a *Atom) Text() string {
	if a.DirectOutput {
		return string(a.Data())
	}
	return a.text()
}

func computeDirectOutput(a *Atom) bool {
	switch a.Style {
	case Directive, Comment:
		return true
	case Plain, PlainKey:
		raw := a.Data()
		return !containsFold(raw) && string(trimBlankZ(raw)) == string(raw)
	case SingleQuoted:
		raw := a.Data()
		return !containsFold(raw) && !bytesIndexByte(raw, '\'')
	case DoubleQuoted:
		raw := a.Data()
		return !containsFold(raw) && !bytesIndexByte(raw, '\\')
	case URI:
		return !bytesIndexByte(a.Data(), '%')
	default:
		return false
	}
}

func bytesIndexByte(b []byte, c byte) bool {
	for _, x := range b {
		if x == c {
			return true
		}
	}
	return false
}

func containsFold(b []byte) bool {
	for i := 0; i < len(b); i++ {
		if charclass.IsLineBreak(b, i) {
			return true
		}
	}
	return false
}

func trimBlankZ(b []byte) []byte {
	start := 0
	for start < len(b) && charclass.IsWS(b, start) {
		start++
	}
	end := charclass.LastNonWS(b)
	if end < start {
		end = start
	}
	return b[start:end]
}

func (a *Atom) text() string {
	raw := a.Data()
	switch a.Style {
	case Directive, Comment:
		return string(raw)
	case Plain, PlainKey:
		return foldText(string(trimBlankZ(raw)))
	case SingleQuoted:
		return foldText(strings.ReplaceAll(string(raw), "''", "'"))
	case DoubleQuoted:
		return decodeDoubleQuoted(raw)
	case Literal, Folded:
		return decodeBlockScalar(raw, a.Style, a.Chomp, a.Indent)
	case URI:
		return decodeURI(raw)
	}
	return string(raw)
}

// foldText implements the plain/single-quoted line-fold rule: a line
// break, zero or more empty lines, and the next line's leading
// whitespace collapse into a single space; each additional empty line
// folds into one more "\n".
func foldText(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	var out strings.Builder
	lines := splitLines(s)
	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if i == 0 {
			out.WriteString(trimmed)
			continue
		}
		if trimmed == "" {
			out.WriteByte('\n')
		} else {
			if i > 0 && lines[i-1] != "" {
				out.WriteByte(' ')
			}
			out.WriteString(strings.TrimLeft(trimmed, " \t"))
		}
	}
	return out.String()
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

var escapeMap = map[byte]byte{
	'\\': '\\', '"': '"', 'n': '\n', 't': '\t', 'r': '\r',
	'0': 0, 'a': 0x07, 'b': 0x08, 'f': 0x0C, 'v': 0x0B, 'e': 0x1B,
	'_': 0xA0, 'N': 0x85,
}

// literalLF/literalCR protect an escaped "\n"/"\r" from foldText, which
// would otherwise treat them the same as a physical line break in the
// source and fold them away; neither sentinel itself contains a line
// break, so it survives foldText untouched and is restored afterward.
const (
	literalLF = "\x00dq-lf\x00"
	literalCR = "\x00dq-cr\x00"
)

func decodeDoubleQuoted(raw []byte) string {
	var out strings.Builder
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) {
			next := raw[i+1]
			switch next {
			case 'x':
				if v, n, ok := hexEscape(raw, i+2, 2); ok {
					out.WriteRune(rune(v))
					i += 2 + n
					continue
				}
			case 'u':
				if v, n, ok := hexEscape(raw, i+2, 4); ok {
					out.WriteRune(rune(v))
					i += 2 + n
					continue
				}
			case 'U':
				if v, n, ok := hexEscape(raw, i+2, 8); ok {
					out.WriteRune(rune(v))
					i += 2 + n
					continue
				}
			case 'L':
				out.WriteRune(0x2028)
				i += 2
				continue
			case 'P':
				out.WriteRune(0x2029)
				i += 2
				continue
			}
			if charclass.IsLineBreak(raw, i+1) {
				i = charclass.SkipLineBreak(raw, i+1)
				for i < len(raw) && charclass.IsWS(raw, i) {
					i++
				}
				continue
			}
			if repl, ok := escapeMap[next]; ok {
				switch repl {
				case '\n':
					out.WriteString(literalLF)
				case '\r':
					out.WriteString(literalCR)
				default:
					out.WriteByte(repl)
				}
				i += 2
				continue
			}
			out.WriteByte(next)
			i += 2
			continue
		}
		if charclass.IsLineBreak(raw, i) {
			j := charclass.SkipLineBreak(raw, i)
			// the raw break is kept as '\n' here; foldText below folds it
			// along with the rest of the decoded result.
			out.WriteByte('\n')
			i = j
			continue
		}
		out.WriteByte(c)
		i++
	}
	folded := foldText(out.String())
	folded = strings.ReplaceAll(folded, literalLF, "\n")
	folded = strings.ReplaceAll(folded, literalCR, "\r")
	return folded
}

func hexEscape(b []byte, i, n int) (uint32, int, bool) {
	if i+n > len(b) {
		return 0, 0, false
	}
	var v uint32
	for k := 0; k < n; k++ {
		if !charclass.IsHex(b, i+k) {
			return 0, 0, false
		}
		v = v<<4 | uint32(charclass.HexValue(b, i+k))
	}
	return v, n, true
}

// stripIndent removes up to indent leading spaces from each line. A
// blank line may carry fewer than indent spaces (or none); only what's
// actually there is stripped, same as libyaml's block-scalar scanner.
func stripIndent(lines []string, indent int) []string {
	if indent <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		n := 0
		for n < indent && n < len(line) && line[n] == ' ' {
			n++
		}
		out[i] = line[n:]
	}
	return out
}

// decodeBlockScalar implements literal/folded chomping (spec §4.2).
// indent is the block's content indent column (internal/scanner either
// detects it from the first non-empty line or takes it from an explicit
// indent indicator); the scanner's raw atom span still carries those
// leading columns on every line, so they're stripped here before the
// literal/folded join rules run.
func decodeBlockScalar(raw []byte, style Style, chomp ChompMode, indent int) string {
	lines := splitLines(string(raw))
	// drop a single trailing empty element produced by a final line break
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	lines = stripIndent(lines, indent)
	var body []string
	if style == Literal {
		body = lines
	} else {
		for i, line := range lines {
			if i > 0 {
				if line == "" {
					body = append(body, "")
				} else if lines[i-1] == "" || i == 0 {
					body = append(body, line)
				} else {
					body = append(body, "\x00fold\x00"+line)
				}
			} else {
				body = append(body, line)
			}
		}
	}
	var out strings.Builder
	for i, line := range body {
		switch {
		case style == Folded && strings.HasPrefix(line, "\x00fold\x00"):
			out.WriteByte(' ')
			out.WriteString(strings.TrimPrefix(line, "\x00fold\x00"))
		case i == 0:
			out.WriteString(line)
		case style == Folded && line != "" && body[i-1] == "":
			// the blank line(s) just written already supplied the
			// paragraph break's newline; don't add another.
			out.WriteString(line)
		default:
			out.WriteByte('\n')
			out.WriteString(line)
		}
	}
	text := out.String()
	switch chomp {
	case ChompStrip:
		return strings.TrimRight(text, "\n")
	case ChompKeep:
		return text + "\n"
	default: // clip: exactly one trailing newline if there was any content
		text = strings.TrimRight(text, "\n")
		if text != "" || len(raw) > 0 {
			return text + "\n"
		}
		return text
	}
}

func decodeURI(raw []byte) string {
	var out []byte
	i := 0
	for i < len(raw) {
		if raw[i] == '%' {
			decoded, n, err := charclass.DecodeURIEscapes(raw, i)
			if err != nil {
				out = append(out, raw[i])
				i++
				continue
			}
			out = append(out, decoded...)
			i += n
			continue
		}
		out = append(out, raw[i])
		i++
	}
	return string(out)
}

// PlainAtomStreq compares a plain-style atom's text against a known
// ASCII literal, used for merge-key ("<<") detection without allocating
// through the general text() path when direct output already matches.
func PlainAtomStreq(a *Atom, literal string) bool {
	if a.Style != Plain && a.Style != PlainKey {
		return false
	}
	return a.Text() == literal
}

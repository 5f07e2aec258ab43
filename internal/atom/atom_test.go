package atom_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohporter/go-fyaml/internal/atom"
	"github.com/ohporter/go-fyaml/internal/input"
)

func newAtom(t *testing.T, data string, style atom.Style, chomp atom.ChompMode) *atom.Atom {
	t.Helper()
	in := input.New("t", []byte(data))
	a := atom.New(in, 0, len(data), style)
	a.Chomp = chomp
	return a
}

func TestAtomPlainDirectOutput(t *testing.T) {
	a := newAtom(t, "hello", atom.Plain, atom.ChompClip)
	require.True(t, a.DirectOutput)
	require.Equal(t, "hello", a.Text())
}

func TestAtomPlainFold(t *testing.T) {
	a := newAtom(t, "hello\nworld", atom.Plain, atom.ChompClip)
	require.False(t, a.DirectOutput)
	require.Equal(t, "hello world", a.Text())
}

func TestAtomSingleQuotedEscape(t *testing.T) {
	a := newAtom(t, "it''s", atom.SingleQuoted, atom.ChompClip)
	require.False(t, a.DirectOutput)
	require.Equal(t, "it's", a.Text())
}

func TestAtomDoubleQuotedEscapes(t *testing.T) {
	a := newAtom(t, `a\nb\t\"c`, atom.DoubleQuoted, atom.ChompClip)
	require.Equal(t, "a\nb\t\"c", a.Text())
}

func TestAtomDoubleQuotedHexEscape(t *testing.T) {
	a := newAtom(t, `\x41B`, atom.DoubleQuoted, atom.ChompClip)
	require.Equal(t, "AB", a.Text())
}

func TestAtomURIDecode(t *testing.T) {
	a := newAtom(t, "a%20b", atom.URI, atom.ChompClip)
	require.False(t, a.DirectOutput)
	require.Equal(t, "a b", a.Text())
}

func TestAtomURINoEscapesIsDirect(t *testing.T) {
	a := newAtom(t, "plain/path", atom.URI, atom.ChompClip)
	require.True(t, a.DirectOutput)
}

func TestAtomLiteralChompClip(t *testing.T) {
	a := newAtom(t, "a\n\n\n", atom.Literal, atom.ChompClip)
	require.Equal(t, "a\n", a.Text())
}

func TestAtomLiteralChompStrip(t *testing.T) {
	a := newAtom(t, "a\n\n\n", atom.Literal, atom.ChompStrip)
	require.Equal(t, "a", a.Text())
}

func TestAtomLiteralChompKeep(t *testing.T) {
	a := newAtom(t, "a\n\n\n", atom.Literal, atom.ChompKeep)
	require.Equal(t, "a\n\n\n", a.Text())
}

func TestAtomFoldedJoinsLines(t *testing.T) {
	a := newAtom(t, "a\nb\n", atom.Folded, atom.ChompClip)
	require.Equal(t, "a b\n", a.Text())
}

func TestAtomDirective(t *testing.T) {
	a := newAtom(t, "%YAML 1.2", atom.Directive, atom.ChompClip)
	require.True(t, a.DirectOutput)
	require.Equal(t, "%YAML 1.2", a.Text())
}

func TestPlainAtomStreq(t *testing.T) {
	a := newAtom(t, "<<", atom.Plain, atom.ChompClip)
	require.True(t, atom.PlainAtomStreq(a, "<<"))
	require.False(t, atom.PlainAtomStreq(a, "other"))

	dq := newAtom(t, "<<", atom.DoubleQuoted, atom.ChompClip)
	require.False(t, atom.PlainAtomStreq(dq, "<<"))
}

func TestAtomSize(t *testing.T) {
	a := newAtom(t, "hello", atom.Plain, atom.ChompClip)
	require.Equal(t, 5, a.Size())
	require.Equal(t, "hello", string(a.Data()))
}

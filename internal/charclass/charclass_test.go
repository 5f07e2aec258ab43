package charclass_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohporter/go-fyaml/internal/charclass"
)

func TestDecodeRuneASCII(t *testing.T) {
	r, w, err := charclass.DecodeRune([]byte("A"), 0)
	require.NoError(t, err)
	require.Equal(t, rune('A'), r)
	require.Equal(t, 1, w)
}

func TestDecodeRuneMultiByte(t *testing.T) {
	// 'é' = U+00E9, encoded as 0xC3 0xA9
	r, w, err := charclass.DecodeRune([]byte{0xC3, 0xA9}, 0)
	require.NoError(t, err)
	require.Equal(t, rune(0xE9), r)
	require.Equal(t, 2, w)
}

func TestDecodeRuneRejectsOverlong(t *testing.T) {
	// 0xC0 0x80 is an overlong encoding of NUL.
	_, _, err := charclass.DecodeRune([]byte{0xC0, 0x80}, 0)
	require.Error(t, err)
}

func TestDecodeRuneRejectsSurrogate(t *testing.T) {
	// U+D800 encoded as 0xED 0xA0 0x80.
	_, _, err := charclass.DecodeRune([]byte{0xED, 0xA0, 0x80}, 0)
	require.Error(t, err)
}

func TestDecodeRuneIncomplete(t *testing.T) {
	_, _, err := charclass.DecodeRune([]byte{0xE2, 0x80}, 0)
	require.Error(t, err)
}

func TestWidth(t *testing.T) {
	require.Equal(t, 1, charclass.Width('a'))
	require.Equal(t, 2, charclass.Width(0xC3))
	require.Equal(t, 3, charclass.Width(0xE2))
	require.Equal(t, 4, charclass.Width(0xF0))
	require.Equal(t, 0, charclass.Width(0x80))
}

func TestIsLineBreak(t *testing.T) {
	require.True(t, charclass.IsLineBreak([]byte("\n"), 0))
	require.True(t, charclass.IsLineBreak([]byte("\r"), 0))
	require.True(t, charclass.IsLineBreak([]byte{0xC2, 0x85}, 0))
	require.True(t, charclass.IsLineBreak([]byte{0xE2, 0x80, 0xA8}, 0))
	require.False(t, charclass.IsLineBreak([]byte("a"), 0))
}

func TestIsZAtEndOfBuffer(t *testing.T) {
	require.True(t, charclass.IsZ([]byte("ab"), 2))
	require.False(t, charclass.IsZ([]byte("ab"), 1))
}

func TestIsPrint(t *testing.T) {
	require.True(t, charclass.IsPrint([]byte("a"), 0))
	require.True(t, charclass.IsPrint([]byte("\t"), 0))
	require.False(t, charclass.IsPrint([]byte{0xEF, 0xBB, 0xBF}, 0)) // BOM, excluded
}

func TestIsURI(t *testing.T) {
	require.True(t, charclass.IsURI([]byte("a"), 0))
	require.True(t, charclass.IsURI([]byte("%"), 0))
	require.False(t, charclass.IsURI([]byte(" "), 0))
}

func TestIsHexAndHexValue(t *testing.T) {
	require.True(t, charclass.IsHex([]byte("F"), 0))
	require.False(t, charclass.IsHex([]byte("g"), 0))
	require.Equal(t, 15, charclass.HexValue([]byte("F"), 0))
	require.Equal(t, 10, charclass.HexValue([]byte("a"), 0))
	require.Equal(t, 9, charclass.HexValue([]byte("9"), 0))
}

func TestIsAlphaAlnum(t *testing.T) {
	require.True(t, charclass.IsFirstAlpha([]byte("_"), 0))
	require.False(t, charclass.IsFirstAlpha([]byte("-"), 0))
	require.True(t, charclass.IsAlpha([]byte("-"), 0))
	require.True(t, charclass.IsAlnum([]byte("9"), 0))
}

func TestSkipLineBreakHandlesCRLF(t *testing.T) {
	b := []byte("\r\nrest")
	require.Equal(t, 2, charclass.SkipLineBreak(b, 0))

	b2 := []byte("\nrest")
	require.Equal(t, 1, charclass.SkipLineBreak(b2, 0))
}

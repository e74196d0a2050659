package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalSortsObjectKeys(t *testing.T) {
	data, err := Marshal(map[string]any{
		"zebra": "z",
		"alpha": "a",
		"mango": "m",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"a","mango":"m","zebra":"z"}`, string(data))
}

func TestMarshalNoHTMLEscaping(t *testing.T) {
	data, err := Marshal("<a> & </a>")
	require.NoError(t, err)
	assert.Equal(t, `"<a> & </a>"`, string(data))
}

func TestMarshalStringSlice(t *testing.T) {
	data, err := Marshal([]string{"publish", "./pkg"})
	require.NoError(t, err)
	assert.Equal(t, `["publish","./pkg"]`, string(data))
}

func TestMarshalEmptySlice(t *testing.T) {
	data, err := Marshal([]string{})
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestMarshalNested(t *testing.T) {
	data, err := Marshal(map[string]any{
		"args": []string{"m1.rtm"},
		"seq":  int64(7),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"args":["m1.rtm"],"seq":7}`, string(data))
}

func TestMarshalRejectsNull(t *testing.T) {
	_, err := Marshal(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null is forbidden")
}

func TestMarshalRejectsFloats(t *testing.T) {
	_, err := Marshal(3.14)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}

func TestMarshalRejectsUnsupportedType(t *testing.T) {
	_, err := Marshal(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestMarshalNFCNormalization(t *testing.T) {
	// "e" + combining acute accent normalizes to precomposed U+00E9.
	decomposed := "e\u0301"
	precomposed := "\u00e9"

	a, err := Marshal(decomposed)
	require.NoError(t, err)
	b, err := Marshal(precomposed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
	assert.Equal(t, "\"\u00e9\"", string(a))
}

func TestMarshalLineSeparatorNotEscaped(t *testing.T) {
	data, err := Marshal("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(data))
}

func TestMarshalLiteralBackslashU2028StaysEscaped(t *testing.T) {
	// Literal backslash followed by the text "u2028", not the code point.
	data, err := Marshal("a\\u2028b")
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(data))
}

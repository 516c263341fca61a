package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"n":         7,
		"checksum":  int64(228),
		"max_flips": 16,
		"blocks":    []any{uint64(0), uint64(210)},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"blocks":[0,210],"checksum":228,"max_flips":16,"n":7}`, string(got))
}

func TestMarshalCanonical_Nested(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"trace": []map[string]any{
			{"type": "block", "seq": int64(1)},
			{"type": "run", "seq": int64(2), "ok": true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"trace":[{"seq":1,"type":"block"},{"ok":true,"seq":2,"type":"run"}]}`, string(got))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	got, err := MarshalCanonical("<a&b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a&b>"`, string(got))
}

func TestMarshalCanonical_LineSeparators(t *testing.T) {
	got, err := MarshalCanonical("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(got))

	// A literal backslash followed by the text u2028 stays escaped.
	got, err = MarshalCanonical(`x\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"x\\u2028"`, string(got))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	decomposed := "e\u0301"
	got, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonical_UTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D..., which sort before U+FF21.
	got, err := MarshalCanonical(map[string]any{"\uff21": 1, "\U0001F600": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uff21\":1}", string(got))
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	tests := []struct {
		name string
		v    any
	}{
		{"nil", nil},
		{"float", 1.5},
		{"nested float", map[string]any{"x": []any{float32(2)}}},
		{"unsupported", struct{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.v)
			assert.Error(t, err)
		})
	}
}

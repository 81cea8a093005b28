package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeIDs(t *testing.T) {
	ids, err := DecodeIDs(`["a","b"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	ids, err = DecodeIDs(`[]`)
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestDecodeIDsRejectsCorruptValues(t *testing.T) {
	for _, raw := range []string{"", "   ", "not json", `null`, `{"a":1}`, `"a"`, `[1,2]`, `["",null]`} {
		_, err := DecodeIDs(raw)
		assert.Error(t, err, "value %q", raw)
	}
}

func TestDecodeIDsSkipsInvalidElements(t *testing.T) {
	cases := map[string][]string{
		`["b",1,"a"]`:    {"b", "a"},
		`["b","","a"]`:   {"b", "a"},
		`["b",null,"a"]`: {"b", "a"},
	}
	for raw, want := range cases {
		ids, err := DecodeIDs(raw)
		require.NoError(t, err, "value %q", raw)
		assert.Equal(t, want, ids, "value %q", raw)
	}
}

func TestEncodeIDs(t *testing.T) {
	raw, err := EncodeIDs(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)

	raw, err = EncodeIDs([]string{"roas", "spend"})
	require.NoError(t, err)
	assert.Equal(t, `["roas","spend"]`, raw)
}

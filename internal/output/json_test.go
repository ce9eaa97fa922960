// internal/output/json_test.go
package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/meteofetch/internal/sanitize"
)

func TestJSONFormatterIndentsTwoSpaces(t *testing.T) {
	doc, err := sanitize.Sanitize([]byte(`{"status":"OK","data":[1,2]}`))
	require.NoError(t, err)

	out, err := NewJSONFormatter().Format(doc)
	require.NoError(t, err)

	want := "{\n  \"status\": \"OK\",\n  \"data\": [\n    1,\n    2\n  ]\n}\n"
	assert.Equal(t, want, string(out))
}

func TestJSONFormatterSanitizedDocument(t *testing.T) {
	doc, err := sanitize.Sanitize([]byte(`{"user":"x","password":"y","credentials":"z","data":[1,2,3]}`))
	require.NoError(t, err)

	out, err := NewJSONFormatter().Format(doc)
	require.NoError(t, err)

	assert.JSONEq(t, `{"data":[1,2,3]}`, string(out))
	assert.NotContains(t, string(out), `"user"`)
}

func TestJSONFormatterKeepsHTMLCharacters(t *testing.T) {
	doc, err := sanitize.Sanitize([]byte(`{"note":"a < b & c"}`))
	require.NoError(t, err)

	out, err := NewJSONFormatter().Format(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "a < b & c")
}

func TestJSONFormatterNilDocument(t *testing.T) {
	_, err := NewJSONFormatter().Format(nil)
	assert.ErrorIs(t, err, ErrFormat)
}

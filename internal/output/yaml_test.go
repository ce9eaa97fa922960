// internal/output/yaml_test.go
package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/julianshen/meteofetch/internal/sanitize"
)

func TestYAMLFormatterBlockStyle(t *testing.T) {
	doc, err := sanitize.Sanitize([]byte(`{"status":"OK","user":"alice","data":[{"parameter":"t_2m:C","value":12.5}]}`))
	require.NoError(t, err)

	out, err := NewYAMLFormatter().Format(doc)
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "{")
	assert.NotContains(t, s, "user")
	assert.Contains(t, s, "status: OK")
	assert.Contains(t, s, "t_2m:C")

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "OK", decoded["status"])
	data, ok := decoded["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	assert.Equal(t, 12.5, data[0].(map[string]any)["value"])
}

func TestYAMLFormatterQuotesAmbiguousStrings(t *testing.T) {
	doc, err := sanitize.Sanitize([]byte(`{"flag":"true","count":"42"}`))
	require.NoError(t, err)

	out, err := NewYAMLFormatter().Format(doc)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "true", decoded["flag"])
	assert.Equal(t, "42", decoded["count"])
}

func TestYAMLFormatterKeepsKeyOrder(t *testing.T) {
	doc, err := sanitize.Sanitize([]byte(`{"zeta":1,"alpha":2}`))
	require.NoError(t, err)

	out, err := NewYAMLFormatter().Format(doc)
	require.NoError(t, err)
	assert.Equal(t, "zeta: 1\nalpha: 2\n", string(out))
}

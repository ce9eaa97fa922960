// internal/output/formatter_test.go
package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter("json")
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	f, err = NewFormatter("")
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	f, err = NewFormatter("yaml")
	require.NoError(t, err)
	assert.IsType(t, &YAMLFormatter{}, f)

	_, err = NewFormatter("xml")
	assert.ErrorIs(t, err, ErrFormat)
}

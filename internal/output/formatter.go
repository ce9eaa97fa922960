// internal/output/formatter.go
package output

import (
	"errors"
	"fmt"

	"github.com/julianshen/meteofetch/internal/sanitize"
)

// ErrFormat is returned when a document cannot be rendered.
var ErrFormat = errors.New("formatting output")

// Formatter formats a sanitized response into output bytes.
type Formatter interface {
	Format(doc *sanitize.Document) ([]byte, error)
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case "", "json":
		return NewJSONFormatter(), nil
	case "yaml":
		return NewYAMLFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", ErrFormat, name)
	}
}

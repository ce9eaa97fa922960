// internal/output/json.go
package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/julianshen/meteofetch/internal/sanitize"
)

// JSONFormatter outputs a document as JSON indented by two spaces.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format renders doc as indented JSON terminated by a newline.
func (f *JSONFormatter) Format(doc *sanitize.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrFormat)
	}
	compact, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

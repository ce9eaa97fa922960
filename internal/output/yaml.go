// internal/output/yaml.go
package output

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/julianshen/meteofetch/internal/sanitize"
)

// YAMLFormatter outputs a document as block-style YAML, keeping key order.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAMLFormatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format renders doc as YAML. JSON is valid YAML, so the document is parsed
// into a node tree and re-emitted with flow and quoting styles cleared.
func (f *YAMLFormatter) Format(doc *sanitize.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrFormat)
	}
	compact, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(compact, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	clearStyle(&root)

	var out bytes.Buffer
	enc := yaml.NewEncoder(&out)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return out.Bytes(), nil
}

// clearStyle resets presentation styles so the encoder picks block style
// and quotes scalars only where needed.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

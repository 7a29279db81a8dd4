package graphql

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// Operation describes the first operation defined in a query document.
type Operation struct {
	Type ast.Operation
	Name string
}

// Label returns the operation name, or "anonymous" when the document has none.
func (o Operation) Label() string {
	if o.Name == "" {
		return "anonymous"
	}
	return o.Name
}

// DescribeOperation parses a document far enough to learn its operation type
// and name. The document is not validated against a schema.
func DescribeOperation(query string) (Operation, error) {
	if strings.TrimSpace(query) == "" {
		return Operation{}, ErrEmptyQuery
	}
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return Operation{}, err
	}
	if len(doc.Operations) == 0 {
		return Operation{}, ErrEmptyQuery
	}
	op := doc.Operations[0]
	return Operation{Type: op.Operation, Name: op.Name}, nil
}

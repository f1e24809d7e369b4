// Package openapi publishes the operation surface as an OpenAPI document and
// cross-checks it against the compiled operation set at startup.
package openapi

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.json
var embeddedSpec []byte

// Raw returns the published document bytes, for serving over HTTP.
func Raw() []byte {
	return embeddedSpec
}

// Embedded parses and validates the compiled-in document.
func Embedded() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(embeddedSpec)
	if err != nil {
		return nil, fmt.Errorf("parse embedded openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validate embedded openapi document: %w", err)
	}
	return doc, nil
}

package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationError lists every defect found in a project document. Handlers
// use the Problems slice directly; Error joins them for logs.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "document invalid"
	}
	return "document invalid: " + strings.Join(e.Problems, "; ")
}

// ParseProjectDocument deserializes a raw message's value into a project
// document and validates it. The climate-dependent checks run later during
// compilation.
func ParseProjectDocument(raw RawDocument) (ProjectDocument, error) {
	var doc ProjectDocument
	if err := json.Unmarshal(raw.Value, &doc); err != nil {
		return ProjectDocument{}, fmt.Errorf("parse project document: %w", err)
	}
	if err := ValidateProjectDocument(doc); err != nil {
		return ProjectDocument{}, err
	}
	return doc, nil
}

// Package projectfile loads project documents from disk for the offline
// tools. The service itself receives documents over Kafka; this package
// gives the validate and report commands the same document model for files.
package projectfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thermaldesk/heatload-service/internal/domain"
)

// Load reads a project document from a YAML or JSON file. The format is
// chosen by file extension. The document is parsed but not validated, so
// the tools can report validation problems in their own way.
func Load(path string) (domain.ProjectDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ProjectDocument{}, fmt.Errorf("reading project file: %w", err)
	}

	var doc domain.ProjectDocument
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return domain.ProjectDocument{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return domain.ProjectDocument{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
	default:
		return domain.ProjectDocument{}, fmt.Errorf("unsupported project file extension %q (want .yaml, .yml or .json)", ext)
	}
	return doc, nil
}

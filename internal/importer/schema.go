package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema describes one root project with its subprojects and
// deliverable items.
type ImportSchema struct {
	Project     ProjectImport      `json:"project" yaml:"project"`
	Subprojects []SubprojectImport `json:"subprojects,omitempty" yaml:"subprojects,omitempty"`
	Items       []ItemImport       `json:"items,omitempty" yaml:"items,omitempty"`
}

// ProjectImport defines the root project.
type ProjectImport struct {
	ShortID    string  `json:"short_id" yaml:"short_id"`
	Name       string  `json:"name" yaml:"name"`
	CustomerID *string `json:"customer_id,omitempty" yaml:"customer_id,omitempty"`
	Deadline   *string `json:"deadline,omitempty" yaml:"deadline,omitempty"`
}

// SubprojectImport defines a subproject of the root. Items refer to it by Ref.
type SubprojectImport struct {
	Ref      string  `json:"ref" yaml:"ref"`
	ShortID  string  `json:"short_id,omitempty" yaml:"short_id,omitempty"`
	Name     string  `json:"name" yaml:"name"`
	Deadline *string `json:"deadline,omitempty" yaml:"deadline,omitempty"`
}

// ItemImport defines a deliverable item. An empty Owner places it directly
// under the root project.
type ItemImport struct {
	Owner     string  `json:"owner,omitempty" yaml:"owner,omitempty"`
	Name      string  `json:"name" yaml:"name"`
	Available *string `json:"available,omitempty" yaml:"available,omitempty"`
	Start     *string `json:"start,omitempty" yaml:"start,omitempty"`
	End       *string `json:"end,omitempty" yaml:"end,omitempty"`
}

// LoadImportSchema reads an import file. Files ending in .json are parsed
// as JSON, everything else as YAML.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &schema)
	} else {
		err = yaml.Unmarshal(data, &schema)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}

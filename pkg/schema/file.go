package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/canvass/pkg/domain"
	"gopkg.in/yaml.v3"
)

// fileRecord is the on-disk campaign layout. Besides the stored record fields it
// accepts a top-level "questions" list, the natural form for hand-written files.
type fileRecord struct {
	domain.CampaignRecord `yaml:",inline"`
	List                  any `json:"questions,omitempty" yaml:"questions,omitempty"`
}

// ParseRecord decodes a campaign record from YAML or JSON, chosen by ext
// (".yaml", ".yml" or ".json").
func ParseRecord(data []byte, ext string) (*domain.CampaignRecord, error) {
	var fr fileRecord
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fr); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &fr); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported campaign file extension %q", ext)
	}

	record := fr.CampaignRecord
	if fr.List != nil && record.Flow == nil && record.Questions == nil {
		record.Flow = map[string]any{"questions": fr.List}
	}
	return &record, nil
}

// ParseFile reads a campaign record from disk. A record without an id takes the
// file's base name.
func ParseFile(path string) (*domain.CampaignRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read campaign file: %w", err)
	}
	ext := filepath.Ext(path)
	record, err := ParseRecord(data, ext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if record.ID == "" {
		record.ID = strings.TrimSuffix(filepath.Base(path), ext)
	}
	return record, nil
}

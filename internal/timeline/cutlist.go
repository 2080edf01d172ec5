package timeline

import (
	"os"

	"gopkg.in/yaml.v3"
)

// CutList is the on-disk form of one variant's timeline, consumed by the
// render collaborator and kept as a job artifact.
type CutList struct {
	Version  string   `yaml:"version"`
	Variant  string   `yaml:"variant"`
	Source   string   `yaml:"source"`
	Target   float64  `yaml:"target_seconds"`
	Timeline Timeline `yaml:"timeline"`
}

// WriteCutList writes a cut list to a YAML file
func WriteCutList(cl *CutList, path string) error {
	data, err := yaml.Marshal(cl)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadCutList reads a cut list from a YAML file
func ReadCutList(path string) (*CutList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cl CutList
	if err := yaml.Unmarshal(data, &cl); err != nil {
		return nil, err
	}

	return &cl, nil
}

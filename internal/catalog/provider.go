package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Provider is the boundary to the vision/tagging collaborator: it hands over
// the scene catalog for one source video. The engine never calls or retries
// the tagging service itself.
type Provider interface {
	Load(ctx context.Context, source string) (*Catalog, error)
}

// FileProvider reads a catalog payload the collaborator has already written
// to disk (one JSON document per source video).
type FileProvider struct {
	Path string
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

func (p *FileProvider) Load(ctx context.Context, source string) (*Catalog, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", p.Path, err)
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", p.Path, err)
	}

	if cat.Source == "" {
		cat.Source = source
	}
	cat.Normalize()
	return &cat, nil
}

// NewProvider creates a provider based on the specified variant
func NewProvider(variant string, path string) (Provider, error) {
	switch variant {
	case "file", "":
		return NewFileProvider(path), nil
	case "vision":
		return nil, fmt.Errorf("direct vision API provider not yet implemented")
	default:
		return nil, fmt.Errorf("unknown provider variant: %s", variant)
	}
}

package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/portals/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format is a graph description encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf infers the encoding from a file name. Unknown extensions map to JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a graph description.
func Decode(data []byte, format Format) (*domain.Graph, error) {
	var g domain.Graph
	var err error
	if format == FormatYAML {
		err = yaml.Unmarshal(data, &g)
	} else {
		err = json.Unmarshal(data, &g)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s graph: %w", format, err)
	}
	return &g, nil
}

// Encode serializes the persistable part of g (no virtual edges).
func Encode(g *domain.Graph, format Format) ([]byte, error) {
	p := g.Persistable()
	if format == FormatYAML {
		return yaml.Marshal(p)
	}
	return json.MarshalIndent(p, "", "  ")
}

// ReadGraph reads a graph description from path.
// When the document carries no ID, the file name (without extension) is used.
func ReadGraph(path string) (*domain.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrGraphNotFound, path)
		}
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	g, err := Decode(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if g.ID == "" {
		base := filepath.Base(path)
		g.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return g, nil
}

package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/portals/pkg/domain"
)

// Store implements ports.GraphStore using the local filesystem.
// It stores graphs as YAML files in a configured directory and also reads
// JSON descriptions placed there by hand.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".portals/graphs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".portals", "graphs")
	}
	return &Store{BasePath: basePath}
}

var extensions = []string{".yaml", ".yml", ".json"}

func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("graph id cannot be empty")
	}
	if !filepath.IsLocal(id) {
		return fmt.Errorf("graph id %q escapes the store directory", id)
	}
	return nil
}

// Save persists the graph to a YAML file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, g *domain.Graph) error {
	if err := checkID(g.ID); err != nil {
		return err
	}

	data, err := Encode(g, FormatYAML)
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}

	destPath := filepath.Join(s.BasePath, g.ID+".yaml")
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure graph directory: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Windows cannot rename over an existing file.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing graph file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to graph file: %w", err)
	}

	// Drop stale encodings of the same graph.
	for _, ext := range extensions[1:] {
		_ = os.Remove(filepath.Join(s.BasePath, g.ID+ext))
	}
	return nil
}

// Load reads the graph from the first matching .yaml, .yml or .json file.
func (s *Store) Load(ctx context.Context, id string) (*domain.Graph, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	for _, ext := range extensions {
		path := filepath.Join(s.BasePath, id+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		g, err := ReadGraph(path)
		if err != nil {
			return nil, err
		}
		g.ID = id
		return g, nil
	}
	return nil, domain.ErrGraphNotFound
}

// Delete removes every file holding the graph.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	for _, ext := range extensions {
		err := os.Remove(filepath.Join(s.BasePath, id+ext))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete graph file: %w", err)
		}
	}
	return nil
}

// List walks the base directory and returns every graph ID in sorted order.
// Nested directories produce slash-separated IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	err := filepath.WalkDir(s.BasePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), "tmp-") {
			return nil
		}
		ext := filepath.Ext(path)
		if !slices.Contains(extensions, ext) {
			return nil
		}
		rel, err := filepath.Rel(s.BasePath, path)
		if err != nil {
			return err
		}
		seen[filepath.ToSlash(strings.TrimSuffix(rel, ext))] = true
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

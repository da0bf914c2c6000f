package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// SaveGraphDoc stores a graph document whose frontmatter is the given YAML body.
func SaveGraphDoc(t *testing.T, repo core.Repository, id, frontmatter string) {
	t.Helper()
	doc := core.Document{
		ID:      id + ".md",
		Content: "---\n" + frontmatter + "---\n",
	}
	require.NoError(t, repo.Save(context.Background(), doc), "Failed to save graph %s", id)
}

// WriteFile writes content under dir, creating parent directories.
// It returns the absolute path of the file.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

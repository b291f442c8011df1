// Package testutil provides shared test helpers for creating config files and item fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recallr/internal/memory"
)

// SetupTestConfig creates a config file using YAML storage under tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`storage:
  driver: yaml
  yaml_directory: %s
notify:
  console: true
outputs:
  plan_directory: %s
`,
		ItemsDirectory(tmpDir),
		filepath.Join(tmpDir, "plans"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// ItemsDirectory is where SetupTestConfig stores items.
func ItemsDirectory(tmpDir string) string {
	return filepath.Join(tmpDir, "items")
}

// ItemOption configures optional fields of an item fixture.
type ItemOption func(*memory.Item)

// WithCategory sets the category of the item fixture.
func WithCategory(categoryID string) ItemOption {
	return func(item *memory.Item) {
		item.CategoryID = categoryID
	}
}

// WithDifficulty sets the difficulty of the item fixture.
func WithDifficulty(d memory.Difficulty) ItemOption {
	return func(item *memory.Item) {
		item.Difficulty = d
	}
}

// WithNextReviewAt sets when the item fixture is due.
func WithNextReviewAt(at time.Time) ItemOption {
	return func(item *memory.Item) {
		item.NextReviewAt = at
	}
}

// NewItem returns a never-reviewed medium item created at createdAt.
func NewItem(id int64, content string, createdAt time.Time, opts ...ItemOption) memory.Item {
	item := memory.Item{
		ID:            id,
		Content:       content,
		Difficulty:    memory.DifficultyMedium,
		RetentionRate: 100,
		CreatedAt:     createdAt,
		NextReviewAt:  createdAt.Add(20 * time.Minute),
		Intervals:     []memory.ReviewInterval{},
	}
	for _, opt := range opts {
		opt(&item)
	}
	return item
}

// CreateItems stores items in the YAML repository at directory.
func CreateItems(t *testing.T, directory string, items ...memory.Item) {
	t.Helper()
	repo := memory.NewYAMLRepository(directory)
	for _, item := range items {
		require.NoError(t, repo.Save(context.Background(), item))
	}
}

package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	itemsFileName      = "items.yml"
	categoriesFileName = "categories.yml"
)

// YAMLRepository implements Repository on two YAML files in a directory.
// Every write rewrites the whole file.
type YAMLRepository struct {
	directory string
	mu        sync.Mutex
}

// NewYAMLRepository creates a YAMLRepository rooted at directory.
func NewYAMLRepository(directory string) *YAMLRepository {
	return &YAMLRepository{directory: directory}
}

// FindAll returns every item ordered by ID.
func (r *YAMLRepository) FindAll(ctx context.Context) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readItems()
}

// FindByID returns the item with id, or ErrItemNotFound.
func (r *YAMLRepository) FindByID(ctx context.Context, id int64) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.readItems()
	if err != nil {
		return Item{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("find item %d: %w", id, ErrItemNotFound)
}

// Save inserts or replaces the item.
func (r *YAMLRepository) Save(ctx context.Context, item Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.readItems()
	if err != nil {
		return err
	}
	replaced := false
	for i := range items {
		if items[i].ID == item.ID {
			if stored := len(items[i].Intervals); stored > len(item.Intervals) {
				return fmt.Errorf("save item %d with %d intervals over %d stored: %w", item.ID, len(item.Intervals), stored, ErrStaleItem)
			}
			items[i] = item.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, item.Clone())
	}
	return r.writeItems(items)
}

// Delete removes the item, or returns ErrItemNotFound.
func (r *YAMLRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.readItems()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			return r.writeItems(append(items[:i], items[i+1:]...))
		}
	}
	return fmt.Errorf("delete item %d: %w", id, ErrItemNotFound)
}

// FindCategories returns all categories ordered by ID.
func (r *YAMLRepository) FindCategories(ctx context.Context) ([]Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var categories []Category
	if err := r.read(categoriesFileName, &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []Category{}
	}
	return categories, nil
}

// SaveCategory inserts or replaces a category.
func (r *YAMLRepository) SaveCategory(ctx context.Context, category Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var categories []Category
	if err := r.read(categoriesFileName, &categories); err != nil {
		return err
	}
	replaced := false
	for i := range categories {
		if categories[i].ID == category.ID {
			categories[i] = category
			replaced = true
			break
		}
	}
	if !replaced {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return r.write(categoriesFileName, categories)
}

func (r *YAMLRepository) readItems() ([]Item, error) {
	var items []Item
	if err := r.read(itemsFileName, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []Item{}
	}
	for i := range items {
		if items[i].Intervals == nil {
			items[i].Intervals = []ReviewInterval{}
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *YAMLRepository) writeItems(items []Item) error {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return r.write(itemsFileName, items)
}

func (r *YAMLRepository) read(name string, out interface{}) error {
	path := filepath.Join(r.directory, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}
	return nil
}

// write replaces the file through a rename so readers never see a partial file.
func (r *YAMLRepository) write(name string, in interface{}) error {
	if err := os.MkdirAll(r.directory, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", r.directory, err)
	}
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("yaml.Marshal() > %w", err)
	}
	path := filepath.Join(r.directory, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("os.Rename(%s) > %w", path, err)
	}
	return nil
}

// Package statistics derives aggregates from items: per-category counts and
// retention, and review activity per month.
package statistics

import (
	"sort"

	"github.com/at-ishikawa/recallr/internal/memory"
)

// RecomputeCategory returns category with its item count and average
// recorded retention derived from items sharing its ID.
func RecomputeCategory(category memory.Category, items []memory.Item) memory.Category {
	count := 0
	total := 0.0
	for _, item := range items {
		if item.CategoryID != category.ID {
			continue
		}
		count++
		total += item.RetentionRate
	}
	category.ItemCount = count
	category.AverageRetention = 0
	if count > 0 {
		category.AverageRetention = total / float64(count)
	}
	return category
}

// RecomputeCategories recomputes every known category and adds the ones
// only referenced by items, named after their ID. Items without a category
// are not counted. The result is ordered by ID.
func RecomputeCategories(categories []memory.Category, items []memory.Item) []memory.Category {
	known := make(map[string]memory.Category, len(categories))
	for _, c := range categories {
		known[c.ID] = c
	}
	for _, item := range items {
		if item.CategoryID == "" {
			continue
		}
		if _, ok := known[item.CategoryID]; !ok {
			known[item.CategoryID] = memory.Category{ID: item.CategoryID, Name: item.CategoryID}
		}
	}

	result := make([]memory.Category, 0, len(known))
	for _, c := range known {
		result = append(result, RecomputeCategory(c, items))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

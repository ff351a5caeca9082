// File: internal/services/retrieval/categories.go
package retrieval

import "github.com/haarwerk/haarwerk/internal/services/intent"

// categoryLabels maps a logical product category to the catalog category
// labels stored on item vectors. Several labels can correspond to one
// logical category (consumer and professional lines).
var categoryLabels = map[intent.Category][]string{
	intent.CategoryShampoo:     {"shampoo", "shampoo-profi"},
	intent.CategoryConditioner: {"conditioner", "conditioner-profi"},
	intent.CategoryMask:        {"maske", "maske-profi"},
	intent.CategoryOil:         {"öle"},
	intent.CategoryLeaveIn:     {"leave-in"},
	intent.CategoryRoutine: {
		"shampoo", "shampoo-profi",
		"conditioner", "conditioner-profi",
		"maske", "maske-profi",
		"öle", "leave-in",
	},
}

// CategoryLabels returns the catalog labels for a logical category, or nil
// when category is nil or unknown (meaning: no category filter).
func CategoryLabels(category *intent.Category) []string {
	if category == nil {
		return nil
	}
	return categoryLabels[*category]
}

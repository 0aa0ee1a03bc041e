package domain

import (
	"encoding/json"
	"sort"
)

// Category is a named, orderable grouping of bookmarks.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Order   int    `json:"order"`
	Visible bool   `json:"visible"`
	Color   string `json:"color,omitempty"`
}

// unsetOrder marks a category decoded without an "order" field.
const unsetOrder = -1

// DefaultCategory returns the built-in "General" category.
func DefaultCategory() Category {
	return Category{ID: DefaultCategoryID, Name: "General", Order: 0, Visible: true}
}

// UnmarshalJSON accepts documents where order and visible are missing,
// as older backups were written without them. Missing visible means true.
func (c *Category) UnmarshalJSON(b []byte) error {
	type alias Category
	aux := struct {
		*alias
		Order   *int  `json:"order"`
		Visible *bool `json:"visible"`
	}{alias: (*alias)(c)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	c.Order = unsetOrder
	if aux.Order != nil && *aux.Order >= 0 {
		c.Order = *aux.Order
	}
	c.Visible = aux.Visible == nil || *aux.Visible
	return nil
}

// NormalizeCategories fills missing orders with the list position and makes
// sure the default category is present. The result is sorted by order.
func NormalizeCategories(in []Category) []Category {
	out := make([]Category, 0, len(in)+1)
	hasDefault := false
	for i, c := range in {
		if c.Order == unsetOrder {
			c.Order = i
		}
		if c.ID == DefaultCategoryID {
			hasDefault = true
		}
		out = append(out, c)
	}
	if !hasDefault {
		out = append([]Category{DefaultCategory()}, out...)
	}
	SortCategories(out)
	return out
}

// SortCategories orders categories by Order, keeping list position for ties.
func SortCategories(cs []Category) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Order < cs[j].Order })
}

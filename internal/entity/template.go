package entity

import (
	"fmt"
	"sort"
)

type Template struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	IsActive bool           `json:"is_active"`
	Items    []TemplateItem `json:"items"`
}

type TemplateItem struct {
	ID             string   `json:"id"`
	TemplateID     string   `json:"template_id"`
	Title          string   `json:"title"`
	Description    *string  `json:"description,omitempty"`
	DueDays        *int     `json:"due_days,omitempty"`
	Priority       *string  `json:"priority,omitempty"`
	Category       *string  `json:"category,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	OrderIndex     *int     `json:"order_index,omitempty"`
}

// Order returns order_index, 0 when absent.
func (i TemplateItem) Order() int {
	if i.OrderIndex == nil {
		return 0
	}
	return *i.OrderIndex
}

// SortedItems returns a copy of the items ordered by order_index.
// Ties keep storage order.
func (t *Template) SortedItems() []TemplateItem {
	items := make([]TemplateItem, len(t.Items))
	copy(items, t.Items)
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Order() < items[b].Order()
	})
	return items
}

// Marker is the substring stamped into task notes to identify the source template.
func (t *Template) Marker() string {
	return TemplateMarker(t.Name)
}

func TemplateMarker(name string) string {
	return "Template: " + name
}

// ProvenanceNote is the full notes value for a task created from item order.
func ProvenanceNote(templateName string, order int) string {
	return fmt.Sprintf("%s | Order: %d", TemplateMarker(templateName), order)
}

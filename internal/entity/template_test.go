package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestTemplate_SortedItems(t *testing.T) {
	tpl := &Template{
		Name: "Basic Onboarding",
		Items: []TemplateItem{
			{Title: "a", OrderIndex: intPtr(0)},
			{Title: "c", OrderIndex: intPtr(2)},
			{Title: "b", OrderIndex: intPtr(1)},
			{Title: "no-order"},
			{Title: "b2", OrderIndex: intPtr(1)},
		},
	}

	items := tpl.SortedItems()

	var titles []string
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	assert.Equal(t, []string{"a", "no-order", "b", "b2", "c"}, titles)
	// storage order untouched
	assert.Equal(t, "c", tpl.Items[1].Title)
}

func TestProvenanceNote(t *testing.T) {
	assert.Equal(t, "Template: Basic Onboarding | Order: 0", ProvenanceNote("Basic Onboarding", 0))
	assert.Equal(t, "Template: Basic Onboarding", (&Template{Name: "Basic Onboarding"}).Marker())
}

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type projectDoc struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Price float64  `json:"price"`
	Tags  []string `json:"tags"`
}

func TestProject_KeepsIDAndNamedFields(t *testing.T) {
	doc := projectDoc{ID: "p1", Title: "Desk", Price: 120, Tags: []string{"office"}}

	out, err := Project(doc, []string{"title"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"id": "p1", "title": "Desk"}, out)
}

func TestProject_NoFieldsReturnsFullDocument(t *testing.T) {
	doc := projectDoc{ID: "p1", Title: "Desk", Price: 120}

	out, err := Project(doc, nil)
	require.NoError(t, err)

	assert.Len(t, out, 4)
	assert.Equal(t, 120.0, out["price"])
}

func TestProject_IgnoresMissingFields(t *testing.T) {
	out, err := Project(projectDoc{ID: "p1"}, []string{"images"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "p1"}, out)
}

func TestProjectAll(t *testing.T) {
	docs := []projectDoc{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}

	out, err := ProjectAll(docs, []string{"title"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "B", out[1]["title"])

	empty, err := ProjectAll([]projectDoc{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

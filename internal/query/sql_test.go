package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpec_Where(t *testing.T) {
	spec, err := Build(mustParse(t, "color=red&price[gte]=100&title=Desk"), testSchema)
	require.NoError(t, err)

	clause, args := spec.Where(1)

	// keys are processed in sorted order: color, price[gte], title
	assert.Equal(t, "$1 = ANY(colors) AND price >= $2 AND title = $3", clause)
	assert.Equal(t, []any{"red", 100.0, "Desk"}, args)
}

func TestSpec_Where_Offset(t *testing.T) {
	spec, err := Build(mustParse(t, "title=Desk"), testSchema)
	require.NoError(t, err)

	clause, args := spec.Where(3)
	assert.Equal(t, "title = $3", clause)
	assert.Equal(t, []any{"Desk"}, args)
}

func TestSpec_Where_Empty(t *testing.T) {
	spec := &Spec{}
	clause, args := spec.Where(1)
	assert.Empty(t, clause)
	assert.Nil(t, args)
}

func TestSpec_Where_ValuesAreNeverInlined(t *testing.T) {
	spec, err := Build(url.Values{"title": {"x'; DROP TABLE products; --"}}, testSchema)
	require.NoError(t, err)

	clause, args := spec.Where(1)
	assert.Equal(t, "title = $1", clause)
	assert.Equal(t, []any{"x'; DROP TABLE products; --"}, args)
}

func TestSpec_OrderBy(t *testing.T) {
	spec, err := Build(mustParse(t, "sort=-price,title"), testSchema)
	require.NoError(t, err)
	assert.Equal(t, "price DESC, title ASC, id ASC", spec.OrderBy())

	assert.Equal(t, "id ASC", (&Spec{}).OrderBy())
}

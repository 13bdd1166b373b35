package query

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                string
		search, sortBy, ord string
		wantField           string
		wantDir             Direction
		wantSearch          string
	}{
		{name: "defaults", wantField: SortByName, wantDir: Ascending},
		{name: "price desc", sortBy: "price", ord: "desc", wantField: SortByPrice, wantDir: Descending},
		{name: "case insensitive params", sortBy: "PRICE", ord: "DESC", wantField: SortByPrice, wantDir: Descending},
		{name: "unknown field", sortBy: "password", ord: "asc", wantField: SortByName, wantDir: Ascending},
		{name: "unknown order", ord: "sideways", wantField: SortByName, wantDir: Ascending},
		{name: "search trimmed", search: "  lamp ", wantField: SortByName, wantDir: Ascending, wantSearch: "lamp"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q := Build(tt.search, tt.sortBy, tt.ord)
			assert.Equal(t, tt.wantField, q.SortField)
			assert.Equal(t, tt.wantDir, q.Direction)
			assert.Equal(t, tt.wantSearch, q.Search)
		})
	}
}

func TestDirectionValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, int(Ascending))
	assert.Equal(t, -1, int(Descending))
}

func TestPattern_QuotesMetacharacters(t *testing.T) {
	t.Parallel()

	q := Build("a.c(", "", "")
	re, err := regexp.Compile("(?i)" + q.Pattern())
	require.NoError(t, err)

	assert.True(t, re.MatchString("xA.C(y"))
	assert.False(t, re.MatchString("abc("))
}

func TestLikePattern(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `%widget%`, Build("WIDGET", "", "").LikePattern())
	assert.Equal(t, `%50\% off\_now\\%`, Build(`50% off_now\`, "", "").LikePattern())
}

func TestViewFlags(t *testing.T) {
	t.Parallel()

	q := Build("", "price", "desc")
	assert.True(t, q.IsSortByPrice())
	assert.False(t, q.IsSortByName())
	assert.True(t, q.IsDescending())
	assert.False(t, q.IsAscending())
	assert.Equal(t, OrderDesc, q.Order())
}

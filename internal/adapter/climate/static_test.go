package climate

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticResolver_KnownSite(t *testing.T) {
	rec, err := StaticResolver{}.ResolveSite(context.Background(), "Uccle")
	require.NoError(t, err)

	assert.Equal(t, "uccle", rec.Site)
	assert.Equal(t, -7.0, rec.DesignTemp)
	assert.Equal(t, 10.4, rec.AnnualMean)
	assert.Equal(t, 100.0, rec.Elevation)
	assert.Equal(t, -0.005, rec.Gradient)
}

func TestStaticResolver_UnknownSite(t *testing.T) {
	_, err := StaticResolver{}.ResolveSite(context.Background(), "atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"atlantis"`)
}

func TestSites_SortedAndPlausible(t *testing.T) {
	all := Sites()
	require.NotEmpty(t, all)

	assert.True(t, sort.SliceIsSorted(all, func(i, j int) bool {
		return all[i].Site < all[j].Site
	}))

	for _, rec := range all {
		assert.NotEmpty(t, rec.Site)
		assert.Less(t, rec.DesignTemp, rec.AnnualMean, "site %s", rec.Site)
		assert.Negative(t, rec.Gradient, "site %s", rec.Site)
	}
}

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchResultsJSONObject(t *testing.T) {
	raw := []byte(`{"instrumentSearch":[
		{"lVal30":"فولاد مباركه اصفهان","lVal18AFC":"فولاد","insCode":"46348559193224090","lSecVal":"فلزات اساسي","cIsin":"IRO1FOLD0001","flow":1}
	]}`)

	refs, err := SearchResults(discardLogger(), raw)
	require.NoError(t, err)
	require.Len(t, refs, 1)

	r := refs[0]
	assert.Equal(t, "46348559193224090", r.WebID)
	assert.Equal(t, "فولاد", r.Ticker)
	// Arabic kaf and yeh are folded to their Persian forms.
	assert.Equal(t, "فولاد مبارکه اصفهان", r.Name)
	assert.Equal(t, "فلزات اساسی", r.Sector)
	assert.Equal(t, "IRO1FOLD0001", r.ISIN)
	assert.Equal(t, "بورس", r.Market)
}

func TestSearchResultsJSONArray(t *testing.T) {
	raw := []byte(`[{"lVal30":"name","lVal18AFC":"tick","insCode":"123","flow":2}]`)

	refs, err := SearchResults(discardLogger(), raw)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "123", refs[0].WebID)
	assert.Equal(t, "فرابورس", refs[0].Market)
}

func TestSearchResultsLegacy(t *testing.T) {
	raw := []byte("فولاد مباركه اصفهان,فولاد,46348559193224090,بورس,فلزات اساسي,IRO1FOLD0001;" +
		"ملي صنايع مس ايران,فملي,35425587644337450,بورس,فلزات اساسي,IRO1MSMI0001")

	refs, err := SearchResults(discardLogger(), raw)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "46348559193224090", refs[0].WebID)
	assert.Equal(t, "فولاد", refs[0].Ticker)
	assert.Equal(t, "35425587644337450", refs[1].WebID)
	assert.Equal(t, "فملی", refs[1].Ticker)
}

func TestSearchResultsLegacyDropsShortRows(t *testing.T) {
	refs, err := SearchResults(discardLogger(), []byte("a,b,c"))
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestSearchResultsEmpty(t *testing.T) {
	refs, err := SearchResults(discardLogger(), []byte("   "))
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestSearchResultsEntriesWithoutIDAreDropped(t *testing.T) {
	raw := []byte(`[{"lVal30":"name","lVal18AFC":"tick","insCode":"","flow":1}]`)
	refs, err := SearchResults(discardLogger(), raw)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsedata/tsetmc/internal/jalali"
	"github.com/tsedata/tsetmc/internal/model"
)

func TestIndexOHLC(t *testing.T) {
	raw := []byte("3/20/2024,2100000,2050000,2060000,2090000,5000000,1;" +
		"3/21/2024,2120000,2080000,2090000,2110000,6000000,1")

	records := IndexOHLC(discardLogger(), raw)
	require.Len(t, records, 2)

	assert.Equal(t, "20240320", records[0].Date8)
	assert.Equal(t, model.F(2100000), records[0].High)
	assert.Equal(t, model.F(2050000), records[0].Low)
	assert.Equal(t, model.F(2060000), records[0].Open)
	assert.Equal(t, model.F(2090000), records[0].Close)
	assert.Equal(t, model.I(5000000), records[0].Volume)
	assert.Equal(t, "20240321", records[1].Date8)
}

func TestIndexOHLCAcceptsEightDigitDates(t *testing.T) {
	raw := []byte("20240320,1,2,3,4,5,1")
	records := IndexOHLC(discardLogger(), raw)
	require.Len(t, records, 1)
	assert.Equal(t, "20240320", records[0].Date8)
}

func TestIndexOHLCDropsShortRows(t *testing.T) {
	raw := []byte("3/20/2024,2100000,2050000;3/21/2024,1,2,3,4,5,1")
	records := IndexOHLC(discardLogger(), raw)
	require.Len(t, records, 1)
	assert.Equal(t, "20240321", records[0].Date8)
}

func TestIndexAdjClose(t *testing.T) {
	raw := []byte(`{"indexB2":[{"dEven":20240320,"xNivInuClMresIbs":2085000.5}]}`)

	records, err := IndexAdjClose(discardLogger(), raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "20240320", records[0].Date8)
	assert.Equal(t, model.F(2085000.5), records[0].AdjClose)
}

func TestIndexAdjCloseBadPayload(t *testing.T) {
	_, err := IndexAdjClose(discardLogger(), []byte("<html></html>"))
	assert.Error(t, err)
}

func TestJoinIndexInnerJoin(t *testing.T) {
	ohlc := []model.IndexOHLC{
		{Date8: "20240320", Close: model.F(2090000)},
		{Date8: "20240321", Close: model.F(2110000)},
	}
	adj := []model.IndexAdjClose{
		{Date8: "20240320", AdjClose: model.F(2085000)},
		{Date8: "20240322", AdjClose: model.F(2120000)},
	}

	records := JoinIndex(ohlc, adj)
	require.Len(t, records, 1)

	// 20240321 is missing adjusted close, 20240322 is missing OHLC.
	assert.Equal(t, jalali.Date{Year: 1403, Month: 1, Day: 1}, records[0].Date)
	assert.Equal(t, model.F(2090000), records[0].Close)
	assert.Equal(t, model.F(2085000), records[0].AdjClose)
}

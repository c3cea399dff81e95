package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsedata/tsetmc/internal/model"
)

func marketWatchBlob(priceRows, bookRows []string) []byte {
	return []byte("header@settings@" +
		strings.Join(priceRows, ";") + "@" +
		strings.Join(bookRows, ";"))
}

const sampleMarketWatchRow = "46348559193224090,IRO1FOLD0001,فولاد,فولاد مباركه اصفهان," +
	"122959,5000,5100,5150,1200,3000000,15300000000,4900,5200,5050,450,1000000,0,0,27," +
	"5350,4750,293000000000,1"

const sampleBookRow = "46348559193224090,1,3,5,5090,5110,10000,8000"

func TestMarketWatch(t *testing.T) {
	prices, book, err := MarketWatch(discardLogger(),
		marketWatchBlob([]string{sampleMarketWatchRow}, []string{sampleBookRow}))
	require.NoError(t, err)
	require.Len(t, prices, 1)
	require.Len(t, book, 1)

	p := prices[0]
	assert.Equal(t, "46348559193224090", p.WebID)
	assert.Equal(t, "IRO1FOLD0001", p.TickerCode)
	assert.Equal(t, "فولاد", p.Ticker)
	assert.Equal(t, "12:29:59", p.Time)
	assert.Equal(t, model.F(5000), p.Open)
	assert.Equal(t, model.F(5100), p.Final)
	assert.Equal(t, model.F(5150), p.Close)
	assert.Equal(t, model.I(1200), p.Count)
	assert.Equal(t, model.I(3000000), p.Volume)
	assert.Equal(t, model.F(4900), p.Low)
	assert.Equal(t, model.F(5200), p.High)
	assert.Equal(t, model.F(5050), p.YFinal)
	assert.Equal(t, model.F(450), p.EPS)
	assert.Equal(t, model.I(1000000), p.BaseVolume)
	assert.Equal(t, "27", p.SectorCode)
	assert.Equal(t, model.F(5350), p.DayHigh)
	assert.Equal(t, model.F(4750), p.DayLow)
	assert.Equal(t, model.I(293000000000), p.ShareCount)
	assert.Equal(t, "1", p.MarketID)

	b := book[0]
	assert.Equal(t, "46348559193224090", b.WebID)
	assert.Equal(t, 1, b.Depth)
	assert.Equal(t, model.I(3), b.SellCount)
	assert.Equal(t, model.I(5), b.BuyCount)
	assert.Equal(t, model.F(5090), b.BuyPrice)
	assert.Equal(t, model.F(5110), b.SellPrice)
	assert.Equal(t, model.I(10000), b.BuyVolume)
	assert.Equal(t, model.I(8000), b.SellVol)
}

func TestMarketWatchFoldsArabicCharacters(t *testing.T) {
	row := strings.Replace(sampleMarketWatchRow, "فولاد,", "فولاك,", 1)
	prices, _, err := MarketWatch(discardLogger(), marketWatchBlob([]string{row}, nil))
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "فولاک", prices[0].Ticker)
}

func TestMarketWatchTooFewSections(t *testing.T) {
	_, _, err := MarketWatch(discardLogger(), []byte("header@settings@rows"))
	assert.Error(t, err)
}

func TestMarketWatchDropsShortRows(t *testing.T) {
	prices, book, err := MarketWatch(discardLogger(),
		marketWatchBlob([]string{sampleMarketWatchRow, "123,short"}, []string{"123,1,2"}))
	require.NoError(t, err)
	assert.Len(t, prices, 1)
	assert.Empty(t, book)
}

func TestClientType(t *testing.T) {
	raw := []byte("46348559193224090,120,5,2500000,500000,110,3,2400000,600000;" +
		"778253364357513,80,2,900000,100000,70,4,850000,150000")

	records := ClientType(discardLogger(), raw)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, "46348559193224090", r.WebID)
	assert.Equal(t, model.I(120), r.BuyCountRetail)
	assert.Equal(t, model.I(5), r.BuyCountInst)
	assert.Equal(t, model.I(2500000), r.BuyVolRetail)
	assert.Equal(t, model.I(500000), r.BuyVolInst)
	assert.Equal(t, model.I(110), r.SellCountRetail)
	assert.Equal(t, model.I(3), r.SellCountInst)
	assert.Equal(t, model.I(2400000), r.SellVolRetail)
	assert.Equal(t, model.I(600000), r.SellVolInst)
}

func TestClientTypeDropsShortRows(t *testing.T) {
	records := ClientType(discardLogger(), []byte("123,1,2,3"))
	assert.Empty(t, records)
}

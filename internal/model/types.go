package model

import "github.com/tsedata/tsetmc/internal/jalali"

// -----------------------------------------------------------------------------
// Nullable numerics
// -----------------------------------------------------------------------------
//
// Upstream rows routinely carry empty or garbage numeric fields. Those become
// absent values, never zero, so downstream sums and means do not silently
// include phantom zeros.

// Float is a float64 that may be absent.
type Float struct {
	Float64 float64
	Valid   bool
}

// F wraps a present float value.
func F(v float64) Float { return Float{Float64: v, Valid: true} }

// Int is an int64 that may be absent.
type Int struct {
	Int64 int64
	Valid bool
}

// I wraps a present int value.
func I(v int64) Int { return Int{Int64: v, Valid: true} }

// -----------------------------------------------------------------------------
// Instruments
// -----------------------------------------------------------------------------

// InstrumentRef identifies a tradeable instrument. WebID is the upstream's
// stable numeric id and the join key for every per-instrument feed.
type InstrumentRef struct {
	WebID  string // Upstream numeric identifier ("web id")
	Ticker string // Display ticker symbol
	Name   string // Full company name
	Market string // Market / board name
	Sector string // Industrial sector name
	ISIN   string // ISIN, when the feed provides one
}

// -----------------------------------------------------------------------------
// Time-series records
// -----------------------------------------------------------------------------

// PriceRecord is one trading day's prices for one instrument.
type PriceRecord struct {
	Date   jalali.Date // Trading day
	Open   Float
	High   Float
	Low    Float
	Close  Float // Final (settlement) price
	Last   Float // Last traded price
	Count  Int   // Number of trades
	Volume Int
	Value  Int
}

// IndexOHLC is one trading day of a market index from the OHLC feed. Dates
// are Gregorian on the wire; Date8 is the 8-digit YYYYMMDD join key.
type IndexOHLC struct {
	Date8  string
	Open   Float
	High   Float
	Low    Float
	Close  Float
	Volume Int
}

// IndexAdjClose is one day of the adjusted-close feed, keyed the same way.
type IndexAdjClose struct {
	Date8    string
	AdjClose Float
}

// IndexRecord is the inner join of the two index feeds for one day. A day
// present in only one feed does not produce a record.
type IndexRecord struct {
	Date     jalali.Date
	Open     Float
	High     Float
	Low      Float
	Close    Float
	AdjClose Float
	Volume   Int
}

// Trade is a single intraday execution. Seq is the upstream sequence number,
// used only to restore execution order before being discarded from output.
type Trade struct {
	Date   jalali.Date
	Time   string // HH:MM:SS
	Price  Float
	Volume Int
	Seq    int64
}

// OrderBookLevel is one depth level of one side-pair of an instrument's
// order book at a point in time.
type OrderBookLevel struct {
	Date      jalali.Date
	Time      string // HH:MM:SS; empty in the market-watch snapshot
	WebID     string
	Depth     int // 1..N, best level first
	BuyCount  Int
	BuyVolume Int
	BuyPrice  Float
	SellPrice Float
	SellVol   Int
	SellCount Int
	DayLow    Float // Static lower price band for the day
	DayHigh   Float // Static upper price band for the day
}

// -----------------------------------------------------------------------------
// Market-watch snapshot
// -----------------------------------------------------------------------------

// MarketWatchRow is one instrument's row in the market-wide snapshot feed.
type MarketWatchRow struct {
	WebID      string
	TickerCode string
	Ticker     string
	Name       string
	Time       string // HH:MM:SS
	Open       Float
	Final      Float
	Close      Float
	Count      Int
	Volume     Int
	Value      Int
	Low        Float
	High       Float
	YFinal     Float // Previous day final price
	EPS        Float
	BaseVolume Int
	SectorCode string
	DayHigh    Float // Upper price band
	DayLow     Float // Lower price band
	ShareCount Int
	MarketID   string
}

// ClientTypeRow carries the retail/institutional buy-sell split for one
// instrument, from the companion feed joined by WebID.
type ClientTypeRow struct {
	WebID           string
	BuyCountRetail  Int
	BuyCountInst    Int
	BuyVolRetail    Int
	BuyVolInst      Int
	SellCountRetail Int
	SellCountInst   Int
	SellVolRetail   Int
	SellVolInst     Int
}

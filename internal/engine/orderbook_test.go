package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- Setup & Helpers --------------------------------------------------------

func placeOrders(t *testing.T, book *OrderBook, side Side, price float64, quantities ...float64) []string {
	t.Helper()
	ids := make([]string, 0, len(quantities))
	for _, qty := range quantities {
		id, err := book.AddOrder(side, price, qty)
		assert.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func level(price, quantity float64) BookLevel {
	return BookLevel{Price: price, Quantity: quantity}
}

// --- Tests ------------------------------------------------------------------

func TestOrderBook_Empty(t *testing.T) {
	book := NewOrderBook()

	assert.Empty(t, book.Bids())
	assert.Empty(t, book.Asks())
	assert.Equal(t, 0.0, book.BestBid())
	assert.Equal(t, 0.0, book.BestAsk())
}

func TestAddOrder_Validation(t *testing.T) {
	book := NewOrderBook()

	for _, tc := range []struct {
		name     string
		price    float64
		quantity float64
	}{
		{"zero price", 0.0, 1.0},
		{"negative price", -100.0, 1.0},
		{"zero quantity", 100.0, 0.0},
		{"negative quantity", 100.0, -1.0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			id, err := book.AddOrder(Buy, tc.price, tc.quantity)
			assert.ErrorIs(t, err, ErrInvalidOrder)
			assert.Empty(t, id)
		})
	}

	// Rejected orders must leave the book untouched.
	assert.Empty(t, book.Bids())
	assert.Empty(t, book.Asks())
}

func TestAddOrder_SequentialIDs(t *testing.T) {
	book := NewOrderBook()

	first, err := book.AddOrder(Buy, 45000.0, 1.0)
	assert.NoError(t, err)
	second, err := book.AddOrder(Sell, 45100.0, 2.0)
	assert.NoError(t, err)
	third, err := book.AddOrder(Buy, 44900.0, 0.5)
	assert.NoError(t, err)

	assert.Equal(t, "ORD1", first)
	assert.Equal(t, "ORD2", second)
	assert.Equal(t, "ORD3", third)
}

func TestOrderBook_DepthSnapshot(t *testing.T) {
	book := NewOrderBook()

	// Bids placed out of price order, two orders sharing a level.
	placeOrders(t, book, Buy, 44900.0, 1.0)
	placeOrders(t, book, Buy, 45000.0, 1.5, 0.5)
	// Asks likewise.
	placeOrders(t, book, Sell, 45200.0, 3.0)
	placeOrders(t, book, Sell, 45100.0, 2.0)

	assert.Equal(t, []BookLevel{
		level(45000.0, 2.0),
		level(44900.0, 1.0),
	}, book.Bids(), "bids should be sorted high -> low and aggregated per level")

	assert.Equal(t, []BookLevel{
		level(45100.0, 2.0),
		level(45200.0, 3.0),
	}, book.Asks(), "asks should be sorted low -> high")

	assert.Equal(t, 45000.0, book.BestBid())
	assert.Equal(t, 45100.0, book.BestAsk())
}

func TestMatchOrders_NoCross(t *testing.T) {
	book := NewOrderBook()

	placeOrders(t, book, Buy, 45000.0, 1.0)
	placeOrders(t, book, Sell, 45100.0, 1.0)

	trades := book.MatchOrders()
	assert.Empty(t, trades)

	// Both orders keep resting.
	assert.Equal(t, []BookLevel{level(45000.0, 1.0)}, book.Bids())
	assert.Equal(t, []BookLevel{level(45100.0, 1.0)}, book.Asks())
}

func TestMatchOrders_NotTriggeredBySubmission(t *testing.T) {
	book := NewOrderBook()

	// A crossed book persists until matching is explicitly requested.
	placeOrders(t, book, Buy, 45100.0, 1.0)
	placeOrders(t, book, Sell, 45000.0, 1.0)

	assert.Equal(t, 45100.0, book.BestBid())
	assert.Equal(t, 45000.0, book.BestAsk())

	trades := book.MatchOrders()
	assert.Len(t, trades, 1)
}

func TestMatchOrders_ExecutesAtAskPrice(t *testing.T) {
	book := NewOrderBook()

	askID := placeOrders(t, book, Sell, 45000.0, 1.0)[0]
	bidID := placeOrders(t, book, Buy, 45100.0, 1.0)[0]

	trades := book.MatchOrders()
	assert.Len(t, trades, 1)
	assert.Equal(t, bidID, trades[0].BuyOrderID)
	assert.Equal(t, askID, trades[0].SellOrderID)
	assert.Equal(t, 45000.0, trades[0].Price, "the resting ask sets the price, not the bid")
	assert.Equal(t, 1.0, trades[0].Quantity)

	assert.Empty(t, book.Bids())
	assert.Empty(t, book.Asks())
}

func TestMatchOrders_PartialFill(t *testing.T) {
	book := NewOrderBook()

	placeOrders(t, book, Buy, 45000.0, 2.0)
	placeOrders(t, book, Sell, 45000.0, 1.0)

	trades := book.MatchOrders()
	assert.Len(t, trades, 1)
	assert.Equal(t, 45000.0, trades[0].Price)
	assert.Equal(t, 1.0, trades[0].Quantity)

	// The bid keeps its unfilled remainder; the ask is gone.
	assert.Equal(t, []BookLevel{level(45000.0, 1.0)}, book.Bids())
	assert.Empty(t, book.Asks())
}

func TestMatchOrders_FIFOWithinLevel(t *testing.T) {
	book := NewOrderBook()

	// Three asks resting at the same price, in insertion order.
	ids := placeOrders(t, book, Sell, 45000.0, 1.0, 2.0, 3.0)
	placeOrders(t, book, Buy, 45000.0, 2.5)

	trades := book.MatchOrders()
	assert.Len(t, trades, 2)

	// The earliest ask fills first and completely, then the second
	// partially; the third is untouched.
	assert.Equal(t, ids[0], trades[0].SellOrderID)
	assert.Equal(t, 1.0, trades[0].Quantity)
	assert.Equal(t, ids[1], trades[1].SellOrderID)
	assert.Equal(t, 1.5, trades[1].Quantity)

	assert.Equal(t, []BookLevel{level(45000.0, 3.5)}, book.Asks())
	assert.Empty(t, book.Bids())
}

func TestMatchOrders_SweepsMultipleLevels(t *testing.T) {
	book := NewOrderBook()

	placeOrders(t, book, Sell, 45000.0, 1.0)
	placeOrders(t, book, Sell, 45050.0, 1.0)
	placeOrders(t, book, Buy, 45100.0, 2.0)

	trades := book.MatchOrders()
	assert.Len(t, trades, 2)
	assert.Equal(t, 45000.0, trades[0].Price)
	assert.Equal(t, 1.0, trades[0].Quantity)
	assert.Equal(t, 45050.0, trades[1].Price)
	assert.Equal(t, 1.0, trades[1].Quantity)

	// One call swept both ask levels and emptied the book.
	assert.Empty(t, book.Bids())
	assert.Empty(t, book.Asks())
}

func TestMatchOrders_FilledQuantityNeverExceedsOrder(t *testing.T) {
	book := NewOrderBook()

	bidID := placeOrders(t, book, Buy, 45100.0, 5.0)[0]
	placeOrders(t, book, Sell, 45000.0, 2.0)
	placeOrders(t, book, Sell, 45050.0, 2.0)
	placeOrders(t, book, Sell, 45100.0, 4.0)

	trades := book.MatchOrders()

	filled := 0.0
	for _, trade := range trades {
		assert.Equal(t, bidID, trade.BuyOrderID)
		filled += trade.Quantity
	}
	assert.Equal(t, 5.0, filled)

	// The bid was driven to exactly zero and removed; the last ask keeps
	// its remainder.
	assert.Empty(t, book.Bids())
	assert.Equal(t, []BookLevel{level(45100.0, 3.0)}, book.Asks())
}

func TestOrderBook_Reset(t *testing.T) {
	book := NewOrderBook()

	placeOrders(t, book, Buy, 45000.0, 1.0)
	placeOrders(t, book, Sell, 45100.0, 1.0)

	book.Reset()

	assert.Empty(t, book.Bids())
	assert.Empty(t, book.Asks())
	assert.Equal(t, 0.0, book.BestBid())
	assert.Equal(t, 0.0, book.BestAsk())

	// ID numbering restarts from 1.
	id, err := book.AddOrder(Buy, 45000.0, 1.0)
	assert.NoError(t, err)
	assert.Equal(t, "ORD1", id)
}

package engine

import (
	"fmt"
	"time"

	"github.com/tidwall/btree"
)

type priceLevel struct {
	price  float64
	orders []*Order
}

type priceLevels = btree.BTreeG[*priceLevel]

// OrderBook holds resting bids and asks for a single instrument, sorted by
// price with FIFO ordering inside each price level. The book is a plain
// synchronous calculator: it is not safe for concurrent use and callers
// sharing an instance across goroutines must synchronise externally.
type OrderBook struct {
	// Price levels to orders sat on the price level, sorted by time added
	// as they will be push-back'd.
	bids *priceLevels
	asks *priceLevels

	// Next order ID suffix. Owned by the book so separate instances can
	// never collide; restarts at 1 on Reset.
	nextID uint64
}

func NewOrderBook() *OrderBook {
	// Sorted greatest first.
	bids := btree.NewBTreeG(func(a, b *priceLevel) bool {
		return a.price > b.price
	})
	// Sorted least first.
	asks := btree.NewBTreeG(func(a, b *priceLevel) bool {
		return a.price < b.price
	})
	return &OrderBook{
		bids:   bids,
		asks:   asks,
		nextID: 1,
	}
}

// AddOrder places a new resting order and returns its generated ID.
// The order rests even if it crosses the opposite side: no matching happens
// here, so a crossed book persists until MatchOrders is called. A driver
// wanting immediate execution semantics must call MatchOrders after each
// submission.
func (book *OrderBook) AddOrder(side Side, price, quantity float64) (string, error) {
	if price <= 0 || quantity <= 0 {
		return "", ErrInvalidOrder
	}

	id := fmt.Sprintf("ORD%d", book.nextID)
	book.nextID++

	order := &Order{
		ID:        id,
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		Timestamp: time.Now().UnixMilli(),
	}

	var levels *priceLevels
	switch side {
	case Buy:
		levels = book.bids
	case Sell:
		levels = book.asks
	}

	// Levels comparator only accounts for price, so a dummy level works
	// for the lookup.
	level, ok := levels.GetMut(&priceLevel{price: price})
	if ok {
		level.orders = append(level.orders, order)
	} else {
		levels.Set(&priceLevel{
			price:  price,
			orders: []*Order{order},
		})
	}

	return id, nil
}

// MatchOrders consumes the top of book while it crosses (i.e. bid >= ask),
// matching head orders in price-time priority. Execution price is always
// the resting ask's price. A single sweep can clear multiple orders and
// price levels, producing one Trade per match.
func (book *OrderBook) MatchOrders() []Trade {
	var trades []Trade

	for {
		bestBid, bidOk := book.bids.MinMut()
		bestAsk, askOk := book.asks.MinMut()

		// If either side is empty, or prices don't cross, we are done.
		if !bidOk || !askOk || bestBid.price < bestAsk.price {
			break
		}

		// A level whose order queue was drained should already have been
		// deleted, but never match against one if it slips through.
		if len(bestBid.orders) == 0 || len(bestAsk.orders) == 0 {
			if len(bestBid.orders) == 0 {
				book.bids.Delete(bestBid)
			}
			if len(bestAsk.orders) == 0 {
				book.asks.Delete(bestAsk)
			}
			continue
		}

		bidOrder := bestBid.orders[0]
		askOrder := bestAsk.orders[0]

		matchQty := min(bidOrder.Quantity, askOrder.Quantity)
		bidOrder.Quantity -= matchQty
		askOrder.Quantity -= matchQty

		trades = append(trades, Trade{
			BuyOrderID:  bidOrder.ID,
			SellOrderID: askOrder.ID,
			Price:       bestAsk.price,
			Quantity:    matchQty,
			Timestamp:   time.Now().UnixMilli(),
		})

		// Pop filled orders off the front of their level; drop the level
		// once its queue empties.
		if bidOrder.Quantity == 0 {
			bestBid.orders = bestBid.orders[1:]
			if len(bestBid.orders) == 0 {
				book.bids.Delete(bestBid)
			}
		}
		if askOrder.Quantity == 0 {
			bestAsk.orders = bestAsk.orders[1:]
			if len(bestAsk.orders) == 0 {
				book.asks.Delete(bestAsk)
			}
		}
	}

	return trades
}

// BookLevel is the aggregate depth resting at one price.
type BookLevel struct {
	Price    float64
	Quantity float64
}

// Bids returns the bid-side depth snapshot, best (highest) price first.
func (book *OrderBook) Bids() []BookLevel {
	return flattenLevels(book.bids)
}

// Asks returns the ask-side depth snapshot, best (lowest) price first.
func (book *OrderBook) Asks() []BookLevel {
	return flattenLevels(book.asks)
}

func flattenLevels(levels *priceLevels) []BookLevel {
	flat := make([]BookLevel, 0, levels.Len())
	levels.Scan(func(level *priceLevel) bool {
		total := 0.0
		for _, order := range level.orders {
			total += order.Quantity
		}
		flat = append(flat, BookLevel{Price: level.price, Quantity: total})
		return true
	})
	return flat
}

// BestBid returns the highest resting bid price, or 0.0 if there are no bids.
func (book *OrderBook) BestBid() float64 {
	if level, ok := book.bids.Min(); ok {
		return level.price
	}
	return 0.0
}

// BestAsk returns the lowest resting ask price, or 0.0 if there are no asks.
func (book *OrderBook) BestAsk() float64 {
	if level, ok := book.asks.Min(); ok {
		return level.price
	}
	return 0.0
}

// Reset clears both sides and restarts ID numbering, so IDs issued before a
// reset are not unique relative to IDs issued after it.
func (book *OrderBook) Reset() {
	book.bids.Clear()
	book.asks.Clear()
	book.nextID = 1
}

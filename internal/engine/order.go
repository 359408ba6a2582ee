package engine

import "fmt"

type Order struct {
	ID        string  // Book-assigned identifier
	Side      Side    // Order side
	Price     float64 // Limit price
	Quantity  float64 // Remaining quantity, decreases as fills occur
	Timestamp int64   // Milliseconds since epoch at insertion
}

func (o Order) String() string {
	return fmt.Sprintf("[%s %s %f@%f]", o.ID, o.Side, o.Quantity, o.Price)
}

// Trade records a single match between a bid and an ask. Trades are
// returned by value from MatchOrders and never retained by the book.
type Trade struct {
	BuyOrderID  string
	SellOrderID string
	Price       float64
	Quantity    float64
	Timestamp   int64 // Milliseconds since epoch at execution
}

func (t Trade) String() string {
	return fmt.Sprintf("[%s x %s %f@%f]", t.BuyOrderID, t.SellOrderID, t.Quantity, t.Price)
}

package sim

import "math/rand"

// OrderRequest is a randomly generated limit order for the driver to submit.
type OrderRequest struct {
	Side     string
	Price    float64
	Quantity float64
}

// Flow generates random order flow around a reference price. It is kept
// separate from Simulator so the price stream and the order flow can run
// on different goroutines without sharing an RNG.
type Flow struct {
	rng *rand.Rand
}

func NewFlow(seed int64) *Flow {
	return &Flow{rng: rand.New(rand.NewSource(seed))}
}

// NextOrder produces a random order jittered around the given price: bids
// a few basis points below it, asks a few above, so the book builds a
// spread that price moves occasionally cross.
func (f *Flow) NextOrder(price float64) OrderRequest {
	side := "buy"
	offset := -price * f.rng.Float64() * 0.001
	if f.rng.Intn(2) == 1 {
		side = "sell"
		offset = -offset
	}

	limit := price + offset
	if limit < floorPrice {
		limit = floorPrice
	}

	return OrderRequest{
		Side:     side,
		Price:    limit,
		Quantity: 0.1 + f.rng.Float64()*1.9,
	}
}

package engine

import (
	"math/rand"
	"testing"
)

func BenchmarkMatchThroughput(b *testing.B) {
	book := NewOrderBook()
	rng := rand.New(rand.NewSource(42))

	sides := make([]Side, b.N)
	prices := make([]float64, b.N)
	for i := 0; i < b.N; i++ {
		sides[i] = Side(rng.Intn(2))
		base := 45000.0
		width := rng.Float64() * 100.0
		if sides[i] == Buy {
			prices[i] = base + width
		} else {
			prices[i] = base - width
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	var matched int
	for i := 0; i < b.N; i++ {
		if _, err := book.AddOrder(sides[i], prices[i], 1.0); err != nil {
			b.Fatalf("submit failed: %v", err)
		}
		matched += len(book.MatchOrders())
	}

	b.StopTimer()
	if elapsed := b.Elapsed(); elapsed > 0 {
		b.ReportMetric(float64(matched)/elapsed.Seconds(), "trades/sec")
	}
}

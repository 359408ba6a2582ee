package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"garm/internal/engine"
)

var ErrInvalidSide = errors.New("side must be \"buy\" or \"sell\"")

const maxHistory = 100

// PricePoint is one observed market price.
type PricePoint struct {
	Timestamp int64 // Milliseconds since epoch
	Price     float64
}

// MarketData is the per-tick view handed back to the driver: the new price,
// the updated average, the depth after matching and any trades the tick
// produced.
type MarketData struct {
	Timestamp int64
	Price     float64
	SMA       float64
	Bids      []engine.BookLevel
	Asks      []engine.BookLevel
	Trades    []engine.Trade
}

// BookSnapshot is the aggregate state of the order book.
type BookSnapshot struct {
	Bids    []engine.BookLevel
	Asks    []engine.BookLevel
	BestBid float64
	BestAsk float64
}

// Service owns one SMA calculator and one order book and drives both
// synchronously. Orders rest until the next ProcessPrice tick runs the
// matching, so a crossed book between ticks is expected state.
type Service struct {
	session string
	sma     *engine.SMACalculator
	book    *engine.OrderBook
	history []PricePoint
}

func New(window int) (*Service, error) {
	sma, err := engine.NewSMACalculator(window)
	if err != nil {
		return nil, fmt.Errorf("create sma calculator: %w", err)
	}

	svc := &Service{
		session: uuid.New().String(),
		sma:     sma,
		book:    engine.NewOrderBook(),
	}

	log.Info().
		Str("session", svc.session).
		Int("window", window).
		Msg("trading service ready")
	return svc, nil
}

// Session returns the identifier assigned to this service instance, used
// to correlate its log lines.
func (s *Service) Session() string {
	return s.session
}

// ProcessPrice feeds a market price through the SMA calculator, runs the
// order matching and returns the resulting market data view.
func (s *Service) ProcessPrice(price float64) (MarketData, error) {
	if err := s.sma.AddPrice(price); err != nil {
		return MarketData{}, fmt.Errorf("process price: %w", err)
	}

	now := time.Now().UnixMilli()
	s.history = append(s.history, PricePoint{Timestamp: now, Price: price})
	if len(s.history) > maxHistory {
		s.history = s.history[len(s.history)-maxHistory:]
	}

	trades := s.book.MatchOrders()
	for _, trade := range trades {
		log.Info().
			Str("session", s.session).
			Str("buy", trade.BuyOrderID).
			Str("sell", trade.SellOrderID).
			Float64("price", trade.Price).
			Float64("quantity", trade.Quantity).
			Msg("trade executed")
	}

	return MarketData{
		Timestamp: now,
		Price:     price,
		SMA:       s.sma.SMA(),
		Bids:      s.book.Bids(),
		Asks:      s.book.Asks(),
		Trades:    trades,
	}, nil
}

// SubmitOrder places a limit order and returns its book-assigned ID. The
// order is not matched here; matching runs on the next ProcessPrice tick.
func (s *Service) SubmitOrder(side string, price, quantity float64) (string, error) {
	var bookSide engine.Side
	switch strings.ToLower(side) {
	case "buy":
		bookSide = engine.Buy
	case "sell":
		bookSide = engine.Sell
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}

	id, err := s.book.AddOrder(bookSide, price, quantity)
	if err != nil {
		return "", fmt.Errorf("submit order: %w", err)
	}

	log.Debug().
		Str("session", s.session).
		Str("order", id).
		Str("side", bookSide.String()).
		Float64("price", price).
		Float64("quantity", quantity).
		Msg("order placed")
	return id, nil
}

// Snapshot returns the current depth and top of book. Best prices are 0.0
// when the corresponding side is empty.
func (s *Service) Snapshot() BookSnapshot {
	return BookSnapshot{
		Bids:    s.book.Bids(),
		Asks:    s.book.Asks(),
		BestBid: s.book.BestBid(),
		BestAsk: s.book.BestAsk(),
	}
}

// History returns the retained price points, oldest first.
func (s *Service) History() []PricePoint {
	return s.history
}

// Reset clears the calculator, the book and the price history.
func (s *Service) Reset() {
	s.sma.Reset()
	s.book.Reset()
	s.history = nil

	log.Info().Str("session", s.session).Msg("trading state reset")
}

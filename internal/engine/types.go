package engine

import "errors"

var (
	ErrInvalidWindow = errors.New("window size must be greater than 0")
	ErrNegativePrice = errors.New("price cannot be negative")
	ErrInvalidOrder  = errors.New("price and quantity must be positive")
)

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

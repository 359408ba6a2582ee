package engine

// SMACalculator maintains a simple moving average over the last `window`
// prices using a circular buffer and a running sum, giving O(1) updates and
// O(1) reads regardless of window size.
type SMACalculator struct {
	prices []float64 // Circular buffer of the most recent prices
	window int
	count  int // Number of valid slots, saturates at window
	index  int // Next slot to overwrite
	sum    float64
}

func NewSMACalculator(window int) (*SMACalculator, error) {
	if window <= 0 {
		return nil, ErrInvalidWindow
	}
	return &SMACalculator{
		prices: make([]float64, window),
		window: window,
	}, nil
}

// AddPrice records a new observation, evicting the oldest one once the
// window is full. Prices are non-negative by domain.
func (s *SMACalculator) AddPrice(price float64) error {
	if price < 0 {
		return ErrNegativePrice
	}

	// Drop the stale contribution before overwriting its slot.
	if s.count == s.window {
		s.sum -= s.prices[s.index]
	}

	s.prices[s.index] = price
	s.sum += price
	s.index = (s.index + 1) % s.window

	if s.count < s.window {
		s.count++
	}
	return nil
}

// SMA returns the mean of the observations seen so far, over at most the
// last `window` of them. Returns 0.0 before any observation; callers that
// must distinguish "no data" from a genuine zero should check Size.
func (s *SMACalculator) SMA() float64 {
	if s.count == 0 {
		return 0.0
	}
	return s.sum / float64(s.count)
}

// Size returns the number of observations currently contributing to the
// average, in [0, window].
func (s *SMACalculator) Size() int {
	return s.count
}

// Reset returns the calculator to its empty state, keeping the window.
func (s *SMACalculator) Reset() {
	clear(s.prices)
	s.count = 0
	s.index = 0
	s.sum = 0.0
}

package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const (
	// Hard clamps keep generated prices inside a plausible band.
	floorPrice = 1000.0
	ceilPrice  = 100000.0

	jumpChance  = 0.03
	jumpMinFrac = 0.002
	jumpMaxFrac = 0.008
)

// Config holds the Geometric Brownian Motion parameters for a price stream.
type Config struct {
	InitialPrice float64
	Drift        float64
	Volatility   float64
	Interval     time.Duration
	Seed         int64
}

// DefaultConfig mimics a Bitcoin-like instrument: slight upward drift with
// 2% volatility, ticking twice a second.
func DefaultConfig() Config {
	return Config{
		InitialPrice: 45000.0,
		Drift:        0.0001,
		Volatility:   0.02,
		Interval:     500 * time.Millisecond,
		Seed:         time.Now().UnixNano(),
	}
}

// Simulator generates a mock market price series using Geometric Brownian
// Motion: dS = mu*S*dt + sigma*S*dW*sqrt(dt), with occasional jumps for
// realism. Not safe for concurrent use; drive it from a single goroutine.
type Simulator struct {
	cfg   Config
	price float64
	rng   *rand.Rand
}

func New(cfg Config) *Simulator {
	return &Simulator{
		cfg:   cfg,
		price: cfg.InitialPrice,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Price returns the last generated price.
func (s *Simulator) Price() float64 {
	return s.price
}

// Next advances the series by one step and returns the new price, rounded
// to two decimals and clamped to the plausible band.
func (s *Simulator) Next() float64 {
	dt := s.cfg.Interval.Seconds()
	dW := s.rng.NormFloat64()

	s.price += s.cfg.Drift*s.price*dt +
		s.cfg.Volatility*s.price*dW*math.Sqrt(dt)

	if s.rng.Float64() < jumpChance {
		direction := 1.0
		if s.rng.Intn(2) == 0 {
			direction = -1.0
		}
		frac := jumpMinFrac + s.rng.Float64()*(jumpMaxFrac-jumpMinFrac)
		s.price += direction * s.price * frac
	}

	s.price = max(s.price, floorPrice)
	s.price = min(s.price, ceilPrice)
	s.price = math.Round(s.price*100) / 100

	return s.price
}

// Run streams prices on out at the configured interval until the tomb dies.
// The channel is owned by the caller and is not closed here.
func (s *Simulator) Run(t *tomb.Tomb, out chan<- float64) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	log.Info().
		Float64("initial", s.cfg.InitialPrice).
		Dur("interval", s.cfg.Interval).
		Msg("price stream running")

	for {
		select {
		case <-t.Dying():
			return nil
		case <-ticker.C:
			select {
			case out <- s.Next():
			case <-t.Dying():
				return nil
			}
		}
	}
}

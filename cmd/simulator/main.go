package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"garm/internal/config"
	"garm/internal/service"
	"garm/internal/sim"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load config")
	}

	svc, err := service.New(cfg.SMAWindow)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to create trading service")
	}

	simulator := sim.New(sim.Config{
		InitialPrice: cfg.InitialPrice,
		Drift:        cfg.Drift,
		Volatility:   cfg.Volatility,
		Interval:     cfg.TickInterval,
		Seed:         cfg.Seed,
	})
	flow := sim.NewFlow(cfg.Seed + 1)

	t, _ := tomb.WithContext(ctx)
	prices := make(chan float64, 1)

	// Stream GBM prices until shutdown.
	t.Go(func() error {
		return simulator.Run(t, prices)
	})

	// Drive the trading service off the price stream.
	t.Go(func() error {
		return drive(t, svc, flow, prices, cfg.OrderChance, cfg.Seed+2)
	})

	if err := t.Wait(); err != nil {
		log.Error().Err(err).Msg("simulator stopped")
		os.Exit(1)
	}
	log.Info().Msg("simulator stopped")
}

// drive consumes prices one at a time: it may submit a random order, then
// processes the price through the service, which is also what triggers the
// matching of anything resting in the book.
func drive(t *tomb.Tomb, svc *service.Service, flow *sim.Flow, prices <-chan float64, orderChance float64, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	for {
		select {
		case <-t.Dying():
			return nil
		case price := <-prices:
			if rng.Float64() < orderChance {
				req := flow.NextOrder(price)
				if _, err := svc.SubmitOrder(req.Side, req.Price, req.Quantity); err != nil {
					log.Error().Err(err).Msg("order rejected")
				}
			}

			md, err := svc.ProcessPrice(price)
			if err != nil {
				return err
			}

			log.Info().
				Float64("price", md.Price).
				Float64("sma", md.SMA).
				Int("bid_levels", len(md.Bids)).
				Int("ask_levels", len(md.Asks)).
				Int("trades", len(md.Trades)).
				Msg("tick")
		}
	}
}

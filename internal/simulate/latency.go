// Package simulate models the storefront's fake network round-trips as an
// explicit asynchronous boundary with an injectable clock.
package simulate

import (
	"context"
	"sync"
	"time"

	"github.com/safar/go-storefront/internal/config"
)

type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time                         { return time.Now() }
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// InstantClock never waits and always reports the same instant.
type InstantClock struct {
	At time.Time
}

func (c InstantClock) Now() time.Time { return c.At }

func (c InstantClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.At
	return ch
}

type Op string

const (
	OpLogin     Op = "login"
	OpRegister  Op = "register"
	OpSocial    Op = "social_login"
	OpAddToCart Op = "add_to_cart"
	OpOrder     Op = "order_submit"
	OpList      Op = "list"
)

// Latency delays operations and tracks which ones are in flight so a view
// can disable the triggering control.
type Latency struct {
	clock  Clock
	delays map[Op]time.Duration

	mu       sync.Mutex
	inFlight map[Op]int
}

func NewLatency(clock Clock, cfg config.LatencyConfig) *Latency {
	return &Latency{
		clock: clock,
		delays: map[Op]time.Duration{
			OpLogin:     cfg.Login,
			OpRegister:  cfg.Register,
			OpSocial:    cfg.Social,
			OpAddToCart: cfg.AddToCart,
			OpOrder:     cfg.Order,
			OpList:      cfg.List,
		},
		inFlight: make(map[Op]int),
	}
}

// None returns a Latency that resolves every operation immediately.
func None() *Latency {
	return NewLatency(InstantClock{At: time.Now()}, config.LatencyConfig{})
}

func (l *Latency) Clock() Clock { return l.clock }

// Scoped returns a Latency with the same clock and delays but its own
// in-flight tracking, so Pending only reports operations started through it.
func (l *Latency) Scoped() *Latency {
	return &Latency{
		clock:    l.clock,
		delays:   l.delays,
		inFlight: make(map[Op]int),
	}
}

// Wait blocks for op's configured delay. A simulated call never fails; the
// only error is ctx ending first.
func (l *Latency) Wait(ctx context.Context, op Op) error {
	l.begin(op)
	defer l.end(op)

	d := l.delays[op]
	if d <= 0 {
		return ctx.Err()
	}

	select {
	case <-l.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Latency) Pending(op Op) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight[op] > 0
}

func (l *Latency) begin(op Op) {
	l.mu.Lock()
	l.inFlight[op]++
	l.mu.Unlock()
}

func (l *Latency) end(op Op) {
	l.mu.Lock()
	l.inFlight[op]--
	l.mu.Unlock()
}

package sim

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/springsim/internal/spring"
)

const DefaultInterval = time.Second / 120

// Loop is a wall-clock scheduler. Every interval it calls Tick on each
// registered spring. Springs register themselves on Start and leave when
// they rest, so an idle Loop does no work.
//
// Springs are not safe for concurrent use: once a spring is driven by a
// Loop, mutate it only inside Do.
type Loop struct {
	interval time.Duration
	logger   *slog.Logger

	// frameMu serialises frames and Do.
	frameMu sync.Mutex

	// regMu guards springs; callbacks fired inside a frame may unregister.
	regMu   sync.Mutex
	springs map[*spring.Spring]struct{}
}

func NewLoop(interval time.Duration, logger *slog.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		interval: interval,
		logger:   logger,
		springs:  make(map[*spring.Spring]struct{}),
	}
}

func (l *Loop) Register(s *spring.Spring) {
	l.regMu.Lock()
	l.springs[s] = struct{}{}
	n := len(l.springs)
	l.regMu.Unlock()
	l.logger.Debug("loop: register", "active", n)
}

func (l *Loop) Unregister(s *spring.Spring) {
	l.regMu.Lock()
	delete(l.springs, s)
	n := len(l.springs)
	l.regMu.Unlock()
	l.logger.Debug("loop: unregister", "active", n)
}

// Len reports how many springs are registered.
func (l *Loop) Len() int {
	l.regMu.Lock()
	defer l.regMu.Unlock()
	return len(l.springs)
}

// Do runs fn between frames.
func (l *Loop) Do(fn func()) {
	l.frameMu.Lock()
	defer l.frameMu.Unlock()
	fn()
}

// Run ticks registered springs until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("loop: started", "interval", l.interval)
	defer l.logger.Info("loop: stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Frame()
		}
	}
}

// Frame ticks every registered spring once.
func (l *Loop) Frame() {
	l.frameMu.Lock()
	defer l.frameMu.Unlock()

	for _, s := range l.snapshot() {
		s.Tick()
	}
}

func (l *Loop) snapshot() []*spring.Spring {
	l.regMu.Lock()
	defer l.regMu.Unlock()
	out := make([]*spring.Spring, 0, len(l.springs))
	for s := range l.springs {
		out = append(out, s)
	}
	return out
}

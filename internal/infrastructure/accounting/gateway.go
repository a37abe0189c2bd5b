package accounting

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/freightops/backend/internal/domain/invoicing"
	"github.com/freightops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds the simulated accounting system behaviour
type Config struct {
	// FailureRate is the per-invoice failure injection probability in [0,1]
	FailureRate float64
	// MinLatency and MaxLatency bound the simulated submission delay
	MinLatency time.Duration
	MaxLatency time.Duration
	// ConnectLatency and DisconnectLatency simulate the OAuth handshake
	ConnectLatency    time.Duration
	DisconnectLatency time.Duration
}

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	return Config{
		FailureRate:       0.08,
		MinLatency:        150 * time.Millisecond,
		MaxLatency:        600 * time.Millisecond,
		ConnectLatency:    800 * time.Millisecond,
		DisconnectLatency: 200 * time.Millisecond,
	}
}

// SubmissionError reports a single failed invoice submission. It is
// captured as data in batch results, never used to abort a batch.
type SubmissionError struct {
	InvoiceNumber string
}

// Error implements the error interface
func (e *SubmissionError) Error() string {
	return fmt.Sprintf("accounting system rejected invoice %s", e.InvoiceNumber)
}

// Gateway is a stand-in for a remote accounting system. Latency and
// failures are simulated from an injectable random source so tests can
// be deterministic.
type Gateway struct {
	cfg    Config
	store  ConnectionStore
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGateway creates a gateway seeded from the current time
func NewGateway(cfg Config, store ConnectionStore, logger *zap.Logger) *Gateway {
	return NewGatewayWithRand(cfg, store, logger, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewGatewayWithRand creates a gateway with an explicit random source
func NewGatewayWithRand(cfg Config, store ConnectionStore, logger *zap.Logger, rng *rand.Rand) *Gateway {
	if cfg.MaxLatency < cfg.MinLatency {
		cfg.MaxLatency = cfg.MinLatency
	}
	return &Gateway{
		cfg:    cfg,
		store:  store,
		logger: logger,
		rng:    rng,
	}
}

// Connect simulates the OAuth handshake and durably marks the system
// connected
func (g *Gateway) Connect(ctx context.Context) error {
	if err := sleepCtx(ctx, g.cfg.ConnectLatency); err != nil {
		return err
	}
	if err := g.store.SetConnected(ctx, true); err != nil {
		return err
	}
	g.logger.Info("accounting system connected")
	return nil
}

// Disconnect clears the durable connected flag
func (g *Gateway) Disconnect(ctx context.Context) error {
	if err := sleepCtx(ctx, g.cfg.DisconnectLatency); err != nil {
		return err
	}
	if err := g.store.SetConnected(ctx, false); err != nil {
		return err
	}
	g.logger.Info("accounting system disconnected")
	return nil
}

// Connected reads the durable connected flag
func (g *Gateway) Connected(ctx context.Context) (bool, error) {
	return g.store.IsConnected(ctx)
}

// SubmitInvoice submits a single invoice to the simulated remote system.
// It sleeps for a bounded random delay, then either returns a generated
// remote identifier or injects a failure at the configured rate. The
// system must be connected.
func (g *Gateway) SubmitInvoice(ctx context.Context, payload invoicing.InvoicePayload) (string, error) {
	connected, err := g.store.IsConnected(ctx)
	if err != nil {
		return "", err
	}
	if !connected {
		return "", shared.ErrNotConnected
	}

	if err := sleepCtx(ctx, g.latency()); err != nil {
		return "", err
	}

	if g.roll() < g.cfg.FailureRate {
		return "", &SubmissionError{InvoiceNumber: payload.InvoiceNumber}
	}

	remoteID := uuid.New().String()
	g.logger.Debug("invoice submitted",
		zap.String("invoice_number", payload.InvoiceNumber),
		zap.String("remote_id", remoteID),
	)
	return remoteID, nil
}

func (g *Gateway) latency() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	spread := g.cfg.MaxLatency - g.cfg.MinLatency
	if spread <= 0 {
		return g.cfg.MinLatency
	}
	return g.cfg.MinLatency + time.Duration(g.rng.Int63n(int64(spread)))
}

func (g *Gateway) roll() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}

// sleepCtx sleeps for d or until the context is cancelled
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

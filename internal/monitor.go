package internal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/steelsmol/subwatch/config"
	"github.com/steelsmol/subwatch/internal/domain"
	"github.com/steelsmol/subwatch/internal/metrics"
	"github.com/steelsmol/subwatch/internal/services/detector"
	"github.com/steelsmol/subwatch/internal/services/notifier"
)

type SnapshotSource interface {
	Snapshot(w domain.Wallet) (domain.Snapshot, error)
}

type GainResolver interface {
	GainSince(ctx context.Context, address string, current decimal.Decimal) (decimal.Decimal, error)
}

type ChartBuilder interface {
	BuildURL(ctx context.Context, w domain.Wallet) (string, error)
}

type Dispatcher interface {
	Send(ctx context.Context, msg domain.WebhookMessage) error
}

type StateStore interface {
	Load() map[string]decimal.Decimal
	Save(state map[string]decimal.Decimal) error
}

// Monitor polls wallet balances on a fixed interval and dispatches
// a notification for every balance change it observes.
type Monitor struct {
	cfg        *config.Config
	source     SnapshotSource
	gains      GainResolver
	charts     ChartBuilder
	dispatcher Dispatcher
	store      StateStore
	detector   detector.Detector
	logger     *zap.Logger

	mu        sync.Mutex
	state     map[string]decimal.Decimal
	lastCycle time.Time
}

// NewMonitor creates a monitor instance from its collaborators.
func NewMonitor(
	cfg *config.Config,
	source SnapshotSource,
	gains GainResolver,
	charts ChartBuilder,
	dispatcher Dispatcher,
	store StateStore,
	logger *zap.Logger,
) *Monitor {
	return &Monitor{
		cfg:        cfg,
		detector:   detector.New(),
		source:     source,
		gains:      gains,
		charts:     charts,
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
	}
}

// LastCycle reports when the last polling cycle finished.
func (m *Monitor) LastCycle() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCycle
}

// Run executes the polling loop until the context is cancelled.
// The first cycle runs immediately, subsequent cycles follow the
// configured interval.
func (m *Monitor) Run(ctx context.Context) error {
	m.state = m.store.Load()

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	m.logger.Info("starting balance monitor",
		zap.Int("wallets", len(m.cfg.Wallets)),
		zap.Duration("poll_interval", m.cfg.PollInterval))

	m.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("context done, stopping balance monitor")
			return ctx.Err()
		case <-ticker.C:
			m.runCycle(ctx)
		}
	}
}

// runCycle checks every configured wallet once and persists the
// updated state. A failure for one wallet never affects the others.
func (m *Monitor) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("panic in polling cycle", zap.Any("panic", r))
		}
	}()

	logger := m.logger.With(zap.String("cycle_id", uuid.NewString()))
	logger.Debug("cycle start")

	updates := make(map[string]decimal.Decimal, len(m.cfg.Wallets))
	var updatesMu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(m.cfg.MaxParallel)

	for _, w := range m.cfg.Wallets {
		w := w
		g.Go(func() error {
			// each wallet pipeline runs on its own goroutine, out of
			// reach of the cycle-level recover
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic in wallet pipeline",
						zap.String("wallet", w.String()), zap.Any("panic", r))
				}
			}()

			snap, err := m.source.Snapshot(w)
			if err != nil {
				metrics.BalanceChecksTotal.WithLabelValues(metrics.ResultError).Inc()
				logger.Error("balance query failed",
					zap.String("wallet", w.String()), zap.Error(err))
				return nil
			}
			metrics.BalanceChecksTotal.WithLabelValues(metrics.ResultOK).Inc()
			metrics.WalletBalance.WithLabelValues(w.Name).Set(snap.Balance.InexactFloat64())

			m.mu.Lock()
			ev := m.detector.Change(m.state, w, snap)
			m.mu.Unlock()

			updatesMu.Lock()
			updates[w.Address] = snap.Balance
			updatesMu.Unlock()

			if ev == nil {
				logger.Debug("no balance change",
					zap.String("wallet", w.String()),
					zap.String("balance", snap.Balance.String()))
				return nil
			}

			logger.Info("balance change detected",
				zap.String("wallet", w.String()),
				zap.String("previous", ev.Previous.String()),
				zap.String("current", ev.Current.String()),
				zap.String("delta", ev.Delta.String()))

			m.notify(ctx, logger, *ev, snap.ObservedAt)
			return nil
		})
	}
	g.Wait()

	m.mu.Lock()
	for addr, bal := range updates {
		m.state[addr] = bal
	}
	if err := m.store.Save(m.state); err != nil {
		metrics.StateSaveErrorsTotal.Inc()
		logger.Error("failed to persist balance state", zap.Error(err))
	}
	m.lastCycle = time.Now()
	m.mu.Unlock()

	metrics.CyclesTotal.Inc()
	metrics.LastCycleTimestamp.SetToCurrentTime()
	logger.Debug("cycle done")
}

// notify resolves the daily gain and chart link for the wallet and
// dispatches the webhook message. Both enrichments are best effort.
func (m *Monitor) notify(ctx context.Context, logger *zap.Logger, ev domain.ChangeEvent, at time.Time) {
	gain, err := m.gains.GainSince(ctx, ev.Wallet.Address, ev.Current)
	if err != nil {
		logger.Warn("failed to resolve daily gain",
			zap.String("wallet", ev.Wallet.String()), zap.Error(err))
		gain = decimal.Zero
	}

	chartURL, err := m.charts.BuildURL(ctx, ev.Wallet)
	if err != nil {
		logger.Warn("failed to build chart link",
			zap.String("wallet", ev.Wallet.String()), zap.Error(err))
		chartURL = ""
	}

	msg := notifier.Compose(ev, gain, chartURL, at)
	if err := m.dispatcher.Send(ctx, msg); err != nil {
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultError).Inc()
		logger.Error("failed to dispatch notification",
			zap.String("wallet", ev.Wallet.String()), zap.Error(err))
		return
	}
	metrics.NotificationsTotal.WithLabelValues(metrics.ResultOK).Inc()
	logger.Info("notification dispatched", zap.String("wallet", ev.Wallet.String()))
}

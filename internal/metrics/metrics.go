// Package metrics exposes Prometheus instrumentation for the polling loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CyclesTotal counts completed polling cycles.
	CyclesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "subwatch_cycles_total",
			Help: "Total number of completed polling cycles",
		},
	)

	// BalanceChecksTotal counts per-wallet balance queries by result.
	BalanceChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subwatch_balance_checks_total",
			Help: "Total number of wallet balance queries",
		},
		[]string{"result"},
	)

	// NotificationsTotal counts dispatched notifications by result.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subwatch_notifications_total",
			Help: "Total number of webhook notifications",
		},
		[]string{"result"},
	)

	// WalletBalance tracks the last observed balance per wallet, in decimal units.
	WalletBalance = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "subwatch_wallet_balance",
			Help: "Last observed wallet balance in decimal units",
		},
		[]string{"wallet"},
	)

	// StateSaveErrorsTotal counts failed state file writes.
	StateSaveErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "subwatch_state_save_errors_total",
			Help: "Total number of failed state file writes",
		},
	)

	// LastCycleTimestamp records when the last cycle finished, unix seconds.
	LastCycleTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "subwatch_last_cycle_timestamp_seconds",
			Help: "Unix timestamp of the last completed polling cycle",
		},
	)
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

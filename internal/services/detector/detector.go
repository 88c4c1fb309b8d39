// Package detector compares fresh balance snapshots against the last
// recorded state and yields change events.
package detector

import (
	"github.com/shopspring/decimal"

	"github.com/steelsmol/subwatch/internal/domain"
)

// Detector decides whether a snapshot constitutes a reportable change.
//
// First-observation policy: a wallet with no recorded balance is baselined
// silently, no event is emitted. The first notification fires on the first
// change after the baseline.
type Detector struct{}

// New creates a Detector.
func New() Detector {
	return Detector{}
}

// Change returns the change event for a wallet given the previously
// persisted balances and a fresh snapshot, or nil when nothing changed
// (including the first-ever observation of the wallet).
func (Detector) Change(prev map[string]decimal.Decimal, w domain.Wallet, snap domain.Snapshot) *domain.ChangeEvent {
	last, seen := prev[w.Address]
	if !seen {
		return nil
	}

	if snap.Balance.Equal(last) {
		return nil
	}

	return &domain.ChangeEvent{
		Wallet:   w,
		Previous: last,
		Current:  snap.Balance,
		Delta:    snap.Balance.Sub(last),
	}
}

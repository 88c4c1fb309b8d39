// Package gain computes the balance gained since the end of the previous
// UTC calendar day.
package gain

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type balanceReader interface {
	BalanceAt(address string, block uint64) (decimal.Decimal, error)
}

type blockResolver interface {
	BlockForTimestamp(ctx context.Context, ts time.Time) (uint64, error)
}

// Resolver finds the reference balance by resolving 23:59:59 UTC of the
// previous day to a concrete block and reading the account state there.
// Diffing history-series entries instead breaks whenever the series
// granularity drifts from calendar days, so the block resolution path is
// the only one used.
type Resolver struct {
	balances balanceReader
	blocks   blockResolver
	nowFn    func() time.Time
}

// NewResolver creates a Resolver.
func NewResolver(balances balanceReader, blocks blockResolver) *Resolver {
	return &Resolver{
		balances: balances,
		blocks:   blocks,
		nowFn:    time.Now,
	}
}

// GainSince returns current minus the reference balance, floored at zero:
// gains are a one-directional reward metric, a net outflow reports as zero.
// On any resolution failure the gain is zero and the error is returned for
// the caller to log; the notification still goes out.
func (r *Resolver) GainSince(ctx context.Context, address string, current decimal.Decimal) (decimal.Decimal, error) {
	ref := previousDayCutoff(r.nowFn().UTC())

	block, err := r.blocks.BlockForTimestamp(ctx, ref)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "resolve block for %s", ref.Format(time.RFC3339))
	}

	refBalance, err := r.balances.BalanceAt(address, block)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "reference balance of %s at block %d", address, block)
	}

	g := current.Sub(refBalance)
	if g.IsNegative() {
		return decimal.Zero, nil
	}

	return g, nil
}

// previousDayCutoff returns 23:59:59 UTC of the day before t.
func previousDayCutoff(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(-time.Second)
}

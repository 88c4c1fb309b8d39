// Package balance observes wallet balances on chain and converts them to
// decimal units.
package balance

import (
	"math/big"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/steelsmol/subwatch/internal/domain"
)

type chainClient interface {
	TotalBalance(address string) (*big.Int, error)
	TotalBalanceAt(address string, block uint64) (*big.Int, error)
	TokenDecimals() (int32, error)
}

// Source produces balance snapshots for watched wallets. The token decimal
// exponent is fetched once at construction and cached for the process
// lifetime.
type Source struct {
	chain    chainClient
	decimals int32
	nowFn    func() time.Time
}

// NewSource creates a Source and resolves the chain's token decimals.
func NewSource(chain chainClient) (*Source, error) {
	decimals, err := chain.TokenDecimals()
	if err != nil {
		return nil, errors.Wrap(err, "fetch token decimals")
	}

	return &Source{chain: chain, decimals: decimals, nowFn: time.Now}, nil
}

// Snapshot observes the current total (free + reserved) balance of w.
func (s *Source) Snapshot(w domain.Wallet) (domain.Snapshot, error) {
	total, err := s.chain.TotalBalance(w.Address)
	if err != nil {
		return domain.Snapshot{}, errors.Wrapf(err, "query balance of %s", w.Address)
	}

	return domain.Snapshot{
		Address:    w.Address,
		Total:      total,
		Balance:    s.ToDecimal(total),
		ObservedAt: s.nowFn().UTC(),
	}, nil
}

// BalanceAt returns the wallet balance in decimal units as of block.
func (s *Source) BalanceAt(address string, block uint64) (decimal.Decimal, error) {
	total, err := s.chain.TotalBalanceAt(address, block)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "query balance of %s at block %d", address, block)
	}

	return s.ToDecimal(total), nil
}

// ToDecimal converts base units into human-readable decimal units.
func (s *Source) ToDecimal(base *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(base, -s.decimals)
}

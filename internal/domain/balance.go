package domain

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is a single observed balance for a wallet at a point in time.
// Total carries base units exactly as the chain reports them, Balance is
// the same value after token-decimal adjustment.
type Snapshot struct {
	Address    string
	Total      *big.Int
	Balance    decimal.Decimal
	ObservedAt time.Time
}

// ChangeEvent is emitted when a wallet balance differs from the last
// recorded value. Delta = Current - Previous, in decimal units.
type ChangeEvent struct {
	Wallet   Wallet
	Previous decimal.Decimal
	Current  decimal.Decimal
	Delta    decimal.Decimal
}

// String returns a human-readable string representation.
func (e *ChangeEvent) String() string {
	return fmt.Sprintf("%s balance: %s delta: %s", e.Wallet.Name, e.Current.String(), e.Delta.String())
}

// BalancePoint is one entry of a historical balance series, in base units.
type BalancePoint struct {
	Date    time.Time
	Balance *big.Int
}

// Package domain defines core data structures used throughout the monitor.
package domain

import "fmt"

// Wallet is a single watched account.
type Wallet struct {
	// Address SS58-encoded account address, unique key across the watch set.
	Address string
	// Name human-readable label shown in notifications.
	Name string
}

// String returns the string representation.
func (w *Wallet) String() string {
	return fmt.Sprintf("%s (%s)", w.Name, w.Address)
}

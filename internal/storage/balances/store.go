// Package balances persists the last known balance per wallet so restarts
// do not re-notify changes that were already observed.
package balances

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is a durable address -> last-known-balance mapping. The file format
// is a flat JSON object with decimal strings in human units, so the file is
// directly readable.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore creates a store backed by the file at path.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create state dir")
		}
	}

	return &Store{path: path, logger: logger}, nil
}

// Load reads the last known balances. A missing, empty or corrupt file
// yields an empty mapping: losing state means re-baselining every wallet,
// never failing the process.
func (s *Store) Load() map[string]decimal.Decimal {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("no existing state file, starting fresh", zap.String("path", s.path))
		} else {
			s.logger.Warn("state file unreadable, starting fresh", zap.String("path", s.path), zap.Error(err))
		}
		return map[string]decimal.Decimal{}
	}

	if len(payload) == 0 {
		return map[string]decimal.Decimal{}
	}

	var raw map[string]string
	if err := json.Unmarshal(payload, &raw); err != nil {
		s.logger.Warn("state file corrupt, starting fresh", zap.String("path", s.path), zap.Error(err))
		return map[string]decimal.Decimal{}
	}

	state := make(map[string]decimal.Decimal, len(raw))
	for addr, v := range raw {
		d, err := decimal.NewFromString(v)
		if err != nil {
			s.logger.Warn("skipping invalid balance entry",
				zap.String("address", addr),
				zap.String("value", v),
				zap.Error(err))
			continue
		}
		state[addr] = d
	}

	return state
}

// Save writes the full mapping atomically via temp file + rename, so a
// crash mid-write leaves the previous snapshot readable.
func (s *Store) Save(state map[string]decimal.Decimal) error {
	raw := make(map[string]string, len(state))
	for addr, d := range state {
		raw[addr] = d.String()
	}

	payload, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode state")
	}

	tmp := s.path + ".tmp"
	if err := writeFileSynced(tmp, payload); err != nil {
		return errors.Wrap(err, "write state temp file")
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "persist state")
	}

	return nil
}

// writeFileSynced writes data and fsyncs before closing, so the rename
// that follows never publishes a partially flushed file.
func writeFileSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

package balances

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "state", "wallet_balances.json"), zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)
	require.Empty(t, s.Load())
}

func TestLoadCorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.path, []byte("{not json"), 0o644))

	require.Empty(t, s.Load())
}

func TestLoadSkipsInvalidEntries(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.path, []byte(`{"stAAAA": "10.5", "stBBBB": "garbage"}`), 0o644))

	state := s.Load()
	require.Len(t, state, 1)
	require.True(t, state["stAAAA"].Equal(decimal.RequireFromString("10.5")))
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := newTestStore(t)
	state := map[string]decimal.Decimal{
		"stAAAA": decimal.RequireFromString("12.5"),
		"stBBBB": decimal.RequireFromString("0.000000000000000001"),
	}

	require.NoError(t, s.Save(state))

	loaded := s.Load()
	require.Len(t, loaded, 2)
	require.True(t, loaded["stAAAA"].Equal(state["stAAAA"]))
	require.True(t, loaded["stBBBB"].Equal(state["stBBBB"]))
}

func TestSaveIsAtomic(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(map[string]decimal.Decimal{"stAAAA": decimal.New(1, 0)}))

	// the temp file must not survive a completed save
	_, err := os.Stat(s.path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestSaveLoadIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(map[string]decimal.Decimal{
		"stAAAA": decimal.RequireFromString("12.50"),
		"stBBBB": decimal.RequireFromString("7"),
	}))

	first, err := os.ReadFile(s.path)
	require.NoError(t, err)

	require.NoError(t, s.Save(s.Load()))

	second, err := os.ReadFile(s.path)
	require.NoError(t, err)
	require.Equal(t, first, second, "save(load()) must reproduce the file byte for byte")
}

func TestFileIsHumanReadable(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(map[string]decimal.Decimal{"stAAAA": decimal.RequireFromString("12.5")}))

	raw, err := os.ReadFile(s.path)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"stAAAA": "12.5"`)
}

package tracker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// TradesFileName is the ledger file inside the data directory.
const TradesFileName = "trades.json"

// Store persists the whole trade ledger. Save always rewrites everything.
type Store interface {
	Load() ([]types.TradeRecord, error)
	Save(trades []types.TradeRecord) error
}

// JSONFileStore keeps the ledger as an indented JSON array in one file.
// It assumes a single writer.
type JSONFileStore struct {
	path string
}

// NewJSONFileStore creates the data directory if needed and returns a store for
// <dataDir>/trades.json.
func NewJSONFileStore(dataDir string) (*JSONFileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to create data directory %s", dataDir)
	}

	return &JSONFileStore{path: filepath.Join(dataDir, TradesFileName)}, nil
}

// Path returns the ledger file path.
func (s *JSONFileStore) Path() string {
	return s.path
}

// Load reads the ledger. A missing file is an empty ledger.
func (s *JSONFileStore) Load() ([]types.TradeRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to read %s", s.path)
	}

	var trades []types.TradeRecord
	if err := json.Unmarshal(data, &trades); err != nil {
		return nil, errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to decode %s", s.path)
	}

	return trades, nil
}

// Save writes the ledger to a temporary file and renames it over the old one.
func (s *JSONFileStore) Save(trades []types.TradeRecord) error {
	if trades == nil {
		trades = []types.TradeRecord{}
	}

	data, err := json.MarshalIndent(trades, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistenceFailed, "failed to encode trades", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to write %s", tmp)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to replace %s", s.path)
	}

	return nil
}

// MemoryStore keeps the ledger in memory. Used by backtests and tests.
type MemoryStore struct {
	mu     sync.Mutex
	trades []types.TradeRecord
	saves  int
}

// NewMemoryStore creates a store preloaded with trades.
func NewMemoryStore(trades ...types.TradeRecord) *MemoryStore {
	return &MemoryStore{trades: append([]types.TradeRecord(nil), trades...)}
}

func (s *MemoryStore) Load() ([]types.TradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]types.TradeRecord(nil), s.trades...), nil
}

func (s *MemoryStore) Save(trades []types.TradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades = append([]types.TradeRecord(nil), trades...)
	s.saves++

	return nil
}

// Saves returns how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saves
}

package repositories

import (
	"errors"
	"fmt"
	"sync"

	"github.com/alimgiray/phonebook/pkg/config"
	"github.com/alimgiray/phonebook/pkg/database"
	"github.com/alimgiray/phonebook/pkg/localstorage"
	"github.com/alimgiray/phonebook/pkg/logger"
)

// ErrUnsupportedAdapter is returned for an unknown adapter name
var ErrUnsupportedAdapter = errors.New("unsupported database adapter")

// Selector builds the configured ContactRepository on first use and hands out
// that same instance for the rest of the process.
type Selector struct {
	cfg  config.DatabaseConfig
	opts []Option

	mu   sync.Mutex
	repo ContactRepository
}

func NewSelector(cfg config.DatabaseConfig, opts ...Option) *Selector {
	return &Selector{cfg: cfg, opts: opts}
}

// Adapter returns the configured adapter name
func (s *Selector) Adapter() string {
	return s.cfg.Adapter
}

// Repository returns the shared repository, constructing it if needed.
// A failed construction is not cached; the next call tries again.
func (s *Selector) Repository() (ContactRepository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo != nil {
		return s.repo, nil
	}

	repo, err := s.build()
	if err != nil {
		return nil, err
	}

	logger.WithField("adapter", s.cfg.Adapter).Info("Contact repository initialized")
	s.repo = repo
	return repo, nil
}

func (s *Selector) build() (ContactRepository, error) {
	switch s.cfg.Adapter {
	case config.AdapterSQLite:
		db, err := database.OpenSQLite(s.cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite adapter: %w", err)
		}
		return NewSQLiteContactRepository(db, s.opts...), nil

	case config.AdapterLocalStorage:
		storage, err := localstorage.Open(s.cfg.LocalStorage.Path)
		if err != nil {
			return nil, fmt.Errorf("localstorage adapter: %w", err)
		}
		return NewLocalStorageContactRepository(storage, s.opts...), nil

	case config.AdapterMySQL:
		db, err := database.OpenMySQL(s.cfg.MySQL)
		if err != nil {
			return nil, fmt.Errorf("mysql adapter: %w", err)
		}
		return NewMySQLContactRepository(db, s.opts...), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAdapter, s.cfg.Adapter)
	}
}

// Close releases the constructed repository, if any
func (s *Selector) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo == nil {
		return nil
	}
	err := s.repo.Close()
	s.repo = nil
	return err
}

// Reset forgets the constructed repository without closing it.
// Meant for tests; callers still holding the old instance keep using it.
func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo = nil
}

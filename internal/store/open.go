// Package store selects the ledger storage backend from configuration.
package store

import (
	"context"
	"fmt"
	"log"

	"lg/energy-ledger/internal/config"
	"lg/energy-ledger/internal/ledger"
	"lg/energy-ledger/internal/store/postgres"
	"lg/energy-ledger/internal/store/sqlite"
)

// Backend is a ledger store that can also seed profiles and be closed.
type Backend interface {
	ledger.Store
	ledger.ProfileWriter
	Close() error
}

// Open connects to the backend named by cfg.DBDriver.
func Open(ctx context.Context, cfg config.Config) (Backend, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, cfg.DBURL)
		if err != nil {
			return nil, err
		}
		log.Printf("[store] postgres pool ready")
		return s, nil
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Printf("[store] sqlite database ready at %s", cfg.SQLitePath)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

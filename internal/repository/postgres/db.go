// Package postgres archives finished matches and serves match history.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PoolConfig sizes the match-archive connection pool. The archive takes one
// transactional insert per finished game and read-only history queries, so a
// server needs only a handful of connections; a bulk simulate run wants one
// per worker.
type PoolConfig struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	PingTimeout time.Duration
}

// ArchivePool is the pool used by the game server.
func ArchivePool() PoolConfig {
	return PoolConfig{MaxOpen: 8, MaxIdle: 2, MaxLifetime: 30 * time.Minute, PingTimeout: 5 * time.Second}
}

// SimulatePool sizes the pool for a batch run with the given worker count.
func SimulatePool(workers int) PoolConfig {
	pc := ArchivePool()
	pc.MaxOpen = max(workers, 1)
	pc.MaxIdle = pc.MaxOpen
	return pc
}

func (pc PoolConfig) normalized() PoolConfig {
	d := ArchivePool()
	if pc.MaxOpen <= 0 {
		pc.MaxOpen = d.MaxOpen
	}
	if pc.MaxIdle < 0 || pc.MaxIdle > pc.MaxOpen {
		pc.MaxIdle = pc.MaxOpen
	}
	if pc.MaxLifetime <= 0 {
		pc.MaxLifetime = d.MaxLifetime
	}
	if pc.PingTimeout <= 0 {
		pc.PingTimeout = d.PingTimeout
	}
	return pc
}

// Connect opens the archive pool and checks the database is reachable.
func Connect(ctx context.Context, databaseURL string, pc PoolConfig) (*sql.DB, error) {
	pc = pc.normalized()
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(pc.MaxOpen)
	db.SetMaxIdleConns(pc.MaxIdle)
	db.SetConnMaxLifetime(pc.MaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pc.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

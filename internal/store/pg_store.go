package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	apperrors "github.com/abgdnv/wingscafe/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	loadQuery   = `SELECT payload FROM collections WHERE name = $1`
	upsertQuery = `INSERT INTO collections (name, payload, updated_at) VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`
	reserveQuery = `INSERT INTO collections (name, payload) VALUES ($1, NULL) ON CONFLICT (name) DO NOTHING`
	lockQuery    = `SELECT name, payload FROM collections WHERE name = ANY($1) ORDER BY name FOR UPDATE`
)

// PgStore implements RecordStore using PostgreSQL as the data store.
// Each collection is one row of the collections table holding a JSON array.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of RecordStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// Ping checks that the database is reachable.
func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// Load returns the collection content, or nil if the collection has never been saved.
func (p *PgStore) Load(ctx context.Context, c Collection) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var payload []byte
	err := p.db.QueryRow(ctx, loadQuery, string(c)).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load collection %s: %w", c, err)
	}
	return payload, nil
}

// Save replaces the collection content.
func (p *PgStore) Save(ctx context.Context, c Collection, data []byte) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := p.db.Exec(ctx, upsertQuery, string(c), data); err != nil {
		return fmt.Errorf("failed to save collection %s: %w", c, err)
	}
	return nil
}

// Update row-locks the named collections inside a transaction, runs fn and writes its result.
func (p *PgStore) Update(ctx context.Context, cs []Collection, fn func(Snapshot) (Snapshot, error)) error {
	ordered, err := lockOrder(cs)
	if err != nil {
		return err
	}
	names := make([]string, len(ordered))
	for i, c := range ordered {
		names[i] = string(c)
	}
	// Rows are reserved and locked in the same order as the ORDER BY of lockQuery.
	slices.Sort(names)

	return p.withTransaction(ctx, func(tx pgx.Tx) error {
		// Rows must exist before they can be locked.
		for _, name := range names {
			if _, err := tx.Exec(ctx, reserveQuery, name); err != nil {
				return fmt.Errorf("failed to reserve collection %s: %w", name, err)
			}
		}
		rows, err := tx.Query(ctx, lockQuery, names)
		if err != nil {
			return fmt.Errorf("failed to lock collections: %w", err)
		}
		current := make(Snapshot, len(ordered))
		for rows.Next() {
			var name string
			var payload []byte
			if err := rows.Scan(&name, &payload); err != nil {
				rows.Close()
				return fmt.Errorf("failed to read collection: %w", err)
			}
			current[Collection(name)] = payload
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to read collections: %w", err)
		}

		out, err := fn(current)
		if err != nil {
			return err
		}
		if err := checkWrites(ordered, out); err != nil {
			return err
		}
		for c, data := range out {
			if _, err := tx.Exec(ctx, upsertQuery, string(c), data); err != nil {
				return fmt.Errorf("failed to write collection %s: %w", c, err)
			}
		}
		return nil
	})
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrTransactionBegin, err)
	}

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return apperrors.ErrTransactionRollback
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrTransactionCommit, err)
	}

	return nil
}

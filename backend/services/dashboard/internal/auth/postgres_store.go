package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const sessionsTable = "dashboard_sessions"

const createSessionsTable = `CREATE TABLE IF NOT EXISTS dashboard_sessions (
	id         TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	user_data  JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps sessions in a table so they survive restarts and are shared between
// replicas without Redis.
type PostgresStore struct {
	db     *sql.DB
	sealer *Sealer
	qb     sq.StatementBuilderType
}

// NewPostgresStore returns a store over db.
func NewPostgresStore(db *sql.DB, sealer *Sealer) *PostgresStore {
	return &PostgresStore{
		db:     db,
		sealer: sealer,
		qb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// EnsureSchema creates the sessions table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSessionsTable); err != nil {
		return fmt.Errorf("auth: create sessions table: %w", err)
	}
	return nil
}

// Save upserts rec. The expiry column carries the lifetime; ttl is ignored.
func (s *PostgresStore) Save(ctx context.Context, rec Record, _ time.Duration) error {
	sealed, err := s.sealer.Seal(rec.Token)
	if err != nil {
		return err
	}
	userData, err := json.Marshal(rec.User)
	if err != nil {
		return err
	}

	query, args, err := s.qb.Insert(sessionsTable).
		Columns("id", "token", "user_data", "created_at", "expires_at").
		Values(rec.ID, sealed, userData, rec.CreatedAt.UTC(), rec.ExpiresAt.UTC()).
		Suffix("ON CONFLICT (id) DO UPDATE SET token = EXCLUDED.token, user_data = EXCLUDED.user_data, expires_at = EXCLUDED.expires_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("auth: build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("auth: save session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Record, error) {
	query, args, err := s.qb.Select("id", "token", "user_data", "created_at", "expires_at").
		From(sessionsTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("auth: build select: %w", err)
	}

	var (
		rec      Record
		sealed   string
		userData []byte
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &sealed, &userData, &rec.CreatedAt, &rec.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("auth: load session: %w", err)
	}
	if err := json.Unmarshal(userData, &rec.User); err != nil {
		return nil, fmt.Errorf("auth: decode user: %w", err)
	}
	if rec.Token, err = s.sealer.Open(sealed); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	query, args, err := s.qb.Delete(sessionsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("auth: build delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("auth: delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions that expired before now and returns how many were removed.
func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := s.qb.Delete(sessionsTable).Where(sq.Lt{"expires_at": now.UTC()}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("auth: build sweep: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("auth: sweep sessions: %w", err)
	}
	return res.RowsAffected()
}

// Package postgres implements repository.Store on PostgreSQL through database/sql.
// Queries are parameterized and every mutation commits together with its activity entry.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"subcity/internal/model"
	"subcity/internal/repository"
)

// Store is a PostgreSQL implementation of repository.Store.
type Store struct {
	db *sql.DB
}

// New creates a Store over an open connection pool. The schema is expected to be migrated.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ repository.Store = (*Store)(nil)

type scanner interface {
	Scan(dest ...any) error
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// withTx runs fn inside a transaction, rolling back on any error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

func (s *Store) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// distinct returns the unique values of one text column in byte order.
func (s *Store) distinct(ctx context.Context, table, column string) ([]string, error) {
	q := fmt.Sprintf(`SELECT DISTINCT %[1]s COLLATE "C" AS %[1]s FROM %[2]s ORDER BY 1`, column, table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// --- activities ---

const activityColumns = `id, action, actor, timestamp`

func scanActivity(sc scanner) (*model.Activity, error) {
	var a model.Activity
	if err := sc.Scan(&a.ID, &a.Action, &a.Actor, &a.Timestamp); err != nil {
		return nil, err
	}
	return &a, nil
}

func insertActivity(ctx context.Context, ex execer, action, actor string, at time.Time) (*model.Activity, error) {
	const q = `
		INSERT INTO activities (action, actor, timestamp)
		VALUES ($1, $2, COALESCE($3, now()))
		RETURNING ` + activityColumns
	if actor == "" {
		actor = "System"
	}
	var ts any
	if !at.IsZero() {
		ts = at
	}
	a, err := scanActivity(ex.QueryRowContext(ctx, q, action, actor, ts))
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	return a, nil
}

func (s *Store) AddActivity(ctx context.Context, action, actor string, at time.Time) (*model.Activity, error) {
	return insertActivity(ctx, s.db, action, actor, at)
}

func (s *Store) RecentActivities(ctx context.Context, limit int) ([]model.Activity, error) {
	if limit <= 0 {
		limit = repository.DefaultRecentActivities
	}
	const q = `
		SELECT ` + activityColumns + `
		FROM activities
		ORDER BY timestamp DESC, id DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Activity, 0, limit)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// --- users ---

const userColumns = `id, username, password, role, created_at`

func scanUser(sc scanner) (*model.User, error) {
	var u model.User
	if err := sc.Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.db.QueryRowContext(ctx, q, username))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	const q = `
		INSERT INTO users (username, password, role)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	role := in.Role
	if role == "" {
		role = model.DefaultRole
	}
	var out *model.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		u, err := scanUser(tx.QueryRowContext(ctx, q, in.Username, in.Password, role))
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if _, err := insertActivity(ctx, tx, repository.UserCreatedMsg(u.Username), repository.ActorFrom(ctx), time.Time{}); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

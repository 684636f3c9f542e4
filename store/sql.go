package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Dialect holds the statements that differ between SQL engines. Queries use
// $N placeholders in order of appearance, which both lib/pq and
// modernc.org/sqlite accept.
type Dialect struct {
	Name   string
	Schema []string
}

var (
	Postgres = Dialect{
		Name: "postgres",
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS entity_records (
				entity TEXT NOT NULL,
				id     TEXT NOT NULL,
				body   TEXT NOT NULL,
				PRIMARY KEY (entity, id)
			)`,
			`CREATE TABLE IF NOT EXISTS entity_index (
				seq        BIGSERIAL PRIMARY KEY,
				index_name TEXT NOT NULL,
				id         TEXT NOT NULL,
				UNIQUE (index_name, id)
			)`,
		},
	}
	SQLite = Dialect{
		Name: "sqlite",
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS entity_records (
				entity TEXT NOT NULL,
				id     TEXT NOT NULL,
				body   TEXT NOT NULL,
				PRIMARY KEY (entity, id)
			)`,
			`CREATE TABLE IF NOT EXISTS entity_index (
				seq        INTEGER PRIMARY KEY AUTOINCREMENT,
				index_name TEXT NOT NULL,
				id         TEXT NOT NULL,
				UNIQUE (index_name, id)
			)`,
		},
	}
)

// SQLBackend stores all entity types in one records table keyed by
// (entity, id) and all indexes in one table ordered by an increasing seq.
type SQLBackend struct {
	DB      *sql.DB
	dialect Dialect
}

func NewSQLBackend(db *sql.DB, dialect Dialect) *SQLBackend {
	return &SQLBackend{DB: db, dialect: dialect}
}

// EnsureSchema creates the tables when missing. There are no migrations.
func (s *SQLBackend) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.Schema {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s schema: %w", s.dialect.Name, err)
		}
	}
	return nil
}

func (s *SQLBackend) Exists(ctx context.Context, entity, id string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM entity_records WHERE entity = $1 AND id = $2)`,
		entity, id).Scan(&exists)
	return exists, err
}

func (s *SQLBackend) Insert(ctx context.Context, entity, id string, value []byte) error {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO entity_records (entity, id, body) VALUES ($1, $2, $3) ON CONFLICT (entity, id) DO NOTHING`,
		entity, id, string(value))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

func (s *SQLBackend) Get(ctx context.Context, entity, id string) ([]byte, error) {
	var body string
	err := s.DB.QueryRowContext(ctx,
		`SELECT body FROM entity_records WHERE entity = $1 AND id = $2`,
		entity, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

func (s *SQLBackend) Update(ctx context.Context, entity, id string, value []byte) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE entity_records SET body = $1 WHERE entity = $2 AND id = $3`,
		string(value), entity, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLBackend) Remove(ctx context.Context, entity, id string) (bool, error) {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM entity_records WHERE entity = $1 AND id = $2`,
		entity, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLBackend) IndexAppend(ctx context.Context, index, id string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO entity_index (index_name, id) VALUES ($1, $2) ON CONFLICT (index_name, id) DO NOTHING`,
		index, id)
	return err
}

func (s *SQLBackend) IndexRemove(ctx context.Context, index, id string) error {
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM entity_index WHERE index_name = $1 AND id = $2`,
		index, id)
	return err
}

func (s *SQLBackend) IndexList(ctx context.Context, index string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id FROM entity_index WHERE index_name = $1 ORDER BY seq ASC`,
		index)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLBackend) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// Package entries provides PostgreSQL-backed repositories for journal entries.
// Every mutating statement is scoped by owner, so a row belonging to another
// user is never touched even if a caller skips the service-level check.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// invalidTextRepresentation is what Postgres answers when an id is not a
// valid uuid. Such an id names no row.
const invalidTextRepresentation = "22P02"

func isMalformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new entry row.
func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (id, user_id, title, content, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Title, entry.Content, string(entry.Category), entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByID returns the entry with the given id regardless of owner, or
// common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	query := `
		SELECT id, user_id, title, content, category, created_at, updated_at FROM entries
		WHERE id = $1
	`
	var item models.Entry
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.UserID, &item.Title, &item.Content, &item.Category, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &item, nil
}

// ListByUser returns userID's entries newest first, optionally narrowed by
// category.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, filter models.EntryFilter) ([]*models.Entry, error) {
	query := `
		SELECT id, user_id, title, content, category, created_at, updated_at FROM entries
		WHERE user_id = $1 AND ($2 = '' OR category = $2)
		ORDER BY created_at DESC, id
	`
	rows, err := r.db.QueryContext(ctx, query, userID, string(filter.Category))
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Entry, 0)
	for rows.Next() {
		var item models.Entry
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.Content, &item.Category, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites title, content, category and updated_at of an entry owned
// by entry.UserID. Zero rows affected yields common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, entry *models.Entry) error {
	query := `
		UPDATE entries SET title = $3, content = $4, category = $5, updated_at = $6
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Title, entry.Content, string(entry.Category), entry.UpdatedAt)
	if err != nil {
		if isMalformedID(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

// Delete removes an entry owned by userID. Zero rows affected yields
// common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM entries WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		if isMalformedID(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

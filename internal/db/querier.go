package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Querier is the query surface consumed by the services.
type Querier interface {
	CreateItem(ctx context.Context, arg CreateItemParams) (Item, error)
	GetItemByID(ctx context.Context, id string) (Item, error)
	ListItemsByStatus(ctx context.Context, status string) ([]Item, error)
	ListAllItems(ctx context.Context) ([]Item, error)
	UpdateItemStatus(ctx context.Context, arg UpdateItemStatusParams) (Item, error)
	DeleteItem(ctx context.Context, id string) error
	CountItemsByStatus(ctx context.Context, status string) (int64, error)
	SearchItemsByTitle(ctx context.Context, title string) ([]Item, error)
	MaxItemPosition(ctx context.Context) (int64, error)
}

// New returns a Querier backed by the given connection or transaction.
func New(db DBTX) Querier {
	return &Queries{db: db}
}

// Queries implements Querier with hand-written SQL.
type Queries struct {
	db DBTX
}

type CreateItemParams struct {
	ID       string
	Title    string
	Body     string
	Source   string
	Score    float64
	Status   string
	Position int64
}

const createItem = `
INSERT INTO items (id, title, body, source, score, status, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, strftime('%s','now'), strftime('%s','now'))
RETURNING id, title, body, source, score, status, reason_code, position, created_at, updated_at
`

func (q *Queries) CreateItem(ctx context.Context, arg CreateItemParams) (Item, error) {
	row := q.db.QueryRowContext(ctx, createItem,
		arg.ID, arg.Title, arg.Body, arg.Source, arg.Score, arg.Status, arg.Position)
	return scanItem(row)
}

const getItemByID = `
SELECT id, title, body, source, score, status, reason_code, position, created_at, updated_at
FROM items WHERE id = ?
`

func (q *Queries) GetItemByID(ctx context.Context, id string) (Item, error) {
	return scanItem(q.db.QueryRowContext(ctx, getItemByID, id))
}

const listItemsByStatus = `
SELECT id, title, body, source, score, status, reason_code, position, created_at, updated_at
FROM items WHERE status = ? ORDER BY position ASC, created_at ASC
`

func (q *Queries) ListItemsByStatus(ctx context.Context, status string) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, listItemsByStatus, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

const listAllItems = `
SELECT id, title, body, source, score, status, reason_code, position, created_at, updated_at
FROM items ORDER BY position ASC, created_at ASC
`

func (q *Queries) ListAllItems(ctx context.Context) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, listAllItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

type UpdateItemStatusParams struct {
	ID         string
	Status     string
	ReasonCode sql.NullString
}

const updateItemStatus = `
UPDATE items
SET status = ?, reason_code = ?, updated_at = strftime('%s','now')
WHERE id = ?
RETURNING id, title, body, source, score, status, reason_code, position, created_at, updated_at
`

func (q *Queries) UpdateItemStatus(ctx context.Context, arg UpdateItemStatusParams) (Item, error) {
	row := q.db.QueryRowContext(ctx, updateItemStatus, arg.Status, arg.ReasonCode, arg.ID)
	return scanItem(row)
}

const deleteItem = `DELETE FROM items WHERE id = ?`

func (q *Queries) DeleteItem(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteItem, id)
	return err
}

const countItemsByStatus = `SELECT COUNT(*) FROM items WHERE status = ?`

func (q *Queries) CountItemsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countItemsByStatus, status).Scan(&n)
	return n, err
}

const searchItemsByTitle = `
SELECT id, title, body, source, score, status, reason_code, position, created_at, updated_at
FROM items WHERE title LIKE ? ORDER BY position ASC, created_at ASC
`

func (q *Queries) SearchItemsByTitle(ctx context.Context, title string) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, searchItemsByTitle, title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

const maxItemPosition = `SELECT COALESCE(MAX(position), 0) FROM items`

func (q *Queries) MaxItemPosition(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, maxItemPosition).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var i Item
	err := row.Scan(
		&i.ID, &i.Title, &i.Body, &i.Source, &i.Score,
		&i.Status, &i.ReasonCode, &i.Position, &i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

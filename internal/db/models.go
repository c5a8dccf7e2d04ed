package db

import "database/sql"

// Item is the database representation of a review item.
type Item struct {
	ID         string
	Title      string
	Body       string
	Source     string
	Score      float64
	Status     string
	ReasonCode sql.NullString
	Position   int64
	CreatedAt  int64
	UpdatedAt  int64
}

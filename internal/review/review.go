// Package review holds the triage domain: the items under review and the
// service that moves them through the queue.
package review

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/sift-sh/sift/internal/db"
	"github.com/sift-sh/sift/internal/pubsub"
)

// Status is the triage state of an item.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusDismissed Status = "dismissed"
	StatusDeferred Status = "deferred"
)

// Item is a single unit of work in the review queue.
type Item struct {
	ID         string
	Title      string
	Body       string
	Source     string
	Score      float64
	Status     Status
	ReasonCode string
	Position   int64
	CreatedAt  int64
	UpdatedAt  int64
}

// CreateItemParams carries the caller-supplied fields for a new item.
type CreateItemParams struct {
	Title  string
	Body   string
	Source string
	Score  float64
}

// Service is the review queue's persistence and event surface.
type Service interface {
	pubsub.Subscriber[Item]
	Create(ctx context.Context, params CreateItemParams) (Item, error)
	Get(ctx context.Context, id string) (Item, error)
	ListPending(ctx context.Context) ([]Item, error)
	ListAll(ctx context.Context) ([]Item, error)
	SetStatus(ctx context.Context, id string, status Status, reasonCode string) (Item, error)
	Restore(ctx context.Context, id string) (Item, error)
	Delete(ctx context.Context, id string) error
	SearchByTitle(ctx context.Context, titlePattern string) ([]Item, error)
	CountPending(ctx context.Context) (int64, error)
}

type service struct {
	*pubsub.Broker[Item]
	q db.Querier
}

// NewService returns a Service backed by the given querier.
func NewService(q db.Querier) Service {
	return &service{
		Broker: pubsub.NewBroker[Item](),
		q:      q,
	}
}

func (s *service) Create(ctx context.Context, params CreateItemParams) (Item, error) {
	pos, err := s.q.MaxItemPosition(ctx)
	if err != nil {
		return Item{}, fmt.Errorf("failed to allocate position: %w", err)
	}
	dbItem, err := s.q.CreateItem(ctx, db.CreateItemParams{
		ID:       uuid.New().String(),
		Title:    params.Title,
		Body:     params.Body,
		Source:   params.Source,
		Score:    params.Score,
		Status:   string(StatusPending),
		Position: pos + 1,
	})
	if err != nil {
		return Item{}, err
	}
	item := fromDBItem(dbItem)
	s.Publish(pubsub.CreatedEvent, item)
	return item, nil
}

func (s *service) Get(ctx context.Context, id string) (Item, error) {
	dbItem, err := s.q.GetItemByID(ctx, id)
	if err != nil {
		return Item{}, err
	}
	return fromDBItem(dbItem), nil
}

func (s *service) ListPending(ctx context.Context) ([]Item, error) {
	dbItems, err := s.q.ListItemsByStatus(ctx, string(StatusPending))
	if err != nil {
		return nil, err
	}
	return fromDBItems(dbItems), nil
}

func (s *service) ListAll(ctx context.Context) ([]Item, error) {
	dbItems, err := s.q.ListAllItems(ctx)
	if err != nil {
		return nil, err
	}
	return fromDBItems(dbItems), nil
}

// SetStatus moves an item out of (or back into) the pending queue. The
// previous state is not recorded here; callers that need undo keep the
// returned item themselves.
func (s *service) SetStatus(ctx context.Context, id string, status Status, reasonCode string) (Item, error) {
	dbItem, err := s.q.UpdateItemStatus(ctx, db.UpdateItemStatusParams{
		ID:     id,
		Status: string(status),
		ReasonCode: sql.NullString{
			String: reasonCode,
			Valid:  reasonCode != "",
		},
	})
	if err != nil {
		return Item{}, err
	}
	item := fromDBItem(dbItem)
	s.Publish(pubsub.UpdatedEvent, item)
	return item, nil
}

// Restore puts an item back into the pending queue, clearing any reason
// code. Used when an action is undone.
func (s *service) Restore(ctx context.Context, id string) (Item, error) {
	return s.SetStatus(ctx, id, StatusPending, "")
}

func (s *service) Delete(ctx context.Context, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.q.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.Publish(pubsub.DeletedEvent, item)
	return nil
}

func (s *service) SearchByTitle(ctx context.Context, titlePattern string) ([]Item, error) {
	dbItems, err := s.q.SearchItemsByTitle(ctx, "%"+titlePattern+"%")
	if err != nil {
		return nil, err
	}
	return fromDBItems(dbItems), nil
}

func (s *service) CountPending(ctx context.Context) (int64, error) {
	return s.q.CountItemsByStatus(ctx, string(StatusPending))
}

func fromDBItem(item db.Item) Item {
	return Item{
		ID:         item.ID,
		Title:      item.Title,
		Body:       item.Body,
		Source:     item.Source,
		Score:      item.Score,
		Status:     Status(item.Status),
		ReasonCode: item.ReasonCode.String,
		Position:   item.Position,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func fromDBItems(items []db.Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = fromDBItem(item)
	}
	return out
}

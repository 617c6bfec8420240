package eventtype

import (
	"context"
)

// Repository defines the interface for event type persistence operations
type Repository interface {
	Create(ctx context.Context, node *EventTypeNode) error
	Get(ctx context.Context, id string) (*EventTypeNode, error)
	GetBySlug(ctx context.Context, slug string) (*EventTypeNode, error)
	ListAll(ctx context.Context) ([]*EventTypeNode, error)
}

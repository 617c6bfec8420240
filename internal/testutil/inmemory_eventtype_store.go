package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/tixera/tixera/internal/domain/eventtype"
	ierr "github.com/tixera/tixera/internal/errors"
	"github.com/tixera/tixera/internal/types"
)

type InMemoryEventTypeStore struct {
	mu    sync.RWMutex
	nodes map[string]*eventtype.EventTypeNode
}

func NewInMemoryEventTypeStore() *InMemoryEventTypeStore {
	return &InMemoryEventTypeStore{
		nodes: make(map[string]*eventtype.EventTypeNode),
	}
}

func (s *InMemoryEventTypeStore) Create(ctx context.Context, node *eventtype.EventTypeNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if node.ID == "" {
		return ierr.NewError("event type ID cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if _, exists := s.nodes[node.ID]; exists {
		return ierr.NewError("event type already exists").
			WithReportableDetails(map[string]any{"event_type_id": node.ID}).
			Mark(ierr.ErrAlreadyExists)
	}

	s.nodes[node.ID] = node
	return nil
}

func (s *InMemoryEventTypeStore) Get(ctx context.Context, id string) (*eventtype.EventTypeNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, exists := s.nodes[id]
	if !exists || node.Status == types.StatusDeleted || node.TenantID != types.GetTenantID(ctx) {
		return nil, ierr.NewError("event type not found").
			WithHint("The requested event type does not exist").
			WithReportableDetails(map[string]any{"event_type_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return node, nil
}

func (s *InMemoryEventTypeStore) GetBySlug(ctx context.Context, slug string) (*eventtype.EventTypeNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, node := range s.nodes {
		if node.Slug == slug && node.Status != types.StatusDeleted && node.TenantID == types.GetTenantID(ctx) {
			return node, nil
		}
	}
	return nil, ierr.NewError("event type not found").
		WithHint("The requested event type does not exist").
		WithReportableDetails(map[string]any{"slug": slug}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryEventTypeStore) ListAll(ctx context.Context) ([]*eventtype.EventTypeNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*eventtype.EventTypeNode, 0, len(s.nodes))
	for _, node := range s.nodes {
		if node.Status != types.StatusPublished || node.TenantID != types.GetTenantID(ctx) {
			continue
		}
		nodes = append(nodes, node)
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes, nil
}

func (s *InMemoryEventTypeStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = make(map[string]*eventtype.EventTypeNode)
}

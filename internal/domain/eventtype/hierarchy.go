package eventtype

import (
	ierr "github.com/tixera/tixera/internal/errors"
)

// Hierarchy is a precomputed ancestor chain index over the event type tree.
// Building it once per catalog snapshot avoids repeated tree walks during
// rule selection.
type Hierarchy struct {
	chains map[string][]string
}

// NewHierarchy builds the ancestor chain index from the full node set.
// It fails if a node references an unknown parent or the parent links
// form a cycle, both of which are catalog integrity errors.
func NewHierarchy(nodes []*EventTypeNode) (*Hierarchy, error) {
	byID := make(map[string]*EventTypeNode, len(nodes))
	for _, node := range nodes {
		if node == nil || node.ID == "" {
			return nil, ierr.NewError("event type node without id").
				WithHint("Event type catalog contains an invalid node").
				Mark(ierr.ErrCatalogIntegrity)
		}
		if _, ok := byID[node.ID]; ok {
			return nil, ierr.NewErrorf("duplicate event type id %s", node.ID).
				WithHint("Event type catalog contains duplicate ids").
				Mark(ierr.ErrCatalogIntegrity)
		}
		byID[node.ID] = node
	}

	chains := make(map[string][]string, len(nodes))
	for _, node := range nodes {
		chain := make([]string, 0, 4)
		seen := make(map[string]struct{}, 4)

		current := node
		for {
			if _, ok := seen[current.ID]; ok {
				return nil, ierr.NewErrorf("cycle detected in event type tree at %s", current.ID).
					WithHint("Event type parent links must form a tree").
					Mark(ierr.ErrCatalogIntegrity)
			}
			seen[current.ID] = struct{}{}
			chain = append(chain, current.ID)

			if current.ParentID == nil {
				break
			}

			parent, ok := byID[*current.ParentID]
			if !ok {
				return nil, ierr.NewErrorf("event type %s references unknown parent %s", current.ID, *current.ParentID).
					WithHint("Event type parent links must reference existing nodes").
					Mark(ierr.ErrCatalogIntegrity)
			}
			current = parent
		}

		chains[node.ID] = chain
	}

	return &Hierarchy{chains: chains}, nil
}

// AncestorChainOf returns the ids of the given event type and all of its
// ancestors, self first, root last. The returned slice must not be mutated.
func (h *Hierarchy) AncestorChainOf(eventTypeID string) ([]string, error) {
	chain, ok := h.chains[eventTypeID]
	if !ok {
		return nil, ierr.NewErrorf("event type %s not found", eventTypeID).
			WithHint("The event type is not present in the catalog").
			WithReportableDetails(map[string]any{
				"event_type_id": eventTypeID,
			}).
			Mark(ierr.ErrUnknownEventType)
	}
	return chain, nil
}

// Contains reports whether the catalog knows the given event type id
func (h *Hierarchy) Contains(eventTypeID string) bool {
	_, ok := h.chains[eventTypeID]
	return ok
}

// Matches reports whether a rule targeting targetEventTypeID applies to an
// event of type eventTypeID. A nil target matches every event type; a non
// nil target matches when it is the event's type or a strict ancestor of it.
func (h *Hierarchy) Matches(targetEventTypeID *string, eventTypeID string) (bool, error) {
	chain, err := h.AncestorChainOf(eventTypeID)
	if err != nil {
		return false, err
	}

	if targetEventTypeID == nil {
		return true, nil
	}

	for _, id := range chain {
		if id == *targetEventTypeID {
			return true, nil
		}
	}
	return false, nil
}

package postgres

import (
	"context"

	"github.com/tixera/tixera/internal/domain/eventtype"
	ierr "github.com/tixera/tixera/internal/errors"
	"github.com/tixera/tixera/internal/logger"
	"github.com/tixera/tixera/internal/postgres"
	"github.com/tixera/tixera/internal/types"
)

type eventTypeRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewEventTypeRepository(db *postgres.DB, logger *logger.Logger) eventtype.Repository {
	return &eventTypeRepository{db: db, logger: logger}
}

func (r *eventTypeRepository) Create(ctx context.Context, node *eventtype.EventTypeNode) error {
	query := `
		INSERT INTO event_types (
			id, tenant_id, slug, name, parent_id,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :slug, :name, :parent_id,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating event type",
		"event_type_id", node.ID,
		"slug", node.Slug,
	)

	if _, err := r.db.NamedExecContext(ctx, query, node); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create event type").
			WithReportableDetails(map[string]any{
				"event_type_id": node.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *eventTypeRepository) Get(ctx context.Context, id string) (*eventtype.EventTypeNode, error) {
	return r.getBy(ctx, "id", id)
}

func (r *eventTypeRepository) GetBySlug(ctx context.Context, slug string) (*eventtype.EventTypeNode, error) {
	return r.getBy(ctx, "slug", slug)
}

func (r *eventTypeRepository) getBy(ctx context.Context, column, value string) (*eventtype.EventTypeNode, error) {
	var node eventtype.EventTypeNode
	query := `
		SELECT * FROM event_types
		WHERE ` + column + ` = :value
		AND tenant_id = :tenant_id
		AND status = :published`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"value":     value,
		"tenant_id": types.GetTenantID(ctx),
		"published": types.StatusPublished,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get event type").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewErrorf("event type %s not found", value).
			WithHintf("Event type %s was not found", value).
			Mark(ierr.ErrNotFound)
	}

	if err := rows.StructScan(&node); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan event type").
			Mark(ierr.ErrDatabase)
	}
	return &node, nil
}

func (r *eventTypeRepository) ListAll(ctx context.Context) ([]*eventtype.EventTypeNode, error) {
	query := `
		SELECT * FROM event_types
		WHERE tenant_id = :tenant_id
		AND status = :published
		ORDER BY id ASC`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"tenant_id": types.GetTenantID(ctx),
		"published": types.StatusPublished,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list event types").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var nodes []*eventtype.EventTypeNode
	for rows.Next() {
		var node eventtype.EventTypeNode
		if err := rows.StructScan(&node); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan event type").
				Mark(ierr.ErrDatabase)
		}
		nodes = append(nodes, &node)
	}
	return nodes, nil
}

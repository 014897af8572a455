package database

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var activityColumns = []string{
	"id", "lead_id", "type", "notes", "metadata", "owner_id", "is_system_event", "created_at",
}

type ActivityRepository struct {
	DB Querier
}

func NewActivityRepository(db Querier) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

// Create is idempotent on the activity id so follow-up replays don't
// duplicate timeline entries.
func (r *ActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	metadata := a.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	query, args, err := psql.Insert("activities").
		Columns(activityColumns...).
		Values(a.ID, a.LeadID, a.Type, a.Notes, metadata, a.OwnerID, a.IsSystemEvent, a.CreatedAt).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return err
	}

	_, err = querierFromCtx(ctx, r.DB).Exec(ctx, query, args...)
	return mapError(err, "activity", a.ID)
}

func (r *ActivityRepository) ListByLead(ctx context.Context, leadID string, limit int) ([]*entity.Activity, error) {
	query, args, err := psql.Select(activityColumns...).
		From("activities").
		Where(squirrel.Eq{"lead_id": leadID}).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := querierFromCtx(ctx, r.DB).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "activities", leadID)
	}
	defer rows.Close()

	activities := []*entity.Activity{}
	for rows.Next() {
		var a entity.Activity
		err := rows.Scan(
			&a.ID,
			&a.LeadID,
			&a.Type,
			&a.Notes,
			&a.Metadata,
			&a.OwnerID,
			&a.IsSystemEvent,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, mapError(err, "activities", leadID)
		}
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}

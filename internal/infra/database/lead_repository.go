package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var leadColumns = []string{
	"id", "company_name", "industry", "status", "lead_source", "priority",
	"potential_mrr", "subscription_package", "lead_owner_id", "created_at", "updated_at",
}

type LeadRepository struct {
	DB Querier
}

func NewLeadRepository(db Querier) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query, args, err := psql.Select(leadColumns...).
		From("leads").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	lead, err := scanLead(querierFromCtx(ctx, r.DB).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "lead", id)
	}
	return lead, nil
}

// MarkWon sets status Won. Running it on a lead that is already Won only
// refreshes updated_at.
func (r *LeadRepository) MarkWon(ctx context.Context, id string, at time.Time) error {
	query, args, err := psql.Update("leads").
		Set("status", entity.LeadStatusWon).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := querierFromCtx(ctx, r.DB).Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "lead", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lead %s: %w", id, entity.ErrNotFound)
	}
	return nil
}

// MarkConvertedWon sets Won on every lead that already has a client but
// missed the status update, returning the ids it touched.
func (r *LeadRepository) MarkConvertedWon(ctx context.Context, at time.Time) ([]string, error) {
	const query = `UPDATE leads l SET status = $1, updated_at = $2
		FROM clients c
		WHERE c.original_lead_id = l.id AND l.status <> $1
		RETURNING l.id`

	rows, err := querierFromCtx(ctx, r.DB).Query(ctx, query, entity.LeadStatusWon, at)
	if err != nil {
		return nil, mapError(err, "leads", "reconcile")
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	q := psql.Select(leadColumns...).From("leads").OrderBy("created_at DESC", "id")
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Source != "" {
		q = q.Where(squirrel.Eq{"lead_source": filter.Source})
	}
	if filter.OwnerID != "" {
		q = q.Where(squirrel.Eq{"lead_owner_id": filter.OwnerID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := querierFromCtx(ctx, r.DB).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "leads", "list")
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, mapError(err, "leads", "list")
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(
		&l.ID,
		&l.CompanyName,
		&l.Industry,
		&l.Status,
		&l.LeadSource,
		&l.Priority,
		&l.PotentialMRR,
		&l.SubscriptionPackage,
		&l.LeadOwnerID,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

package database

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var templateItemColumns = []string{
	"id", "template_id", "title", "description", "due_days", "priority",
	"category", "estimated_hours", "order_index",
}

type TemplateRepository struct {
	DB Querier
}

func NewTemplateRepository(db Querier) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

// FindByID loads the template and its items in storage order. Inactive
// templates are returned too; callers decide what inactive means.
func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*entity.Template, error) {
	query, args, err := psql.Select("id", "name", "is_active").
		From("task_templates").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var t entity.Template
	err = querierFromCtx(ctx, r.DB).QueryRow(ctx, query, args...).Scan(&t.ID, &t.Name, &t.IsActive)
	if err != nil {
		return nil, mapError(err, "template", id)
	}

	items, err := r.items(ctx, []string{t.ID})
	if err != nil {
		return nil, err
	}
	t.Items = items[t.ID]
	return &t, nil
}

func (r *TemplateRepository) ListActive(ctx context.Context) ([]*entity.Template, error) {
	query, args, err := psql.Select("id", "name", "is_active").
		From("task_templates").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := querierFromCtx(ctx, r.DB).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "templates", "list")
	}
	defer rows.Close()

	templates := []*entity.Template{}
	var ids []string
	for rows.Next() {
		var t entity.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.IsActive); err != nil {
			return nil, mapError(err, "templates", "list")
		}
		templates = append(templates, &t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return templates, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		t.Items = items[t.ID]
	}
	return templates, nil
}

func (r *TemplateRepository) items(ctx context.Context, templateIDs []string) (map[string][]entity.TemplateItem, error) {
	query, args, err := psql.Select(templateItemColumns...).
		From("template_items").
		Where(squirrel.Eq{"template_id": templateIDs}).
		OrderBy("template_id", "seq").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := querierFromCtx(ctx, r.DB).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "template_items", templateIDs[0])
	}
	defer rows.Close()

	out := make(map[string][]entity.TemplateItem, len(templateIDs))
	for rows.Next() {
		var it entity.TemplateItem
		err := rows.Scan(
			&it.ID,
			&it.TemplateID,
			&it.Title,
			&it.Description,
			&it.DueDays,
			&it.Priority,
			&it.Category,
			&it.EstimatedHours,
			&it.OrderIndex,
		)
		if err != nil {
			return nil, mapError(err, "template_items", templateIDs[0])
		}
		out[it.TemplateID] = append(out[it.TemplateID], it)
	}
	return out, rows.Err()
}

func (r *TemplateRepository) IsApplied(ctx context.Context, clientID, templateID string) (bool, error) {
	query, args, err := psql.Select("1").
		From("applied_templates").
		Where(squirrel.Eq{"client_id": clientID, "template_id": templateID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}

	var applied bool
	if err := querierFromCtx(ctx, r.DB).QueryRow(ctx, query, args...).Scan(&applied); err != nil {
		return false, mapError(err, "applied_template", clientID)
	}
	return applied, nil
}

// MarkApplied records the (client, template) pair. Meant to run in the same
// transaction as the task batch; the primary key rejects a second application.
func (r *TemplateRepository) MarkApplied(ctx context.Context, clientID, templateID string, at time.Time) error {
	query, args, err := psql.Insert("applied_templates").
		Columns("client_id", "template_id", "applied_at").
		Values(clientID, templateID, at).
		ToSql()
	if err != nil {
		return err
	}

	_, err = querierFromCtx(ctx, r.DB).Exec(ctx, query, args...)
	return mapError(err, "applied_template", clientID+"/"+templateID)
}

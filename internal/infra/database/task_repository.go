package database

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var taskColumns = []string{
	"id", "task_id", "title", "description", "status", "priority", "category",
	"due_date", "estimated_hours", "assignee_id", "assignee", "lead_id", "notes",
	"created_by", "created_at", "updated_at",
}

type TaskRepository struct {
	DB Querier
}

func NewTaskRepository(db Querier) *TaskRepository {
	return &TaskRepository{DB: db}
}

// CreateBatch inserts all tasks with one multi-row INSERT, so either every
// row lands or none does.
func (r *TaskRepository) CreateBatch(ctx context.Context, tasks []*entity.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	insert := psql.Insert("tasks").Columns(taskColumns...)
	for _, t := range tasks {
		insert = insert.Values(
			t.ID,
			t.TaskID,
			t.Title,
			t.Description,
			t.Status,
			t.Priority,
			t.Category,
			t.DueDate,
			t.EstimatedHours,
			t.AssigneeID,
			t.Assignee,
			t.LeadID,
			t.Notes,
			t.CreatedBy,
			t.CreatedAt,
			t.UpdatedAt,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return err
	}

	_, err = querierFromCtx(ctx, r.DB).Exec(ctx, query, args...)
	return mapError(err, "tasks", tasks[0].LeadID)
}

// ExistsWithNotesMarker reports whether any task owned by leadID carries
// marker in its notes. strpos avoids LIKE wildcards in template names.
func (r *TaskRepository) ExistsWithNotesMarker(ctx context.Context, leadID, marker string) (bool, error) {
	query, args, err := psql.Select("1").
		From("tasks").
		Where(squirrel.Eq{"lead_id": leadID}).
		Where("strpos(notes, ?) > 0", marker).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	if err := querierFromCtx(ctx, r.DB).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, mapError(err, "tasks", leadID)
	}
	return exists, nil
}

func (r *TaskRepository) UpdateAssigneeName(ctx context.Context, taskIDs []string, name string) error {
	if len(taskIDs) == 0 {
		return nil
	}

	query, args, err := psql.Update("tasks").
		Set("assignee", name).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": taskIDs}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = querierFromCtx(ctx, r.DB).Exec(ctx, query, args...)
	return mapError(err, "tasks", taskIDs[0])
}

func (r *TaskRepository) List(ctx context.Context, filter entity.TaskFilter) ([]*entity.Task, error) {
	q := psql.Select(taskColumns...).From("tasks").OrderBy("due_date ASC NULLS LAST", "created_at")
	if filter.LeadID != "" {
		q = q.Where(squirrel.Eq{"lead_id": filter.LeadID})
	}
	if filter.AssigneeID != "" {
		q = q.Where(squirrel.Eq{"assignee_id": filter.AssigneeID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := querierFromCtx(ctx, r.DB).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "tasks", "list")
	}
	defer rows.Close()

	tasks := []*entity.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, mapError(err, "tasks", "list")
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	err := row.Scan(
		&t.ID,
		&t.TaskID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.Category,
		&t.DueDate,
		&t.EstimatedHours,
		&t.AssigneeID,
		&t.Assignee,
		&t.LeadID,
		&t.Notes,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

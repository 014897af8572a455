package database

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var clientColumns = []string{
	"id", "company_name", "account_manager_id", "business_id_number", "original_lead_id",
	"client_status", "subscription_package", "monthly_value", "contract_start_date",
	"contract_end_date", "onboarding_completed", "created_at", "updated_at",
}

type ClientRepository struct {
	DB Querier
}

func NewClientRepository(db Querier) *ClientRepository {
	return &ClientRepository{DB: db}
}

// Create inserts the client. A second client for the same lead violates
// clients_original_lead_id_key and comes back as entity.ErrAlreadyExists.
func (r *ClientRepository) Create(ctx context.Context, c *entity.Client) error {
	query, args, err := psql.Insert("clients").
		Columns(clientColumns...).
		Values(
			c.ID,
			c.CompanyName,
			c.AccountManagerID,
			c.BusinessIDNumber,
			c.OriginalLeadID,
			c.ClientStatus,
			c.SubscriptionPackage,
			c.MonthlyValue,
			c.ContractStartDate,
			c.ContractEndDate,
			c.OnboardingCompleted,
			c.CreatedAt,
			c.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return err
	}

	_, err = querierFromCtx(ctx, r.DB).Exec(ctx, query, args...)
	return mapError(err, "client", c.ID)
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id}, id)
}

func (r *ClientRepository) FindByOriginalLeadID(ctx context.Context, leadID string) (*entity.Client, error) {
	return r.findOne(ctx, squirrel.Eq{"original_lead_id": leadID}, "lead:"+leadID)
}

func (r *ClientRepository) findOne(ctx context.Context, where squirrel.Eq, ref string) (*entity.Client, error) {
	query, args, err := psql.Select(clientColumns...).
		From("clients").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanClient(querierFromCtx(ctx, r.DB).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "client", ref)
	}
	return c, nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(
		&c.ID,
		&c.CompanyName,
		&c.AccountManagerID,
		&c.BusinessIDNumber,
		&c.OriginalLeadID,
		&c.ClientStatus,
		&c.SubscriptionPackage,
		&c.MonthlyValue,
		&c.ContractStartDate,
		&c.ContractEndDate,
		&c.OnboardingCompleted,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

package repositories

import (
	"context"
	"fmt"

	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/pkg/database"

	"github.com/google/uuid"
)

type DealRepository interface {
	Create(ctx context.Context, deal *models.Deal) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Deal, error)
	List(ctx context.Context, scope models.Scope, limit, offset int) ([]*models.Deal, error)
}

type dealRepo struct {
	db database.Querier
}

func NewDealRepo(db database.Querier) DealRepository {
	return &dealRepo{db: db}
}

const dealColumns = `id, tenant_id, owner_id, customer_id, title, stage, value, created_at, updated_at`

func (r *dealRepo) Create(ctx context.Context, deal *models.Deal) error {
	query := `
		INSERT INTO deals (id, tenant_id, owner_id, customer_id, title, stage, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, deal.ID, deal.TenantID, deal.OwnerID, deal.CustomerID,
		deal.Title, deal.Stage, deal.Value)
	if err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}
	return nil
}

func (r *dealRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Deal, error) {
	deal := &models.Deal{}
	query := `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&deal.ID, &deal.TenantID, &deal.OwnerID,
		&deal.CustomerID, &deal.Title, &deal.Stage, &deal.Value, &deal.CreatedAt, &deal.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return deal, nil
}

func (r *dealRepo) List(ctx context.Context, scope models.Scope, limit, offset int) ([]*models.Deal, error) {
	query := `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE tenant_id = $1
	`
	args := []interface{}{scope.TenantID}
	if scope.OwnerID != nil {
		query += ` AND owner_id = $2`
		args = append(args, *scope.OwnerID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []*models.Deal
	for rows.Next() {
		deal := &models.Deal{}
		if err := rows.Scan(&deal.ID, &deal.TenantID, &deal.OwnerID, &deal.CustomerID,
			&deal.Title, &deal.Stage, &deal.Value, &deal.CreatedAt, &deal.UpdatedAt); err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	return deals, rows.Err()
}

package repositories

import (
	"context"
	"fmt"

	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/pkg/database"

	"github.com/google/uuid"
)

type QuoteRepository interface {
	Create(ctx context.Context, quote *models.Quote) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Quote, error)
	List(ctx context.Context, scope models.Scope, limit, offset int) ([]*models.Quote, error)
}

type quoteRepo struct {
	db database.Querier
}

func NewQuoteRepo(db database.Querier) QuoteRepository {
	return &quoteRepo{db: db}
}

const quoteColumns = `id, tenant_id, owner_id, customer_id, quote_number, title, status, total, created_at, updated_at`

func (r *quoteRepo) Create(ctx context.Context, quote *models.Quote) error {
	query := `
		INSERT INTO quotes (id, tenant_id, owner_id, customer_id, quote_number, title, status, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, quote.ID, quote.TenantID, quote.OwnerID, quote.CustomerID,
		quote.QuoteNumber, quote.Title, quote.Status, quote.Total)
	if err != nil {
		return fmt.Errorf("failed to create quote: %w", err)
	}
	return nil
}

func (r *quoteRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Quote, error) {
	quote := &models.Quote{}
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&quote.ID, &quote.TenantID, &quote.OwnerID,
		&quote.CustomerID, &quote.QuoteNumber, &quote.Title, &quote.Status, &quote.Total,
		&quote.CreatedAt, &quote.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *quoteRepo) List(ctx context.Context, scope models.Scope, limit, offset int) ([]*models.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
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

	var quotes []*models.Quote
	for rows.Next() {
		quote := &models.Quote{}
		if err := rows.Scan(&quote.ID, &quote.TenantID, &quote.OwnerID, &quote.CustomerID,
			&quote.QuoteNumber, &quote.Title, &quote.Status, &quote.Total,
			&quote.CreatedAt, &quote.UpdatedAt); err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, rows.Err()
}

package repositories

import (
	"context"
	"fmt"

	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/pkg/database"

	"github.com/google/uuid"
)

// CustomerRepository stores the shared customers collection. Leads live in
// the same table, discriminated by kind; their visibility is keyed on the
// assigned member rather than the record owner.
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context, scope models.Scope, limit, offset int) ([]*models.Customer, error)
	ListLeads(ctx context.Context, scope models.Scope, limit, offset int) ([]*models.Customer, error)
}

type customerRepo struct {
	db database.Querier
}

func NewCustomerRepo(db database.Querier) CustomerRepository {
	return &customerRepo{db: db}
}

const customerColumns = `id, tenant_id, owner_id, kind, name, email, phone, address, lead_source, lead_stage, lead_assigned_to_id, created_at, updated_at`

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, tenant_id, owner_id, kind, name, email, phone, address,
			lead_source, lead_stage, lead_assigned_to_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	var source, stage *string
	var assignedTo *uuid.UUID
	if customer.Lead != nil {
		source = &customer.Lead.Source
		stage = &customer.Lead.Stage
		assignedTo = &customer.Lead.AssignedToID
	}
	_, err := r.db.Exec(ctx, query, customer.ID, customer.TenantID, customer.OwnerID, customer.Kind,
		customer.Name, customer.Email, customer.Phone, customer.Address, source, stage, assignedTo)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *customerRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE tenant_id = $1 AND id = $2
	`
	return scanCustomer(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *customerRepo) ListCustomers(ctx context.Context, scope models.Scope, limit, offset int) ([]*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE tenant_id = $1 AND kind = 'customer'
	`
	args := []interface{}{scope.TenantID}
	if scope.OwnerID != nil {
		query += ` AND owner_id = $2`
		args = append(args, *scope.OwnerID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	return r.list(ctx, query, args)
}

func (r *customerRepo) ListLeads(ctx context.Context, scope models.Scope, limit, offset int) ([]*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE tenant_id = $1 AND kind = 'lead'
	`
	args := []interface{}{scope.TenantID}
	if scope.OwnerID != nil {
		query += ` AND lead_assigned_to_id = $2`
		args = append(args, *scope.OwnerID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	return r.list(ctx, query, args)
}

func (r *customerRepo) list(ctx context.Context, query string, args []interface{}) ([]*models.Customer, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	customer := &models.Customer{}
	var source, stage *string
	var assignedTo *uuid.UUID
	err := row.Scan(&customer.ID, &customer.TenantID, &customer.OwnerID, &customer.Kind,
		&customer.Name, &customer.Email, &customer.Phone, &customer.Address,
		&source, &stage, &assignedTo, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if customer.Kind == models.CustomerKindLead {
		customer.Lead = &models.LeadDetails{}
		if source != nil {
			customer.Lead.Source = *source
		}
		if stage != nil {
			customer.Lead.Stage = *stage
		}
		if assignedTo != nil {
			customer.Lead.AssignedToID = *assignedTo
		}
	}
	return customer, nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicatePending is returned when an insert races another live
// invitation for the same invitee and loses to the partial unique index.
var ErrDuplicatePending = errors.New("a pending invitation already exists for this email")

type InvitationRepository interface {
	Create(ctx context.Context, inv *models.Invitation) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invitation, error)
	GetByToken(ctx context.Context, token string) (*models.Invitation, error)
	FindPendingByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.Invitation, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invitation, error)
	Transition(ctx context.Context, id uuid.UUID, from, to models.InvitationStatus) (bool, error)
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}

type invitationRepo struct {
	db database.Querier
}

func NewInvitationRepo(db database.Querier) InvitationRepository {
	return &invitationRepo{db: db}
}

const invitationColumns = `id, tenant_id, email, role, status, invited_by_id, invited_by_name, token, created_at, expires_at`

func (r *invitationRepo) Create(ctx context.Context, inv *models.Invitation) error {
	query := `
		INSERT INTO invitations (id, tenant_id, email, role, status, invited_by_id, invited_by_name, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query, inv.ID, inv.TenantID, inv.Email, inv.Role, inv.Status,
		inv.InvitedByID, inv.InvitedByName, inv.Token, inv.CreatedAt, inv.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicatePending
		}
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

func (r *invitationRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE tenant_id = $1 AND id = $2
	`
	return r.scanOne(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *invitationRepo) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE token = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, token))
}

// FindPendingByEmail returns the pending invitation for the invitee, swept or
// not, or (nil, nil) when none exists. Expiry is the caller's concern: an
// unswept pending row still blocks the partial unique index.
func (r *invitationRepo) FindPendingByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE tenant_id = $1 AND LOWER(email) = LOWER($2) AND status = 'pending'
	`
	inv, err := r.scanOne(r.db.QueryRow(ctx, query, tenantID, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return inv, err
}

func (r *invitationRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []*models.Invitation
	for rows.Next() {
		inv := &models.Invitation{}
		if err := rows.Scan(&inv.ID, &inv.TenantID, &inv.Email, &inv.Role, &inv.Status,
			&inv.InvitedByID, &inv.InvitedByName, &inv.Token, &inv.CreatedAt, &inv.ExpiresAt); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

// Transition moves an invitation from one status to another only if it still
// holds the expected prior status at write time. The boolean result reports
// whether this caller won the transition; a false return under concurrency
// means another writer got there first.
func (r *invitationRepo) Transition(ctx context.Context, id uuid.UUID, from, to models.InvitationStatus) (bool, error) {
	query := `
		UPDATE invitations
		SET status = $1
		WHERE id = $2 AND status = $3
	`
	tag, err := r.db.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to transition invitation: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkExpired sweeps every pending invitation whose validity window has
// elapsed. The status guard makes concurrent sweeps converge without
// double-counting terminal rows.
func (r *invitationRepo) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE invitations
		SET status = 'expired'
		WHERE status = 'pending' AND expires_at <= $1
	`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired invitations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *invitationRepo) scanOne(row pgx.Row) (*models.Invitation, error) {
	inv := &models.Invitation{}
	err := row.Scan(&inv.ID, &inv.TenantID, &inv.Email, &inv.Role, &inv.Status,
		&inv.InvitedByID, &inv.InvitedByName, &inv.Token, &inv.CreatedAt, &inv.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/CammoPaint/QuoteGen-sub000/internal/common"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InvitationService owns the invitation lifecycle: creation and token
// issuance, cancellation, resend, the expiry sweep, and acceptance-side
// lookup. Every transition goes through the repository's conditional write so
// concurrent callers serialize on the invitation's current status.
type InvitationService interface {
	Create(ctx context.Context, inviter models.Principal, email string, role models.Role) (*models.Invitation, error)
	GetByToken(ctx context.Context, token string) (*models.Invitation, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invitation, error)
	Cancel(ctx context.Context, actor models.Principal, id uuid.UUID) error
	Resend(ctx context.Context, actor models.Principal, id uuid.UUID) error
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
	IsValid(inv *models.Invitation, now time.Time) bool
}

type invitationService struct {
	invitationRepo repositories.InvitationRepository
	notifier       NotificationService
	acceptBaseURL  string
}

func NewInvitationService(invitationRepo repositories.InvitationRepository, notifier NotificationService, acceptBaseURL string) InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		notifier:       notifier,
		acceptBaseURL:  acceptBaseURL,
	}
}

// Create issues an invitation for a new tenant member. If a live (pending,
// unexpired) invitation already exists for the same email and tenant, that
// invitation is returned unchanged instead of minting a second live token
// for the same invitee.
func (s *invitationService) Create(ctx context.Context, inviter models.Principal, email string, role models.Role) (*models.Invitation, error) {
	if !inviter.Role.CanManageInvitations() {
		return nil, common.NewError(common.KindPermissionDenied, "only admins and sales managers may invite members")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !role.Invitable() {
		return nil, common.NewErrorf(common.KindInvalidInput, "members cannot be invited with role %q", role)
	}

	now := time.Now()

	existing, err := s.invitationRepo.FindPendingByEmail(ctx, inviter.TenantID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !existing.Expired(now) {
			return existing, nil
		}
		// The pending row has lapsed but the sweep hasn't caught it yet.
		// Retire it so the new invitation doesn't trip the unique index.
		if _, err := s.invitationRepo.Transition(ctx, existing.ID, models.InvitationStatusPending, models.InvitationStatusExpired); err != nil {
			return nil, err
		}
	}

	token, err := generateInvitationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	inv := &models.Invitation{
		ID:            uuid.New(),
		TenantID:      inviter.TenantID,
		Email:         email,
		Role:          role,
		Status:        models.InvitationStatusPending,
		InvitedByID:   inviter.ID,
		InvitedByName: inviter.Email,
		Token:         token,
		CreatedAt:     now,
		ExpiresAt:     now.Add(models.InvitationTTL),
	}

	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		if errors.Is(err, repositories.ErrDuplicatePending) {
			// Lost a race with a concurrent Create for the same invitee;
			// honor the duplicate policy and hand back the winner.
			winner, findErr := s.invitationRepo.FindPendingByEmail(ctx, inviter.TenantID, email)
			if findErr == nil && winner != nil {
				return winner, nil
			}
		}
		return nil, err
	}

	s.dispatch(ctx, inv)

	return inv, nil
}

func (s *invitationService) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	inv, err := s.invitationRepo.GetByToken(ctx, token)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewError(common.KindNotFound, "invitation not found")
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invitationService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invitation, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.invitationRepo.List(ctx, tenantID, limit, offset)
}

// Cancel transitions a pending invitation to cancelled. Only an admin or
// sales manager of the invitation's own tenant may cancel it.
func (s *invitationService) Cancel(ctx context.Context, actor models.Principal, id uuid.UUID) error {
	if !actor.Role.CanManageInvitations() {
		return common.NewError(common.KindPermissionDenied, "only admins and sales managers may cancel invitations")
	}

	inv, err := s.invitationRepo.GetByID(ctx, actor.TenantID, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NewError(common.KindNotFound, "invitation not found")
	}
	if err != nil {
		return err
	}

	if inv.Terminal() {
		return invalidStateError(inv)
	}

	ok, err := s.invitationRepo.Transition(ctx, inv.ID, models.InvitationStatusPending, models.InvitationStatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewError(common.KindInvalidState, "invitation is no longer pending")
	}
	return nil
}

// Resend triggers a fresh notification dispatch for a still-live invitation.
// By current policy the token and expiry are not rotated; the original link
// simply goes out again.
func (s *invitationService) Resend(ctx context.Context, actor models.Principal, id uuid.UUID) error {
	if !actor.Role.CanManageInvitations() {
		return common.NewError(common.KindPermissionDenied, "only admins and sales managers may resend invitations")
	}

	inv, err := s.invitationRepo.GetByID(ctx, actor.TenantID, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NewError(common.KindNotFound, "invitation not found")
	}
	if err != nil {
		return err
	}

	if inv.Terminal() {
		return invalidStateError(inv)
	}
	if inv.Expired(time.Now()) {
		return common.NewError(common.KindInvalidState, "invitation has expired and cannot be resent")
	}

	s.dispatch(ctx, inv)
	return nil
}

// MarkExpired sweeps lapsed pending invitations. Idempotent: repeated runs
// converge because swept rows no longer match the pending guard.
func (s *invitationService) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.invitationRepo.MarkExpired(ctx, now)
}

// IsValid trusts status alone: a pending invitation is valid here even if
// its expiry has lapsed but the sweep hasn't caught it yet. The acceptance
// path performs its own authoritative expiry check.
func (s *invitationService) IsValid(inv *models.Invitation, now time.Time) bool {
	return inv.Status == models.InvitationStatusPending
}

// dispatch sends the invitation email. Delivery is fire-and-forget: a send
// failure is logged and never rolls back the ledger write.
func (s *invitationService) dispatch(ctx context.Context, inv *models.Invitation) {
	link := s.acceptLink(inv.Token)
	if err := s.notifier.SendInvitation(ctx, inv.Email, inv.InvitedByName, link); err != nil {
		log.Printf("Failed to send invitation %s to %s: %v", inv.ID, inv.Email, err)
	}
}

func (s *invitationService) acceptLink(token string) string {
	return s.acceptBaseURL + "?token=" + url.QueryEscape(token)
}

func invalidStateError(inv *models.Invitation) error {
	switch inv.Status {
	case models.InvitationStatusAccepted:
		return common.NewError(common.KindInvalidState, "invitation has already been accepted")
	case models.InvitationStatusCancelled:
		return common.NewError(common.KindInvalidState, "invitation has been cancelled")
	case models.InvitationStatusExpired:
		return common.NewError(common.KindExpired, "invitation has expired")
	}
	return common.NewError(common.KindInvalidState, "invitation is no longer pending")
}

func validateEmail(email string) error {
	if email == "" {
		return common.NewError(common.KindInvalidInput, "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return common.NewErrorf(common.KindInvalidInput, "%q is not a valid email address", email)
	}
	if !strings.Contains(email, "@") {
		return common.NewErrorf(common.KindInvalidInput, "%q is not a valid email address", email)
	}
	return nil
}

// generateInvitationToken returns a cryptographically unguessable URL-safe
// token. Tokens are never reused; uniqueness is enforced by the store.
func generateInvitationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

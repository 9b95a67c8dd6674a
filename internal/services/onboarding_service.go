package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/CammoPaint/QuoteGen-sub000/internal/common"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length at onboarding.
const MinPasswordLength = 6

// OnboardingService consumes a valid invitation token plus new-account
// credentials and provisions the member account.
type OnboardingService interface {
	Accept(ctx context.Context, token, name, password string) (*models.User, error)
}

type onboardingService struct {
	invitationRepo repositories.InvitationRepository
	userRepo       repositories.UserRepository
}

func NewOnboardingService(invitationRepo repositories.InvitationRepository, userRepo repositories.UserRepository) OnboardingService {
	return &onboardingService{
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
	}
}

// Accept validates the token, claims the invitation, and provisions the
// account bound to the invitation's tenant and role.
//
// The conditional pending->accepted transition is the serialization point:
// of N concurrent calls on the same token exactly one wins it, and the losers
// observe the invitation as no longer pending. If provisioning fails after
// the claim, a compensating conditional write returns the invitation to
// pending so a failed attempt leaves state unchanged.
func (s *onboardingService) Accept(ctx context.Context, token, name, password string) (*models.User, error) {
	inv, err := s.invitationRepo.GetByToken(ctx, token)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewError(common.KindNotFound, "invitation not found")
	}
	if err != nil {
		return nil, err
	}

	if inv.Terminal() {
		return nil, invalidStateError(inv)
	}
	// Authoritative expiry check: a lapsed invitation is rejected here even
	// if the sweep hasn't transitioned it yet.
	if inv.Expired(time.Now()) {
		return nil, common.NewError(common.KindExpired, "invitation has expired")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewError(common.KindInvalidInput, "name is required")
	}
	if len(password) < MinPasswordLength {
		return nil, common.NewErrorf(common.KindInvalidInput, "password must be at least %d characters", MinPasswordLength)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	won, err := s.invitationRepo.Transition(ctx, inv.ID, models.InvitationStatusPending, models.InvitationStatusAccepted)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, common.NewError(common.KindInvalidState, "invitation has already been accepted or cancelled")
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     inv.TenantID,
		Email:        inv.Email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		Role:         inv.Role,
		Status:       "active",
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.revertClaim(ctx, inv.ID)
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, common.NewError(common.KindInvalidState, "an account already exists for this email")
		}
		return nil, err
	}

	return user, nil
}

// revertClaim undoes the accepted claim after a provisioning failure so the
// invitee can retry. Best effort: if the write fails the invitation stays
// accepted without an account, which an operator resolves by re-inviting.
func (s *onboardingService) revertClaim(ctx context.Context, id uuid.UUID) {
	if _, err := s.invitationRepo.Transition(ctx, id, models.InvitationStatusAccepted, models.InvitationStatusPending); err != nil {
		log.Printf("Failed to revert invitation %s after provisioning failure: %v", id, err)
	}
}

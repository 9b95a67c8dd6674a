package services

import (
	"context"
	"errors"
	"strings"

	"github.com/CammoPaint/QuoteGen-sub000/internal/common"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// DirectoryService is the tenant-directory glue: company and member lookups,
// plus the bootstrap path that creates a company together with its founding
// admin. Regular member accounts are created only through invitations.
type DirectoryService interface {
	GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	ListMembers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error)
	Bootstrap(ctx context.Context, req *BootstrapRequest) (*models.User, error)
}

type BootstrapRequest struct {
	CompanyName string `json:"company_name" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
}

type directoryService struct {
	tenantRepo repositories.TenantRepository
	userRepo   repositories.UserRepository
}

func NewDirectoryService(tenantRepo repositories.TenantRepository, userRepo repositories.UserRepository) DirectoryService {
	return &directoryService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
	}
}

func (s *directoryService) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewError(common.KindNotFound, "company not found")
	}
	return tenant, err
}

func (s *directoryService) ListMembers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.List(ctx, tenantID, limit, offset)
}

// Bootstrap creates a new company and its founding admin account in one go.
func (s *directoryService) Bootstrap(ctx context.Context, req *BootstrapRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.CompanyName == "" || strings.TrimSpace(req.Name) == "" {
		return nil, common.NewError(common.KindInvalidInput, "company name and your name are required")
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if len(req.Password) < MinPasswordLength {
		return nil, common.NewErrorf(common.KindInvalidInput, "password must be at least %d characters", MinPasswordLength)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		ID:     uuid.New(),
		Name:   req.CompanyName,
		Status: "active",
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         strings.TrimSpace(req.Name),
		Role:         models.RoleAdmin,
		Status:       "active",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, common.NewError(common.KindInvalidState, "an account already exists for this email")
		}
		return nil, err
	}

	return user, nil
}

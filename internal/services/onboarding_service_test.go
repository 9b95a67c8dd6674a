package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/CammoPaint/QuoteGen-sub000/internal/common"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUserID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, tenantID, id uuid.UUID, role models.Role) error {
	args := m.Called(ctx, tenantID, id, role)
	return args.Error(0)
}

type OnboardingServiceTestSuite struct {
	suite.Suite
	mockInvRepo  *MockInvitationRepository
	mockUserRepo *MockUserRepository
	service      OnboardingService
}

func (suite *OnboardingServiceTestSuite) SetupTest() {
	suite.mockInvRepo = &MockInvitationRepository{}
	suite.mockUserRepo = &MockUserRepository{}
	suite.service = NewOnboardingService(suite.mockInvRepo, suite.mockUserRepo)

	suite.mockInvRepo.Test(suite.T())
	suite.mockUserRepo.Test(suite.T())
}

func (suite *OnboardingServiceTestSuite) TearDownTest() {
	suite.mockInvRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestOnboardingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OnboardingServiceTestSuite))
}

func (suite *OnboardingServiceTestSuite) pendingInvitation() *models.Invitation {
	now := time.Now()
	return &models.Invitation{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		Email:         "newhire@example.com",
		Role:          models.RoleStandard,
		Status:        models.InvitationStatusPending,
		InvitedByID:   uuid.New(),
		InvitedByName: "admin@example.com",
		Token:         "tok-abc123",
		CreatedAt:     now,
		ExpiresAt:     now.Add(models.InvitationTTL),
	}
}

func (suite *OnboardingServiceTestSuite) TestAccept_Success() {
	ctx := context.Background()
	inv := suite.pendingInvitation()

	suite.mockInvRepo.On("GetByToken", ctx, inv.Token).Return(inv, nil)
	suite.mockInvRepo.On("Transition", ctx, inv.ID, models.InvitationStatusPending, models.InvitationStatusAccepted).Return(true, nil)
	suite.mockUserRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := suite.service.Accept(ctx, inv.Token, "  New Hire  ", "s3cret-pass")

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), user)
	assert.Equal(suite.T(), inv.TenantID, user.TenantID, "account is bound to the invitation's tenant")
	assert.Equal(suite.T(), inv.Email, user.Email)
	assert.Equal(suite.T(), inv.Role, user.Role)
	assert.Equal(suite.T(), "New Hire", user.Name)
	assert.Equal(suite.T(), "active", user.Status)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

func (suite *OnboardingServiceTestSuite) TestAccept_UnknownToken() {
	ctx := context.Background()

	suite.mockInvRepo.On("GetByToken", ctx, "bogus").Return(nil, pgx.ErrNoRows)

	user, err := suite.service.Accept(ctx, "bogus", "New Hire", "s3cret-pass")

	assert.Nil(suite.T(), user)
	assert.True(suite.T(), common.IsKind(err, common.KindNotFound))
}

func (suite *OnboardingServiceTestSuite) TestAccept_Cancelled() {
	ctx := context.Background()
	inv := suite.pendingInvitation()
	inv.Status = models.InvitationStatusCancelled

	suite.mockInvRepo.On("GetByToken", ctx, inv.Token).Return(inv, nil)

	user, err := suite.service.Accept(ctx, inv.Token, "New Hire", "s3cret-pass")

	assert.Nil(suite.T(), user)
	assert.True(suite.T(), common.IsKind(err, common.KindInvalidState))
	assert.Contains(suite.T(), err.Error(), "cancelled")
}

func (suite *OnboardingServiceTestSuite) TestAccept_AlreadyAccepted() {
	ctx := context.Background()
	inv := suite.pendingInvitation()
	inv.Status = models.InvitationStatusAccepted

	suite.mockInvRepo.On("GetByToken", ctx, inv.Token).Return(inv, nil)

	user, err := suite.service.Accept(ctx, inv.Token, "New Hire", "s3cret-pass")

	assert.Nil(suite.T(), user)
	assert.True(suite.T(), common.IsKind(err, common.KindInvalidState))
	assert.Contains(suite.T(), err.Error(), "accepted")
}

func (suite *OnboardingServiceTestSuite) TestAccept_SweptExpired() {
	ctx := context.Background()
	inv := suite.pendingInvitation()
	inv.Status = models.InvitationStatusExpired

	suite.mockInvRepo.On("GetByToken", ctx, inv.Token).Return(inv, nil)

	user, err := suite.service.Accept(ctx, inv.Token, "New Hire", "s3cret-pass")

	assert.Nil(suite.T(), user)
	assert.True(suite.T(), common.IsKind(err, common.KindExpired))
}

func (suite *OnboardingServiceTestSuite) TestAccept_LapsedButUnswept() {
	ctx := context.Background()
	inv := suite.pendingInvitation()
	inv.ExpiresAt = time.Now().Add(-time.Hour)

	suite.mockInvRepo.On("GetByToken", ctx, inv.Token).Return(inv, nil)

	user, err := suite.service.Accept(ctx, inv.Token, "New Hire", "s3cret-pass")

	assert.Nil(suite.T(), user)
	assert.True(suite.T(), common.IsKind(err, common.KindExpired), "acceptance checks expiry itself, ahead of the sweep")
}

func (suite *OnboardingServiceTestSuite) TestAccept_MissingName() {
	ctx := context.Background()
	inv := suite.pendingInvitation()

	suite.mockInvRepo.On("GetByToken", ctx, inv.Token).Return(inv, nil)

	user, err := suite.service.Accept(ctx, inv.Token, "   ", "s3cret-pass")

	assert.Nil(suite.T(), user)
	assert.True(suite.T(), common.IsKind(err, common.KindInvalidInput))
}

func (suite *OnboardingServiceTestSuite) TestAccept_ShortPassword() {
	ctx := context.Background()
	inv := suite.pendingInvitation()

	suite.mockInvRepo.On("GetByToken", ctx, inv.Token).Return(inv, nil)

	user, err := suite.service.Accept(ctx, inv.Token, "New Hire", "abc")

	assert.Nil(suite.T(), user)
	assert.True(suite.T(), common.IsKind(err, common.KindInvalidInput))
	suite.mockInvRepo.AssertNotCalled(suite.T(), "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OnboardingServiceTestSuite) TestAccept_LosesClaimRace() {
	ctx := context.Background()
	inv := suite.pendingInvitation()

	suite.mockInvRepo.On("GetByToken", ctx, inv.Token).Return(inv, nil)
	suite.mockInvRepo.On("Transition", ctx, inv.ID, models.InvitationStatusPending, models.InvitationStatusAccepted).Return(false, nil)

	user, err := suite.service.Accept(ctx, inv.Token, "New Hire", "s3cret-pass")

	assert.Nil(suite.T(), user)
	assert.True(suite.T(), common.IsKind(err, common.KindInvalidState))
	suite.mockUserRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *OnboardingServiceTestSuite) TestAccept_ProvisioningFailureReverts() {
	ctx := context.Background()
	inv := suite.pendingInvitation()

	suite.mockInvRepo.On("GetByToken", ctx, inv.Token).Return(inv, nil)
	suite.mockInvRepo.On("Transition", ctx, inv.ID, models.InvitationStatusPending, models.InvitationStatusAccepted).Return(true, nil)
	suite.mockUserRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(errors.New("connection reset"))
	suite.mockInvRepo.On("Transition", ctx, inv.ID, models.InvitationStatusAccepted, models.InvitationStatusPending).Return(true, nil)

	user, err := suite.service.Accept(ctx, inv.Token, "New Hire", "s3cret-pass")

	assert.Nil(suite.T(), user)
	assert.Error(suite.T(), err)
}

func (suite *OnboardingServiceTestSuite) TestAccept_DuplicateEmailReverts() {
	ctx := context.Background()
	inv := suite.pendingInvitation()

	suite.mockInvRepo.On("GetByToken", ctx, inv.Token).Return(inv, nil)
	suite.mockInvRepo.On("Transition", ctx, inv.ID, models.InvitationStatusPending, models.InvitationStatusAccepted).Return(true, nil)
	suite.mockUserRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(repositories.ErrDuplicateEmail)
	suite.mockInvRepo.On("Transition", ctx, inv.ID, models.InvitationStatusAccepted, models.InvitationStatusPending).Return(true, nil)

	user, err := suite.service.Accept(ctx, inv.Token, "New Hire", "s3cret-pass")

	assert.Nil(suite.T(), user)
	assert.True(suite.T(), common.IsKind(err, common.KindInvalidState))
}

// fakeInvitationStore backs the concurrency test with a mutex-guarded
// conditional transition, the same semantics the SQL status guard provides.
type fakeInvitationStore struct {
	mu  sync.Mutex
	inv *models.Invitation
}

func (f *fakeInvitationStore) Create(ctx context.Context, inv *models.Invitation) error {
	return nil
}

func (f *fakeInvitationStore) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invitation, error) {
	return f.snapshot(), nil
}

func (f *fakeInvitationStore) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	if f.inv.Token != token {
		return nil, pgx.ErrNoRows
	}
	return f.snapshot(), nil
}

func (f *fakeInvitationStore) FindPendingByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.Invitation, error) {
	return nil, nil
}

func (f *fakeInvitationStore) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invitation, error) {
	return nil, nil
}

func (f *fakeInvitationStore) Transition(ctx context.Context, id uuid.UUID, from, to models.InvitationStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inv.ID != id || f.inv.Status != from {
		return false, nil
	}
	f.inv.Status = to
	return true, nil
}

func (f *fakeInvitationStore) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeInvitationStore) snapshot() *models.Invitation {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *f.inv
	return &copied
}

// countingUserStore records provisioned accounts.
type countingUserStore struct {
	mu    sync.Mutex
	users []*models.User
}

func (c *countingUserStore) Create(ctx context.Context, user *models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append(c.users, user)
	return nil
}

func (c *countingUserStore) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	return nil, pgx.ErrNoRows
}

func (c *countingUserStore) GetByUserID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return nil, pgx.ErrNoRows
}

func (c *countingUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, pgx.ErrNoRows
}

func (c *countingUserStore) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	return nil, nil
}

func (c *countingUserStore) UpdateRole(ctx context.Context, tenantID, id uuid.UUID, role models.Role) error {
	return nil
}

func TestAccept_ConcurrentCallsProvisionExactlyOneAccount(t *testing.T) {
	now := time.Now()
	store := &fakeInvitationStore{
		inv: &models.Invitation{
			ID:        uuid.New(),
			TenantID:  uuid.New(),
			Email:     "newhire@example.com",
			Role:      models.RoleStandard,
			Status:    models.InvitationStatusPending,
			Token:     "tok-race",
			CreatedAt: now,
			ExpiresAt: now.Add(models.InvitationTTL),
		},
	}
	users := &countingUserStore{}
	service := NewOnboardingService(store, users)

	const attempts = 16
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Accept(context.Background(), "tok-race", "New Hire", "s3cret-pass")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case common.IsKind(err, common.KindInvalidState):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins, "exactly one caller claims the invitation")
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, users.users, 1, "exactly one account is provisioned")
	assert.Equal(t, models.InvitationStatusAccepted, store.inv.Status)
}

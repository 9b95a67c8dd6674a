package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/CammoPaint/QuoteGen-sub000/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     UserRepository
	tenantID uuid.UUID
	context  context.Context
}

func (suite *UserRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewUserRepo(mock)
	suite.tenantID = uuid.New()
	suite.context = context.Background()
}

func (suite *UserRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestUserRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}

func (suite *UserRepoTestSuite) user() *models.User {
	now := time.Now()
	return &models.User{
		ID:           uuid.New(),
		TenantID:     suite.tenantID,
		Email:        "rep@example.com",
		PasswordHash: "$2a$10$hash",
		Name:         "Sales Rep",
		Role:         models.RoleStandard,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func userRows(users ...*models.User) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "tenant_id", "email", "password_hash",
		"name", "role", "status", "created_at", "updated_at"})
	for _, u := range users {
		rows.AddRow(u.ID, u.TenantID, u.Email, u.PasswordHash, u.Name, u.Role,
			u.Status, u.CreatedAt, u.UpdatedAt)
	}
	return rows
}

func (suite *UserRepoTestSuite) TestCreate_Success() {
	u := suite.user()

	suite.mock.ExpectExec(`INSERT INTO users`).
		WithArgs(u.ID, u.TenantID, u.Email, u.PasswordHash, u.Name, u.Role, u.Status).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, u)
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestCreate_DuplicateEmail() {
	u := suite.user()

	suite.mock.ExpectExec(`INSERT INTO users`).
		WithArgs(u.ID, u.TenantID, u.Email, u.PasswordHash, u.Name, u.Role, u.Status).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_uidx"})

	err := suite.repo.Create(suite.context, u)
	assert.ErrorIs(suite.T(), err, ErrDuplicateEmail)
}

func (suite *UserRepoTestSuite) TestGetByID() {
	u := suite.user()

	suite.mock.ExpectQuery(`SELECT (.+) FROM users\s+WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID, u.ID).
		WillReturnRows(userRows(u))

	got, err := suite.repo.GetByID(suite.context, suite.tenantID, u.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), u.Email, got.Email)
	assert.Equal(suite.T(), u.Role, got.Role)
}

func (suite *UserRepoTestSuite) TestGetByID_OtherTenantInvisible() {
	id := uuid.New()

	suite.mock.ExpectQuery(`SELECT (.+) FROM users\s+WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID, id).
		WillReturnRows(userRows())

	got, err := suite.repo.GetByID(suite.context, suite.tenantID, id)
	assert.Nil(suite.T(), got)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
}

func (suite *UserRepoTestSuite) TestGetByEmail_CaseInsensitive() {
	u := suite.user()

	suite.mock.ExpectQuery(`SELECT (.+) FROM users\s+WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("Rep@Example.com").
		WillReturnRows(userRows(u))

	got, err := suite.repo.GetByEmail(suite.context, "Rep@Example.com")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), u.ID, got.ID)
}

func (suite *UserRepoTestSuite) TestList() {
	first := suite.user()
	second := suite.user()

	suite.mock.ExpectQuery(`SELECT (.+) FROM users\s+WHERE tenant_id = \$1\s+ORDER BY created_at DESC`).
		WithArgs(suite.tenantID, 50, 0).
		WillReturnRows(userRows(first, second))

	got, err := suite.repo.List(suite.context, suite.tenantID, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), got, 2)
}

func (suite *UserRepoTestSuite) TestUpdateRole() {
	id := uuid.New()

	suite.mock.ExpectExec(`UPDATE users\s+SET role = \$1, updated_at = NOW\(\)\s+WHERE tenant_id = \$2 AND id = \$3`).
		WithArgs(models.RoleSalesManager, suite.tenantID, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateRole(suite.context, suite.tenantID, id, models.RoleSalesManager)
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestUpdateRole_NotFound() {
	id := uuid.New()

	suite.mock.ExpectExec(`UPDATE users`).
		WithArgs(models.RoleAdmin, suite.tenantID, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateRole(suite.context, suite.tenantID, id, models.RoleAdmin)
	assert.Error(suite.T(), err)
}

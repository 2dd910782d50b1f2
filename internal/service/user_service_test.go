package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/rajbhasha-api/internal/dto"
	"github.com/noah-isme/rajbhasha-api/internal/models"
)

type mockUserRepo struct {
	users      map[string]*models.User
	admins     int
	countErr   error
	createErr  error
	lastFilter models.UserFilter
	deletedAt  time.Time
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *u
	return &copy, nil
}

func (m *mockUserRepo) List(_ context.Context, filter models.UserFilter) ([]models.User, int, error) {
	m.lastFilter = filter
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, at time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Active = false
	u.UpdatedAt = at
	m.deletedAt = at
	return nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	copy := *user
	m.users[user.ID] = &copy
	if user.Role == models.RoleAdmin {
		m.admins++
	}
	return nil
}

func (m *mockUserRepo) CountAdmins(context.Context) (int, error) {
	return m.admins, m.countErr
}

func newTestUserService(repo *mockUserRepo) *UserService {
	svc := NewUserService(repo, nil, nil)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestUserServiceCreate(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newTestUserService(repo)

	user, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Name:     " Meena Iyer ",
		Email:    "Meena@Example.gov.in",
		Password: "password123",
		Group:    "HR",
	})
	require.NoError(t, err)
	assert.Equal(t, "meena@example.gov.in", user.Email)
	assert.Equal(t, "Meena Iyer", user.Name)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.Active)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))

	_, err = svc.Create(context.Background(), dto.CreateUserRequest{
		Name: "Other", Email: "meena@example.gov.in", Password: "password123", Group: "HR",
	})
	requireCode(t, err, "CONFLICT")
}

func TestUserServiceCreateValidation(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{})
	cases := []dto.CreateUserRequest{
		{Name: "A", Email: "not-an-email", Password: "password123", Group: "HR"},
		{Name: "A", Email: "a@example.gov.in", Password: "short", Group: "HR"},
		{Name: "A", Email: "a@example.gov.in", Password: "password123"},
		{Name: "A", Email: "a@example.gov.in", Password: "password123", Group: "HR", Role: "root"},
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), req)
		requireCode(t, err, "VALIDATION_ERROR")
	}
}

func TestUserServiceEnsureAdmin(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newTestUserService(repo)

	user, created, err := svc.EnsureAdmin(context.Background(), "Administrator", "admin@example.gov.in", "password123")
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, AdminGroup, user.GroupName)

	user, created, err = svc.EnsureAdmin(context.Background(), "Second", "second@example.gov.in", "password123")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Nil(t, user)
	assert.Len(t, repo.users, 1)
}

func TestUserServiceEnsureAdminFailures(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{countErr: errors.New("db down")})
	_, _, err := svc.EnsureAdmin(context.Background(), "Administrator", "admin@example.gov.in", "password123")
	requireCode(t, err, "INTERNAL_ERROR")

	svc = newTestUserService(&mockUserRepo{createErr: errors.New("insert failed")})
	_, created, err := svc.EnsureAdmin(context.Background(), "Administrator", "admin@example.gov.in", "password123")
	requireCode(t, err, "INTERNAL_ERROR")
	assert.False(t, created)
}

func seededUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*models.User{
		"admin-1": {ID: "admin-1", Name: "Admin", Email: "admin@example.gov.in", Role: models.RoleAdmin, GroupName: AdminGroup, Active: true},
		"u-1":     {ID: "u-1", Name: "Meena", Email: "meena@example.gov.in", Role: models.RoleUser, GroupName: "HR", Active: true},
		"u-2":     {ID: "u-2", Name: "Ravi", Email: "ravi@example.gov.in", Role: models.RoleUser, GroupName: "MIS", Active: true},
	}}
}

func strPtr(s string) *string { return &s }

func TestUserServiceListDefaultsPaging(t *testing.T) {
	repo := seededUserRepo()
	svc := newTestUserService(repo)

	users, page, err := svc.List(context.Background(), models.UserFilter{Page: -1, PageSize: 500, Group: " HR "})
	require.NoError(t, err)
	assert.Len(t, users, 3)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 3}, page)
	assert.Equal(t, "HR", repo.lastFilter.Group)
}

func TestUserServiceGet(t *testing.T) {
	svc := newTestUserService(seededUserRepo())

	user, err := svc.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Meena", user.Name)

	_, err = svc.Get(context.Background(), "missing")
	requireCode(t, err, "NOT_FOUND")
}

func TestUserServiceUpdate(t *testing.T) {
	repo := seededUserRepo()
	svc := newTestUserService(repo)
	pinned := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return pinned }
	role := models.RoleAdmin
	inactive := false

	user, err := svc.Update(context.Background(), "u-1", dto.UpdateUserRequest{
		Name:   strPtr(" Meena Iyer "),
		Email:  strPtr("Meena.Iyer@Example.gov.in"),
		Mobile: strPtr("9876543210"),
		Role:   &role,
		Group:  strPtr("Finance"),
		Active: &inactive,
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "Meena Iyer", user.Name)
	assert.Equal(t, "meena.iyer@example.gov.in", user.Email)
	assert.Equal(t, "9876543210", user.Mobile)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "Finance", user.GroupName)
	assert.False(t, user.Active)
	assert.Equal(t, pinned, user.UpdatedAt)
	assert.Equal(t, "Finance", repo.users["u-1"].GroupName)

	untouched, err := svc.Update(context.Background(), "u-2", dto.UpdateUserRequest{Group: strPtr("ISS")}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", untouched.Name)
	assert.True(t, untouched.Active)
}

func TestUserServiceUpdateRejections(t *testing.T) {
	svc := newTestUserService(seededUserRepo())
	ctx := context.Background()
	userRole := models.RoleUser
	inactive := false

	_, err := svc.Update(ctx, "u-1", dto.UpdateUserRequest{Email: strPtr("RAVI@example.gov.in")}, "admin-1")
	requireCode(t, err, "CONFLICT")

	_, err = svc.Update(ctx, "u-1", dto.UpdateUserRequest{Mobile: strPtr("12345")}, "admin-1")
	requireCode(t, err, "VALIDATION_ERROR")

	_, err = svc.Update(ctx, "missing", dto.UpdateUserRequest{Group: strPtr("HR")}, "admin-1")
	requireCode(t, err, "NOT_FOUND")

	_, err = svc.Update(ctx, "admin-1", dto.UpdateUserRequest{Role: &userRole}, "admin-1")
	requireCode(t, err, "FORBIDDEN")

	_, err = svc.Update(ctx, "admin-1", dto.UpdateUserRequest{Active: &inactive}, "admin-1")
	requireCode(t, err, "FORBIDDEN")
}

func TestUserServiceDelete(t *testing.T) {
	repo := seededUserRepo()
	svc := newTestUserService(repo)
	pinned := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return pinned }

	require.NoError(t, svc.Delete(context.Background(), "u-2", "admin-1"))
	assert.False(t, repo.users["u-2"].Active)
	assert.Equal(t, pinned, repo.deletedAt)

	requireCode(t, svc.Delete(context.Background(), "admin-1", "admin-1"), "FORBIDDEN")
	requireCode(t, svc.Delete(context.Background(), "missing", "admin-1"), "NOT_FOUND")
}

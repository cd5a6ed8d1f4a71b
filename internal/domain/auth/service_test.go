package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"medistock/internal/core/apperror"
	"medistock/internal/core/id"
)

type mockTxManager struct{}

func (m *mockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockUserRepo struct {
	users map[string]*User // keyed by username
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *User) error {
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	for _, u := range m.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", userID.String())
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", username)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (m *mockUserRepo) Update(ctx context.Context, user *User) error {
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) List(ctx context.Context, filter UserFilter) ([]User, int, error) {
	var out []User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := m.users[username]
	return ok, nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func newTestService(repo *mockUserRepo) *Service {
	return NewService(repo, &mockTxManager{}, NewJWTService(DefaultJWTConfig("test-secret")), DefaultServiceConfig())
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(repo)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Username: "priya",
		Email:    "priya@pharmacy.local",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, RoleCashier, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "priya",
		Email:    "priya@pharmacy.local",
		Password: "short",
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRegister_RejectsDuplicateUsername(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "priya", Email: "priya@pharmacy.local", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Username: "priya", Email: "other@pharmacy.local", Password: "s3cret-pass",
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "priya", Email: "priya@pharmacy.local", Password: "s3cret-pass", Role: "superuser",
	})
	assert.Error(t, err)
}

func TestLogin_ReturnsTokenForValidCredentials(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "priya", Email: "priya@pharmacy.local", Password: "s3cret-pass", Role: RolePharmacist,
	})
	require.NoError(t, err)

	tokens, user, err := svc.Login(context.Background(), Credentials{Username: "priya", Password: "s3cret-pass"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotNil(t, user.LastLoginAt)
	assert.Zero(t, user.FailedLoginAttempts)

	uc, err := svc.jwtService.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, RolePharmacist, uc.Role)
}

func TestLogin_RejectsWrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "priya", Email: "priya@pharmacy.local", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), Credentials{Username: "priya", Password: "wrong"})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	assert.Equal(t, 1, repo.users["priya"].FailedLoginAttempts)
}

func TestLogin_LocksAccountAfterRepeatedFailures(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "priya", Email: "priya@pharmacy.local", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	for i := 0; i < DefaultServiceConfig().MaxLoginAttempts; i++ {
		_, _, err = svc.Login(context.Background(), Credentials{Username: "priya", Password: "wrong"})
		require.Error(t, err)
	}

	require.True(t, repo.users["priya"].IsLocked())

	// Even the correct password is rejected while locked.
	_, _, err = svc.Login(context.Background(), Credentials{Username: "priya", Password: "s3cret-pass"})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestLogin_RejectsDisabledAccount(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(repo)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Username: "priya", Email: "priya@pharmacy.local", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(context.Background(), user.ID, false))

	_, _, err = svc.Login(context.Background(), Credentials{Username: "priya", Password: "s3cret-pass"})
	require.Error(t, err)
}

func TestUser_LockExpiry(t *testing.T) {
	u := NewUser("priya", "priya@pharmacy.local", "hash", RoleCashier)

	past := time.Now().Add(-time.Minute)
	u.LockedUntil = &past
	assert.False(t, u.IsLocked())

	future := time.Now().Add(time.Minute)
	u.LockedUntil = &future
	assert.True(t, u.IsLocked())
}

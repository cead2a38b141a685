package credential

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/barangay-cms/internal/domain"
	"github.com/barangay-cms/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestSvc() (Service, *memory.IdentityRepo) {
	repo := memory.NewIdentityRepo()
	return NewService(ServiceDeps{Repo: repo, Cost: bcrypt.MinCost}), repo
}

func TestCreateUser_SetsVerifiedAndNormalizesEmail(t *testing.T) {
	svc, _ := newTestSvc()
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, " A@X.com", "Ana Cruz", "San Roque", "hash")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, domain.RoleUser, u.Role)
	require.NotNil(t, u.User)
	assert.True(t, u.User.EmailVerified)
	assert.Nil(t, u.Admin)
	assert.NotEmpty(t, u.IdentityID)

	taken, err := svc.EmailTaken(ctx, "a@X.COM")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestCreateAdmin_IsStaff(t *testing.T) {
	svc, _ := newTestSvc()

	a, err := svc.CreateAdmin(context.Background(), "boss@x.com", "Poblacion", "h1", "h2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, a.Role)
	require.NotNil(t, a.Admin)
	assert.True(t, a.Admin.IsStaff)
	assert.Equal(t, "h2", a.Admin.AccessKeyHash)
}

func TestEmailUniqueAcrossRoles(t *testing.T) {
	svc, _ := newTestSvc()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "shared@x.com", "Ana", "San Roque", "h")
	require.NoError(t, err)

	_, err = svc.CreateAdmin(ctx, "SHARED@x.com", "Poblacion", "h", "k")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	_, err = svc.CreateUser(ctx, "shared@x.com", "Other", "Poblacion", "h")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestCreateUser_ConcurrentSameEmail_OneWins(t *testing.T) {
	svc, repo := newTestSvc()
	ctx := context.Background()

	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateUser(ctx, "race@x.com", "R", "B", "h")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		if err == nil {
			ok++
		} else if errors.Is(err, domain.ErrDuplicateEmail) {
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
	assert.Equal(t, 1, repo.Len())
}

func TestFindByEmail_RoleScoped(t *testing.T) {
	svc, _ := newTestSvc()
	ctx := context.Background()
	_, err := svc.CreateUser(ctx, "a@x.com", "Ana", "San Roque", "h")
	require.NoError(t, err)

	got, err := svc.FindByEmail(ctx, "A@x.com", domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	_, err = svc.FindByEmail(ctx, "a@x.com", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.FindByEmail(ctx, "nobody@x.com", domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckPasswordAndAccessKey(t *testing.T) {
	svc, _ := newTestSvc()

	pw, err := svc.HashSecret("secret1")
	require.NoError(t, err)
	key, err := svc.HashSecret("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", pw)

	a, err := svc.CreateAdmin(context.Background(), "boss@x.com", "Poblacion", pw, key)
	require.NoError(t, err)

	assert.True(t, svc.CheckPassword(a, "secret1"))
	assert.False(t, svc.CheckPassword(a, "secret2"))
	assert.True(t, svc.CheckAccessKey(a, "123456"))
	assert.False(t, svc.CheckAccessKey(a, "654321"))

	u := &domain.Identity{Role: domain.RoleUser, PasswordHash: pw, User: &domain.UserProfile{}}
	assert.False(t, svc.CheckAccessKey(u, "123456"))
	assert.False(t, svc.CheckPassword(nil, "secret1"))
}

func TestHashSecret_Salted(t *testing.T) {
	svc, _ := newTestSvc()
	h1, err := svc.HashSecret("123456")
	require.NoError(t, err)
	h2, err := svc.HashSecret("123456")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHashSecret_OverLimitIsValidationError(t *testing.T) {
	svc, _ := newTestSvc()
	_, err := svc.HashSecret(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegisteredBarangays_SortedDistinctAdminsOnly(t *testing.T) {
	svc, _ := newTestSvc()
	ctx := context.Background()
	_, _ = svc.CreateAdmin(ctx, "a1@x.com", "Zone 2", "h", "k")
	_, _ = svc.CreateAdmin(ctx, "a2@x.com", "Bagong Silang", "h", "k")
	_, _ = svc.CreateAdmin(ctx, "a3@x.com", "Zone 2", "h", "k")
	_, _ = svc.CreateUser(ctx, "u@x.com", "U", "Citizen Only", "h")

	got, err := svc.RegisteredBarangays(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bagong Silang", "Zone 2"}, got)
}

type mockIdentityRepo struct{ mock.Mock }

func (m *mockIdentityRepo) Create(ctx context.Context, identity *domain.Identity) error {
	return m.Called(ctx, identity).Error(0)
}
func (m *mockIdentityRepo) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	args := m.Called(ctx, email)
	if i, _ := args.Get(0).(*domain.Identity); i != nil {
		return i, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockIdentityRepo) ListAdminBarangays(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func TestStoreFailures_MapToStoreUnavailable(t *testing.T) {
	repo := &mockIdentityRepo{}
	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("ResourceNotFoundException"))
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("throttled"))
	svc := NewService(ServiceDeps{Repo: repo, Cost: bcrypt.MinCost})
	ctx := context.Background()

	_, err := svc.EmailTaken(ctx, "a@x.com")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	_, err = svc.FindByEmail(ctx, "a@x.com", domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	_, err = svc.CreateUser(ctx, "a@x.com", "A", "B", "h")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

package session

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/barangay-cms/internal/domain"
	jwtinfra "github.com/barangay-cms/internal/infrastructure/jwt"
	"github.com/barangay-cms/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Put(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockRepo) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRepo) Delete(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

var testProvider = func() *jwtinfra.Provider {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	return jwtinfra.NewProviderFromKey(key, time.Hour)
}()

func adminIdentity() *domain.Identity {
	return &domain.Identity{
		IdentityID: "01HADMIN",
		Email:      "captain@x.com",
		Role:       domain.RoleAdmin,
		Admin:      &domain.AdminProfile{Barangay: "San Isidro", IsStaff: true},
	}
}

func TestEstablishAndLoad(t *testing.T) {
	repo := memory.NewSessionRepo()
	svc := NewService(ServiceDeps{Repo: repo, Tokens: testProvider})
	ctx := context.Background()

	sess, token, err := svc.Establish(ctx, adminIdentity())
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
	assert.Equal(t, "Admin - San Isidro", sess.DisplayName)
	assert.Equal(t, "San Isidro", sess.Barangay)

	auth, err := svc.Load(ctx, token)
	require.NoError(t, err)
	assert.True(t, auth.IsAuthenticated())
	role, ok := auth.CurrentRole()
	assert.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, role)
	assert.Equal(t, sess.SessionID, auth.Session().SessionID)
}

func TestEstablish_RejectsRoleless(t *testing.T) {
	svc := NewService(ServiceDeps{Repo: memory.NewSessionRepo(), Tokens: testProvider})
	_, _, err := svc.Establish(context.Background(), &domain.Identity{Email: "x@x.com"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestEstablish_StoreFailure(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Put", mock.Anything, mock.Anything).Return(errors.New("redis: connection refused"))
	svc := NewService(ServiceDeps{Repo: repo, Tokens: testProvider})

	_, _, err := svc.Establish(context.Background(), adminIdentity())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestLoad_AnonymousCases(t *testing.T) {
	repo := memory.NewSessionRepo()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	svc := NewService(ServiceDeps{Repo: repo, Tokens: testProvider, TTL: time.Hour, Now: clock})
	ctx := context.Background()

	for _, tok := range []string{"", "garbage"} {
		auth, err := svc.Load(ctx, tok)
		require.NoError(t, err)
		assert.False(t, auth.IsAuthenticated())
		_, ok := auth.CurrentRole()
		assert.False(t, ok)
		assert.Nil(t, auth.Session())
	}

	// token signed for a session that was never stored
	orphan, err := testProvider.Sign("01HNOPE", "user")
	require.NoError(t, err)
	auth, err := svc.Load(ctx, orphan)
	require.NoError(t, err)
	assert.False(t, auth.IsAuthenticated())

	_, token, err := svc.Establish(ctx, adminIdentity())
	require.NoError(t, err)
	now = now.Add(2 * time.Hour)
	auth, err = svc.Load(ctx, token)
	require.NoError(t, err)
	assert.False(t, auth.IsAuthenticated(), "expired record")
}

func TestLoad_StoreFailure(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Get", mock.Anything, "01HS").Return(nil, errors.New("timeout"))
	svc := NewService(ServiceDeps{Repo: repo, Tokens: testProvider})
	token, err := testProvider.Sign("01HS", "user")
	require.NoError(t, err)

	auth, err := svc.Load(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.False(t, auth.IsAuthenticated())
}

func TestLoad_RoleComesFromRecord(t *testing.T) {
	repo := memory.NewSessionRepo()
	svc := NewService(ServiceDeps{Repo: repo, Tokens: testProvider})
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, &domain.Session{
		SessionID:     "01HS",
		Authenticated: true,
		Role:          domain.RoleUser,
		ExpiresAt:     time.Now().Add(time.Hour),
	}))

	// token claims admin, record says user
	token, err := testProvider.Sign("01HS", "admin")
	require.NoError(t, err)
	auth, err := svc.Load(ctx, token)
	require.NoError(t, err)
	role, _ := auth.CurrentRole()
	assert.Equal(t, domain.RoleUser, role)
}

func TestClear(t *testing.T) {
	repo := memory.NewSessionRepo()
	svc := NewService(ServiceDeps{Repo: repo, Tokens: testProvider})
	ctx := context.Background()

	sess, token, err := svc.Establish(ctx, adminIdentity())
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, sess.SessionID))

	auth, err := svc.Load(ctx, token)
	require.NoError(t, err)
	assert.False(t, auth.IsAuthenticated())
	assert.NoError(t, svc.Clear(ctx, ""))
}

func TestAuthority_SessionIsCopy(t *testing.T) {
	a := NewAuthority(&domain.Session{SessionID: "s", Authenticated: true, Role: domain.RoleUser})
	a.Session().Role = domain.RoleAdmin
	role, _ := a.CurrentRole()
	assert.Equal(t, domain.RoleUser, role)

	assert.False(t, NewAuthority(&domain.Session{Authenticated: true, Role: "root"}).IsAuthenticated())
	assert.False(t, NewAuthority(nil).IsAuthenticated())
}

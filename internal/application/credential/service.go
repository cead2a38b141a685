package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/barangay-cms/internal/domain"
	"github.com/barangay-cms/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// IdentityRepository is the identity half of the profile store.
//
// Create must enforce email uniqueness across both roles at the write itself
// and report a taken email as domain.ErrDuplicateEmail. GetByEmail returns
// domain.ErrNotFound when no identity holds the address.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	ListAdminBarangays(ctx context.Context) ([]string, error)
}

type Service interface {
	EmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, email, fullName, barangay, passwordHash string) (*domain.Identity, error)
	CreateAdmin(ctx context.Context, email, barangay, passwordHash, accessKeyHash string) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string, role domain.Role) (*domain.Identity, error)
	CheckPassword(identity *domain.Identity, plaintext string) bool
	CheckAccessKey(identity *domain.Identity, key string) bool
	HashSecret(plaintext string) (string, error)
	RegisteredBarangays(ctx context.Context) ([]string, error)
}

type ServiceDeps struct {
	Repo IdentityRepository
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
	Now  func() time.Time
}

type service struct {
	repo IdentityRepository
	cost int
	now  func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{repo: deps.Repo, cost: deps.Cost, now: deps.Now}
	if s.cost == 0 {
		s.cost = bcrypt.DefaultCost
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, storeErr("lookup identity", err)
	}
}

func (s *service) CreateUser(ctx context.Context, email, fullName, barangay, passwordHash string) (*domain.Identity, error) {
	ident := &domain.Identity{
		IdentityID:   id.New(),
		Email:        domain.NormalizeEmail(email),
		Role:         domain.RoleUser,
		PasswordHash: passwordHash,
		User: &domain.UserProfile{
			FullName: fullName,
			Barangay: barangay,
			// the OTP step that precedes creation is the verification event
			EmailVerified: true,
		},
		CreatedAt: s.now().UTC(),
	}
	if err := s.create(ctx, ident); err != nil {
		return nil, err
	}
	return ident, nil
}

func (s *service) CreateAdmin(ctx context.Context, email, barangay, passwordHash, accessKeyHash string) (*domain.Identity, error) {
	ident := &domain.Identity{
		IdentityID:   id.New(),
		Email:        domain.NormalizeEmail(email),
		Role:         domain.RoleAdmin,
		PasswordHash: passwordHash,
		Admin: &domain.AdminProfile{
			Barangay:      barangay,
			AccessKeyHash: accessKeyHash,
			IsStaff:       true,
		},
		CreatedAt: s.now().UTC(),
	}
	if err := s.create(ctx, ident); err != nil {
		return nil, err
	}
	return ident, nil
}

func (s *service) create(ctx context.Context, ident *domain.Identity) error {
	err := s.repo.Create(ctx, ident)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrDuplicateEmail):
		return domain.ErrDuplicateEmail
	default:
		return storeErr("create identity", err)
	}
}

// FindByEmail returns domain.ErrNotFound both for unknown emails and for
// identities registered under the other role.
func (s *service) FindByEmail(ctx context.Context, email string, role domain.Role) (*domain.Identity, error) {
	ident, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("lookup identity", err)
	}
	if ident.Role != role {
		return nil, domain.ErrNotFound
	}
	return ident, nil
}

func (s *service) CheckPassword(identity *domain.Identity, plaintext string) bool {
	if identity == nil || identity.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(plaintext)) == nil
}

func (s *service) CheckAccessKey(identity *domain.Identity, key string) bool {
	if identity == nil || identity.Admin == nil || identity.Admin.AccessKeyHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(identity.Admin.AccessKeyHash), []byte(key)) == nil
}

func (s *service) HashSecret(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("hash secret: %v: %w", err, domain.ErrValidation)
	}
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

func (s *service) RegisteredBarangays(ctx context.Context) ([]string, error) {
	out, err := s.repo.ListAdminBarangays(ctx)
	if err != nil {
		return nil, storeErr("list barangays", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrStoreUnavailable)
}

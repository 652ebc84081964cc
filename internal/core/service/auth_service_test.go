package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/movieapp/movie-api/internal/core/domain"
	"github.com/movieapp/movie-api/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int64
	// createErr, when set, is returned by Create regardless of input.
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = r.nextID
	copy.CreatedAt = time.Now().UTC()
	copy.UpdatedAt = copy.CreatedAt
	r.users[copy.Username] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, fmt.Errorf("find user: %w", domain.ErrNotFound)
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("find user: %w", domain.ErrNotFound)
}

func (r *stubUserRepo) List(context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Count(context.Context) (int64, error) { return int64(len(r.users)), nil }

func (r *stubUserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func newTestAuthService(repo ports.UserRepository) *AuthService {
	return NewAuthService(repo, AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost}, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	res, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Password: "pass123", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
	if res.User.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", res.User.Role)
	}
	if res.User.Email == nil || *res.User.Email != "alice@example.com" {
		t.Fatalf("unexpected email: %v", res.User.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	cases := []struct {
		name string
		in   ports.RegisterInput
		want error
	}{
		{"missing username", ports.RegisterInput{Password: "p"}, domain.ErrCredentialsRequired},
		{"blank username", ports.RegisterInput{Username: "   ", Password: "p"}, domain.ErrCredentialsRequired},
		{"missing password", ports.RegisterInput{Username: "bob"}, domain.ErrCredentialsRequired},
		{"bad email", ports.RegisterInput{Username: "bob", Password: "p", Email: "nope"}, domain.ErrInvalidEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation kind, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "pass"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "pass2"})
	if !errors.Is(err, domain.ErrUserExists) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_StoreConflictIsUserExists(t *testing.T) {
	repo := newStubUserRepo()
	repo.createErr = fmt.Errorf("insert user: %w", domain.ErrUserExists)
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "racer", Password: "pass"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_RegisterLoginVerify_RoundTrip(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Username: "carol", Password: "s3cret"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(ctx, "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.User.Username != "carol" {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	id, err := svc.Verify(res.Token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if id.Username != "carol" || id.Role != domain.RoleUser || id.ID != res.User.ID {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	ctx := context.Background()

	_, _ = svc.Register(ctx, ports.RegisterInput{Username: "dave", Password: "goodpass"})

	_, wrongPass := svc.Login(ctx, "dave", "badpass")
	_, unknown := svc.Login(ctx, "ghost", "pass")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPass, unknown)
	}
}

func TestAuthService_Verify_Rejects(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	res, err := svc.Register(context.Background(), ports.RegisterInput{Username: "erin", Password: "pw"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID: 1, Username: "erin", Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	expiredTok, _ := expired.SignedString([]byte("secret"))

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID: 1, Username: "erin", Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	foreignTok, _ := foreign.SignedString([]byte("other-secret"))

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID: 1, Username: "erin", Role: "root",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	badRoleTok, _ := badRole.SignedString([]byte("secret"))

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{ID: 1, Username: "erin", Role: "user"})
	noExpTok, _ := noExp.SignedString([]byte("secret"))

	parts := strings.Split(res.Token, ".")
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"id":%d,"username":"erin","role":"admin","exp":%d}`, res.User.ID, time.Now().Add(time.Hour).Unix())))
	tampered := strings.Join(parts, ".")

	for name, tok := range map[string]string{
		"garbage":  "not-a-token",
		"expired":  expiredTok,
		"foreign":  foreignTok,
		"bad role": badRoleTok,
		"no exp":   noExpTok,
		"tampered": tampered,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestAuthService_Verify_RejectsNoneAlgorithm(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		ID: 1, Username: "mallory", Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Verify(signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	ctx := context.Background()

	res, _ := svc.Register(ctx, ports.RegisterInput{Username: "frank", Password: "pw"})

	u, err := svc.CurrentUser(ctx, domain.Identity{ID: res.User.ID, Username: "frank", Role: domain.RoleUser})
	if err != nil || u.Username != "frank" {
		t.Fatalf("unexpected: %v %+v", err, u)
	}

	if _, err := svc.CurrentUser(ctx, domain.Identity{ID: 999}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for deleted account, got %v", err)
	}
}

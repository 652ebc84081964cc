package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/movieapp/movie-api/internal/core/domain"
)

type stubVerifier struct {
	identities map[string]domain.Identity
}

func (s stubVerifier) Verify(token string) (domain.Identity, error) {
	if id, ok := s.identities[token]; ok {
		return id, nil
	}
	return domain.Identity{}, domain.ErrInvalidToken
}

var verifier = stubVerifier{identities: map[string]domain.Identity{
	"alice-token": {ID: 1, Username: "alice", Role: domain.RoleUser},
	"root-token":  {ID: 2, Username: "root", Role: domain.RoleAdmin},
}}

func runAuth(t *testing.T, header string, next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, RequireAuth(verifier)(next)(c)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	called := false
	rec, err := runAuth(t, "Bearer alice-token", func(c echo.Context) error {
		called = true
		id, ok := IdentityFrom(c)
		if !ok {
			t.Fatalf("identity not attached")
		}
		if id.Username != "alice" || id.Role != domain.RoleUser || id.ID != 1 {
			t.Fatalf("unexpected identity: %+v", id)
		}
		return c.NoContent(http.StatusOK)
	})

	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAuth_SchemeIsCaseInsensitive(t *testing.T) {
	_, err := runAuth(t, "bearer root-token", func(c echo.Context) error { return nil })
	if err != nil {
		t.Fatalf("expected lower-case scheme to pass, got %v", err)
	}
}

func TestRequireAuth_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrMissingToken},
		{"wrong scheme", "Token alice-token", domain.ErrMissingToken},
		{"no token", "Bearer ", domain.ErrMissingToken},
		{"bare token", "alice-token", domain.ErrMissingToken},
		{"unknown token", "Bearer not-a-token", domain.ErrInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runAuth(t, tc.header, func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected unauthorized kind, got %v", err)
			}
		})
	}
}

package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"heven-store/internal/domain"
	authsvc "heven-store/internal/service/auth"
)

func TestSignupHandler_Created(t *testing.T) {
	auth := &stubAuthService{profile: &domain.Profile{ID: "user-1", FirstName: "Ada", Role: domain.RoleCustomer}}
	router := testRouter(t, testDeps(auth))

	body := `{"email":"ada@example.com","password":"correct horse","firstName":"Ada"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"role":"customer"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSignupHandler_DuplicateEmail(t *testing.T) {
	auth := &stubAuthService{signupErr: domain.ErrAlreadyExists}
	router := testRouter(t, testDeps(auth))

	body := `{"email":"ada@example.com","password":"correct horse"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	auth := &stubAuthService{loginErr: authsvc.ErrInvalidCredentials}
	router := testRouter(t, testDeps(auth))

	body := `{"email":"ada@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoginHandler_ReturnsToken(t *testing.T) {
	auth := &stubAuthService{
		profile: &domain.Profile{ID: "user-1", Role: domain.RoleCustomer},
		token:   "session-token",
	}
	router := testRouter(t, testDeps(auth))

	body := `{"email":"ada@example.com","password":"correct horse"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"token":"session-token"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestLogoutHandler_DropsWishlistMembership(t *testing.T) {
	auth := &stubAuthService{profile: &domain.Profile{ID: "user-1", Role: domain.RoleCustomer}}
	wishlist := &stubWishlistService{}
	deps := testDeps(auth)
	deps.WishlistSvc = wishlist
	router := testRouter(t, deps)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rec.Code, rec.Body.String())
	}
	if len(wishlist.forgotten) != 1 || wishlist.forgotten[0] != "user-1" {
		t.Fatalf("expected wishlist membership dropped for user-1, got %v", wishlist.forgotten)
	}
}

func TestMeHandler_ReturnsProfile(t *testing.T) {
	auth := &stubAuthService{profile: &domain.Profile{ID: "user-1", FirstName: "Ada", Role: domain.RoleCustomer}}
	router := testRouter(t, testDeps(auth))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"firstName":"Ada"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSetRoleHandler_UnknownRole(t *testing.T) {
	auth := &stubAuthService{profile: &domain.Profile{ID: "admin-1", Role: domain.RoleAdmin}}
	router := testRouter(t, testDeps(auth))

	body := `{"role":"superuser"}`
	req := httptest.NewRequest(http.MethodPatch, "/admin/profiles/user-2/role", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestSetRoleHandler_Updates(t *testing.T) {
	auth := &stubAuthService{profile: &domain.Profile{ID: "admin-1", Role: domain.RoleAdmin}}
	router := testRouter(t, testDeps(auth))

	body := `{"role":"product_manager"}`
	req := httptest.NewRequest(http.MethodPatch, "/admin/profiles/user-2/role", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rec.Code, rec.Body.String())
	}
	if auth.lastRole != domain.RoleProductManager {
		t.Fatalf("expected role product_manager passed through, got %q", auth.lastRole)
	}
}

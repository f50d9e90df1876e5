package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"heven-store/internal/cache"
	"heven-store/internal/domain"
	profilerepo "heven-store/internal/repository/profile"
	tokenrepo "heven-store/internal/repository/token"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const sessionKind = "session"

// Service is the identity provider boundary: signup, login, session lookup
// and the profile record that carries the business role.
type Service struct {
	profiles    profilerepo.Repository
	tokens      *tokenManager
	tracker     *cache.Tracker
	sessionTTL  time.Duration
	passwordMin int
}

// New creates a Service with sane defaults.
func New(profiles profilerepo.Repository, tokens tokenrepo.Repository, tracker *cache.Tracker) *Service {
	return &Service{
		profiles:    profiles,
		tokens:      newTokenManager(tokens),
		tracker:     tracker,
		sessionTTL:  48 * time.Hour,
		passwordMin: 8,
	}
}

type SignupInput struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     *string `json:"phone,omitempty"`
}

// Signup registers a new identity and its customer profile.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Profile, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("valid email required")
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, fmt.Errorf("password must be at least %d characters", s.passwordMin)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.profiles.CreateWithIdentity(ctx, email, string(hashed), domain.Profile{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Role:      domain.RoleCustomer,
	})
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Profile, string, error) {
	identity, err := s.profiles.GetIdentityByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	profile, err := s.profiles.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(ctx, identity.ID, sessionKind, s.sessionTTL)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

// LookupByToken resolves a bearer token to the profile it belongs to. Role
// is read fresh on every call, never cached across requests.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.Profile, error) {
	userID, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return s.profiles.GetByID(ctx, userID)
}

// Logout revokes every session the user holds and drops any session-scoped
// cached views. Logging out with an unknown or expired token is a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	userID, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil
	}
	if err := s.tokens.RevokeAll(ctx, userID); err != nil {
		return err
	}
	s.tracker.DropUser(userID)
	return nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.profiles.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     *string `json:"phone,omitempty"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.Profile, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	updated, err := s.profiles.Update(ctx, userID, profilerepo.UpdateInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
	})
	if err != nil {
		return nil, err
	}
	s.tracker.Invalidate(userID, cache.Profile)
	return updated, nil
}

// SetRole changes a profile's business role. Authentication state is not
// touched; existing sessions pick up the new role on their next request.
func (s *Service) SetRole(ctx context.Context, userID string, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	if err := s.profiles.SetRole(ctx, userID, role); err != nil {
		return err
	}
	s.tracker.Invalidate(userID, cache.Profile)
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ccp/internal/domain"
)

var (
	ErrLoginFailed        = errors.New("login failed")
	ErrProfileUnavailable = errors.New("authenticated but profile unavailable")
	ErrRegisterFailed     = errors.New("registration failed")
	ErrUnknownRole        = errors.New("unknown role")
)

// Authenticator is one remote authentication service.
type Authenticator interface {
	Role() domain.Role
	Login(ctx context.Context, creds domain.Credentials) (string, error)
	Register(ctx context.Context, reg domain.Registration) error
	Profile(ctx context.Context, id string) (domain.Profile, error)
}

// AuthSnapshot is a copy of the session's auth state.
type AuthSnapshot struct {
	LoggedIn bool            `json:"logueado"`
	UserID   string          `json:"usuario_id,omitempty"`
	Profile  *domain.Profile `json:"perfil,omitempty"`
}

func (s AuthSnapshot) Role() domain.Role {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Role
}

// AuthSession holds who is logged in on one device. It is never persisted.
type AuthSession struct {
	byRole map[domain.Role]Authenticator

	mu   sync.RWMutex
	snap AuthSnapshot
}

func NewAuthSession(auths ...Authenticator) *AuthSession {
	m := make(map[domain.Role]Authenticator, len(auths))
	for _, a := range auths {
		m[a.Role()] = a
	}
	return &AuthSession{byRole: m}
}

func (s *AuthSession) authFor(role domain.Role) (Authenticator, error) {
	a, ok := s.byRole[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return a, nil
}

// Login authenticates and then loads the profile. The session only becomes
// logged in when both calls succeed; any failure leaves it logged out.
func (s *AuthSession) Login(ctx context.Context, role domain.Role, creds domain.Credentials) (AuthSnapshot, error) {
	s.Logout()
	a, err := s.authFor(role)
	if err != nil {
		return AuthSnapshot{}, err
	}
	id, err := a.Login(ctx, creds)
	if err != nil {
		return AuthSnapshot{}, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	p, err := a.Profile(ctx, id)
	if err != nil {
		return AuthSnapshot{}, fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}
	p.Role = a.Role()

	snap := AuthSnapshot{LoggedIn: true, UserID: id, Profile: &p}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return snap, nil
}

// Register signs up and logs in with the same credentials.
func (s *AuthSession) Register(ctx context.Context, role domain.Role, reg domain.Registration) (AuthSnapshot, error) {
	s.Logout()
	a, err := s.authFor(role)
	if err != nil {
		return AuthSnapshot{}, err
	}
	if err := a.Register(ctx, reg); err != nil {
		return AuthSnapshot{}, fmt.Errorf("%w: %w", ErrRegisterFailed, err)
	}
	return s.Login(ctx, role, reg.Credentials())
}

func (s *AuthSession) Logout() {
	s.mu.Lock()
	s.snap = AuthSnapshot{}
	s.mu.Unlock()
}

func (s *AuthSession) Snapshot() AuthSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	if snap.Profile != nil {
		p := *snap.Profile
		snap.Profile = &p
	}
	return snap
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/medinasouk/storefront-backend/pkg/kvstore"
	"github.com/medinasouk/storefront-backend/pkg/logger"
)

// Role names the storefront audience a user belongs to.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleArtisan  Role = "artisan"
	RoleAdmin    Role = "admin"
)

// LandingPath returns where the UI sends a user of this role after sign-in.
func (r Role) LandingPath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleArtisan:
		return "/artisan/dashboard"
	default:
		return "/"
	}
}

// User is the signed-in identity mirrored for a session. The external
// backend authenticated it; this store only remembers it.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Store mirrors the current user and backend token for one shopper session.
type Store struct {
	mu        sync.Mutex
	sessionID string
	bridge    *kvstore.Bridge
	logg      *logger.Logger

	user  *User
	token string
}

// StoreParams groups dependencies for the session store.
type StoreParams struct {
	SessionID string
	Bridge    *kvstore.Bridge
	Logger    *logger.Logger
}

// NewStore builds a session store and loads any mirrored identity once.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.SessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if params.Bridge == nil {
		return nil, fmt.Errorf("storage bridge is required")
	}
	s := &Store{
		sessionID: params.SessionID,
		bridge:    params.Bridge,
		logg:      params.Logger,
	}
	s.load(ctx)
	return s, nil
}

func (s *Store) load(ctx context.Context) {
	if raw, ok := s.bridge.Read(ctx, kvstore.CurrentUserKey(s.sessionID)); ok {
		var user User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			if s.logg != nil {
				s.logg.Error(s.logg.WithContainer(ctx, "session"), "discarding corrupt user state", err)
			}
		} else {
			s.user = &user
		}
	}
	if raw, ok := s.bridge.Read(ctx, kvstore.AuthTokenKey(s.sessionID)); ok {
		s.token = raw
	}
}

// SignIn records the authenticated user and token. When the user carries no
// role, the token's role claim fills it in.
func (s *Store) SignIn(ctx context.Context, user User, token string) {
	if user.Role == "" {
		if role, ok := RoleFromToken(token); ok {
			user.Role = role
		} else {
			user.Role = RoleCustomer
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &user
	s.token = token

	if payload, err := json.Marshal(user); err == nil {
		s.bridge.Write(ctx, kvstore.CurrentUserKey(s.sessionID), string(payload))
	} else if s.logg != nil {
		s.logg.Error(s.logg.WithContainer(ctx, "session"), "marshal user state", err)
	}
	if token != "" {
		s.bridge.Write(ctx, kvstore.AuthTokenKey(s.sessionID), token)
	} else {
		// A sign-in without a token must not leave the previous
		// shopper's token behind in the mirror.
		s.bridge.Remove(ctx, kvstore.AuthTokenKey(s.sessionID))
	}
}

// SignOut forgets the user and token.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.token = ""
	s.bridge.Remove(ctx, kvstore.CurrentUserKey(s.sessionID))
	s.bridge.Remove(ctx, kvstore.AuthTokenKey(s.sessionID))
}

// CurrentUser returns the signed-in user, if any.
func (s *Store) CurrentUser() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Token returns the mirrored backend token, if any.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", false
	}
	return s.token, true
}

// LandingPath returns the post-sign-in destination for the current user.
// Anonymous sessions land on the storefront root.
func (s *Store) LandingPath() string {
	user, ok := s.CurrentUser()
	if !ok {
		return RoleCustomer.LandingPath()
	}
	return user.Role.LandingPath()
}

// RoleFromToken reads the role claim without verifying the signature.
// Verification is the external backend's job; this value only steers
// which storefront surface to render.
func RoleFromToken(token string) (Role, bool) {
	if token == "" {
		return "", false
	}
	var claims tokenClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return "", false
	}
	switch Role(strings.ToLower(claims.Role)) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleArtisan:
		return RoleArtisan, true
	case RoleCustomer:
		return RoleCustomer, true
	}
	return "", false
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/idtoken"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/promptart/backend/internal/config"
	"github.com/promptart/backend/internal/models"
	"github.com/promptart/backend/internal/session"
	jwtpkg "github.com/promptart/backend/pkg/jwt"
)

var (
	ErrInvalidIDToken  = errors.New("invalid identity token")
	ErrAccountDisabled = errors.New("account is deactivated")
)

// AuthService wraps the third-party identity provider: it verifies Google
// ID tokens, maintains the user document on every sign-in, issues session
// JWTs and publishes session-change notifications.
type AuthService struct {
	fs          *firestore.Client
	cfg         *config.Config
	userService *UserService

	mu      sync.Mutex
	subs    map[int]func(*session.Identity)
	nextSub int
}

func NewAuthService(fs *firestore.Client, cfg *config.Config, userService *UserService) *AuthService {
	return &AuthService{
		fs:          fs,
		cfg:         cfg,
		userService: userService,
		subs:        make(map[int]func(*session.Identity)),
	}
}

// Subscribe registers a session-change callback, satisfying
// session.Notifier. Callbacks fire on every sign-in and sign-out.
func (s *AuthService) Subscribe(fn func(*session.Identity)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *AuthService) publish(identity *session.Identity) {
	s.mu.Lock()
	fns := make([]func(*session.Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// SignInWithGoogle verifies a Google ID token, creates or refreshes the
// user document and returns it with a new token pair.
//
// First sign-in creates the document; every later sign-in refreshes
// lastLoginAt, force-upgrades allow-listed emails to the admin role
// regardless of the stored role, and backfills activity arrays missing
// from documents that predate activity tracking.
func (s *AuthService) SignInWithGoogle(ctx context.Context, idTokenString string) (*models.User, string, string, error) {
	payload, err := idtoken.Validate(ctx, idTokenString, s.cfg.GoogleOAuthClientID)
	if err != nil {
		log.Printf("ID token validation failed: %v", err)
		return nil, "", "", ErrInvalidIDToken
	}

	uid := payload.Subject
	email := claimString(payload.Claims, "email")
	displayName := claimString(payload.Claims, "name")
	photoURL := claimString(payload.Claims, "picture")
	isAdminEmail := s.cfg.IsAdminEmail(email)

	userRef := s.fs.Collection(userCollection).Doc(uid)
	snap, err := userRef.Get(ctx)

	switch {
	case status.Code(err) == codes.NotFound:
		role := models.RoleUser
		if isAdminEmail {
			role = models.RoleAdmin
		}
		_, err = userRef.Create(ctx, map[string]interface{}{
			"uid":            uid,
			"email":          email,
			"displayName":    displayName,
			"photoURL":       photoURL,
			"role":           role,
			"isActive":       true,
			"createdAt":      firestore.ServerTimestamp,
			"lastLoginAt":    firestore.ServerTimestamp,
			"likedArts":      []string{},
			"downloadedArts": []models.DownloadRecord{},
			"viewedArts":     []models.ViewRecord{},
		})
		if err != nil {
			return nil, "", "", fmt.Errorf("while creating user %s: %w", uid, err)
		}

	case err != nil:
		return nil, "", "", fmt.Errorf("while looking up user %s: %w", uid, err)

	default:
		existing := &models.User{}
		if err := snap.DataTo(existing); err != nil {
			return nil, "", "", fmt.Errorf("while unmarshaling user %s: %w", uid, err)
		}

		updates := map[string]interface{}{
			"lastLoginAt": firestore.ServerTimestamp,
		}
		if isAdminEmail && existing.Role != models.RoleAdmin {
			updates["role"] = models.RoleAdmin
		}
		if existing.LikedArts == nil {
			updates["likedArts"] = []string{}
		}
		if existing.DownloadedArts == nil {
			updates["downloadedArts"] = []models.DownloadRecord{}
		}
		if existing.ViewedArts == nil {
			updates["viewedArts"] = []models.ViewRecord{}
		}
		if _, err := userRef.Set(ctx, updates, firestore.MergeAll); err != nil {
			return nil, "", "", fmt.Errorf("while refreshing user %s: %w", uid, err)
		}
	}

	user, err := s.userService.GetUser(ctx, uid)
	if err != nil {
		return nil, "", "", err
	}
	if user == nil {
		return nil, "", "", fmt.Errorf("user %s missing after sign-in", uid)
	}
	if !user.IsActive {
		return nil, "", "", ErrAccountDisabled
	}

	accessToken, err := jwtpkg.GenerateToken(uid, jwtpkg.AccessToken, s.cfg.JWTSecret, s.cfg.JWTAccessTokenDuration)
	if err != nil {
		return nil, "", "", err
	}
	refreshToken, err := jwtpkg.GenerateToken(uid, jwtpkg.RefreshToken, s.cfg.JWTSecret, s.cfg.JWTRefreshTokenDuration)
	if err != nil {
		return nil, "", "", err
	}

	s.publish(&session.Identity{
		UID:         uid,
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
	})

	return user, accessToken, refreshToken, nil
}

// RefreshSession exchanges a valid refresh token for a new access token.
func (s *AuthService) RefreshSession(refreshToken string) (string, error) {
	claims, err := jwtpkg.ValidateToken(refreshToken, s.cfg.JWTSecret)
	if err != nil {
		return "", errors.New("invalid refresh token")
	}
	if claims.TokenType != jwtpkg.RefreshToken {
		return "", errors.New("invalid refresh token")
	}

	return jwtpkg.GenerateToken(claims.UID, jwtpkg.AccessToken, s.cfg.JWTSecret, s.cfg.JWTAccessTokenDuration)
}

// SignOut publishes the signed-out transition. Token revocation is not
// tracked server-side; clients drop their tokens.
func (s *AuthService) SignOut() {
	s.publish(nil)
}

// UserFromAccessToken resolves a bearer token to its user document. Used
// by the auth middleware.
func (s *AuthService) UserFromAccessToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := jwtpkg.ValidateToken(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != jwtpkg.AccessToken {
		return nil, errors.New("invalid token")
	}

	user, err := s.userService.GetUser(ctx, claims.UID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/promptart/backend/internal/models"
)

const userCollection = "users"

// UserService is the typed access layer over the users collection.
type UserService struct {
	fs *firestore.Client
}

func NewUserService(fs *firestore.Client) *UserService {
	return &UserService{fs: fs}
}

// GetUser retrieves a user document by uid. A missing document is not an
// error; it returns (nil, nil).
func (s *UserService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	snap, err := s.fs.Collection(userCollection).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("while retrieving user %s: %w", uid, err)
	}

	user := &models.User{}
	if err := snap.DataTo(user); err != nil {
		return nil, fmt.Errorf("while unmarshaling user %s: %w", uid, err)
	}
	user.BackfillActivity()
	return user, nil
}

// ListUsers returns all users ordered by creation time descending.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	iter := s.fs.Collection(userCollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var users []*models.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while listing users: %w", err)
		}

		user := &models.User{}
		if err := snap.DataTo(user); err != nil {
			return nil, fmt.Errorf("while unmarshaling user %s: %w", snap.Ref.ID, err)
		}
		user.BackfillActivity()
		users = append(users, user)
	}
	return users, nil
}

// UpdateUserRole sets a user's role. Only an administrator action reaches
// this; the allow-list enforcement on sign-in can still override it.
func (s *UserService) UpdateUserRole(ctx context.Context, uid string, role models.UserRole) error {
	if !models.ValidRole(role) {
		return ErrInvalidRole
	}

	_, err := s.fs.Collection(userCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "role", Value: role},
	})
	if err != nil {
		return fmt.Errorf("while updating role for user %s: %w", uid, err)
	}
	return nil
}

// UpdateUserActive sets the isActive flag.
func (s *UserService) UpdateUserActive(ctx context.Context, uid string, isActive bool) error {
	_, err := s.fs.Collection(userCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "isActive", Value: isActive},
	})
	if err != nil {
		return fmt.Errorf("while updating isActive for user %s: %w", uid, err)
	}
	return nil
}

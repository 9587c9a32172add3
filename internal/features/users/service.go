package users

import (
	"context"
	"log"
	"sync"

	"github.com/flashreport/api/internal/features/auth"
	"github.com/flashreport/api/internal/pkg/apperror"
)

// Service carries user management operations. Role mutations go through here
// so the last-admin guard and the role write happen under one lock.
type Service struct {
	store auth.CredentialStore

	// adminMu serializes guard-then-mutate on roles. Two concurrent demotes
	// against the two remaining admins must not both observe count == 2.
	adminMu sync.Mutex
}

func NewService(store auth.CredentialStore) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, id string) (*auth.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Wrap(apperror.ErrNotFound, "User not found")
	}
	return user, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Wrap(apperror.ErrNotFound, "User not found")
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]auth.User, int64, error) {
	return s.store.List(ctx, offset, limit)
}

func (s *Service) ListByRole(ctx context.Context, role auth.Role) ([]auth.User, error) {
	return s.store.FindByRole(ctx, role)
}

func (s *Service) CountAdmins(ctx context.Context) (int64, error) {
	return s.store.CountByRole(ctx, auth.RoleAdmin)
}

func (s *Service) UpdateProfile(ctx context.Context, id string, update auth.ProfileUpdate) (*auth.User, error) {
	user, err := s.store.UpdateProfile(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Wrap(apperror.ErrNotFound, "User not found")
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Promote raises a user to ADMIN.
func (s *Service) Promote(ctx context.Context, id string) (*auth.User, error) {
	s.adminMu.Lock()
	defer s.adminMu.Unlock()

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == auth.RoleAdmin {
		return user, nil
	}

	updated, err := s.store.UpdateRole(ctx, id, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	log.Printf("users: promoted %s to admin", updated.Username)
	return updated, nil
}

// Demote lowers an admin to USER, refusing to remove the last admin. The
// count check and the role write sit inside the same critical section.
func (s *Service) Demote(ctx context.Context, id string) (*auth.User, error) {
	s.adminMu.Lock()
	defer s.adminMu.Unlock()

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	adminCount, err := s.store.CountByRole(ctx, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := auth.GuardLastAdmin(user, adminCount); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateRole(ctx, id, auth.RoleUser)
	if err != nil {
		return nil, err
	}
	log.Printf("users: demoted %s to regular user", updated.Username)
	return updated, nil
}

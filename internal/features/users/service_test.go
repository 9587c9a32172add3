package users

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/flashreport/api/internal/features/auth"
	"github.com/flashreport/api/internal/pkg/apperror"
)

// memStore is an in-memory credential store. Reads and writes take the
// store's own lock so concurrent service calls behave like a real database.
type memStore struct {
	mu    sync.Mutex
	users map[string]*auth.User // keyed by hex id
}

func newMemStore(users ...*auth.User) *memStore {
	s := &memStore{users: map[string]*auth.User{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		s.users[u.ID.Hex()] = u
	}
	return s
}

func (s *memStore) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *memStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, _ := s.FindByUsername(ctx, username)
	return u != nil, nil
}

func (s *memStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, _ := s.FindByEmail(ctx, email)
	return u != nil, nil
}

func (s *memStore) CountByRole(_ context.Context, role auth.Role) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (s *memStore) FindByRole(_ context.Context, role auth.Role) ([]auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []auth.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *memStore) List(_ context.Context, _, _ int) ([]auth.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []auth.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (s *memStore) Create(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID.Hex()] = user
	return nil
}

func (s *memStore) UpdateProfile(_ context.Context, id string, update auth.ProfileUpdate) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	if update.Firstname != nil {
		u.Firstname = *update.Firstname
	}
	if update.Lastname != nil {
		u.Lastname = *update.Lastname
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.PhoneNumber != nil {
		u.PhoneNumber = *update.PhoneNumber
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) UpdateRole(_ context.Context, id string, role auth.Role) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperror.Wrap(apperror.ErrNotFound, "User not found")
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return apperror.Wrap(apperror.ErrNotFound, "User not found")
	}
	delete(s.users, id)
	return nil
}

func TestDemoteLastAdminDenied(t *testing.T) {
	admin := &auth.User{Username: "root", Role: auth.RoleAdmin}
	store := newMemStore(admin)
	svc := NewService(store)

	_, err := svc.Demote(context.Background(), admin.ID.Hex())
	require.ErrorIs(t, err, apperror.ErrInvariant)

	kept, _ := store.FindByID(context.Background(), admin.ID.Hex())
	require.Equal(t, auth.RoleAdmin, kept.Role)
}

func TestDemoteSecondToLastAdminThenDenyLast(t *testing.T) {
	first := &auth.User{Username: "root", Role: auth.RoleAdmin}
	second := &auth.User{Username: "backup", Role: auth.RoleAdmin}
	store := newMemStore(first, second)
	svc := NewService(store)

	demoted, err := svc.Demote(context.Background(), second.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, auth.RoleUser, demoted.Role)

	_, err = svc.Demote(context.Background(), first.ID.Hex())
	require.ErrorIs(t, err, apperror.ErrInvariant)
}

// With exactly two admins, concurrent demotions of both must let at most one
// through; the serialized guard prevents reaching zero admins.
func TestConcurrentDemotesKeepOneAdmin(t *testing.T) {
	first := &auth.User{Username: "root", Role: auth.RoleAdmin}
	second := &auth.User{Username: "backup", Role: auth.RoleAdmin}
	store := newMemStore(first, second)
	svc := NewService(store)

	var wg sync.WaitGroup
	for _, id := range []string{first.ID.Hex(), second.ID.Hex()} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = svc.Demote(context.Background(), id)
		}(id)
	}
	wg.Wait()

	count, err := store.CountByRole(context.Background(), auth.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestPromoteSetsAdminRole(t *testing.T) {
	user := &auth.User{Username: "amara", Role: auth.RoleUser}
	store := newMemStore(user)
	svc := NewService(store)

	promoted, err := svc.Promote(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, auth.RoleAdmin, promoted.Role)

	// Promoting an admin again is a no-op, not an error.
	again, err := svc.Promote(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, auth.RoleAdmin, again.Role)
}

func TestDemoteUnknownUser(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.Demote(context.Background(), primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

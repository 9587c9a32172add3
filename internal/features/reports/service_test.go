package reports

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/flashreport/api/internal/features/auth"
	"github.com/flashreport/api/internal/features/notifications"
	"github.com/flashreport/api/internal/pkg/apperror"
)

// memReportStore is an in-memory Store keyed by hex id.
type memReportStore struct {
	mu      sync.Mutex
	reports map[string]*Report
}

func newMemReportStore() *memReportStore {
	return &memReportStore{reports: map[string]*Report{}}
}

func (s *memReportStore) Insert(_ context.Context, report *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	cp := *report
	s.reports[report.ID.Hex()] = &cp
	return nil
}

func (s *memReportStore) FindByID(_ context.Context, id string) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reports[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (s *memReportStore) Find(_ context.Context, filter Filter) ([]Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Report{}
	for _, r := range s.reports {
		if !filter.Owner.IsZero() && r.CreatedBy != filter.Owner {
			continue
		}
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *memReportStore) UpdateDetails(_ context.Context, id string, update DetailsUpdate) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, apperror.Wrap(apperror.ErrNotFound, "Report not found")
	}
	if update.Title != nil {
		r.Title = *update.Title
	}
	if update.Type != nil {
		r.Type = *update.Type
	}
	if update.Location != nil {
		r.Location = *update.Location
	}
	if update.Comment != nil {
		r.Comment = *update.Comment
	}
	cp := *r
	return &cp, nil
}

func (s *memReportStore) UpdateStatus(_ context.Context, id string, status Status) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, apperror.Wrap(apperror.ErrNotFound, "Report not found")
	}
	r.Status = status
	cp := *r
	return &cp, nil
}

func (s *memReportStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return apperror.Wrap(apperror.ErrNotFound, "Report not found")
	}
	delete(s.reports, id)
	return nil
}

// memUsers resolves owners by hex id.
type memUsers struct {
	users map[string]*auth.User
}

func newMemUsers(users ...*auth.User) *memUsers {
	m := &memUsers{users: map[string]*auth.User{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		m.users[u.ID.Hex()] = u
	}
	return m
}

func (m *memUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	return m.users[id], nil
}

// capturePublisher records published events.
type capturePublisher struct {
	mu     sync.Mutex
	events []notifications.StatusChangeEvent
}

func (p *capturePublisher) Publish(event notifications.StatusChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// failingCleaner always errors; deletion must survive it.
type failingCleaner struct {
	calls int
}

func (f *failingCleaner) Delete(_ context.Context, _, _ string) error {
	f.calls++
	return errors.New("cloudinary unavailable")
}

func principalFor(u *auth.User) *auth.Principal {
	return &auth.Principal{ID: u.ID.Hex(), Username: u.Username, Role: u.Role}
}

func newTestService(t *testing.T, users ...*auth.User) (*Service, *memReportStore, *capturePublisher) {
	t.Helper()
	store := newMemReportStore()
	pub := &capturePublisher{}
	svc := NewService(store, newMemUsers(users...), nil, pub)
	return svc, store, pub
}

func validCreate() CreateRequest {
	return CreateRequest{
		Title:    "Bridge collapse risk",
		Type:     TypeRedFlag,
		Location: "-1.2921,36.8219",
		Comment:  "Cracks widening on the main span",
	}
}

func TestCreateStartsAsDraft(t *testing.T) {
	owner := &auth.User{Username: "amara", Email: "amara@example.com", Role: auth.RoleUser}
	svc, _, _ := newTestService(t, owner)

	report, err := svc.Create(context.Background(), principalFor(owner), validCreate(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, StatusDraft, report.Status)
	require.Equal(t, owner.ID, report.CreatedBy)
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	owner := &auth.User{Username: "amara", Role: auth.RoleUser}
	svc, _, _ := newTestService(t, owner)

	req := validCreate()
	req.Title = "ab"
	_, err := svc.Create(context.Background(), principalFor(owner), req, nil, nil)
	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdateByNonOwnerDenied(t *testing.T) {
	owner := &auth.User{Username: "amara", Role: auth.RoleUser}
	other := &auth.User{Username: "kofi", Role: auth.RoleUser}
	svc, _, _ := newTestService(t, owner, other)

	report, err := svc.Create(context.Background(), principalFor(owner), validCreate(), nil, nil)
	require.NoError(t, err)

	title := "Hijacked"
	_, err = svc.Update(context.Background(), principalFor(other), report.ID.Hex(), UpdateRequest{Title: &title})
	require.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestUpdateRejectsStatusPayload(t *testing.T) {
	owner := &auth.User{Username: "amara", Role: auth.RoleUser}
	svc, store, _ := newTestService(t, owner)

	report, err := svc.Create(context.Background(), principalFor(owner), validCreate(), nil, nil)
	require.NoError(t, err)

	status := StatusResolved
	_, err = svc.Update(context.Background(), principalFor(owner), report.ID.Hex(), UpdateRequest{Status: &status})
	require.ErrorIs(t, err, apperror.ErrValidation)

	kept, _ := store.FindByID(context.Background(), report.ID.Hex())
	require.Equal(t, StatusDraft, kept.Status)
}

func TestTransitionStatusByNonAdminDenied(t *testing.T) {
	owner := &auth.User{Username: "amara", Role: auth.RoleUser}
	svc, _, pub := newTestService(t, owner)

	report, err := svc.Create(context.Background(), principalFor(owner), validCreate(), nil, nil)
	require.NoError(t, err)

	_, err = svc.TransitionStatus(context.Background(), principalFor(owner), report.ID.Hex(), StatusResolved)
	require.ErrorIs(t, err, apperror.ErrForbidden)
	require.Empty(t, pub.events)
}

func TestTransitionStatusPublishesOwnerEvent(t *testing.T) {
	owner := &auth.User{Username: "amara", Email: "amara@example.com", Role: auth.RoleUser}
	admin := &auth.User{Username: "root", Email: "root@example.com", Role: auth.RoleAdmin}
	svc, _, pub := newTestService(t, owner, admin)

	report, err := svc.Create(context.Background(), principalFor(owner), validCreate(), nil, nil)
	require.NoError(t, err)

	updated, err := svc.TransitionStatus(context.Background(), principalFor(admin), report.ID.Hex(), StatusUnderInvestigation)
	require.NoError(t, err)
	require.Equal(t, StatusUnderInvestigation, updated.Status)

	// Exactly one event, addressed to the report owner, not the admin.
	require.Len(t, pub.events, 1)
	event := pub.events[0]
	require.Equal(t, report.ID.Hex(), event.ReportID)
	require.Equal(t, report.Title, event.ReportTitle)
	require.Equal(t, "UNDER_INVESTIGATION", event.NewStatus)
	require.Equal(t, "amara@example.com", event.UserEmail)
}

func TestTransitionStatusUnknownStatus(t *testing.T) {
	admin := &auth.User{Username: "root", Role: auth.RoleAdmin}
	svc, _, _ := newTestService(t, admin)

	_, err := svc.TransitionStatus(context.Background(), principalFor(admin), primitive.NewObjectID().Hex(), Status("ARCHIVED"))
	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestListScopesToOwner(t *testing.T) {
	owner := &auth.User{Username: "amara", Role: auth.RoleUser}
	other := &auth.User{Username: "kofi", Role: auth.RoleUser}
	admin := &auth.User{Username: "root", Role: auth.RoleAdmin}
	svc, _, _ := newTestService(t, owner, other, admin)

	_, err := svc.Create(context.Background(), principalFor(owner), validCreate(), nil, nil)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), principalFor(other), validCreate(), nil, nil)
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), principalFor(owner), Filter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, owner.ID, mine[0].CreatedBy)

	all, err := svc.List(context.Background(), principalFor(admin), Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestListFiltersByType(t *testing.T) {
	admin := &auth.User{Username: "root", Role: auth.RoleAdmin}
	svc, _, _ := newTestService(t, admin)

	first := validCreate()
	_, err := svc.Create(context.Background(), principalFor(admin), first, nil, nil)
	require.NoError(t, err)

	second := validCreate()
	second.Type = TypeIntervention
	_, err = svc.Create(context.Background(), principalFor(admin), second, nil, nil)
	require.NoError(t, err)

	flagged, err := svc.List(context.Background(), principalFor(admin), Filter{Type: TypeRedFlag})
	require.NoError(t, err)
	require.Len(t, flagged, 1)
	require.Equal(t, TypeRedFlag, flagged[0].Type)
}

func TestGetByNonOwnerDenied(t *testing.T) {
	owner := &auth.User{Username: "amara", Role: auth.RoleUser}
	other := &auth.User{Username: "kofi", Role: auth.RoleUser}
	admin := &auth.User{Username: "root", Role: auth.RoleAdmin}
	svc, _, _ := newTestService(t, owner, other, admin)

	report, err := svc.Create(context.Background(), principalFor(owner), validCreate(), nil, nil)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), principalFor(other), report.ID.Hex())
	require.ErrorIs(t, err, apperror.ErrForbidden)

	got, err := svc.Get(context.Background(), principalFor(admin), report.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, report.ID, got.ID)
}

// The record must go away even when every media delete fails.
func TestDeleteSurvivesMediaFailure(t *testing.T) {
	owner := &auth.User{Username: "amara", Role: auth.RoleUser}
	store := newMemReportStore()
	cleaner := &failingCleaner{}
	svc := NewService(store, newMemUsers(owner), cleaner, &capturePublisher{})

	images := []Media{{URL: "https://cdn/img1", PublicID: "img1"}}
	videos := []Media{{URL: "https://cdn/vid1", PublicID: "vid1"}}
	report, err := svc.Create(context.Background(), principalFor(owner), validCreate(), images, videos)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), principalFor(owner), report.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, 2, cleaner.calls)

	gone, err := store.FindByID(context.Background(), report.ID.Hex())
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestDeleteUnknownReport(t *testing.T) {
	owner := &auth.User{Username: "amara", Role: auth.RoleUser}
	svc, _, _ := newTestService(t, owner)

	err := svc.Delete(context.Background(), principalFor(owner), primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

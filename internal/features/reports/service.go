package reports

import (
	"context"
	"log"

	"github.com/flashreport/api/internal/features/auth"
	"github.com/flashreport/api/internal/features/notifications"
	"github.com/flashreport/api/internal/pkg/apperror"
)

// UserLookup resolves report owners, mainly to find the email that status
// change notifications go to.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*auth.User, error)
}

// MediaCleaner removes uploaded assets when a report is deleted.
type MediaCleaner interface {
	Delete(ctx context.Context, publicID string, resourceType string) error
}

// Service enforces ownership and status rules around the report store.
// Events are published only after the status write has been persisted.
type Service struct {
	store  Store
	users  UserLookup
	media  MediaCleaner
	events notifications.Publisher
}

func NewService(store Store, users UserLookup, media MediaCleaner, events notifications.Publisher) *Service {
	return &Service{store: store, users: users, media: media, events: events}
}

// Create persists a new report for the caller. The status is always DRAFT
// regardless of what the client sent.
func (s *Service) Create(ctx context.Context, p *auth.Principal, req CreateRequest, images, videos []Media) (*Report, error) {
	if err := ValidateCreateRequest(&req); err != nil {
		return nil, apperror.Wrap(apperror.ErrValidation, "%s", err.Error())
	}

	owner, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperror.Wrap(apperror.ErrNotFound, "User not found")
	}

	report := &Report{
		CreatedBy: owner.ID,
		Title:     req.Title,
		Type:      req.Type,
		Location:  req.Location,
		Comment:   req.Comment,
		Status:    StatusDraft,
		Images:    images,
		Videos:    videos,
	}
	if err := s.store.Insert(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// List returns reports newest first. Non-admins only ever see their own.
func (s *Service) List(ctx context.Context, p *auth.Principal, filter Filter) ([]Report, error) {
	if !p.IsAdmin() {
		owner, err := s.users.FindByID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, apperror.Wrap(apperror.ErrNotFound, "User not found")
		}
		filter.Owner = owner.ID
	}
	return s.store.Find(ctx, filter)
}

// Get returns a single report, refusing access to non-owners.
func (s *Service) Get(ctx context.Context, p *auth.Principal, id string) (*Report, error) {
	return s.findAccessible(ctx, p, id)
}

// Update edits a report's details. Status payloads are rejected outright so
// the only path to a status change is TransitionStatus.
func (s *Service) Update(ctx context.Context, p *auth.Principal, id string, req UpdateRequest) (*Report, error) {
	if req.Status != nil {
		return nil, apperror.Wrap(apperror.ErrValidation, "Status updates must be done through the status endpoint")
	}
	if err := ValidateUpdateRequest(&req); err != nil {
		return nil, apperror.Wrap(apperror.ErrValidation, "%s", err.Error())
	}

	if _, err := s.findAccessible(ctx, p, id); err != nil {
		return nil, err
	}
	return s.store.UpdateDetails(ctx, id, req.Details())
}

// TransitionStatus moves a report to a new status. Admin only. The event
// goes out after the write lands, carrying the owner's email.
func (s *Service) TransitionStatus(ctx context.Context, p *auth.Principal, id string, status Status) (*Report, error) {
	if err := auth.RequireRole(p, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if _, ok := ParseStatus(string(status)); !ok {
		return nil, apperror.Wrap(apperror.ErrValidation, "Unknown report status")
	}

	updated, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	ownerEmail := ""
	if owner, err := s.users.FindByID(ctx, updated.CreatedBy.Hex()); err == nil && owner != nil {
		ownerEmail = owner.Email
	}

	if s.events != nil {
		s.events.Publish(notifications.StatusChangeEvent{
			ReportID:    updated.ID.Hex(),
			ReportTitle: updated.Title,
			NewStatus:   string(updated.Status),
			UserEmail:   ownerEmail,
		})
	}
	return updated, nil
}

// Delete removes a report and best-effort cleans up its media. A failed
// media delete is logged, not surfaced; the record still goes away.
func (s *Service) Delete(ctx context.Context, p *auth.Principal, id string) error {
	report, err := s.findAccessible(ctx, p, id)
	if err != nil {
		return err
	}

	if s.media != nil {
		for _, m := range report.Images {
			if m.PublicID == "" {
				continue
			}
			if err := s.media.Delete(ctx, m.PublicID, "image"); err != nil {
				log.Printf("reports: failed to delete image %s: %v", m.PublicID, err)
			}
		}
		for _, m := range report.Videos {
			if m.PublicID == "" {
				continue
			}
			if err := s.media.Delete(ctx, m.PublicID, "video"); err != nil {
				log.Printf("reports: failed to delete video %s: %v", m.PublicID, err)
			}
		}
	}

	return s.store.Delete(ctx, id)
}

func (s *Service) findAccessible(ctx context.Context, p *auth.Principal, id string) (*Report, error) {
	report, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, apperror.Wrap(apperror.ErrNotFound, "Report not found")
	}
	if err := auth.RequireOwnerOrAdmin(p, report.CreatedBy.Hex()); err != nil {
		return nil, err
	}
	return report, nil
}

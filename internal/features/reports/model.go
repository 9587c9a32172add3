package reports

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportType distinguishes corruption reports from calls for intervention.
type ReportType string

const (
	TypeRedFlag      ReportType = "RED_FLAG"
	TypeIntervention ReportType = "INTERVENTION"
)

func ParseReportType(s string) (ReportType, bool) {
	switch ReportType(s) {
	case TypeRedFlag, TypeIntervention:
		return ReportType(s), true
	}
	return "", false
}

// Status is the triage state of a report. New reports always start in DRAFT;
// only admins move them from there.
type Status string

const (
	StatusDraft              Status = "DRAFT"
	StatusUnderInvestigation Status = "UNDER_INVESTIGATION"
	StatusResolved           Status = "RESOLVED"
	StatusRejected           Status = "REJECTED"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusDraft, StatusUnderInvestigation, StatusResolved, StatusRejected:
		return Status(s), true
	}
	return "", false
}

// Media is one uploaded attachment. PublicID is kept so the asset can be
// removed from Cloudinary when the report is deleted.
type Media struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId" json:"publicId"`
}

type Report struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedOn time.Time          `bson:"createdOn" json:"createdOn"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	Title     string             `bson:"title" json:"title"`
	Type      ReportType         `bson:"type" json:"type"`
	Location  string             `bson:"location" json:"location"`
	Status    Status             `bson:"status" json:"status"`
	Images    []Media            `bson:"images" json:"images"`
	Videos    []Media            `bson:"videos" json:"videos"`
	Comment   string             `bson:"comment" json:"comment"`
}

// CreateRequest is the JSON part of the multipart create payload. Status is
// deliberately absent; reports always start as DRAFT.
type CreateRequest struct {
	Title    string     `json:"title"`
	Type     ReportType `json:"type"`
	Location string     `json:"location"`
	Comment  string     `json:"comment"`
}

// UpdateRequest covers the general PATCH body. Status is decoded so the
// handler can reject payloads that try to change it outside the status
// endpoint.
type UpdateRequest struct {
	Title    *string     `json:"title"`
	Type     *ReportType `json:"type"`
	Location *string     `json:"location"`
	Comment  *string     `json:"comment"`
	Status   *Status     `json:"status"`
}

// StatusRequest is the body of the admin status endpoint.
type StatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

// DetailsUpdate is the persisted subset of an update; status changes never
// travel through it.
type DetailsUpdate struct {
	Title    *string
	Type     *ReportType
	Location *string
	Comment  *string
}

func (r *UpdateRequest) Details() DetailsUpdate {
	return DetailsUpdate{
		Title:    r.Title,
		Type:     r.Type,
		Location: r.Location,
		Comment:  r.Comment,
	}
}

// Filter narrows report listings. Owner is empty for admin-wide queries.
type Filter struct {
	Owner  primitive.ObjectID
	Type   ReportType
	Status Status
}

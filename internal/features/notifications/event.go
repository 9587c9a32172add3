package notifications

// StatusChangeEvent is emitted after a report's status has been persisted.
// UserEmail is the report owner's address at the time of the change.
type StatusChangeEvent struct {
	ReportID    string
	ReportTitle string
	NewStatus   string
	UserEmail   string
}

package domain

// Channel selects the delivery medium of a notification.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Status update templates understood by the notification sender.
const (
	TemplateInProgress    = "in_progress"
	TemplateResolved      = "resolved"
	TemplateDeclined      = "declined"
	TemplateStatusChanged = "status_changed"
)

// StatusUpdate carries the fields rendered into a complaint status template.
type StatusUpdate struct {
	TrackingID    string
	ComplaintType string
	OldStatus     string
	NewStatus     string
	Barangay      string
}

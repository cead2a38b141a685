package notification

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/barangay-cms/internal/domain"
)

type statusTemplate struct {
	subject *template.Template
	body    *template.Template
}

func mustStatus(subject, body string) statusTemplate {
	return statusTemplate{
		subject: template.Must(template.New("subject").Parse(subject)),
		body:    template.Must(template.New("body").Parse(body)),
	}
}

const complaintDetails = `Complaint Details:
- Tracking ID: {{.TrackingID}}
- Type: {{.ComplaintType}}
- Status: {{.NewStatus}}
- Barangay: {{.Barangay}}`

var statusTemplates = map[string]statusTemplate{
	domain.TemplateInProgress: mustStatus(
		`Update: Your complaint #{{.TrackingID}} is now being processed`,
		`Good news! Your complaint has been received and is now being processed by the {{.Barangay}} Barangay Office.

`+complaintDetails+`

Our team is working on your complaint and will update you once it's resolved.`),
	domain.TemplateResolved: mustStatus(
		`Resolved: Your complaint #{{.TrackingID}} has been resolved`,
		`Great news! Your complaint has been successfully resolved by the {{.Barangay}} Barangay Office.

`+complaintDetails+`

If you have any concerns about this resolution, please contact the {{.Barangay}} Barangay Office directly.`),
	domain.TemplateDeclined: mustStatus(
		`Update: Your complaint #{{.TrackingID}} status has been updated`,
		`We've reviewed your complaint and updated its status.

`+complaintDetails+`

If you believe this decision was made in error, please contact the {{.Barangay}} Barangay Office directly.`),
	domain.TemplateStatusChanged: mustStatus(
		`Update: Your complaint #{{.TrackingID}} status has changed`,
		`Your complaint status has been updated by the {{.Barangay}} Barangay Office.

Complaint Details:
- Tracking ID: {{.TrackingID}}
- Type: {{.ComplaintType}}
- Previous Status: {{.OldStatus}}
- New Status: {{.NewStatus}}
- Barangay: {{.Barangay}}`),
}

var (
	statusFooter = template.Must(template.New("footer").Parse(`

---
This is an automated notification from the {{.Barangay}} Barangay Complaint Management System.
Please do not reply to this email.`))

	statusSMS = template.Must(template.New("sms").Parse(`Hello! Your complaint has been updated:
Complaint ID: {{.TrackingID}}
Status: {{.NewStatus}}
Updated by: {{.Barangay}} Admin
You can view your complaint details by logging into the system.
Best regards, CMS Team - {{.Barangay}}`))
)

// renderStatusEmail falls back to the generic status_changed template for unknown IDs.
func renderStatusEmail(templateID string, f domain.StatusUpdate) (subject, body string, err error) {
	t, ok := statusTemplates[templateID]
	if !ok {
		t = statusTemplates[domain.TemplateStatusChanged]
	}
	var sb, bb strings.Builder
	if err := t.subject.Execute(&sb, f); err != nil {
		return "", "", err
	}
	if err := t.body.Execute(&bb, f); err != nil {
		return "", "", err
	}
	if err := statusFooter.Execute(&bb, f); err != nil {
		return "", "", err
	}
	return sb.String(), bb.String(), nil
}

func renderStatusSMS(f domain.StatusUpdate) (string, error) {
	var b strings.Builder
	if err := statusSMS.Execute(&b, f); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderOTPEmail(code string, minutes int) (subject, body string) {
	subject = "Email Verification - Complaint Management System"
	body = fmt.Sprintf(`Hello!

Your verification code is: %s

This code will expire in %d minutes.

If you didn't request this verification, please ignore this email.

Best regards,
CMS Team`, code, minutes)
	return subject, body
}

func renderOTPSMS(code string, minutes int) string {
	return fmt.Sprintf("Your CMS verification code is %s. It expires in %d minutes.", code, minutes)
}

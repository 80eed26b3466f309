package domain

import (
	"strings"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusSubmitted ApplicationStatus = "submitted"
	ApplicationStatusReviewing ApplicationStatus = "reviewing"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusHold      ApplicationStatus = "hold"
)

// Application is a recruiting application, keyed by the normalized
// institutional email of the applicant.
type Application struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Email               string            `json:"email"`
	ContactEmail        string            `json:"contactEmail"`
	Phone               string            `json:"phone"`
	Department          string            `json:"department"`
	StudentID           string            `json:"studentId"`
	Essay1              string            `json:"essay1"`
	Essay2              string            `json:"essay2"`
	Essay3              string            `json:"essay3"`
	Github              string            `json:"github,omitempty"`
	Portfolio           string            `json:"portfolio,omitempty"`
	PasswordHash        string            `json:"-"`
	FailedAttempts      int               `json:"-"`
	LockedUntil         *time.Time        `json:"-"`
	Status              ApplicationStatus `json:"status"`
	StatusUpdatedBy     string            `json:"statusUpdatedBy,omitempty"`
	AcceptedMemberID    string            `json:"acceptedMemberId,omitempty"`
	DecisionEmailSentAt *time.Time        `json:"decisionEmailSentAt,omitempty"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// NormalizeEmail produces the canonical form used as the application key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NotifyEmail returns the address notifications should go to: the contact
// email when present, the institutional email otherwise.
func (a *Application) NotifyEmail() string {
	if strings.TrimSpace(a.ContactEmail) != "" {
		return a.ContactEmail
	}
	return a.Email
}

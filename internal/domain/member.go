package domain

import "time"

// Member is the full member record minted when an application is accepted.
// Only the keyed hash of the link code is ever stored; the plaintext is
// disclosed once in the acceptance response and never persisted.
type Member struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	Department        string     `json:"department"`
	StudentID         string     `json:"studentId"`
	Role              string     `json:"role"`
	Generation        int        `json:"generation"`
	SourceApplication string     `json:"sourceApplication"`
	LinkCodeHash      string     `json:"-"`
	LinkCodeExpiresAt *time.Time `json:"-"`
	LinkCodeUsedAt    *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
}

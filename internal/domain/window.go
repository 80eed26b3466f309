package domain

import "time"

// RecruitWindow is the singleton recruiting-window document.
type RecruitWindow struct {
	IsOpen            bool      `json:"isOpen"`
	OpenAt            time.Time `json:"openAt"`
	CloseAt           time.Time `json:"closeAt"`
	MessageWhenClosed string    `json:"messageWhenClosed"`
	Semester          string    `json:"semester"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// EffectivelyOpen reports whether applications may be submitted or edited:
// the flag must be on and now must fall inside [OpenAt, CloseAt].
func (w *RecruitWindow) EffectivelyOpen(now time.Time) bool {
	return w.IsOpen && !now.Before(w.OpenAt) && !now.After(w.CloseAt)
}

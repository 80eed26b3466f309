package service

import (
	"context"
	"time"

	"recruit-backend/internal/apperr"
	"recruit-backend/internal/domain"
	"recruit-backend/internal/repository"
)

const defaultClosedMessage = "recruiting is currently closed"

type windowService struct {
	windowRepo repository.WindowRepository
	now        func() time.Time
}

func NewWindowService(windowRepo repository.WindowRepository) WindowService {
	return &windowService{windowRepo: windowRepo, now: time.Now}
}

func (s *windowService) Get(ctx context.Context) (*domain.RecruitWindow, error) {
	return s.windowRepo.Get(ctx)
}

// RequireOpen rejects with 403 and the configured closed-message unless the
// window flag is on and now falls inside [openAt, closeAt].
func (s *windowService) RequireOpen(ctx context.Context) error {
	w, err := s.windowRepo.Get(ctx)
	if err != nil {
		return err
	}
	if !w.EffectivelyOpen(s.now()) {
		msg := w.MessageWhenClosed
		if msg == "" {
			msg = defaultClosedMessage
		}
		return apperr.Forbidden(msg)
	}
	return nil
}

func (s *windowService) Update(ctx context.Context, w *domain.RecruitWindow) error {
	return s.windowRepo.Put(ctx, w)
}

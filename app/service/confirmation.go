package service

import (
	"context"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-catalog/app/dto"
	"github.com/vibast-solutions/ms-go-catalog/app/entity"
	"github.com/vibast-solutions/ms-go-catalog/config"

	"github.com/google/uuid"
)

var (
	ErrConfirmationNotFound = errors.New("confirmation reference not found")
	ErrLinkExpired          = errors.New("the link has expired")
	ErrAlreadyConfirmed     = errors.New("registration has already been confirmed")
)

type ConfirmationService struct {
	userRepo         userRepository
	confirmationRepo confirmationRepository
	mailer           Mailer
	cfg              *config.Config
}

func NewConfirmationService(
	userRepo userRepository,
	confirmationRepo confirmationRepository,
	mailer Mailer,
	cfg *config.Config,
) *ConfirmationService {
	return &ConfirmationService{
		userRepo:         userRepo,
		confirmationRepo: confirmationRepo,
		mailer:           mailer,
		cfg:              cfg,
	}
}

// Confirm walks a pending confirmation to its terminal state. A record is
// confirmed at most once: repeated visits fail with ErrAlreadyConfirmed
// and an expired link fails with ErrLinkExpired. Expiry is checked before
// the confirmed flag, so an expired unconfirmed record can never be
// activated.
func (s *ConfirmationService) Confirm(ctx context.Context, confirmationID string) (*dto.ConfirmResult, error) {
	confirmation, err := s.confirmationRepo.FindByID(ctx, confirmationID)
	if err != nil {
		return nil, err
	}
	if confirmation == nil {
		return nil, ErrConfirmationNotFound
	}

	if !confirmation.Confirmed && confirmation.Expired(time.Now()) {
		return nil, ErrLinkExpired
	}
	if confirmation.Confirmed {
		return nil, ErrAlreadyConfirmed
	}

	user, err := s.userRepo.FindByID(ctx, confirmation.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrConfirmationNotFound
	}

	confirmation.Confirmed = true
	if err := s.confirmationRepo.Update(ctx, confirmation); err != nil {
		return nil, err
	}

	if !user.Activated {
		user.Activated = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return &dto.ConfirmResult{User: user, Confirmation: confirmation}, nil
}

// Resend supersedes the user's pending confirmation with a new one and
// mails a new activation link. The previous record is force-expired, not
// deleted. Unlike registration, a mail failure does not roll back the new
// confirmation: the user can request another resend without re-registering.
func (s *ConfirmationService) Resend(ctx context.Context, userID uint64) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	now := time.Now()

	mostRecent, err := s.confirmationRepo.FindMostRecentByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if mostRecent != nil {
		if mostRecent.Confirmed {
			return ErrAlreadyConfirmed
		}
		mostRecent.ExpireAt = now
		if err := s.confirmationRepo.Update(ctx, mostRecent); err != nil {
			return err
		}
	}

	confirmation := &entity.Confirmation{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpireAt:  now.Add(s.cfg.ConfirmationTTL),
		Confirmed: false,
		CreatedAt: now,
	}
	if err := s.confirmationRepo.Create(ctx, confirmation); err != nil {
		return err
	}

	return sendConfirmationEmail(ctx, s.mailer, s.cfg.PublicURL, user, confirmation.ID)
}

// List returns every confirmation the user has accumulated, ordered by
// expiration. Diagnostic use.
func (s *ConfirmationService) List(ctx context.Context, userID uint64) ([]*entity.Confirmation, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return s.confirmationRepo.ListByUserID(ctx, userID)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketing-site/internal/domain"
	"marketing-site/pkg/audit"
	"marketing-site/pkg/logger"
	"marketing-site/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const notifyTimeout = 30 * time.Second

type contactUsecase struct {
	repo     domain.ContactRepository
	notifier domain.ContactNotifier
	validate *validator.Validate
	audit    *audit.Logger
}

// NewContactUsecase creates a new contact usecase. notifier may be nil.
func NewContactUsecase(repo domain.ContactRepository, notifier domain.ContactNotifier, validate *validator.Validate, auditLog *audit.Logger) domain.ContactUsecase {
	if validate == nil {
		validate = validation.New()
	}
	if auditLog == nil {
		auditLog = audit.Nop()
	}
	return &contactUsecase{
		repo:     repo,
		notifier: notifier,
		validate: validate,
		audit:    auditLog,
	}
}

// Validate runs the required-field checks. Subject is never validated.
func (uc *contactUsecase) Validate(s *domain.ContactSubmission) domain.FieldErrors {
	if err := uc.validate.Struct(s); err != nil {
		return domain.FieldErrors(validation.FieldMessages(err))
	}
	return domain.FieldErrors{}
}

// Submit validates the submission and forwards it to the backend exactly once
func (uc *contactUsecase) Submit(ctx context.Context, s *domain.ContactSubmission) error {
	if fields := uc.Validate(s); !fields.Empty() {
		uc.audit.LogSubmission(ctx, audit.EventSubmissionRejected, s.Email, map[string]interface{}{"fields": keys(fields)})
		return &domain.ValidationError{Fields: fields}
	}

	if err := uc.repo.Create(ctx, s); err != nil {
		details := map[string]interface{}{"error": err.Error()}
		var be *domain.BackendError
		if errors.As(err, &be) {
			details["status"] = be.StatusCode
		}
		uc.audit.LogSubmission(ctx, audit.EventSubmissionFailed, s.Email, details)
		logger.Log.ErrorContext(ctx, "Error submitting contact form", "error", err)
		return fmt.Errorf("submit contact: %w", err)
	}

	uc.audit.LogSubmission(ctx, audit.EventSubmissionAccepted, s.Email, nil)

	if uc.notifier != nil {
		// The backend already has the submission; mail is best effort
		// and must not hold up the visitor's response.
		copied := *s
		go uc.notify(context.WithoutCancel(ctx), &copied)
	}
	return nil
}

func (uc *contactUsecase) notify(ctx context.Context, s *domain.ContactSubmission) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := uc.notifier.NotifyContact(ctx, s); err != nil {
		logger.Log.WarnContext(ctx, "Contact notification failed", "error", err)
	}
}

func keys(f domain.FieldErrors) []string {
	out := make([]string, 0, len(f))
	for _, k := range []string{domain.FieldName, domain.FieldEmail, domain.FieldMessage} {
		if _, ok := f[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

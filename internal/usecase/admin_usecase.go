package usecase

import (
	"context"
	"fmt"

	"marketing-site/internal/domain"
	"marketing-site/pkg/audit"
	"marketing-site/pkg/logger"
)

type adminUsecase struct {
	repo  domain.ContactRepository
	audit *audit.Logger
}

// NewAdminUsecase creates the submissions listing usecase.
// It performs no authorization; the admin view is open to any visitor.
func NewAdminUsecase(repo domain.ContactRepository, auditLog *audit.Logger) domain.AdminUsecase {
	if auditLog == nil {
		auditLog = audit.Nop()
	}
	return &adminUsecase{repo: repo, audit: auditLog}
}

// ListSubmissions returns stored contacts in backend order, never nil on success
func (uc *adminUsecase) ListSubmissions(ctx context.Context) ([]domain.StoredContact, error) {
	contacts, err := uc.repo.List(ctx)
	if err != nil {
		uc.audit.Log(ctx, audit.Event{
			Event:   audit.EventSubmissionsListFailed,
			Details: map[string]interface{}{"error": err.Error()},
		})
		logger.Log.ErrorContext(ctx, "Error fetching contacts", "error", err)
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if contacts == nil {
		contacts = []domain.StoredContact{}
	}

	uc.audit.Log(ctx, audit.Event{
		Event:   audit.EventSubmissionsListed,
		Details: map[string]interface{}{"count": len(contacts)},
	})
	return contacts, nil
}

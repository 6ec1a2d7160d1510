package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"marketing-site/internal/domain"
)

// AdminView is the state of the submissions modal
type AdminView struct {
	Open     bool
	Contacts []domain.StoredContact
	Error    string
}

// PageView is a consistent snapshot of a ContactPage
type PageView struct {
	Form       domain.ContactSubmission
	Errors     domain.FieldErrors
	Status     domain.SubmitStatus
	Submitting bool
	Admin      AdminView
}

// ContactPage holds the UI state of one visitor's page. State is only
// changed through Change, Submit, LoadSubmissions and CloseAdmin.
type ContactPage struct {
	contactUC domain.ContactUsecase
	adminUC   domain.AdminUsecase

	mu         sync.Mutex
	form       domain.ContactSubmission
	errors     domain.FieldErrors
	status     domain.SubmitStatus
	submitting bool
	admin      AdminView
	lastSeen   time.Time
	evicted    bool
}

func NewContactPage(contactUC domain.ContactUsecase, adminUC domain.AdminUsecase) *ContactPage {
	return &ContactPage{
		contactUC: contactUC,
		adminUC:   adminUC,
		errors:    domain.FieldErrors{},
		lastSeen:  time.Now(),
	}
}

// View returns a copy of the current state
func (p *ContactPage) View() PageView {
	p.mu.Lock()
	defer p.mu.Unlock()

	contacts := make([]domain.StoredContact, len(p.admin.Contacts))
	copy(contacts, p.admin.Contacts)

	return PageView{
		Form:       p.form,
		Errors:     p.errors.Clone(),
		Status:     p.status,
		Submitting: p.submitting,
		Admin: AdminView{
			Open:     p.admin.Open,
			Contacts: contacts,
			Error:    p.admin.Error,
		},
	}
}

// Change stores an edited field value and clears that field's error.
// Inputs are disabled while a submit is in flight.
func (p *ContactPage) Change(field, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.submitting {
		return domain.ErrSubmitInFlight
	}
	if !p.form.SetField(field, value) {
		return domain.ErrUnknownField
	}
	delete(p.errors, field)
	return nil
}

// Submit validates the current form and, when it passes, forwards it to the
// backend. A call while another submit is in flight is a no-op returning
// ErrSubmitInFlight. A failed validation returns the *domain.ValidationError
// and leaves the status untouched. Backend failures are reported through the
// status banner, not the returned error.
func (p *ContactPage) Submit(ctx context.Context) error {
	form, release, err := p.beginSubmit()
	if err != nil {
		return err
	}
	defer release()

	err = p.contactUC.Submit(ctx, &form)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.status = domain.SubmitStatus{Kind: domain.StatusError, Message: statusMessage(err)}
		return nil
	}
	p.status = domain.SubmitStatus{Kind: domain.StatusSuccess, Message: domain.SubmitSuccessMessage}
	p.form = domain.ContactSubmission{}
	return nil
}

// beginSubmit validates and acquires the in-flight flag. The returned release
// func must run on every exit path.
func (p *ContactPage) beginSubmit() (domain.ContactSubmission, func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSeen = time.Now()

	if p.submitting {
		return domain.ContactSubmission{}, nil, domain.ErrSubmitInFlight
	}

	form := p.form
	p.errors = p.contactUC.Validate(&form)
	if !p.errors.Empty() {
		return domain.ContactSubmission{}, nil, &domain.ValidationError{Fields: p.errors.Clone()}
	}

	p.submitting = true
	p.status = domain.SubmitStatus{}

	release := func() {
		p.mu.Lock()
		p.submitting = false
		p.mu.Unlock()
	}
	return form, release, nil
}

// LoadSubmissions fetches stored contacts and opens the admin modal. On
// failure the modal stays closed and the error is kept for display.
func (p *ContactPage) LoadSubmissions(ctx context.Context) error {
	contacts, err := p.adminUC.ListSubmissions(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSeen = time.Now()

	if err != nil {
		p.admin.Error = domain.ListFailedMessage + ": " + listMessage(err)
		return err
	}
	if contacts == nil {
		contacts = []domain.StoredContact{}
	}
	p.admin = AdminView{Open: true, Contacts: contacts}
	return nil
}

// CloseAdmin hides the submissions modal
func (p *ContactPage) CloseAdmin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.admin = AdminView{}
}

// evict marks the page evicted when it sat unused for longer than ttl.
// A page with a submit in flight never expires. Once evicted, touch fails,
// so a request can't keep working on a page the store dropped.
func (p *ContactPage) evict(now time.Time, ttl time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.evicted {
		return true
	}
	if p.submitting || now.Sub(p.lastSeen) <= ttl {
		return false
	}
	p.evicted = true
	return true
}

// touch records use of the page. It reports false for an evicted page.
func (p *ContactPage) touch() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.evicted {
		return false
	}
	p.lastSeen = time.Now()
	return true
}

func statusMessage(err error) string {
	var be *domain.BackendError
	if errors.As(err, &be) {
		return be.Message
	}
	return domain.SubmitTransportMessage
}

func listMessage(err error) string {
	var be *domain.BackendError
	if errors.As(err, &be) {
		return be.Message
	}
	return "Unknown error"
}

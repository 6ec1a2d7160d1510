package domain

import (
	"context"
	"errors"
	"fmt"
)

// Fixed user-facing messages for the contact flow
const (
	SubmitSuccessMessage   = "Thank you for your message! We will get back to you soon."
	SubmitFailedMessage    = "Failed to submit form"
	SubmitTransportMessage = "Failed to submit form. Please try again."
	ListFailedMessage      = "Failed to fetch contacts"
)

// Contact form field names
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldSubject = "subject"
	FieldMessage = "message"
)

// ErrSubmitInFlight is returned when a page already has a submit in progress.
var ErrSubmitInFlight = errors.New("submit already in flight")

// ErrUnknownField is returned when an edit targets a field the form does not have.
var ErrUnknownField = errors.New("unknown form field")

// ContactSubmission represents a contact form payload
type ContactSubmission struct {
	Name    string `json:"name" form:"name" validate:"not_blank"`
	Email   string `json:"email" form:"email" validate:"not_blank,contact_email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message" validate:"not_blank"`
}

// Field returns the value of the named field.
func (s ContactSubmission) Field(name string) (string, bool) {
	switch name {
	case FieldName:
		return s.Name, true
	case FieldEmail:
		return s.Email, true
	case FieldSubject:
		return s.Subject, true
	case FieldMessage:
		return s.Message, true
	}
	return "", false
}

// SetField assigns the named field. It reports false for unknown names.
func (s *ContactSubmission) SetField(name, value string) bool {
	switch name {
	case FieldName:
		s.Name = value
	case FieldEmail:
		s.Email = value
	case FieldSubject:
		s.Subject = value
	case FieldMessage:
		s.Message = value
	default:
		return false
	}
	return true
}

// StoredContact is a submission as persisted by the backend.
type StoredContact struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	CreatedAt int64  `json:"createdAt"`
}

// FieldErrors maps a form field name to its validation message
type FieldErrors map[string]string

// Empty reports whether no field failed.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Clone returns an independent copy.
func (f FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// ValidationError carries per-field validation failures.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// BackendError is a non-success response from the contact backend.
// Message is the backend-provided error string or a default.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, e.Message)
}

// StatusKind tags the outcome of the latest submit attempt.
type StatusKind string

const (
	StatusNone    StatusKind = ""
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// SubmitStatus is the transient status banner state.
type SubmitStatus struct {
	Kind    StatusKind
	Message string
}

// ContactRepository talks to the external contact backend
type ContactRepository interface {
	// Create sends one submission to the backend.
	Create(ctx context.Context, s *ContactSubmission) error
	// List returns stored contacts in backend order.
	List(ctx context.Context) ([]StoredContact, error)
}

// ContactNotifier tells site staff about an accepted submission
type ContactNotifier interface {
	NotifyContact(ctx context.Context, c *ContactSubmission) error
}

// ContactUsecase defines the contact form operations
type ContactUsecase interface {
	// Validate checks the required fields. It performs no I/O.
	Validate(s *ContactSubmission) FieldErrors
	// Submit validates and forwards a submission to the backend.
	Submit(ctx context.Context, s *ContactSubmission) error
}

// AdminUsecase defines the submissions listing operation
type AdminUsecase interface {
	ListSubmissions(ctx context.Context) ([]StoredContact, error)
}

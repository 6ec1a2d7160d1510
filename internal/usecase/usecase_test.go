package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketing-site/internal/domain"
	"marketing-site/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, s *domain.ContactSubmission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockContactRepo) List(ctx context.Context) ([]domain.StoredContact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StoredContact), args.Error(1)
}

func validForm() domain.ContactSubmission {
	return domain.ContactSubmission{Name: "Jane", Email: "jane@example.com", Subject: "Hello", Message: "Let's talk"}
}

func newPage(repo *MockContactRepo) *usecase.ContactPage {
	return usecase.NewContactPage(usecase.NewContactUsecase(repo, nil, nil, nil), usecase.NewAdminUsecase(repo, nil))
}

func fill(t *testing.T, p *usecase.ContactPage, f domain.ContactSubmission) {
	t.Helper()
	require.NoError(t, p.Change(domain.FieldName, f.Name))
	require.NoError(t, p.Change(domain.FieldEmail, f.Email))
	require.NoError(t, p.Change(domain.FieldSubject, f.Subject))
	require.NoError(t, p.Change(domain.FieldMessage, f.Message))
}

func TestContactValidate(t *testing.T) {
	uc := usecase.NewContactUsecase(new(MockContactRepo), nil, nil, nil)

	t.Run("Should pass with all required fields", func(t *testing.T) {
		f := validForm()
		assert.True(t, uc.Validate(&f).Empty())
	})

	t.Run("Should not validate subject", func(t *testing.T) {
		f := validForm()
		f.Subject = ""
		assert.True(t, uc.Validate(&f).Empty())
	})

	t.Run("Should report only the missing fields", func(t *testing.T) {
		f := validForm()
		f.Name = "   "
		f.Message = ""
		assert.Equal(t, domain.FieldErrors{
			"name":    "Name is required",
			"message": "Message is required",
		}, uc.Validate(&f))
	})

	t.Run("Should treat unicode whitespace and BOM as blank", func(t *testing.T) {
		f := validForm()
		f.Name = "\ufeff"
		f.Message = "\u00a0\u3000"
		assert.Equal(t, domain.FieldErrors{
			"name":    "Name is required",
			"message": "Message is required",
		}, uc.Validate(&f))
	})

	t.Run("Should report all required fields when empty", func(t *testing.T) {
		assert.Equal(t, domain.FieldErrors{
			"name":    "Name is required",
			"email":   "Email is required",
			"message": "Message is required",
		}, uc.Validate(&domain.ContactSubmission{}))
	})

	t.Run("Should check email shape", func(t *testing.T) {
		cases := map[string]bool{
			"a@b.c": true,
			"abc":   false,
			"a@b":   false,
			"@b.c":  false,
			"a@.c":  false,

			"a\u00a0b@c.d": false,
			"a@b\u2003c.d": false,
			"a@b.c\ufeff":  false,
			"a\vb@c.d":     false,
		}
		for email, ok := range cases {
			f := validForm()
			f.Email = email
			errs := uc.Validate(&f)
			if ok {
				assert.True(t, errs.Empty(), email)
				continue
			}
			assert.Equal(t, domain.FieldErrors{"email": "Please enter a valid email"}, errs, email)
		}
	})
}

func TestContactSubmit(t *testing.T) {
	t.Run("Should not call backend when validation fails", func(t *testing.T) {
		repo := new(MockContactRepo)
		uc := usecase.NewContactUsecase(repo, nil, nil, nil)

		err := uc.Submit(context.Background(), &domain.ContactSubmission{Name: "x"})
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "email")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should forward a valid submission once", func(t *testing.T) {
		repo := new(MockContactRepo)
		f := validForm()
		repo.On("Create", mock.Anything, &f).Return(nil).Once()

		uc := usecase.NewContactUsecase(repo, nil, nil, nil)
		require.NoError(t, uc.Submit(context.Background(), &f))
		repo.AssertExpectations(t)
	})

	t.Run("Should wrap backend errors", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(&domain.BackendError{StatusCode: 500, Message: "X"})

		uc := usecase.NewContactUsecase(repo, nil, nil, nil)
		f := validForm()
		err := uc.Submit(context.Background(), &f)
		var be *domain.BackendError
		require.True(t, errors.As(err, &be))
		assert.Equal(t, "X", be.Message)
	})

	t.Run("Should notify staff after the backend accepts", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		n := &chanNotifier{got: make(chan domain.ContactSubmission, 1), err: errors.New("smtp down")}

		uc := usecase.NewContactUsecase(repo, n, nil, nil)
		f := validForm()
		require.NoError(t, uc.Submit(context.Background(), &f), "notifier failure must not fail the submit")

		select {
		case got := <-n.got:
			assert.Equal(t, f, got)
		case <-time.After(time.Second):
			t.Fatal("notifier not called")
		}
	})

	t.Run("Should not notify when the backend rejects", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(&domain.BackendError{StatusCode: 500, Message: "X"})
		n := &chanNotifier{got: make(chan domain.ContactSubmission, 1)}

		uc := usecase.NewContactUsecase(repo, n, nil, nil)
		f := validForm()
		require.Error(t, uc.Submit(context.Background(), &f))

		select {
		case <-n.got:
			t.Fatal("notifier called for a failed submit")
		case <-time.After(50 * time.Millisecond):
		}
	})
}

type chanNotifier struct {
	got chan domain.ContactSubmission
	err error
}

func (n *chanNotifier) NotifyContact(_ context.Context, c *domain.ContactSubmission) error {
	n.got <- *c
	return n.err
}

func TestContactPageSubmit(t *testing.T) {
	t.Run("Should reset form and report success", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		p := newPage(repo)
		fill(t, p, validForm())

		require.NoError(t, p.Submit(context.Background()))

		v := p.View()
		assert.Equal(t, domain.ContactSubmission{}, v.Form)
		assert.Equal(t, domain.SubmitStatus{Kind: domain.StatusSuccess, Message: domain.SubmitSuccessMessage}, v.Status)
		assert.False(t, v.Submitting)
		assert.True(t, v.Errors.Empty())
	})

	t.Run("Should keep form and surface backend error", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(&domain.BackendError{StatusCode: 400, Message: "X"})
		p := newPage(repo)
		fill(t, p, validForm())

		require.NoError(t, p.Submit(context.Background()))

		v := p.View()
		assert.Equal(t, validForm(), v.Form)
		assert.Equal(t, domain.SubmitStatus{Kind: domain.StatusError, Message: "X"}, v.Status)
		assert.False(t, v.Submitting)
	})

	t.Run("Should use generic message on transport failure", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("dial tcp: connection refused"))
		p := newPage(repo)
		fill(t, p, validForm())

		require.NoError(t, p.Submit(context.Background()))
		assert.Equal(t, domain.SubmitTransportMessage, p.View().Status.Message)
	})

	t.Run("Should block on validation without touching status", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(&domain.BackendError{StatusCode: 500, Message: "down"}).Once()
		p := newPage(repo)
		fill(t, p, validForm())
		require.NoError(t, p.Submit(context.Background()))

		require.NoError(t, p.Change(domain.FieldEmail, "nope"))
		err := p.Submit(context.Background())

		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		v := p.View()
		assert.Equal(t, "Please enter a valid email", v.Errors["email"])
		assert.Equal(t, "down", v.Status.Message)
		repo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("Should send exactly once for two rapid submits", func(t *testing.T) {
		repo := new(MockContactRepo)
		started := make(chan struct{})
		unblock := make(chan struct{})
		repo.On("Create", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			close(started)
			<-unblock
		}).Return(nil)

		p := newPage(repo)
		fill(t, p, validForm())

		done := make(chan error, 1)
		go func() { done <- p.Submit(context.Background()) }()
		<-started

		assert.True(t, p.View().Submitting)
		assert.ErrorIs(t, p.Submit(context.Background()), domain.ErrSubmitInFlight)
		assert.ErrorIs(t, p.Change(domain.FieldName, "other"), domain.ErrSubmitInFlight)

		close(unblock)
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("submit did not finish")
		}
		repo.AssertNumberOfCalls(t, "Create", 1)
		assert.False(t, p.View().Submitting)
	})

	t.Run("Should release in-flight flag on panic", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("Create", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			panic("transport exploded")
		}).Return(nil)
		p := newPage(repo)
		fill(t, p, validForm())

		assert.Panics(t, func() { _ = p.Submit(context.Background()) })
		assert.False(t, p.View().Submitting)
	})
}

func TestContactPageChange(t *testing.T) {
	repo := new(MockContactRepo)
	p := newPage(repo)

	var verr *domain.ValidationError
	require.True(t, errors.As(p.Submit(context.Background()), &verr))
	require.Len(t, p.View().Errors, 3)

	require.NoError(t, p.Change(domain.FieldName, "J"))
	v := p.View()
	assert.NotContains(t, v.Errors, "name")
	assert.Contains(t, v.Errors, "email")
	assert.Equal(t, "J", v.Form.Name)

	assert.ErrorIs(t, p.Change("phone", "123"), domain.ErrUnknownField)
}

func TestContactPageLoadSubmissions(t *testing.T) {
	t.Run("Should open modal with empty list", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("List", mock.Anything).Return([]domain.StoredContact{}, nil)
		p := newPage(repo)

		require.NoError(t, p.LoadSubmissions(context.Background()))
		v := p.View()
		assert.True(t, v.Admin.Open)
		assert.Empty(t, v.Admin.Contacts)
		assert.Empty(t, v.Admin.Error)
	})

	t.Run("Should keep backend order", func(t *testing.T) {
		repo := new(MockContactRepo)
		contacts := []domain.StoredContact{{UserID: "b"}, {UserID: "a"}}
		repo.On("List", mock.Anything).Return(contacts, nil)
		p := newPage(repo)

		require.NoError(t, p.LoadSubmissions(context.Background()))
		assert.Equal(t, contacts, p.View().Admin.Contacts)

		p.CloseAdmin()
		assert.False(t, p.View().Admin.Open)
	})

	t.Run("Should keep modal closed on failure", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("List", mock.Anything).Return(nil, &domain.BackendError{StatusCode: 500, Message: "boom"})
		p := newPage(repo)

		assert.Error(t, p.LoadSubmissions(context.Background()))
		v := p.View()
		assert.False(t, v.Admin.Open)
		assert.Equal(t, "Failed to fetch contacts: boom", v.Admin.Error)
	})
}

func TestPageStore(t *testing.T) {
	repo := new(MockContactRepo)
	store := usecase.NewPageStore(usecase.NewContactUsecase(repo, nil, nil, nil), usecase.NewAdminUsecase(repo, nil), time.Minute)

	a := store.Get("session-a")
	assert.Same(t, a, store.Get("session-a"))
	assert.NotSame(t, a, store.Get("session-b"))

	assert.Equal(t, 0, store.Sweep(time.Now()))
	assert.Equal(t, 2, store.Sweep(time.Now().Add(2*time.Minute)))
	assert.NotSame(t, a, store.Get("session-a"))
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, map[string]string{"status": "ok", "redis": "disabled"}, usecase.NewHealthUsecase(nil).Check(ctx))
	assert.Equal(t, map[string]string{"status": "ok", "redis": "ok"}, usecase.NewHealthUsecase(stubPinger{}).Check(ctx))
	assert.Equal(t,
		map[string]string{"status": "degraded", "redis": "unreachable"},
		usecase.NewHealthUsecase(stubPinger{err: errors.New("i/o timeout")}).Check(ctx),
	)
}

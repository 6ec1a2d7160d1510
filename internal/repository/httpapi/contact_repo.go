package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"marketing-site/internal/domain"
	"marketing-site/pkg/auth"
)

// maxBodyBytes caps how much of a backend response is read
const maxBodyBytes = 1 << 20

type contactRepo struct {
	client          *http.Client
	baseURL         string
	submissionsPath string
	tokens          auth.TokenSource
}

// Options configures the backend repository
type Options struct {
	BaseURL string
	// SubmissionsPath is "/submissions" or the alternate "/contacts"
	SubmissionsPath string
	Client          *http.Client
	Tokens          auth.TokenSource
}

func NewContactRepository(opts Options) domain.ContactRepository {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	path := opts.SubmissionsPath
	if path == "" {
		path = "/submissions"
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = auth.StaticToken("")
	}
	return &contactRepo{
		client:          client,
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		submissionsPath: path,
		tokens:          tokens,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

type listBody struct {
	Contacts []domain.StoredContact `json:"contacts"`
}

// Create posts the submission as JSON to {base}/contact
func (r *contactRepo) Create(ctx context.Context, s *domain.ContactSubmission) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	req, err := r.newRequest(ctx, http.MethodPost, "/contact", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := r.do(req)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return backendError(status, body, domain.SubmitFailedMessage)
	}

	// An empty success body is accepted; anything else must be JSON
	if len(bytes.TrimSpace(body)) > 0 && !json.Valid(body) {
		return fmt.Errorf("decode contact response: invalid JSON")
	}
	return nil
}

// List fetches stored contacts from {base}{submissionsPath}
func (r *contactRepo) List(ctx context.Context) ([]domain.StoredContact, error) {
	req, err := r.newRequest(ctx, http.MethodGet, r.submissionsPath, nil)
	if err != nil {
		return nil, err
	}

	body, status, err := r.do(req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, backendError(status, body, domain.ListFailedMessage)
	}

	var out listBody
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode submissions response: %w", err)
	}
	if out.Contacts == nil {
		return []domain.StoredContact{}, nil
	}
	return out.Contacts, nil
}

func (r *contactRepo) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")

	token, err := r.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("backend token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (r *contactRepo) do(req *http.Request) ([]byte, int, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s response: %w", req.URL.Path, err)
	}
	return body, resp.StatusCode, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// backendError surfaces body.error when present, else fallback
func backendError(status int, body []byte, fallback string) *domain.BackendError {
	var eb errorBody
	msg := fallback
	if err := json.Unmarshal(body, &eb); err == nil && strings.TrimSpace(eb.Error) != "" {
		msg = eb.Error
	}
	return &domain.BackendError{StatusCode: status, Message: msg}
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/straye-as/client-admin/internal/domain"
)

// ClientsService covers /api/clients
type ClientsService struct {
	client *Client
}

// List returns every client
func (s *ClientsService) List(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	if err := s.client.do(ctx, http.MethodGet, "/api/clients", nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// Count returns the total number of clients
func (s *ClientsService) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.client.do(ctx, http.MethodGet, "/api/clients/count", nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// Get returns one client
func (s *ClientsService) Get(ctx context.Context, id int64) (*domain.Client, error) {
	var c domain.Client
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/clients/%d", id), nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Search runs the backend keyword search
func (s *ClientsService) Search(ctx context.Context, keyword string) ([]domain.Client, error) {
	var clients []domain.Client
	path := "/api/clients/search?keyword=" + url.QueryEscape(keyword)
	if err := s.client.do(ctx, http.MethodGet, path, nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// Create creates one client
func (s *ClientsService) Create(ctx context.Context, req domain.CreateClientRequest) (*domain.Client, error) {
	var c domain.Client
	if err := s.client.do(ctx, http.MethodPost, "/api/clients", req, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update replaces a client's fields
func (s *ClientsService) Update(ctx context.Context, id int64, req domain.UpdateClientRequest) (*domain.Client, error) {
	var c domain.Client
	if err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/api/clients/%d", id), req, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete deletes a client
func (s *ClientsService) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/clients/%d", id), nil, nil)
}

// BulkCreate creates all candidates in one request and returns the created records
func (s *ClientsService) BulkCreate(ctx context.Context, reqs []domain.CreateClientRequest) ([]domain.Client, error) {
	var created []domain.Client
	if err := s.client.do(ctx, http.MethodPost, "/api/clients/bulk", reqs, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// DraftsService covers /api/drafts
type DraftsService struct {
	client *Client
}

// List returns every draft
func (s *DraftsService) List(ctx context.Context) ([]domain.Draft, error) {
	var drafts []domain.Draft
	if err := s.client.do(ctx, http.MethodGet, "/api/drafts", nil, &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

// Get returns one draft
func (s *DraftsService) Get(ctx context.Context, id int64) (*domain.Draft, error) {
	var d domain.Draft
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/drafts/%d", id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create creates a draft
func (s *DraftsService) Create(ctx context.Context, req domain.CreateDraftRequest) (*domain.Draft, error) {
	var d domain.Draft
	if err := s.client.do(ctx, http.MethodPost, "/api/drafts", req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Update replaces a draft's fields
func (s *DraftsService) Update(ctx context.Context, id int64, req domain.UpdateDraftRequest) (*domain.Draft, error) {
	var d domain.Draft
	if err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/api/drafts/%d", id), req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Delete deletes a draft
func (s *DraftsService) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/drafts/%d", id), nil, nil)
}

// LogsService covers /api/logs
type LogsService struct {
	client *Client
}

// List returns every audit log entry
func (s *LogsService) List(ctx context.Context) ([]domain.AuditLog, error) {
	var logs []domain.AuditLog
	if err := s.client.do(ctx, http.MethodGet, "/api/logs", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// AuthService covers /api/auth
type AuthService struct {
	client *Client
}

// Login exchanges an email for a token and user profile
func (s *AuthService) Login(ctx context.Context, email string) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := s.client.do(ctx, http.MethodPost, "/api/auth/login", domain.LoginRequest{Email: email}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

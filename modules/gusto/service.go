package gusto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/jack-davidson/gusto-go/common/model"
)

// ErrNoToken is returned when a call is attempted without an access token.
var ErrNoToken = errors.New("no token provided")

// ProfileError reports a /v1/me response missing a field that company
// scoping depends on, e.g. the caller has no payroll_admin role or belongs
// to zero companies.
type ProfileError struct {
	Path string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("malformed profile: missing %s", e.Path)
}

// Service is the higher-level interface for payroll resources, scoped to
// the caller's company. Access tokens are caller-owned and passed per call;
// nothing here stores or refreshes them.
type Service interface {
	Me(ctx context.Context, token *oauth2.Token) (*model.UserProfile, error)
	CompanyID(ctx context.Context, token *oauth2.Token) (int64, error)
	GetContractors(ctx context.Context, token *oauth2.Token) (json.RawMessage, error)
	GetEmployees(ctx context.Context, token *oauth2.Token) (json.RawMessage, error)
	ListContractors(ctx context.Context, token *oauth2.Token) ([]model.Contractor, error)
	ListEmployees(ctx context.Context, token *oauth2.Token) ([]model.Employee, error)
}

// gustoService is the concrete implementation that uses Client.
type gustoService struct {
	client Client
}

// NewService constructs a Service.
func NewService(client Client) Service {
	return &gustoService{client: client}
}

// Me fetches the current user's profile from /v1/me.
func (s *gustoService) Me(ctx context.Context, token *oauth2.Token) (*model.UserProfile, error) {
	if token == nil || token.AccessToken == "" {
		return nil, ErrNoToken
	}

	var profile model.UserProfile
	if err := s.client.GetJSON(ctx, "v1/me", &profile, token, nil); err != nil {
		return nil, err
	}
	return &profile, nil
}

// CompanyID derives the company identifier from the current profile. The
// first company of the payroll_admin role scopes all resource requests;
// multi-company admins are not otherwise supported. The profile is
// re-fetched on every call.
func (s *gustoService) CompanyID(ctx context.Context, token *oauth2.Token) (int64, error) {
	profile, err := s.Me(ctx, token)
	if err != nil {
		return 0, err
	}

	if profile.Roles.PayrollAdmin == nil {
		return 0, &ProfileError{Path: "roles.payroll_admin"}
	}
	if len(profile.Roles.PayrollAdmin.Companies) == 0 {
		return 0, &ProfileError{Path: "roles.payroll_admin.companies"}
	}
	return profile.Roles.PayrollAdmin.Companies[0].ID, nil
}

// GetContractors fetches the company's contractors and returns the response
// body as the server sent it.
func (s *gustoService) GetContractors(ctx context.Context, token *oauth2.Token) (json.RawMessage, error) {
	companyID, err := s.CompanyID(ctx, token)
	if err != nil {
		return nil, err
	}

	data, err := s.client.GetBytes(ctx, fmt.Sprintf("v1/companies/%d/contractors", companyID), token, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// GetEmployees fetches the company's employees and returns the response
// body as the server sent it.
func (s *gustoService) GetEmployees(ctx context.Context, token *oauth2.Token) (json.RawMessage, error) {
	companyID, err := s.CompanyID(ctx, token)
	if err != nil {
		return nil, err
	}

	data, err := s.client.GetBytes(ctx, fmt.Sprintf("v1/companies/%d/employees", companyID), token, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// ListContractors is GetContractors decoded into typed entries.
func (s *gustoService) ListContractors(ctx context.Context, token *oauth2.Token) ([]model.Contractor, error) {
	data, err := s.GetContractors(ctx, token)
	if err != nil {
		return nil, err
	}

	var contractors []model.Contractor
	if err := model.JSONUnmarshal(data, &contractors); err != nil {
		return nil, fmt.Errorf("failed to decode contractors: %w", err)
	}
	return contractors, nil
}

// ListEmployees is GetEmployees decoded into typed entries.
func (s *gustoService) ListEmployees(ctx context.Context, token *oauth2.Token) ([]model.Employee, error) {
	data, err := s.GetEmployees(ctx, token)
	if err != nil {
		return nil, err
	}

	var employees []model.Employee
	if err := model.JSONUnmarshal(data, &employees); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}
	return employees, nil
}

package model

import "encoding/json"

// If you want a helper for JSON unmarshal:
func JSONUnmarshal(data []byte, out interface{}) error {
	return json.Unmarshal(data, out)
}

// ----------------------------------------------------------------------
// Token endpoint shapes
// ----------------------------------------------------------------------

// TokenResponse is the /oauth/token success body.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// TokenError is the /oauth/token failure body. The provider reports OAuth
// failures here rather than through the HTTP status alone.
type TokenError struct {
	ErrorCode        string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ----------------------------------------------------------------------
// Profile shapes (/v1/me)
// ----------------------------------------------------------------------

// UserProfile is the /v1/me response.
type UserProfile struct {
	ID    int64  `json:"id,omitempty"`
	Email string `json:"email"`
	Roles Roles  `json:"roles"`
}

// Roles groups per-role data on a profile. Company scoping only ever reads
// the payroll_admin role.
type Roles struct {
	PayrollAdmin *PayrollAdmin `json:"payroll_admin,omitempty"`
}

// PayrollAdmin lists the companies the user administers.
type PayrollAdmin struct {
	Companies []Company `json:"companies"`
}

// Company as embedded in a profile's payroll_admin role.
type Company struct {
	ID            int64  `json:"id"`
	Name          string `json:"name,omitempty"`
	TradeName     string `json:"trade_name,omitempty"`
	EIN           string `json:"ein,omitempty"`
	EntityType    string `json:"entity_type,omitempty"`
	CompanyStatus string `json:"company_status,omitempty"`
}

// ----------------------------------------------------------------------
// Company resource shapes
// ----------------------------------------------------------------------

// Employee is one entry of /v1/companies/{id}/employees.
type Employee struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"first_name"`
	MiddleInitial string `json:"middle_initial,omitempty"`
	LastName      string `json:"last_name"`
	Email         string `json:"email,omitempty"`
	CompanyID     int64  `json:"company_id"`
	Department    string `json:"department,omitempty"`
	Terminated    bool   `json:"terminated,omitempty"`
}

// Contractor is one entry of /v1/companies/{id}/contractors. Individual
// contractors carry name fields, business contractors a business name.
type Contractor struct {
	ID           int64  `json:"id"`
	CompanyID    int64  `json:"company_id"`
	Type         string `json:"type,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	HourlyRate   string `json:"hourly_rate,omitempty"`
	IsActive     bool   `json:"is_active,omitempty"`
}

package gusto_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jack-davidson/gusto-go/common"
	"github.com/jack-davidson/gusto-go/modules/gusto"
)

const adminProfile = `{"id":1,"email":"admin@example.com","roles":{"payroll_admin":{"companies":[{"id":42,"name":"Acme Corp"},{"id":43,"name":"Second Co"}]}}}`

const employeesBody = `[{"id":100,"first_name":"Ada","last_name":"Lovelace","company_id":42},{"id":101,"first_name":"Alan","last_name":"Turing","company_id":42}]`

const contractorsBody = `[{"id":200,"company_id":42,"type":"Individual","first_name":"Grace","last_name":"Hopper"}]`

type testAPI struct {
	service         gusto.Service
	meCalls         *int64
	employeeCalls   *int64
	contractorCalls *int64
}

func newTestAPI(t *testing.T, profile string) *testAPI {
	t.Helper()

	var meCalls, employeeCalls, contractorCalls int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer a1" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"unauthorized"}`)
			return
		}

		switch r.URL.Path {
		case "/v1/me":
			atomic.AddInt64(&meCalls, 1)
			fmt.Fprint(w, profile)
		case "/v1/companies/42/employees":
			atomic.AddInt64(&employeeCalls, 1)
			fmt.Fprint(w, employeesBody)
		case "/v1/companies/42/contractors":
			atomic.AddInt64(&contractorCalls, 1)
			fmt.Fprint(w, contractorsBody)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)

	hc := common.NewGustoHttpClient("gusto-go-test", &http.Client{})
	return &testAPI{
		service:         gusto.NewService(gusto.NewClient(ts.URL, hc, nil)),
		meCalls:         &meCalls,
		employeeCalls:   &employeeCalls,
		contractorCalls: &contractorCalls,
	}
}

func testToken() *oauth2.Token {
	return &oauth2.Token{AccessToken: "a1"}
}

func TestService_Me(t *testing.T) {
	api := newTestAPI(t, adminProfile)

	profile, err := api.service.Me(context.Background(), testToken())
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", profile.Email)
	require.NotNil(t, profile.Roles.PayrollAdmin)
	assert.Len(t, profile.Roles.PayrollAdmin.Companies, 2)
}

func TestService_Me_NoToken(t *testing.T) {
	api := newTestAPI(t, adminProfile)

	_, err := api.service.Me(context.Background(), nil)
	require.ErrorIs(t, err, gusto.ErrNoToken)

	_, err = api.service.Me(context.Background(), &oauth2.Token{})
	require.ErrorIs(t, err, gusto.ErrNoToken)
}

func TestService_CompanyID_TakesFirstCompany(t *testing.T) {
	api := newTestAPI(t, adminProfile)

	id, err := api.service.CompanyID(context.Background(), testToken())
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestService_CompanyID_NoPayrollAdminRole(t *testing.T) {
	api := newTestAPI(t, `{"id":1,"email":"employee@example.com","roles":{}}`)

	_, err := api.service.CompanyID(context.Background(), testToken())
	require.Error(t, err)

	var profileErr *gusto.ProfileError
	require.True(t, errors.As(err, &profileErr))
	assert.Equal(t, "roles.payroll_admin", profileErr.Path)
}

func TestService_CompanyID_NoCompanies(t *testing.T) {
	api := newTestAPI(t, `{"id":1,"email":"admin@example.com","roles":{"payroll_admin":{"companies":[]}}}`)

	_, err := api.service.CompanyID(context.Background(), testToken())
	require.Error(t, err)

	var profileErr *gusto.ProfileError
	require.True(t, errors.As(err, &profileErr))
	assert.Equal(t, "roles.payroll_admin.companies", profileErr.Path)
}

func TestService_GetEmployees_PassesBodyThrough(t *testing.T) {
	api := newTestAPI(t, adminProfile)

	data, err := api.service.GetEmployees(context.Background(), testToken())
	require.NoError(t, err)
	assert.Equal(t, employeesBody, string(data))
	assert.Equal(t, int64(1), atomic.LoadInt64(api.meCalls))
	assert.Equal(t, int64(1), atomic.LoadInt64(api.employeeCalls))
}

func TestService_GetContractors_PassesBodyThrough(t *testing.T) {
	api := newTestAPI(t, adminProfile)

	data, err := api.service.GetContractors(context.Background(), testToken())
	require.NoError(t, err)
	assert.Equal(t, contractorsBody, string(data))
	assert.Equal(t, int64(1), atomic.LoadInt64(api.meCalls))
	assert.Equal(t, int64(1), atomic.LoadInt64(api.contractorCalls))
}

// The profile is never memoized: each company-scoped call re-fetches /v1/me.
func TestService_ProfileRefetchedPerResourceCall(t *testing.T) {
	api := newTestAPI(t, adminProfile)
	ctx := context.Background()

	_, err := api.service.GetEmployees(ctx, testToken())
	require.NoError(t, err)
	_, err = api.service.GetContractors(ctx, testToken())
	require.NoError(t, err)
	_, err = api.service.GetEmployees(ctx, testToken())
	require.NoError(t, err)

	assert.Equal(t, int64(3), atomic.LoadInt64(api.meCalls))
	assert.Equal(t, int64(2), atomic.LoadInt64(api.employeeCalls))
	assert.Equal(t, int64(1), atomic.LoadInt64(api.contractorCalls))
}

func TestService_ListEmployees(t *testing.T) {
	api := newTestAPI(t, adminProfile)

	employees, err := api.service.ListEmployees(context.Background(), testToken())
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "Ada", employees[0].FirstName)
	assert.Equal(t, int64(42), employees[0].CompanyID)
}

func TestService_ListContractors(t *testing.T) {
	api := newTestAPI(t, adminProfile)

	contractors, err := api.service.ListContractors(context.Background(), testToken())
	require.NoError(t, err)
	require.Len(t, contractors, 1)
	assert.Equal(t, "Individual", contractors[0].Type)
	assert.Equal(t, "Grace", contractors[0].FirstName)
}

func TestService_HTTPErrorPropagates(t *testing.T) {
	api := newTestAPI(t, adminProfile)

	_, err := api.service.Me(context.Background(), &oauth2.Token{AccessToken: "wrong"})
	require.Error(t, err)

	var httpErr *common.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/taeyang999/xposconnect-sub000/api/middleware"
	"github.com/taeyang999/xposconnect-sub000/internal/customers"
	"github.com/taeyang999/xposconnect-sub000/internal/employees"
	"github.com/taeyang999/xposconnect-sub000/internal/permissions"
	"github.com/taeyang999/xposconnect-sub000/internal/reports"
	"github.com/taeyang999/xposconnect-sub000/internal/users"
	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
	"github.com/taeyang999/xposconnect-sub000/pkg/config"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
)

type testCustomersService struct {
	listFn   func(ctx context.Context, actor permissions.Access, params customers.ListParams) (*customers.ListResult, error)
	createFn func(ctx context.Context, actor permissions.Access, input customers.CreateInput) (*models.Customer, error)
	deleteFn func(ctx context.Context, actor permissions.Access, id uuid.UUID) error
}

func (s *testCustomersService) List(ctx context.Context, actor permissions.Access, params customers.ListParams) (*customers.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, actor, params)
	}
	return &customers.ListResult{}, nil
}

func (s *testCustomersService) Get(ctx context.Context, actor permissions.Access, id uuid.UUID) (*models.Customer, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
}

func (s *testCustomersService) Create(ctx context.Context, actor permissions.Access, input customers.CreateInput) (*models.Customer, error) {
	if s.createFn != nil {
		return s.createFn(ctx, actor, input)
	}
	return &models.Customer{Name: input.Name}, nil
}

func (s *testCustomersService) Update(ctx context.Context, actor permissions.Access, id uuid.UUID, input customers.UpdateInput) (*models.Customer, error) {
	return &models.Customer{ID: id}, nil
}

func (s *testCustomersService) Delete(ctx context.Context, actor permissions.Access, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, actor, id)
	}
	return nil
}

type testReportsService struct {
	exportFn func(ctx context.Context, actor permissions.Access, resource reports.Resource, format reports.Format) (*reports.Export, error)
}

func (s *testReportsService) Summary(ctx context.Context, actor permissions.Access) (*reports.Summary, error) {
	return &reports.Summary{}, nil
}

func (s *testReportsService) Export(ctx context.Context, actor permissions.Access, resource reports.Resource, format reports.Format) (*reports.Export, error) {
	return s.exportFn(ctx, actor, resource, format)
}

type testEmployeesService struct {
	syncFn       func(ctx context.Context, identity *auth.Identity) (*models.User, error)
	assignableFn func(ctx context.Context, actor permissions.Access) []employees.Assignee
}

func (s *testEmployeesService) List(ctx context.Context, actor permissions.Access, filter users.ListFilter) ([]employees.EmployeeView, error) {
	return nil, nil
}

func (s *testEmployeesService) Invite(ctx context.Context, actor permissions.Access, input employees.InviteInput) (*employees.InviteResult, error) {
	return &employees.InviteResult{}, nil
}

func (s *testEmployeesService) Update(ctx context.Context, actor permissions.Access, email string, input users.UpdateProfileDTO) (*employees.EmployeeView, error) {
	return &employees.EmployeeView{}, nil
}

func (s *testEmployeesService) Assignable(ctx context.Context, actor permissions.Access) []employees.Assignee {
	if s.assignableFn != nil {
		return s.assignableFn(ctx, actor)
	}
	return nil
}

func (s *testEmployeesService) SyncIdentity(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	if s.syncFn != nil {
		return s.syncFn(ctx, identity)
	}
	return &models.User{Email: identity.Email}, nil
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func withAccess(req *http.Request, access permissions.Access) *http.Request {
	return req.WithContext(middleware.WithAccess(req.Context(), access))
}

func managerAccess() permissions.Access {
	set := permissions.FallbackPermissions(enums.AppRoleManager)
	return permissions.Access{Email: "mia@example.com", IsManager: true, UserRole: enums.AppRoleManager, Permissions: set}
}

func TestCreateCustomerDecodesAndReturns201(t *testing.T) {
	var gotActor permissions.Access
	svc := &testCustomersService{
		createFn: func(ctx context.Context, actor permissions.Access, input customers.CreateInput) (*models.Customer, error) {
			gotActor = actor
			return &models.Customer{ID: uuid.New(), Name: input.Name}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(`{"name":"Acme"}`))
	req = withAccess(req, managerAccess())
	resp := httptest.NewRecorder()
	CreateCustomer(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotActor.Email != "mia@example.com" {
		t.Fatalf("actor not forwarded: %+v", gotActor)
	}
}

func TestCreateCustomerRejectsMissingName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(`{"company":"Acme"}`))
	resp := httptest.NewRecorder()
	CreateCustomer(&testCustomersService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListCustomersParsesQuery(t *testing.T) {
	var captured customers.ListParams
	svc := &testCustomersService{
		listFn: func(ctx context.Context, actor permissions.Access, params customers.ListParams) (*customers.ListResult, error) {
			captured = params
			return &customers.ListResult{}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers?q=acme&include_inactive=true&limit=5", nil)
	resp := httptest.NewRecorder()
	ListCustomers(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if captured.Search != "acme" || !captured.IncludeInactive || captured.Limit != 5 {
		t.Fatalf("unexpected params %+v", captured)
	}
}

func TestDeleteCustomerMapsForbidden(t *testing.T) {
	id := uuid.New()
	svc := &testCustomersService{
		deleteFn: func(ctx context.Context, actor permissions.Access, got uuid.UUID) error {
			if got != id {
				t.Fatalf("unexpected id %s", got)
			}
			return actor.Require(permissions.CanDeleteCustomers)
		},
	}
	employee := permissions.Access{Email: "emma@example.com", UserRole: enums.AppRoleEmployee, Permissions: permissions.FallbackPermissions(enums.AppRoleEmployee)}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/customers/"+id.String(), nil)
	req = withAccess(addRouteParam(req, "customerId", id.String()), employee)
	resp := httptest.NewRecorder()
	DeleteCustomer(svc, testLogger())(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/customers/"+id.String(), nil)
	req = withAccess(addRouteParam(req, "customerId", id.String()), managerAccess())
	resp = httptest.NewRecorder()
	DeleteCustomer(svc, testLogger())(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
}

func TestGetCustomerInvalidID(t *testing.T) {
	req := addRouteParam(httptest.NewRequest(http.MethodGet, "/api/v1/customers/nope", nil), "customerId", "nope")
	resp := httptest.NewRecorder()
	GetCustomer(&testCustomersService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestExportReportWritesAttachment(t *testing.T) {
	svc := &testReportsService{
		exportFn: func(ctx context.Context, actor permissions.Access, resource reports.Resource, format reports.Format) (*reports.Export, error) {
			if resource != reports.ResourceInventory || format != reports.FormatCSV {
				t.Fatalf("unexpected export %s/%s", resource, format)
			}
			return &reports.Export{Filename: "inventory.csv", ContentType: "text/csv", Data: []byte("sku\nA-1\n")}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/export?resource=Inventory", nil)
	resp := httptest.NewRecorder()
	ExportReport(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Disposition"); !strings.Contains(got, "inventory.csv") {
		t.Fatalf("unexpected disposition %q", got)
	}
	if resp.Body.String() != "sku\nA-1\n" {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
}

func TestMyAccessReturnsResolvedShape(t *testing.T) {
	synced := false
	svc := &testEmployeesService{
		syncFn: func(ctx context.Context, identity *auth.Identity) (*models.User, error) {
			synced = true
			return nil, errors.New("db down")
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/access", nil)
	req = withAccess(withCaller(req, "mia@example.com"), managerAccess())
	resp := httptest.NewRecorder()
	MyAccess(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("profile sync failure must not fail the request, got %d", resp.Code)
	}
	if !synced {
		t.Fatal("expected profile sync")
	}
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"is_admin", "is_system_admin", "is_app_admin", "is_manager", "user_role", "permissions", "loading"} {
		if _, ok := envelope.Data[key]; !ok {
			t.Fatalf("missing key %q in %v", key, envelope.Data)
		}
	}
	if envelope.Data["is_manager"] != true || envelope.Data["user_role"] != "manager" {
		t.Fatalf("unexpected access %v", envelope.Data)
	}
}

func TestMyAccessRequiresIdentity(t *testing.T) {
	resp := httptest.NewRecorder()
	MyAccess(&testEmployeesService{}, testLogger())(resp, httptest.NewRequest(http.MethodGet, "/api/v1/me/access", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAssignableEmployeesNeverNull(t *testing.T) {
	resp := httptest.NewRecorder()
	AssignableEmployees(&testEmployeesService{}, testLogger())(resp, httptest.NewRequest(http.MethodGet, "/api/v1/employees/assignable", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"items":[]`) {
		t.Fatalf("expected empty list, got %s", resp.Body.String())
	}
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	ok := HealthReady(cfg, testLogger(), map[string]Pinger{
		"db":    pingerFunc(func(ctx context.Context) error { return nil }),
		"redis": nil,
	})
	resp := httptest.NewRecorder()
	ok(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	down := HealthReady(cfg, testLogger(), map[string]Pinger{
		"db": pingerFunc(func(ctx context.Context) error { return errors.New("refused") }),
	})
	resp = httptest.NewRecorder()
	down(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"db":"down"`) {
		t.Fatalf("expected db check detail, got %s", resp.Body.String())
	}
}

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/cincodev/cinco-billing/internal/models"
)

// MockDataService is a mock implementation of DataService
type MockDataService struct {
	mock.Mock
}

func (m *MockDataService) Sites(ctx context.Context) ([]models.Site, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Site), args.Error(1)
}

func (m *MockDataService) Tenants(ctx context.Context) ([]models.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tenant), args.Error(1)
}

func (m *MockDataService) BillingRecords(ctx context.Context) ([]models.BillingRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BillingRecord), args.Error(1)
}

func (m *MockDataService) SaveSites(ctx context.Context, sites []models.Site) error {
	args := m.Called(ctx, sites)
	return args.Error(0)
}

func (m *MockDataService) SaveTenants(ctx context.Context, tenants []models.Tenant) error {
	args := m.Called(ctx, tenants)
	return args.Error(0)
}

func (m *MockDataService) SaveBillingRecords(ctx context.Context, records []models.BillingRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockDataService) AddBillingRecord(ctx context.Context, record models.BillingRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDataService) ImportSnapshot(ctx context.Context, snapshot models.SharedSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// MockDraftCollection is a mock implementation of db.DraftCollection
type MockDraftCollection struct {
	mock.Mock
}

func (m *MockDraftCollection) Draft(ctx context.Context) (*models.BillingData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillingData), args.Error(1)
}

func (m *MockDraftCollection) SaveDraft(ctx context.Context, draft models.BillingData) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

// MockUserCollection is a mock implementation of db.UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// withURLParam attaches a chi route parameter to the request so handlers
// invoked directly in tests can read it.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

package httphandler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/moyo/product-approval/internal/adapter/auth"
	"github.com/moyo/product-approval/internal/adapter/httphandler"
	"github.com/moyo/product-approval/internal/core/domain"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Create(
	ctx context.Context, role domain.Role, name string, price float64,
) (domain.Product, error) {
	args := m.Called(ctx, role, name, price)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalog) Update(
	ctx context.Context, role domain.Role, id int64, name string, price float64,
) (domain.Product, error) {
	args := m.Called(ctx, role, id, name, price)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalog) Approve(
	ctx context.Context, role domain.Role, id int64,
) (domain.Product, error) {
	args := m.Called(ctx, role, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalog) Reject(
	ctx context.Context, role domain.Role, id int64,
) (domain.Product, error) {
	args := m.Called(ctx, role, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalog) SoftDelete(
	ctx context.Context, role domain.Role, id int64,
) error {
	args := m.Called(ctx, role, id)
	return args.Error(0)
}

func (m *MockCatalog) Get(
	ctx context.Context, id int64,
) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalog) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalog) ListByStatus(
	ctx context.Context, status domain.Status,
) ([]domain.Product, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Product), args.Error(1)
}

type stubResolver struct{}

func (stubResolver) ResolveRole(token string) (domain.Role, error) {
	switch token {
	case "capturer-token":
		return domain.RoleCapturer, nil
	case "manager-token":
		return domain.RoleManager, nil
	}
	return "", errors.New("unknown token")
}

func newServer(catalog httphandler.CatalogService) *httptest.Server {
	mux := http.NewServeMux()
	httphandler.RegisterProducts(mux, catalog, stubResolver{})
	return httptest.NewServer(mux)
}

func doJSON(
	t *testing.T, method, url, token, body string,
) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(
		t.Context(), method, url, strings.NewReader(body),
	)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestAuthGate(t *testing.T) {
	catalog := new(MockCatalog)
	srv := newServer(catalog)
	defer srv.Close()

	t.Run("MissingToken", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/product", "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/product", "bad-token", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	catalog.AssertNotCalled(t, "List", mock.Anything)
}

func TestCreateProduct(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		catalog := new(MockCatalog)
		srv := newServer(catalog)
		defer srv.Close()

		created := domain.Product{
			ID: 1, Name: "Widget", Price: 9.99,
			Status: domain.StatusPendingApproval,
		}
		catalog.On(
			"Create", mock.Anything, domain.RoleCapturer, "Widget", 9.99,
		).Return(created, nil)

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/product",
			"capturer-token", `{"name":"Widget","price":9.99}`)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		catalog.AssertExpectations(t)
	})

	t.Run("Forbidden", func(t *testing.T) {
		catalog := new(MockCatalog)
		srv := newServer(catalog)
		defer srv.Close()

		catalog.On(
			"Create", mock.Anything, domain.RoleManager, "Widget", 9.99,
		).Return(domain.Product{}, domain.ErrPermissionDenied)

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/product",
			"manager-token", `{"name":"Widget","price":9.99}`)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		catalog := new(MockCatalog)
		srv := newServer(catalog)
		defer srv.Close()

		catalog.On(
			"Create", mock.Anything, domain.RoleCapturer, "", 9.99,
		).Return(domain.Product{}, domain.ErrInvalidInput)

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/product",
			"capturer-token", `{"name":"","price":9.99}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		catalog := new(MockCatalog)
		srv := newServer(catalog)
		defer srv.Close()

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/product",
			"capturer-token", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		catalog.AssertNotCalled(t, "Create",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetProduct(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		catalog := new(MockCatalog)
		srv := newServer(catalog)
		defer srv.Close()

		catalog.On("Get", mock.Anything, int64(1)).Return(domain.Product{
			ID: 1, Name: "Widget", Price: 9.99, Status: domain.StatusApproved,
		}, nil)

		resp := doJSON(t, http.MethodGet, srv.URL+"/api/product/1",
			"capturer-token", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("NotFound", func(t *testing.T) {
		catalog := new(MockCatalog)
		srv := newServer(catalog)
		defer srv.Close()

		catalog.On("Get", mock.Anything, int64(999)).
			Return(domain.Product{}, domain.ErrNotFound)

		resp := doJSON(t, http.MethodGet, srv.URL+"/api/product/999",
			"manager-token", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("BadID", func(t *testing.T) {
		catalog := new(MockCatalog)
		srv := newServer(catalog)
		defer srv.Close()

		resp := doJSON(t, http.MethodGet, srv.URL+"/api/product/abc",
			"manager-token", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		catalog.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestListProducts(t *testing.T) {
	t.Run("All", func(t *testing.T) {
		catalog := new(MockCatalog)
		srv := newServer(catalog)
		defer srv.Close()

		catalog.On("List", mock.Anything).Return([]domain.Product{}, nil)

		resp := doJSON(t, http.MethodGet, srv.URL+"/api/product",
			"capturer-token", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		catalog.AssertExpectations(t)
	})

	t.Run("ByStatus", func(t *testing.T) {
		catalog := new(MockCatalog)
		srv := newServer(catalog)
		defer srv.Close()

		catalog.On("ListByStatus", mock.Anything, domain.StatusApproved).
			Return([]domain.Product{}, nil)

		resp := doJSON(t, http.MethodGet,
			srv.URL+"/api/product?status=Approved", "capturer-token", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		catalog.AssertExpectations(t)
	})
}

func TestReviewRoutes(t *testing.T) {
	t.Run("Approve", func(t *testing.T) {
		catalog := new(MockCatalog)
		srv := newServer(catalog)
		defer srv.Close()

		catalog.On("Approve", mock.Anything, domain.RoleManager, int64(1)).
			Return(domain.Product{
				ID: 1, Name: "Widget", Price: 9.99, Status: domain.StatusApproved,
			}, nil)

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/product/1/approve",
			"manager-token", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		catalog.AssertExpectations(t)
	})

	t.Run("Reject", func(t *testing.T) {
		catalog := new(MockCatalog)
		srv := newServer(catalog)
		defer srv.Close()

		catalog.On("Reject", mock.Anything, domain.RoleManager, int64(1)).
			Return(domain.Product{
				ID: 1, Name: "Widget", Price: 9.99, Status: domain.StatusRejected,
			}, nil)

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/product/1/reject",
			"manager-token", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Delete", func(t *testing.T) {
		catalog := new(MockCatalog)
		srv := newServer(catalog)
		defer srv.Close()

		catalog.On("SoftDelete", mock.Anything, domain.RoleManager, int64(1)).
			Return(nil)

		resp := doJSON(t, http.MethodDelete, srv.URL+"/api/product/1",
			"manager-token", "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

type stubLogin struct {
	session auth.Session
	err     error
}

func (s stubLogin) Login(
	context.Context, string, string,
) (auth.Session, error) {
	return s.session, s.err
}

func TestLogin(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		mux := http.NewServeMux()
		httphandler.RegisterAuth(mux, stubLogin{session: auth.Session{
			Email: "manager@test.com",
			Role:  domain.RoleManager,
			Token: "signed-token",
		}})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "",
			`{"email":"manager@test.com","password":"test123"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		mux := http.NewServeMux()
		httphandler.RegisterAuth(mux, stubLogin{err: auth.ErrInvalidCredentials})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "",
			`{"email":"stranger@test.com","password":"test123"}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

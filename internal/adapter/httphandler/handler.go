package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/moyo/product-approval/internal/adapter/auth"
	"github.com/moyo/product-approval/internal/core/domain"
	"github.com/moyo/product-approval/internal/core/port"
)

// CatalogService is everything the product routes need from the core.
type CatalogService interface {
	port.ProductCreator
	port.ProductUpdater
	port.ProductReviewer
	port.ProductRemover
	port.ProductReader
}

type ProductsHandler struct {
	catalog CatalogService
}

func RegisterProducts(
	mux *http.ServeMux, catalog CatalogService, resolver RoleResolver,
) {
	h := ProductsHandler{catalog}
	authed := func(hf http.HandlerFunc) http.Handler {
		return RequireAuth(resolver, hf)
	}

	mux.Handle("GET /api/product", authed(h.ListProducts))
	mux.Handle("GET /api/product/{id}", authed(h.GetProduct))
	mux.Handle("POST /api/product", authed(h.CreateProduct))
	mux.Handle("PUT /api/product/{id}", authed(h.UpdateProduct))
	mux.Handle("POST /api/product/{id}/approve", authed(h.ApproveProduct))
	mux.Handle("POST /api/product/{id}/reject", authed(h.RejectProduct))
	mux.Handle("DELETE /api/product/{id}", authed(h.DeleteProduct))
}

func (h ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListProducts"

	var (
		ps  []domain.Product
		err error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		ps, err = h.catalog.ListByStatus(r.Context(), domain.Status(status))
	} else {
		ps, err = h.catalog.List(r.Context())
	}
	if err != nil {
		writeError(w, op, err)
		return
	}

	writeJSON(w, op, http.StatusOK, toWire(ps))
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		writeError(w, op, err)
		return
	}

	writeJSON(w, op, http.StatusOK, toWireOne(p))
}

func (h ProductsHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.CreateProduct"
	log := slog.With("op", op)

	var payload ProductPayload
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	p, err := h.catalog.Create(
		r.Context(), RoleFromContext(r.Context()), payload.Name, payload.Price,
	)
	if err != nil {
		writeError(w, op, err)
		return
	}

	log.Info("product created", "id", p.ID)
	writeJSON(w, op, http.StatusCreated, toWireOne(p))
}

func (h ProductsHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.UpdateProduct"
	log := slog.With("op", op)

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var payload ProductPayload
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	p, err := h.catalog.Update(
		r.Context(), RoleFromContext(r.Context()), id, payload.Name, payload.Price,
	)
	if err != nil {
		writeError(w, op, err)
		return
	}

	log.Info("product updated", "id", p.ID)
	writeJSON(w, op, http.StatusOK, toWireOne(p))
}

func (h ProductsHandler) ApproveProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ApproveProduct"
	h.review(w, r, op, h.catalog.Approve)
}

func (h ProductsHandler) RejectProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.RejectProduct"
	h.review(w, r, op, h.catalog.Reject)
}

func (h ProductsHandler) review(
	w http.ResponseWriter, r *http.Request, op string,
	fn func(context.Context, domain.Role, int64) (domain.Product, error),
) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := fn(r.Context(), RoleFromContext(r.Context()), id)
	if err != nil {
		writeError(w, op, err)
		return
	}

	slog.Info("product reviewed", "op", op, "id", p.ID, "status", p.Status)
	writeJSON(w, op, http.StatusOK, toWireOne(p))
}

func (h ProductsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.DeleteProduct"

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := h.catalog.SoftDelete(r.Context(), RoleFromContext(r.Context()), id)
	if err != nil {
		writeError(w, op, err)
		return
	}

	slog.Info("product soft-deleted", "op", op, "id", id)
	w.WriteHeader(http.StatusNoContent)
}

type LoginService interface {
	Login(ctx context.Context, email, password string) (auth.Session, error)
}

type AuthHandler struct {
	login LoginService
}

func RegisterAuth(mux *http.ServeMux, login LoginService) {
	h := AuthHandler{login}
	mux.HandleFunc("POST /api/auth/login", h.Login)
}

func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.Login"
	log := slog.With("op", op)

	var payload LoginRequest
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	session, err := h.login.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		writeError(w, op, err)
		return
	}

	log.Info("login", "email", session.Email, "role", session.Role)
	writeJSON(w, op, http.StatusOK, LoginResponse{
		Email: session.Email,
		Role:  string(session.Role),
		Token: session.Token,
	})
}

func toWire(ps []domain.Product) []Product {
	wire := make([]Product, 0, len(ps))
	for _, p := range ps {
		wire = append(wire, toWireOne(p))
	}
	return wire
}

func toWireOne(p domain.Product) Product {
	return Product{
		ID:     p.ID,
		Name:   p.Name,
		Price:  p.Price,
		Status: string(p.Status),
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, "invalid product data", http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "product not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
		slog.Error("request failed", "op", op, "err", err)
	}
}

func writeJSON(w http.ResponseWriter, op string, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}

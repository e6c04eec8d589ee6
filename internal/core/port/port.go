package port

import (
	"context"

	"github.com/moyo/product-approval/internal/core/domain"
)

type ProductCreator interface {
	Create(ctx context.Context, role domain.Role, name string, price float64) (domain.Product, error)
}

type ProductUpdater interface {
	Update(ctx context.Context, role domain.Role, id int64, name string, price float64) (domain.Product, error)
}

type ProductReviewer interface {
	Approve(ctx context.Context, role domain.Role, id int64) (domain.Product, error)
	Reject(ctx context.Context, role domain.Role, id int64) (domain.Product, error)
}

type ProductRemover interface {
	SoftDelete(ctx context.Context, role domain.Role, id int64) error
}

type ProductReader interface {
	Get(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Product, error)
}

// ProductRepository is the record store contract. Every call is atomic
// on its own; no cross-call transaction is exposed.
type ProductRepository interface {
	Insert(ctx context.Context, p domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	Update(ctx context.Context, p domain.Product) error
	ListAll(ctx context.Context) ([]domain.Product, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Product, error)
	IsEmpty(ctx context.Context) (bool, error)
	InsertMany(ctx context.Context, ps []domain.Product) error
}

// SnapshotStore is the data lake artifact: a single full-replace dump
// of the catalog.
type SnapshotStore interface {
	Write(ctx context.Context, ps []domain.Product) error
	Read(ctx context.Context) ([]domain.Product, error)
	Exists() bool
}

// CatalogSyncer mirrors the record store into the snapshot store.
type CatalogSyncer interface {
	Resync(ctx context.Context) error
	SeedIfEmpty(ctx context.Context) error
}

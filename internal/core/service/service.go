package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/moyo/product-approval/internal/core/domain"
	"github.com/moyo/product-approval/internal/core/port"
)

var _ port.ProductCreator = (*Catalog)(nil)
var _ port.ProductUpdater = (*Catalog)(nil)
var _ port.ProductReviewer = (*Catalog)(nil)
var _ port.ProductRemover = (*Catalog)(nil)
var _ port.ProductReader = (*Catalog)(nil)

// Catalog is the single authority for product status transitions.
// Mutations go through the repository first; the snapshot resync runs
// after the primary write and never rolls it back.
type Catalog struct {
	repo   port.ProductRepository
	syncer port.CatalogSyncer
}

func New(repo port.ProductRepository, syncer port.CatalogSyncer) Catalog {
	return Catalog{repo, syncer}
}

func (c Catalog) Create(
	ctx context.Context, role domain.Role, name string, price float64,
) (domain.Product, error) {
	const op = "Catalog.Create"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if role != domain.RoleCapturer {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrPermissionDenied)
	}

	if err := validateProduct(name, price); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := c.repo.Insert(ctx, domain.Product{
		Name:   name,
		Price:  price,
		Status: domain.StatusPendingApproval,
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	c.resync(ctx, op)
	return p, nil
}

func (c Catalog) Update(
	ctx context.Context, role domain.Role, id int64, name string, price float64,
) (domain.Product, error) {
	const op = "Catalog.Update"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if role != domain.RoleCapturer {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrPermissionDenied)
	}

	if err := validateProduct(name, price); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	// Any edit discards the previous review outcome.
	p.Name = name
	p.Price = price
	p.Status = domain.StatusPendingApproval

	if err := c.repo.Update(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	c.resync(ctx, op)
	return p, nil
}

func (c Catalog) Approve(
	ctx context.Context, role domain.Role, id int64,
) (domain.Product, error) {
	const op = "Catalog.Approve"
	return c.transition(ctx, op, role, id, domain.StatusApproved)
}

func (c Catalog) Reject(
	ctx context.Context, role domain.Role, id int64,
) (domain.Product, error) {
	const op = "Catalog.Reject"
	return c.transition(ctx, op, role, id, domain.StatusRejected)
}

func (c Catalog) SoftDelete(
	ctx context.Context, role domain.Role, id int64,
) error {
	const op = "Catalog.SoftDelete"
	_, err := c.transition(ctx, op, role, id, domain.StatusSoftDeleted)
	return err
}

// transition applies a manager-gated status change. The source state is
// never checked: re-review always wins over the previous decision.
func (c Catalog) transition(
	ctx context.Context, op string, role domain.Role, id int64, to domain.Status,
) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if role != domain.RoleManager {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrPermissionDenied)
	}

	p, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p.Status = to
	if err := c.repo.Update(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	c.resync(ctx, op)
	return p, nil
}

func (c Catalog) Get(ctx context.Context, id int64) (domain.Product, error) {
	const op = "Catalog.Get"

	p, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (c Catalog) List(ctx context.Context) ([]domain.Product, error) {
	const op = "Catalog.List"

	ps, err := c.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (c Catalog) ListByStatus(
	ctx context.Context, status domain.Status,
) ([]domain.Product, error) {
	const op = "Catalog.ListByStatus"

	if !status.Valid() {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
	}

	ps, err := c.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// resync mirrors the catalog into the snapshot store. The record store
// write is already committed, so a snapshot failure is only warned
// about and never surfaced to the caller.
func (c Catalog) resync(ctx context.Context, op string) {
	if err := c.syncer.Resync(ctx); err != nil {
		slog.Warn("snapshot resync failed", "op", op, "err", err)
	}
}

func validateProduct(name string, price float64) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if price < 0 {
		return fmt.Errorf("%w: price is negative", domain.ErrInvalidInput)
	}
	return nil
}

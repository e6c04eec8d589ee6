package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/moyo/product-approval/internal/core/domain"
	"github.com/moyo/product-approval/internal/core/port"
)

var _ port.ProductRepository = (*ProductsRepository)(nil)

type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

func (r ProductsRepository) Insert(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "ProductsRepository.Insert"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO products (name, price, status)
		VALUES ($1, $2, $3) RETURNING id;
	`
	err := r.sqldb.QueryRowContext(
		ctx, query, p.Name, p.Price, string(p.Status),
	).Scan(&p.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: failed to insert: %w", op, err)
	}
	return p, nil
}

func (r ProductsRepository) FindByID(
	ctx context.Context, id int64,
) (domain.Product, error) {
	const op = "ProductsRepository.FindByID"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, name, price, status FROM products WHERE id = $1;`

	var p domain.Product
	err := r.sqldb.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r ProductsRepository) Update(
	ctx context.Context, p domain.Product,
) error {
	const op = "ProductsRepository.Update"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE products SET name = $1, price = $2, status = $3 WHERE id = $4;
	`
	res, err := r.sqldb.ExecContext(
		ctx, query, p.Name, p.Price, string(p.Status), p.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to update: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func (r ProductsRepository) ListAll(
	ctx context.Context,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ListAll"

	query := `SELECT id, name, price, status FROM products ORDER BY id ASC;`
	ps, err := r.list(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r ProductsRepository) ListByStatus(
	ctx context.Context, status domain.Status,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ListByStatus"

	query := `
		SELECT id, name, price, status FROM products
		WHERE status = $1 ORDER BY id ASC;
	`
	ps, err := r.list(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r ProductsRepository) list(
	ctx context.Context, query string, args ...any,
) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ps []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Status)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ps, nil
}

func (r ProductsRepository) IsEmpty(ctx context.Context) (bool, error) {
	const op = "ProductsRepository.IsEmpty"

	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT COUNT(*) FROM products;`

	var n int64
	err := r.sqldb.QueryRowContext(ctx, query).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n == 0, nil
}

// InsertMany bulk-inserts seed records keeping the ids they carry.
func (r ProductsRepository) InsertMany(
	ctx context.Context, ps []domain.Product,
) (insertErr error) {
	const op = "ProductsRepository.InsertMany"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if insertErr == nil {
			if err := tx.Commit(); err != nil {
				insertErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	query := `
		INSERT INTO products (id, name, price, status)
		VALUES ($1, $2, $3, $4);
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, p := range ps {
		_, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Price, string(p.Status))
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	return nil
}

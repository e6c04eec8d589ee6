// Package datalake stores the full-catalog JSON dump consumed by
// downstream export jobs.
package datalake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/moyo/product-approval/internal/core/domain"
	"github.com/moyo/product-approval/internal/core/port"
)

var _ port.SnapshotStore = (*FileStore)(nil)

// record is the on-disk product shape. Field casing is fixed: the
// artifact is consumed by external tooling.
type record struct {
	ID     int64   `json:"Id"`
	Name   string  `json:"Name"`
	Price  float64 `json:"Price"`
	Status string  `json:"Status"`
}

// FileStore writes the catalog snapshot as an indented JSON array in a
// single file. Every write replaces the whole artifact through a temp
// file and rename, so readers never observe a torn snapshot.
type FileStore struct {
	path string
}

func NewFileStore(path string) FileStore {
	return FileStore{path}
}

func (s FileStore) Write(ctx context.Context, ps []domain.Product) error {
	const op = "FileStore.Write"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rs := make([]record, 0, len(ps))
	for _, p := range ps {
		rs = append(rs, record{
			ID:     p.ID,
			Name:   p.Name,
			Price:  p.Price,
			Status: string(p.Status),
		})
	}

	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: failed to marshal: %w", op, err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		err := os.MkdirAll(dir, 0o750)
		if err != nil && !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: failed to create dirs: %w", op, err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%s: failed to create temp file: %w", op, err)
	}

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Close()
	} else {
		_ = tmp.Close()
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%s: failed to write temp file: %w", op, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%s: failed to replace snapshot: %w", op, err)
	}
	return nil
}

func (s FileStore) Read(ctx context.Context) ([]domain.Product, error) {
	const op = "FileStore.Read"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read snapshot: %w", op, err)
	}

	var rs []record
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal: %w", op, err)
	}

	ps := make([]domain.Product, 0, len(rs))
	for _, r := range rs {
		ps = append(ps, domain.Product{
			ID:     r.ID,
			Name:   r.Name,
			Price:  r.Price,
			Status: domain.Status(r.Status),
		})
	}
	return ps, nil
}

func (s FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

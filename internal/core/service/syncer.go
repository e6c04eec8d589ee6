package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/moyo/product-approval/internal/core/port"
	"github.com/moyo/product-approval/pkg/retry"
)

var _ port.CatalogSyncer = (*Syncer)(nil)

const syncWriteAttempts = 3

// Syncer keeps the snapshot store a full-replace mirror of the record
// store. Resync calls are serialized so two overlapping triggers never
// race on the artifact; the record store itself needs no such guard.
type Syncer struct {
	mu       sync.Mutex
	repo     port.ProductRepository
	snapshot port.SnapshotStore
}

func NewSyncer(repo port.ProductRepository, snapshot port.SnapshotStore) *Syncer {
	return &Syncer{repo: repo, snapshot: snapshot}
}

// Resync dumps the whole record store into the snapshot artifact. The
// write is retried a few times before giving up; the caller decides
// whether a failure matters.
func (s *Syncer) Resync(ctx context.Context) error {
	const op = "Syncer.Resync"

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	cfg := retry.Config{
		MaxAttempts: syncWriteAttempts,
		Backoff:     retry.Linear(50 * time.Millisecond),
	}
	err = retry.Do(ctx, cfg, func() error {
		return s.snapshot.Write(ctx, ps)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SeedIfEmpty bootstraps the record store from an existing snapshot
// artifact. It runs once at startup and never overwrites primary data:
// a missing artifact or a non-empty record store makes it a no-op.
func (s *Syncer) SeedIfEmpty(ctx context.Context) error {
	const op = "Syncer.SeedIfEmpty"
	log := slog.With("op", op)

	if !s.snapshot.Exists() {
		log.Debug("no snapshot artifact, skipping seed")
		return nil
	}

	empty, err := s.repo.IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !empty {
		log.Debug("record store is not empty, skipping seed")
		return nil
	}

	ps, err := s.snapshot.Read(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(ps) == 0 {
		return nil
	}

	if err := s.repo.InsertMany(ctx, ps); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("seeded record store from snapshot", "nProducts", len(ps))
	return nil
}

package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	dbm "estatehub/internal/models/db_models"
	"estatehub/internal/repositories"
	"estatehub/internal/storage"
)

const reconcileRunTimeout = 2 * time.Minute

var defaultReconcilerOptions = ReconcilerOptions{Interval: 10 * time.Minute, MaxAttempts: 10, BatchSize: 50}

type ReconcilerOptions struct {
	Interval    time.Duration
	MaxAttempts int
	BatchSize   int
}

// ImageReconciler retries object deletions that failed after their
// listing change was committed. A staged key ending in "/" is a whole
// listing folder whose listing failed; it is purged and any objects that
// still resist are staged one by one. Rows that keep failing past
// MaxAttempts stay in the table with their last error.
type ImageReconciler struct {
	pending repositories.ImageDeletionRepository
	store   storage.ImageStore
	opts    ReconcilerOptions
	log     *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewImageReconciler(pending repositories.ImageDeletionRepository, store storage.ImageStore, opts ReconcilerOptions, log *zap.Logger) *ImageReconciler {
	if opts.Interval <= 0 {
		opts.Interval = defaultReconcilerOptions.Interval
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultReconcilerOptions.MaxAttempts
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultReconcilerOptions.BatchSize
	}
	return &ImageReconciler{pending: pending, store: store, opts: opts, log: log}
}

// RunOnce processes one batch and returns how many objects were removed.
func (r *ImageReconciler) RunOnce(ctx context.Context) (int, error) {
	runCtx, cancel := context.WithTimeout(ctx, reconcileRunTimeout)
	defer cancel()

	rows, err := r.pending.Due(runCtx, r.opts.MaxAttempts, r.opts.BatchSize)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, row := range rows {
		if err := r.remove(runCtx, row); err != nil {
			if markErr := r.pending.MarkFailed(runCtx, row.ID, err.Error()); markErr != nil {
				r.log.Error("reconciler: record failure", zap.String("key", row.ObjectKey), zap.Error(markErr))
			}
			if row.Attempts+1 >= r.opts.MaxAttempts {
				r.log.Warn("reconciler: giving up on object",
					zap.String("key", row.ObjectKey),
					zap.Int("attempts", row.Attempts+1),
					zap.Error(err))
			}
			continue
		}
		if err := r.pending.MarkDone(runCtx, row.ID); err != nil {
			r.log.Error("reconciler: clear staged row", zap.String("key", row.ObjectKey), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

func (r *ImageReconciler) remove(ctx context.Context, row dbm.PendingImageDeletion) error {
	if !storage.IsPrefix(row.ObjectKey) {
		return r.store.Delete(ctx, row.ObjectKey)
	}
	failed, err := r.store.DeletePrefix(ctx, row.ObjectKey)
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		return r.pending.Stage(ctx, row.EntityID, failed, "listing folder purge")
	}
	return nil
}

func (r *ImageReconciler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.opts.Interval)
		defer ticker.Stop()

		runOnce := func() {
			n, err := r.RunOnce(ctx)
			if err != nil {
				r.log.Error("reconciler: run failed", zap.Error(err))
			} else if n > 0 {
				r.log.Info("reconciler: removed staged objects", zap.Int("count", n))
			}
		}

		runOnce()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}

func (r *ImageReconciler) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

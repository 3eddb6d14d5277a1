package warmer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/clubbravado/fightfeed/internal/modules/feed/domain"
)

// Lister serves listing pages.
type Lister interface {
	List(ctx context.Context, q domain.Query) domain.Page
}

// Categories lists the tabs to keep warm.
type Categories interface {
	Categories() []string
}

// Warmer periodically requests the first page of every tab and kind so the
// response cache is refilled without waiting for a visitor.
type Warmer struct {
	interval   time.Duration
	lister     Lister
	categories Categories
	logger     *slog.Logger
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// New creates a warmer; a non-positive interval disables it.
func New(interval time.Duration, lister Lister, categories Categories, logger *slog.Logger) *Warmer {
	return &Warmer{
		interval:   interval,
		lister:     lister,
		categories: categories,
		logger:     logger,
	}
}

// Start begins the warm loop. It returns immediately.
func (w *Warmer) Start(ctx context.Context) {
	if w.interval <= 0 {
		return
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.loop(ctx)
}

// Stop stops the warm loop and waits for the current pass to finish.
func (w *Warmer) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *Warmer) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Initial pass
	w.WarmOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.WarmOnce(ctx)
		}
	}
}

// WarmOnce requests page 0 of every category and kind, one at a time.
func (w *Warmer) WarmOnce(ctx context.Context) {
	started := time.Now()
	for _, category := range w.categories.Categories() {
		for _, name := range domain.KindNames() {
			if ctx.Err() != nil {
				return
			}
			w.lister.List(ctx, domain.Query{Category: category, Kind: domain.Kind(name)})
		}
	}
	w.logger.Debug("Cache warmed", "duration_ms", time.Since(started).Milliseconds())
}

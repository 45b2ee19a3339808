package series

import (
	"context"
	"log"
	"time"
)

// RunRefresher re-ingests on every tick of interval until ctx is done.
// Failures are logged and the previous snapshot stays current.
func RunRefresher(ctx context.Context, store *Store, load Loader, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, err := store.Refresh(ctx, load)
			if err != nil {
				log.Printf("[Store] Background refresh failed, keeping v%d: %v", store.Current().Version, err)
				continue
			}
			log.Printf("[Store] Background refresh published v%d", snap.Version)
		}
	}
}

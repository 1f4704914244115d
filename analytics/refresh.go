// api/analytics/refresh.go
package analytics

import (
	"context"
	"fmt"
	"log"
	"sync"

	"antiseche/api/models"
)

// ActionConnection is the action type counted as a connection.
const ActionConnection = "connection"

// AnalyticsUpdater is the single write path back into the learner documents.
type AnalyticsUpdater interface {
	UpdateUserAnalytics(ctx context.Context, uid string, fields models.UserAnalyticsFields) error
}

// Refresher recomputes the denormalized per-user counters (connection count,
// total nav duration) from the raw event log and writes them back onto the
// learner documents.
type Refresher struct {
	users UserSource
	nav   NavSource
	upd   AnalyticsUpdater
}

func NewRefresher(users UserSource, nav NavSource, upd AnalyticsUpdater) *Refresher {
	return &Refresher{users: users, nav: nav, upd: upd}
}

// RefreshAll recomputes and stores the counters for every learner. Per-user
// failures are logged and skipped; the refresh reports how many learners were
// updated. Only a failed user listing aborts the run.
func (r *Refresher) RefreshAll(ctx context.Context) (int, error) {
	page, err := r.users.GetUsers(ctx, UserFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	updated := 0
	var mu sync.Mutex
	var wg sync.WaitGroup
	for uid := range page.Items {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			if err := r.refreshOne(ctx, uid); err != nil {
				log.Printf("Error refreshing analytics for user %s: %v", uid, err)
				return
			}
			mu.Lock()
			updated++
			mu.Unlock()
		}(uid)
	}
	wg.Wait()
	return updated, nil
}

func (r *Refresher) refreshOne(ctx context.Context, uid string) error {
	actions, err := r.nav.GetUserActions(ctx, uid)
	if err != nil {
		return fmt.Errorf("fetch actions: %w", err)
	}
	navLog, err := r.nav.GetUserNavSessions(ctx, uid)
	if err != nil {
		return fmt.Errorf("fetch nav sessions: %w", err)
	}
	fields := models.UserAnalyticsFields{
		NbConnections: len(FilterActionsByType(actions, ActionConnection)),
		NavDuration:   NavDuration(navLog, true),
	}
	if err := r.upd.UpdateUserAnalytics(ctx, uid, fields); err != nil {
		return fmt.Errorf("store analytics: %w", err)
	}
	return nil
}

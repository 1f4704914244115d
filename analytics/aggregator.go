// api/analytics/aggregator.go
package analytics

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"antiseche/api/models"
)

// UserFilter narrows a learner listing. LastID is the opaque cursor returned
// by the previous page; Limit 0 means no paging.
type UserFilter struct {
	Group  string
	LastID string
	Limit  int
}

// UserSource is the learner-document side of the data-access boundary.
type UserSource interface {
	GetUsers(ctx context.Context, filter UserFilter) (*models.UserPage, error)
	GetUserByID(ctx context.Context, uid string) (*models.UserRecord, error)
}

// NavSource is the event-log side of the data-access boundary.
type NavSource interface {
	GetUserNavSessions(ctx context.Context, uid string) (models.NavLog, error)
	GetUserActions(ctx context.Context, uid string) ([]models.ActionEvent, error)
}

// ModulePage is one page of per-module analytics with the cursor for the next.
type ModulePage struct {
	Items  []models.UserModuleAnalytic `json:"items"`
	NextID string                      `json:"nextId,omitempty"`
}

// Aggregator fans the session reconstruction out across users and assembles
// the per-user analytics reports. It only ever reads from its sources.
type Aggregator struct {
	users UserSource
	nav   NavSource
	cfg   Config
}

func NewAggregator(users UserSource, nav NavSource, cfg Config) *Aggregator {
	return &Aggregator{users: users, nav: nav, cfg: cfg}
}

func buildUserAnalytic(uid string, rec models.UserRecord) models.UserAnalytic {
	return models.UserAnalytic{
		UserInfo:    rec.Infos,
		UID:         uid,
		Sponsorship: rec.Sponsorship,
		Active:      len(rec.Modules) > 0,
	}
}

// fetchNavLogs resolves every user's raw navigation log concurrently and
// returns them keyed by uid, so assembly never depends on resolution order.
// A failed fetch is logged and leaves that user with a nil log; one bad user
// does not void the page.
func (a *Aggregator) fetchNavLogs(ctx context.Context, uids []string) map[string]models.NavLog {
	logs := make(map[string]models.NavLog, len(uids))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, uid := range uids {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			navLog, err := a.nav.GetUserNavSessions(ctx, uid)
			if err != nil {
				log.Printf("Error fetching nav sessions for user %s: %v", uid, err)
				return
			}
			mu.Lock()
			logs[uid] = navLog
			mu.Unlock()
		}(uid)
	}
	wg.Wait()
	return logs
}

func sortedUIDs(items map[string]models.UserRecord) []string {
	uids := make([]string, 0, len(items))
	for uid := range items {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}

// GetAllUserSessions reconstructs the session list of every learner in the
// group (every learner when group is empty), scoped by the course and date
// filters.
func (a *Aggregator) GetAllUserSessions(ctx context.Context, group, course string, from, to *int64) ([]models.UserSessionAnalytic, error) {
	page, err := a.users.GetUsers(ctx, UserFilter{Group: group})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	uids := sortedUIDs(page.Items)
	logs := a.fetchNavLogs(ctx, uids)

	filter := Filter{Course: course, From: from, To: to}
	result := make([]models.UserSessionAnalytic, 0, len(uids))
	for _, uid := range uids {
		result = append(result, models.UserSessionAnalytic{
			User:     buildUserAnalytic(uid, page.Items[uid]),
			Sessions: SessionsFromLog(logs[uid], filter, a.cfg),
		})
	}
	return result, nil
}

// GetOneUserSession reconstructs a single learner's session list.
func (a *Aggregator) GetOneUserSession(ctx context.Context, uid, course string, from, to *int64) (*models.UserSessionAnalytic, error) {
	rec, err := a.users.GetUserByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", uid, err)
	}
	navLog, err := a.nav.GetUserNavSessions(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nav sessions for user %s: %w", uid, err)
	}
	return &models.UserSessionAnalytic{
		User:     buildUserAnalytic(uid, *rec),
		Sessions: SessionsFromLog(navLog, Filter{Course: course, From: from, To: to}, a.cfg),
	}, nil
}

// restrictModules returns the module map narrowed to the requested course.
// It always builds a new map; the fetched record is never mutated.
func restrictModules(modules map[string]models.ModuleRecord, course string) map[string]models.ModuleRecord {
	if course == "" {
		return modules
	}
	out := make(map[string]models.ModuleRecord, 1)
	if rec, ok := modules[course]; ok {
		out[course] = rec
	}
	return out
}

func (a *Aggregator) moduleReports(rec models.UserRecord, navLog models.NavLog, course string, from, to *int64) []models.ModuleReport {
	modules := restrictModules(rec.Modules, course)
	courses := make([]string, 0, len(modules))
	for key := range modules {
		courses = append(courses, key)
	}
	sort.Strings(courses)

	reports := make([]models.ModuleReport, 0, len(courses))
	for _, key := range courses {
		mod := modules[key]
		reports = append(reports, models.ModuleReport{
			Course:   key,
			Feedback: ComputeFeedback(mod, a.cfg),
			Quiz:     ComputeQuiz(mod, a.cfg),
			Sessions: SessionsFromLog(navLog, Filter{Course: key, From: from, To: to}, a.cfg),
		})
	}
	return reports
}

// GetAllUserModules builds the per-module breakdown for one page of learners.
// The page cursor is passed through to the user listing untouched and the
// listing's next cursor is returned alongside the items.
func (a *Aggregator) GetAllUserModules(ctx context.Context, group, course string, from, to *int64, pageCursor string, pageSize int) (*ModulePage, error) {
	page, err := a.users.GetUsers(ctx, UserFilter{Group: group, LastID: pageCursor, Limit: pageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	uids := sortedUIDs(page.Items)
	logs := a.fetchNavLogs(ctx, uids)

	items := make([]models.UserModuleAnalytic, 0, len(uids))
	for _, uid := range uids {
		rec := page.Items[uid]
		items = append(items, models.UserModuleAnalytic{
			User:    buildUserAnalytic(uid, rec),
			Modules: a.moduleReports(rec, logs[uid], course, from, to),
		})
	}
	return &ModulePage{Items: items, NextID: page.NextLastID}, nil
}

// GetOneUserModule builds the per-module breakdown for a single learner.
func (a *Aggregator) GetOneUserModule(ctx context.Context, uid, course string, from, to *int64) (*models.UserModuleAnalytic, error) {
	rec, err := a.users.GetUserByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", uid, err)
	}
	navLog, err := a.nav.GetUserNavSessions(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nav sessions for user %s: %w", uid, err)
	}
	return &models.UserModuleAnalytic{
		User:    buildUserAnalytic(uid, *rec),
		Modules: a.moduleReports(*rec, navLog, course, from, to),
	}, nil
}

// GetUserCohorts splits the whole learner population into the active/inactive
// x sponsorised/unsponsorised cohorts.
func (a *Aggregator) GetUserCohorts(ctx context.Context, group string) (*models.CohortReport, error) {
	page, err := a.users.GetUsers(ctx, UserFilter{Group: group})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return SplitCohorts(page.Items), nil
}

// api/analytics/cohort.go
package analytics

import (
	"sort"

	"antiseche/api/models"
)

// SplitCohorts buckets a learner population along the two analytics axes:
// active (has at least one module) against inactive, each split between
// sponsorised and unsponsorised learners.
func SplitCohorts(items map[string]models.UserRecord) *models.CohortReport {
	report := &models.CohortReport{Total: len(items)}
	for _, uid := range sortedUIDs(items) {
		user := buildUserAnalytic(uid, items[uid])
		bucket := &report.Inactive
		if user.Active {
			bucket = &report.Active
		}
		if user.Sponsored() {
			bucket.Sponsorised = append(bucket.Sponsorised, user)
		} else {
			bucket.Unsponsorised = append(bucket.Unsponsorised, user)
		}
	}
	return report
}

// FilterActionsByType keeps the actions of one type, ordered by creation date.
func FilterActionsByType(actions []models.ActionEvent, action string) []models.ActionEvent {
	var out []models.ActionEvent
	for _, a := range actions {
		if a.Action == action {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreationDate < out[j].CreationDate
	})
	return out
}

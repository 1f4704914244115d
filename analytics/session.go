// api/analytics/session.go
package analytics

import (
	"sort"

	"antiseche/api/models"
)

// Reconstruct segments a flat nav event slice into sessions.
//
// Events are sorted by start date and walked in order. A gap larger than
// SessionTimeout closes the open session and opens a new one. A gap larger
// than NavTimeout (but within SessionTimeout) is a stalled navigation: the
// open session is credited the capped NavTimeoutValue instead of the real
// elapsed time. Any other gap is credited as-is. Untimed events are skipped,
// never an error. A timestamp of 0 is a valid timestamp.
//
// The returned sessions are closed (EndDate = StartDate + Duration), ordered
// by start date, pairwise non-overlapping, and filtered to those whose
// duration strictly exceeds SessionShortest. The computation is pure: the same
// input always yields the same output.
func Reconstruct(events []models.NavEvent, cfg Config) []models.Session {
	timed := make([]models.NavEvent, 0, len(events))
	for _, ev := range events {
		if ev.StartDate != nil {
			timed = append(timed, ev)
		}
	}
	sort.SliceStable(timed, func(i, j int) bool {
		return *timed[i].StartDate < *timed[j].StartDate
	})

	var sessions []models.Session
	var current models.Session
	open := false
	var lastStart int64
	haveLast := false

	for _, ev := range timed {
		start := *ev.StartDate
		switch {
		case !haveLast || start-lastStart > cfg.SessionTimeout:
			// The open session (if any) ended; the very first event only
			// opens one.
			if open {
				current.EndDate = current.StartDate + current.Duration
				sessions = append(sessions, current)
			}
			current = models.Session{StartDate: start}
			open = true
		case open && start-lastStart > cfg.NavTimeout:
			// Stalled navigation: cap its contribution.
			current.Duration += cfg.NavTimeoutValue
		case open:
			current.Duration += start - lastStart
		}
		lastStart = start
		haveLast = true
	}
	if open {
		current.EndDate = current.StartDate + current.Duration
		sessions = append(sessions, current)
	}

	kept := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Duration > cfg.SessionShortest {
			kept = append(kept, s)
		}
	}
	return kept
}

// SessionsFromLog runs the full pipeline on a raw navigation log: flatten and
// filter, then reconstruct. A nil or empty log yields an empty session list.
func SessionsFromLog(log models.NavLog, f Filter, cfg Config) []models.Session {
	return Reconstruct(FlattenNav(log, f), cfg)
}

// NavDuration sums a raw log's client-side session envelopes: the stored
// duration field when useDuration is set, the end/start delta otherwise.
// Missing values contribute nothing.
func NavDuration(log models.NavLog, useDuration bool) int64 {
	var total int64
	for _, ses := range log {
		if useDuration {
			total += ses.Duration
			continue
		}
		if ses.EndDate >= ses.StartDate {
			total += ses.EndDate - ses.StartDate
		}
	}
	return total
}

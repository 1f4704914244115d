// api/analytics/normalize.go
package analytics

import (
	"sort"
	"strings"

	"antiseche/api/models"
)

// Filter restricts which nav events take part in session reconstruction.
// Course keeps only events whose params.module matches; From excludes timed
// events at or before it, To excludes timed events at or after it (both epoch
// ms, both strict). Untimed events pass the date filters untouched.
type Filter struct {
	Course string
	From   *int64
	To     *int64
}

func (f Filter) keep(ev *models.NavEvent) bool {
	if ev == nil {
		return false
	}
	if f.Course != "" && ev.Params.Module != f.Course {
		return false
	}
	if ev.StartDate != nil {
		if f.From != nil && *f.From >= *ev.StartDate {
			return false
		}
		if f.To != nil && *f.To <= *ev.StartDate {
			return false
		}
	}
	return true
}

// FlattenNav turns a raw session-keyed navigation log into a flat event slice,
// dropping session records without a nav map, nil events and events excluded
// by the filter. Malformed input degrades to an empty slice, never an error.
// Keys are walked in sorted order so the result is deterministic; the
// reconstructor re-sorts by timestamp anyway.
func FlattenNav(log models.NavLog, f Filter) []models.NavEvent {
	if len(log) == 0 {
		return nil
	}
	sesKeys := make([]string, 0, len(log))
	for key := range log {
		sesKeys = append(sesKeys, key)
	}
	sort.Strings(sesKeys)

	var events []models.NavEvent
	for _, sesKey := range sesKeys {
		nav := log[sesKey].Nav
		if nav == nil {
			continue
		}
		evKeys := make([]string, 0, len(nav))
		for key := range nav {
			evKeys = append(evKeys, key)
		}
		sort.Strings(evKeys)
		for _, evKey := range evKeys {
			ev := nav[evKey]
			if !f.keep(ev) {
				continue
			}
			events = append(events, *ev)
		}
	}
	return events
}

// FilterNavPages flattens a raw navigation log down to the events whose state
// name contains one of the included states and whose params match every
// non-empty field of param. A nil includedStates keeps everything.
func FilterNavPages(log models.NavLog, includedStates []string, param models.NavParams) []models.NavEvent {
	var out []models.NavEvent
	sesKeys := make([]string, 0, len(log))
	for key := range log {
		sesKeys = append(sesKeys, key)
	}
	sort.Strings(sesKeys)
	for _, sesKey := range sesKeys {
		nav := log[sesKey].Nav
		if nav == nil {
			continue
		}
		evKeys := make([]string, 0, len(nav))
		for key := range nav {
			evKeys = append(evKeys, key)
		}
		sort.Strings(evKeys)
		for _, evKey := range evKeys {
			ev := nav[evKey]
			if ev == nil {
				continue
			}
			if includedStates == nil {
				out = append(out, *ev)
				continue
			}
			if matchesState(ev.StateName, includedStates) && paramsInclude(ev.Params, param) {
				out = append(out, *ev)
			}
		}
	}
	return out
}

func matchesState(stateName string, includedStates []string) bool {
	if stateName == "" {
		return false
	}
	for _, inc := range includedStates {
		if inc != "" && strings.Contains(stateName, inc) {
			return true
		}
	}
	return false
}

func paramsInclude(have, want models.NavParams) bool {
	if want.Module != "" && have.Module != want.Module {
		return false
	}
	if want.LessonID != "" && have.LessonID != want.LessonID {
		return false
	}
	if want.SectionID != "" && have.SectionID != want.SectionID {
		return false
	}
	return true
}

package analytics

import (
	"reflect"
	"testing"

	"antiseche/api/models"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SessionTimeout = 300000
	cfg.NavTimeout = 60000
	cfg.NavTimeoutValue = 5000
	cfg.SessionShortest = 0
	return cfg
}

func ms(v int64) *int64 {
	return &v
}

func timedEvents(stamps ...int64) []models.NavEvent {
	events := make([]models.NavEvent, 0, len(stamps))
	for _, s := range stamps {
		events = append(events, models.NavEvent{StartDate: ms(s)})
	}
	return events
}

func TestReconstruct_SplitsOnSessionTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.SessionShortest = -1 // keep everything, including zero-duration sessions

	got := Reconstruct(timedEvents(0, 1000, 500000), cfg)
	want := []models.Session{
		{StartDate: 0, Duration: 1000, EndDate: 1000},
		{StartDate: 500000, Duration: 0, EndDate: 500000},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestReconstruct_ShortestFilterDropsZeroDurationSession(t *testing.T) {
	got := Reconstruct(timedEvents(0, 1000, 500000), testConfig())
	want := []models.Session{{StartDate: 0, Duration: 1000, EndDate: 1000}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestReconstruct_UntimedEventsOnly(t *testing.T) {
	events := []models.NavEvent{
		{StateName: "app.lesson"},
		{StateName: "app.quiz"},
	}
	if got := Reconstruct(events, testConfig()); len(got) != 0 {
		t.Fatalf("expected no sessions, got %+v", got)
	}
}

func TestReconstruct_CapsStalledNavigation(t *testing.T) {
	// A 100000ms gap sits between NavTimeout and SessionTimeout: the session
	// is credited the capped value, never the raw delta.
	got := Reconstruct(timedEvents(0, 100000), testConfig())
	want := []models.Session{{StartDate: 0, Duration: 5000, EndDate: 5000}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestReconstruct_UnsortedInput(t *testing.T) {
	sorted := Reconstruct(timedEvents(0, 1000, 2000), testConfig())
	shuffled := Reconstruct(timedEvents(2000, 0, 1000), testConfig())
	if !reflect.DeepEqual(sorted, shuffled) {
		t.Fatalf("order-dependent result: %+v vs %+v", sorted, shuffled)
	}
}

func TestReconstruct_ZeroTimestampIsProcessed(t *testing.T) {
	got := Reconstruct(timedEvents(0, 1000), testConfig())
	if len(got) != 1 {
		t.Fatalf("expected one session, got %+v", got)
	}
	if got[0].StartDate != 0 || got[0].Duration != 1000 {
		t.Fatalf("unexpected session: %+v", got[0])
	}
}

func TestReconstruct_UntimedEventsAreSkippedMidStream(t *testing.T) {
	events := []models.NavEvent{
		{StartDate: ms(0)},
		{StateName: "app.lesson"}, // inert
		{StartDate: ms(1000)},
	}
	got := Reconstruct(events, testConfig())
	want := []models.Session{{StartDate: 0, Duration: 1000, EndDate: 1000}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestReconstruct_Idempotent(t *testing.T) {
	events := timedEvents(0, 30000, 100000, 500000, 501000, 900000)
	first := Reconstruct(events, testConfig())
	second := Reconstruct(events, testConfig())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("not deterministic: %+v vs %+v", first, second)
	}
}

func TestReconstruct_Invariants(t *testing.T) {
	cfg := testConfig()
	events := timedEvents(0, 500, 30000, 100000, 400000, 400100, 400200, 800000, 805000)
	sessions := Reconstruct(events, cfg)
	if len(sessions) == 0 {
		t.Fatal("expected sessions")
	}
	for i, s := range sessions {
		if s.Duration < 0 {
			t.Errorf("session %d has negative duration: %+v", i, s)
		}
		if s.EndDate != s.StartDate+s.Duration {
			t.Errorf("session %d: endDate %d != startDate %d + duration %d", i, s.EndDate, s.StartDate, s.Duration)
		}
		if s.Duration <= cfg.SessionShortest {
			t.Errorf("session %d below shortest threshold: %+v", i, s)
		}
		if i > 0 {
			prev := sessions[i-1]
			if s.StartDate < prev.StartDate {
				t.Errorf("sessions out of order at %d: %+v after %+v", i, s, prev)
			}
			if s.StartDate < prev.EndDate {
				t.Errorf("sessions overlap at %d: %+v overlaps %+v", i, s, prev)
			}
		}
	}
}

func TestReconstruct_Empty(t *testing.T) {
	if got := Reconstruct(nil, testConfig()); len(got) != 0 {
		t.Fatalf("expected no sessions, got %+v", got)
	}
}

func TestNavDuration(t *testing.T) {
	log := models.NavLog{
		"s1": {StartDate: 100, EndDate: 400, Duration: 250},
		"s2": {StartDate: 1000, EndDate: 1600, Duration: 500},
		"s3": {}, // missing values contribute nothing
	}
	if got := NavDuration(log, true); got != 750 {
		t.Fatalf("duration sum: got %d, want 750", got)
	}
	if got := NavDuration(log, false); got != 900 {
		t.Fatalf("delta sum: got %d, want 900", got)
	}
	if got := NavDuration(nil, true); got != 0 {
		t.Fatalf("nil log: got %d, want 0", got)
	}
}

package analytics

import (
	"fmt"
	"testing"

	"antiseche/api/models"
)

// fullGridModule builds a 4x4 module whose 16 lesson slots carry one notion
// each: 2 toLearn, 3 known, 1 dontCare and 10 empty entries.
func fullGridModule(cfg Config) models.ModuleRecord {
	notions := []string{
		cfg.FeedbackToLearn, cfg.FeedbackToLearn,
		cfg.FeedbackKnown, cfg.FeedbackKnown, cfg.FeedbackKnown,
		cfg.FeedbackDontCare,
		"", "", "", "", "", "", "", "", "", "",
	}
	data := make(models.ModuleData)
	slot := 0
	for sectIdx := 0; sectIdx < cfg.SectionsPerModule; sectIdx++ {
		lessons := make(map[string]models.Lesson)
		for lessIdx := 0; lessIdx < cfg.LessonsPerSection; lessIdx++ {
			lessonID := sectIdx*cfg.LessonsPerSection + lessIdx
			lessons[fmt.Sprintf("%s%d", cfg.LessonPrefix, lessonID)] = models.Lesson{Notions: []string{notions[slot]}}
			slot++
		}
		data[fmt.Sprintf("%s%d", cfg.SectionPrefix, sectIdx)] = models.ModuleSection{Lessons: lessons}
	}
	return models.ModuleRecord{Data: data}
}

func TestComputeFeedback_FullGrid(t *testing.T) {
	cfg := DefaultConfig()
	got := ComputeFeedback(fullGridModule(cfg), cfg)
	if got.Status != models.SummaryOK || got.Summary == nil {
		t.Fatalf("unexpected report: %+v", got)
	}
	want := models.FeedbackSummary{Total: 16, Save: 2, OK: 3, KO: 1}
	if *got.Summary != want {
		t.Fatalf("got %+v, want %+v", *got.Summary, want)
	}
}

func TestComputeFeedback_MissingSlotsAreSkipped(t *testing.T) {
	cfg := DefaultConfig()
	// Only section_0/lesson_0 exists; the rest of the grid is absent.
	rec := models.ModuleRecord{Data: models.ModuleData{
		"section_0": {Lessons: map[string]models.Lesson{
			"lesson_0": {Notions: []string{cfg.FeedbackKnown}},
		}},
	}}
	got := ComputeFeedback(rec, cfg)
	if got.Status != models.SummaryOK || got.Summary == nil {
		t.Fatalf("unexpected report: %+v", got)
	}
	if got.Summary.Total != 1 || got.Summary.OK != 1 {
		t.Fatalf("got %+v, want total 1 / ok 1", *got.Summary)
	}
}

func TestComputeFeedback_NotStarted(t *testing.T) {
	got := ComputeFeedback(models.ModuleRecord{NotStarted: true}, DefaultConfig())
	if got.Status != models.SummaryNotStarted || got.Summary != nil {
		t.Fatalf("got %+v, want empty notStarted report", got)
	}
}

func TestComputeFeedback_MalformedRecord(t *testing.T) {
	got := ComputeFeedback(models.ModuleRecord{}, DefaultConfig())
	if got.Status != models.SummaryFailed || got.Summary != nil {
		t.Fatalf("got %+v, want failed report", got)
	}
}

func TestCompletionRate(t *testing.T) {
	cfg := DefaultConfig()
	if rate := CompletionRate(fullGridModule(cfg), cfg); rate != 100*6.0/16.0 {
		t.Fatalf("got %v, want %v", rate, 100*6.0/16.0)
	}
	if rate := CompletionRate(models.ModuleRecord{}, cfg); rate != 0 {
		t.Fatalf("malformed record: got %v, want 0", rate)
	}
	if rate := CompletionRate(models.ModuleRecord{NotStarted: true}, cfg); rate != 0 {
		t.Fatalf("not-started record: got %v, want 0", rate)
	}
	empty := models.ModuleRecord{Data: models.ModuleData{}}
	if rate := CompletionRate(empty, cfg); rate != 0 {
		t.Fatalf("empty data: got %v, want 0", rate)
	}
}

func TestCountFeedbackByType(t *testing.T) {
	cfg := DefaultConfig()
	got := CountFeedbackByType(fullGridModule(cfg), cfg)
	want := models.FeedbackTypeCount{ToLearn: 2, Known: 3, DontCare: 1}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if got := CountFeedbackByType(models.ModuleRecord{}, cfg); got != (models.FeedbackTypeCount{}) {
		t.Fatalf("malformed record: got %+v, want zero counts", got)
	}
}

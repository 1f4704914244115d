package models

import (
	"encoding/json"
	"testing"
)

func TestModuleRecord_DecodeNotStartedMarker(t *testing.T) {
	var rec ModuleRecord
	if err := json.Unmarshal([]byte(`true`), &rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.NotStarted || rec.Data != nil {
		t.Fatalf("got %+v, want not-started record", rec)
	}
}

func TestModuleRecord_DecodeDocument(t *testing.T) {
	doc := `{
		"data": {
			"section_0": {
				"lesson_0": {"notions": ["savaisDeja", ""]},
				"lesson_1": {"notions": ["veuxLapprendre"]},
				"quiz": {
					"allQuestions": 5,
					"goodAnswers": 3,
					"date": 1700000000000,
					"historique": [{"allQuestions": 5, "goodAnswers": 1, "date": 1690000000000}]
				}
			}
		}
	}`
	var rec ModuleRecord
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.NotStarted {
		t.Fatal("document decoded as not-started")
	}
	section, ok := rec.Data["section_0"]
	if !ok {
		t.Fatalf("section missing: %+v", rec.Data)
	}
	if len(section.Lessons) != 2 {
		t.Fatalf("lessons: %+v", section.Lessons)
	}
	if got := section.Lessons["lesson_0"].Notions; len(got) != 2 || got[0] != "savaisDeja" {
		t.Fatalf("lesson_0 notions: %+v", got)
	}
	if section.Quiz == nil || section.Quiz.AllQuestions != 5 || section.Quiz.GoodAnswers != 3 {
		t.Fatalf("quiz: %+v", section.Quiz)
	}
	if len(section.Quiz.Historique) != 1 || section.Quiz.Historique[0].GoodAnswers != 1 {
		t.Fatalf("historique: %+v", section.Quiz.Historique)
	}
}

func TestModuleRecord_RoundTrip(t *testing.T) {
	rec := ModuleRecord{Data: ModuleData{
		"section_0": {Lessons: map[string]Lesson{
			"lesson_0": {Notions: []string{"menFous"}},
		}},
	}}
	encoded, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded ModuleRecord
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := decoded.Data["section_0"].Lessons["lesson_0"].Notions; len(got) != 1 || got[0] != "menFous" {
		t.Fatalf("round trip lost data: %+v", decoded)
	}

	marker, err := json.Marshal(ModuleRecord{NotStarted: true})
	if err != nil {
		t.Fatalf("marshal marker: %v", err)
	}
	if string(marker) != "true" {
		t.Fatalf("not-started marker encodes as %s", marker)
	}
}

func TestNavEvent_UntimedVersusZero(t *testing.T) {
	var untimed NavEvent
	if err := json.Unmarshal([]byte(`{"stateName": "app.home"}`), &untimed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if untimed.StartDate != nil {
		t.Fatalf("missing startDate must decode as nil, got %v", *untimed.StartDate)
	}

	var zero NavEvent
	if err := json.Unmarshal([]byte(`{"startDate": 0}`), &zero); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zero.StartDate == nil || *zero.StartDate != 0 {
		t.Fatalf("startDate 0 must decode as a real timestamp, got %+v", zero.StartDate)
	}
}

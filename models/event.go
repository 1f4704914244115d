// api/models/event.go
package models

import "encoding/json"

// NavEvent is a single navigation action recorded by the client instrumentation.
// StartDate is epoch milliseconds; a nil StartDate means the client never
// timestamped the event, which is different from a timestamp of 0.
type NavEvent struct {
	StartDate *int64    `json:"startDate,omitempty"`
	StateName string    `json:"stateName,omitempty"`
	Params    NavParams `json:"params"`
}

// NavParams carries the routing parameters the client attached to a navigation.
type NavParams struct {
	Module    string `json:"module,omitempty"`
	LessonID  string `json:"lessonID,omitempty"`
	SectionID string `json:"sectionID,omitempty"`
}

// RawNavSession is one client-side session envelope as stored in the event log:
// the client's own bookkeeping values plus the nav events it recorded.
type RawNavSession struct {
	StartDate int64                `json:"startDate,omitempty"`
	EndDate   int64                `json:"endDate,omitempty"`
	Duration  int64                `json:"duration,omitempty"`
	Nav       map[string]*NavEvent `json:"nav,omitempty"`
}

// NavLog is a user's raw navigation log keyed by session key.
type NavLog map[string]RawNavSession

// Session is a reconstructed contiguous period of user activity.
// EndDate is always StartDate + Duration for a closed session.
type Session struct {
	StartDate int64 `json:"startDate"`
	Duration  int64 `json:"duration"`
	EndDate   int64 `json:"endDate"`
}

// ActionEvent is a typed user action (connection, lesson opened, ...).
type ActionEvent struct {
	Action       string `json:"action"`
	CreationDate int64  `json:"creationDate"`
	Module       string `json:"module,omitempty"`
	LessonID     string `json:"lessonID,omitempty"`
	SectionID    string `json:"sectionID,omitempty"`
}

// ModuleRecord is a learner's progress on one course. The store serializes an
// enrolled-but-not-started course as the bare JSON value `true`; a started
// course is an object holding the per-section data. NotStarted and Data are
// mutually exclusive; both empty means the record is malformed.
type ModuleRecord struct {
	NotStarted bool
	Data       ModuleData
}

func (m *ModuleRecord) UnmarshalJSON(b []byte) error {
	var marker bool
	if err := json.Unmarshal(b, &marker); err == nil {
		// Only the literal `true` marks an enrolled-but-not-started course;
		// anything else boolean is a malformed record.
		m.NotStarted = marker
		m.Data = nil
		return nil
	}
	var doc struct {
		Data ModuleData `json:"data"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	m.NotStarted = false
	m.Data = doc.Data
	return nil
}

func (m ModuleRecord) MarshalJSON() ([]byte, error) {
	if m.NotStarted {
		return json.Marshal(true)
	}
	return json.Marshal(struct {
		Data ModuleData `json:"data"`
	}{Data: m.Data})
}

// ModuleData maps section keys ("section_0", ...) to their content.
type ModuleData map[string]ModuleSection

// ModuleSection holds a section's quiz state and its lesson entries. In the
// stored document the lesson entries sit next to the "quiz" key, so decoding
// splits the two by key.
type ModuleSection struct {
	Quiz    *QuizState
	Lessons map[string]Lesson
}

func (s *ModuleSection) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	s.Quiz = nil
	s.Lessons = nil
	for key, val := range raw {
		if key == "quiz" {
			var q QuizState
			if err := json.Unmarshal(val, &q); err != nil {
				return err
			}
			s.Quiz = &q
			continue
		}
		var l Lesson
		if err := json.Unmarshal(val, &l); err != nil {
			// Non-lesson bookkeeping keys are ignored.
			continue
		}
		if s.Lessons == nil {
			s.Lessons = make(map[string]Lesson)
		}
		s.Lessons[key] = l
	}
	return nil
}

func (s ModuleSection) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(s.Lessons)+1)
	for key, l := range s.Lessons {
		out[key] = l
	}
	if s.Quiz != nil {
		out["quiz"] = s.Quiz
	}
	return json.Marshal(out)
}

// Lesson holds the feedback markers ("notions") a learner left on a lesson.
// An empty string marks a lesson slot that exists but carries no feedback yet.
type Lesson struct {
	Notions []string `json:"notions"`
}

// QuizAttempt is one quiz run: how many questions it had, how many were
// answered correctly and when it happened (epoch ms).
type QuizAttempt struct {
	AllQuestions int   `json:"allQuestions,omitempty"`
	GoodAnswers  int   `json:"goodAnswers,omitempty"`
	Date         int64 `json:"date,omitempty"`
}

// QuizState is the current quiz result of a section plus the history of all
// previous attempts.
type QuizState struct {
	QuizAttempt
	Historique []QuizAttempt `json:"historique,omitempty"`
}

// TrackNavRequest is a batch of nav events recorded by one client session.
type TrackNavRequest struct {
	UID        string              `json:"uid" binding:"required"`
	SessionKey string              `json:"sessionKey" binding:"required"`
	Events     map[string]NavEvent `json:"events" binding:"required"`
}

// TrackActionRequest records one typed user action. The server stamps the
// creation date.
type TrackActionRequest struct {
	UID       string `json:"uid" binding:"required"`
	Action    string `json:"action"`
	Module    string `json:"module,omitempty"`
	LessonID  string `json:"lessonID,omitempty"`
	SectionID string `json:"sectionID,omitempty"`
}

// api/models/report.go
package models

// SummaryStatus tags a per-module derived summary. A summary over a module the
// learner enrolled in but never opened is "notStarted"; a summary that could
// not be computed because the module record is malformed is "failed". Only an
// "ok" summary carries data.
type SummaryStatus string

const (
	SummaryOK         SummaryStatus = "ok"
	SummaryNotStarted SummaryStatus = "notStarted"
	SummaryFailed     SummaryStatus = "failed"
)

// FeedbackSummary counts the feedback markers of one module.
// Total counts every collected slot entry, including the empty ones; Save, OK
// and KO count the three feedback tags among the non-empty entries.
type FeedbackSummary struct {
	Total int `json:"total"`
	Save  int `json:"save"`
	OK    int `json:"ok"`
	KO    int `json:"ko"`
}

// FeedbackReport is a FeedbackSummary with its computation status.
type FeedbackReport struct {
	Status  SummaryStatus    `json:"status"`
	Summary *FeedbackSummary `json:"summary,omitempty"`
}

// QuizAttemptResult is the derived view of one quiz attempt. All fields are
// null when the attempt has no questions (or does not exist at all).
type QuizAttemptResult struct {
	TotalQuestions *int     `json:"totalQuestions"`
	Score          *float64 `json:"score"`
	Date           *int64   `json:"date"`
}

// QuizSectionResult pairs a section's current quiz result with the list of
// historical attempts.
type QuizSectionResult struct {
	QuizAttemptResult
	List []QuizAttemptResult `json:"list"`
}

// QuizReport maps result keys (section keys with the prefix stripped) to their
// quiz results, with the computation status.
type QuizReport struct {
	Status   SummaryStatus                `json:"status"`
	Sections map[string]QuizSectionResult `json:"sections,omitempty"`
}

// ModuleReport is the per-course breakdown of a UserModuleAnalytic.
type ModuleReport struct {
	Course   string         `json:"course"`
	Feedback FeedbackReport `json:"feedback"`
	Quiz     QuizReport     `json:"quiz"`
	Sessions []Session      `json:"sessions"`
}

// FeedbackTypeCount counts feedback markers by type across one module.
type FeedbackTypeCount struct {
	ToLearn  int `json:"toLearn"`
	Known    int `json:"known"`
	DontCare int `json:"dontCare"`
}

// api/analytics/quiz.go
package analytics

import (
	"strings"

	"antiseche/api/models"
)

// attemptResult is the single transform applied to every quiz attempt, current
// state and history entries alike. Without questions there is no score.
func attemptResult(attempt *models.QuizAttempt) models.QuizAttemptResult {
	var out models.QuizAttemptResult
	if attempt == nil {
		return out
	}
	if attempt.AllQuestions != 0 {
		total := attempt.AllQuestions
		score := float64(attempt.GoodAnswers) / float64(attempt.AllQuestions)
		out.TotalQuestions = &total
		out.Score = &score
	}
	if attempt.Date != 0 {
		date := attempt.Date
		out.Date = &date
	}
	return out
}

// ComputeQuiz summarizes the quiz results of one module record, keyed by the
// section key with its prefix stripped. Statuses mirror ComputeFeedback.
func ComputeQuiz(rec models.ModuleRecord, cfg Config) models.QuizReport {
	if rec.NotStarted {
		return models.QuizReport{Status: models.SummaryNotStarted}
	}
	if rec.Data == nil {
		return models.QuizReport{Status: models.SummaryFailed}
	}
	sections := make(map[string]models.QuizSectionResult, len(rec.Data))
	for key, section := range rec.Data {
		resultKey := strings.TrimPrefix(key, cfg.SectionPrefix)
		result := models.QuizSectionResult{List: []models.QuizAttemptResult{}}
		if section.Quiz != nil {
			result.QuizAttemptResult = attemptResult(&section.Quiz.QuizAttempt)
			for idx := range section.Quiz.Historique {
				result.List = append(result.List, attemptResult(&section.Quiz.Historique[idx]))
			}
		}
		sections[resultKey] = result
	}
	return models.QuizReport{Status: models.SummaryOK, Sections: sections}
}

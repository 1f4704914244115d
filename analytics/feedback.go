// api/analytics/feedback.go
package analytics

import (
	"fmt"

	"antiseche/api/models"
)

// collectNotions walks the fixed sections x lessons grid of a module and
// gathers every notion entry, empty ones included. Lesson ids are numbered
// across the whole module, so section N starts at lesson N*lessonsPerSection.
// Missing section or lesson slots are skipped; a short module is not an error.
func collectNotions(data models.ModuleData, cfg Config) []string {
	var notions []string
	for sectIdx := 0; sectIdx < cfg.SectionsPerModule; sectIdx++ {
		section, ok := data[fmt.Sprintf("%s%d", cfg.SectionPrefix, sectIdx)]
		if !ok {
			continue
		}
		for lessIdx := 0; lessIdx < cfg.LessonsPerSection; lessIdx++ {
			lessonID := sectIdx*cfg.LessonsPerSection + lessIdx
			lesson, ok := section.Lessons[fmt.Sprintf("%s%d", cfg.LessonPrefix, lessonID)]
			if !ok {
				continue
			}
			notions = append(notions, lesson.Notions...)
		}
	}
	return notions
}

// ComputeFeedback summarizes the feedback markers of one module record.
// A not-started record yields an empty notStarted summary; a record with no
// data yields a failed summary. Neither aborts the caller.
func ComputeFeedback(rec models.ModuleRecord, cfg Config) models.FeedbackReport {
	if rec.NotStarted {
		return models.FeedbackReport{Status: models.SummaryNotStarted}
	}
	if rec.Data == nil {
		return models.FeedbackReport{Status: models.SummaryFailed}
	}
	all := collectNotions(rec.Data, cfg)
	summary := &models.FeedbackSummary{Total: len(all)}
	for _, notion := range all {
		switch notion {
		case "":
		case cfg.FeedbackToLearn:
			summary.Save++
		case cfg.FeedbackKnown:
			summary.OK++
		case cfg.FeedbackDontCare:
			summary.KO++
		}
	}
	return models.FeedbackReport{Status: models.SummaryOK, Summary: summary}
}

// CompletionRate returns the percentage of collected slots carrying a non-empty
// notion. A record without data, or with no slots at all, rates 0.
func CompletionRate(rec models.ModuleRecord, cfg Config) float64 {
	if rec.NotStarted || rec.Data == nil {
		return 0
	}
	all := collectNotions(rec.Data, cfg)
	completed := 0
	for _, notion := range all {
		if notion != "" {
			completed++
		}
	}
	if completed == 0 {
		return 0
	}
	return 100 * float64(completed) / float64(len(all))
}

// CountFeedbackByType counts the three feedback tags across one module record.
func CountFeedbackByType(rec models.ModuleRecord, cfg Config) models.FeedbackTypeCount {
	var count models.FeedbackTypeCount
	if rec.NotStarted || rec.Data == nil {
		return count
	}
	for _, notion := range collectNotions(rec.Data, cfg) {
		switch notion {
		case cfg.FeedbackToLearn:
			count.ToLearn++
		case cfg.FeedbackKnown:
			count.Known++
		case cfg.FeedbackDontCare:
			count.DontCare++
		}
	}
	return count
}

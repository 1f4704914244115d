// api/analytics/config.go
package analytics

import (
	"os"
	"strconv"
)

// Config carries every threshold and domain constant the analytics engine
// needs. It is built once and passed in explicitly, so tests can run with
// their own values without touching process state.
type Config struct {
	// SessionTimeout is the gap (ms) between two navigations beyond which a
	// new session starts.
	SessionTimeout int64
	// NavTimeout is the gap (ms) beyond which a single navigation is
	// considered stalled; its contribution is capped at NavTimeoutValue
	// instead of the real elapsed time.
	NavTimeout int64
	// NavTimeoutValue is the capped duration (ms) credited for a stalled
	// navigation.
	NavTimeoutValue int64
	// SessionShortest is the minimum duration (ms) a session must strictly
	// exceed to be kept. Zero keeps every non-empty session.
	SessionShortest int64

	SectionsPerModule int
	LessonsPerSection int
	SectionPrefix     string
	LessonPrefix      string

	FeedbackToLearn  string
	FeedbackKnown    string
	FeedbackDontCare string
}

// DefaultConfig returns the production values used by the Antiseche platform.
func DefaultConfig() Config {
	return Config{
		SessionTimeout:    30 * 60 * 1000,
		NavTimeout:        5 * 60 * 1000,
		NavTimeoutValue:   30 * 1000,
		SessionShortest:   10 * 1000,
		SectionsPerModule: 4,
		LessonsPerSection: 4,
		SectionPrefix:     "section_",
		LessonPrefix:      "lesson_",
		FeedbackToLearn:   "veuxLapprendre",
		FeedbackKnown:     "savaisDeja",
		FeedbackDontCare:  "menFous",
	}
}

// ConfigFromEnv returns DefaultConfig with the timing thresholds overridden by
// environment variables when set.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.SessionTimeout = envInt64("ANALYTICS_SESSION_TIMEOUT_MS", cfg.SessionTimeout)
	cfg.NavTimeout = envInt64("ANALYTICS_NAV_TIMEOUT_MS", cfg.NavTimeout)
	cfg.NavTimeoutValue = envInt64("ANALYTICS_NAV_TIMEOUT_VALUE_MS", cfg.NavTimeoutValue)
	cfg.SessionShortest = envInt64("ANALYTICS_SESSION_SHORTEST_MS", cfg.SessionShortest)
	return cfg
}

func envInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return val
}

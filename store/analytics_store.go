// api/store/analytics_store.go
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"antiseche/api/database"
	"antiseche/api/models"
)

// AnalyticsStore is the raw event log on ClickHouse: navigation events and
// typed actions, written by the tracking endpoints and read back per user by
// the analytics core.
type AnalyticsStore struct {
	DB *database.ClickHouseClient
}

func NewAnalyticsStore(chClient *database.ClickHouseClient) *AnalyticsStore {
	return &AnalyticsStore{
		DB: chClient,
	}
}

// NavEventRow is one nav event as written to the log, with its addressing
// (user, session key, event key) and ingest metadata.
type NavEventRow struct {
	EventID    string
	UID        string
	SessionKey string
	EventKey   string
	StartDate  *int64
	StateName  string
	Module     string
	LessonID   string
	SectionID  string
	IPAddress  string
	ReceivedAt time.Time
}

// InsertNavEvents batch-inserts navigation events into the log.
func (s *AnalyticsStore) InsertNavEvents(ctx context.Context, rows []NavEventRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO nav_events (
			event_id, uid, session_key, event_key, start_date, state_name,
			module, lesson_id, section_id, ip_address, received_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, row := range rows {
		err := batch.Append(
			row.EventID,
			row.UID,
			row.SessionKey,
			row.EventKey,
			row.StartDate,
			row.StateName,
			row.Module,
			row.LessonID,
			row.SectionID,
			row.IPAddress,
			row.ReceivedAt,
		)
		if err != nil {
			log.Printf("Error appending nav event to batch (EventID: %s): %v", row.EventID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Successfully inserted %d nav events.", len(rows))
	return nil
}

// GetUserNavSessions reads a learner's whole navigation log back, grouped by
// session key into the raw shape the analytics core consumes.
func (s *AnalyticsStore) GetUserNavSessions(ctx context.Context, uid string) (models.NavLog, error) {
	query := `
		SELECT session_key, event_key, start_date, state_name, module, lesson_id, section_id
		FROM nav_events
		WHERE uid = ?
		ORDER BY session_key ASC, event_key ASC
	`
	rows, err := s.DB.Conn.Query(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to query nav events for user %s: %w", uid, err)
	}
	defer rows.Close()

	navLog := make(models.NavLog)
	for rows.Next() {
		var (
			sessionKey string
			eventKey   string
			startDate  *int64
			stateName  string
			module     string
			lessonID   string
			sectionID  string
		)
		if err := rows.Scan(&sessionKey, &eventKey, &startDate, &stateName, &module, &lessonID, &sectionID); err != nil {
			log.Printf("Error scanning nav event row for user %s: %v", uid, err)
			continue
		}
		ses, ok := navLog[sessionKey]
		if !ok {
			ses = models.RawNavSession{Nav: make(map[string]*models.NavEvent)}
		}
		ses.Nav[eventKey] = &models.NavEvent{
			StartDate: startDate,
			StateName: stateName,
			Params: models.NavParams{
				Module:    module,
				LessonID:  lessonID,
				SectionID: sectionID,
			},
		}
		navLog[sessionKey] = ses
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during nav event query: %w", err)
	}

	return navLog, nil
}

// InsertAction records one typed user action.
func (s *AnalyticsStore) InsertAction(ctx context.Context, uid string, action models.ActionEvent) error {
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO user_actions (
			uid, action, creation_date, module, lesson_id, section_id
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare action insert: %w", err)
	}
	err = batch.Append(
		uid,
		action.Action,
		action.CreationDate,
		action.Module,
		action.LessonID,
		action.SectionID,
	)
	if err != nil {
		return fmt.Errorf("failed to append action: %w", err)
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send action: %w", err)
	}
	return nil
}

// GetUserActions reads a learner's actions ordered by creation date.
func (s *AnalyticsStore) GetUserActions(ctx context.Context, uid string) ([]models.ActionEvent, error) {
	query := `
		SELECT action, creation_date, module, lesson_id, section_id
		FROM user_actions
		WHERE uid = ?
		ORDER BY creation_date ASC
	`
	rows, err := s.DB.Conn.Query(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions for user %s: %w", uid, err)
	}
	defer rows.Close()

	var actions []models.ActionEvent
	for rows.Next() {
		var a models.ActionEvent
		if err := rows.Scan(&a.Action, &a.CreationDate, &a.Module, &a.LessonID, &a.SectionID); err != nil {
			log.Printf("Error scanning action row for user %s: %v", uid, err)
			continue
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during action query: %w", err)
	}

	return actions, nil
}

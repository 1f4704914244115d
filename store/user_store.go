package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"antiseche/api/analytics"
	"antiseche/api/models"
)

// UserStore reads and writes the learner documents and the back-office admin
// accounts, both living in PostgreSQL. Learner documents are stored as JSONB
// columns so the analytics core can treat them as opaque documents.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore instance.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// CreateAdmin inserts a new back-office account.
func (s *UserStore) CreateAdmin(ctx context.Context, email string, hashedPassword []byte) (*models.Admin, error) {
	admin := &models.Admin{}
	query := `
		INSERT INTO admins (email, hashed_password)
		VALUES ($1, $2)
		RETURNING id, email, created_at, updated_at;
	`
	err := s.db.QueryRowContext(ctx, query, email, hashedPassword).Scan(
		&admin.ID,
		&admin.Email,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		if err.Error() == `pq: duplicate key value violates unique constraint "idx_admins_email"` ||
			err.Error() == `pq: duplicate key value violates unique constraint "admins_email_key"` {
			return nil, fmt.Errorf("admin with email '%s' already exists", email)
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	log.Printf("Admin created in DB: ID=%d, Email=%s", admin.ID, admin.Email)
	return admin, nil
}

// GetAdminByEmail fetches a back-office account by email.
func (s *UserStore) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	admin := &models.Admin{}
	query := `
		SELECT id, email, hashed_password, created_at, updated_at
		FROM admins
		WHERE email = $1;
	`
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.HashedPassword,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("admin with email '%s' not found", email)
		}
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}

	return admin, nil
}

func scanUserRecord(infos, sponsorship, modules, analyticsDoc []byte) (models.UserRecord, error) {
	var rec models.UserRecord
	if len(infos) > 0 {
		if err := json.Unmarshal(infos, &rec.Infos); err != nil {
			return rec, fmt.Errorf("decode infos: %w", err)
		}
	}
	if len(sponsorship) > 0 {
		if err := json.Unmarshal(sponsorship, &rec.Sponsorship); err != nil {
			return rec, fmt.Errorf("decode sponsorship: %w", err)
		}
	}
	if len(modules) > 0 {
		if err := json.Unmarshal(modules, &rec.Modules); err != nil {
			return rec, fmt.Errorf("decode modules: %w", err)
		}
	}
	if len(analyticsDoc) > 0 {
		if err := json.Unmarshal(analyticsDoc, &rec.Analytics); err != nil {
			return rec, fmt.Errorf("decode analytics: %w", err)
		}
	}
	return rec, nil
}

// GetUsers lists learner documents, optionally restricted to a group and
// paginated by uid. The returned NextLastID is the cursor for the next page;
// it is empty when the listing is exhausted.
func (s *UserStore) GetUsers(ctx context.Context, filter analytics.UserFilter) (*models.UserPage, error) {
	query := `
		SELECT uid, infos, sponsorship, modules, analytics
		FROM learners
		WHERE ($1 = '' OR infos->>'group' = $1)
		  AND ($2 = '' OR uid > $2)
		ORDER BY uid ASC
	`
	args := []interface{}{filter.Group, filter.LastID}
	if filter.Limit > 0 {
		query += ` LIMIT $3`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list learners: %w", err)
	}
	defer rows.Close()

	page := &models.UserPage{Items: make(map[string]models.UserRecord)}
	lastUID := ""
	for rows.Next() {
		var uid string
		var infos, sponsorship, modules, analyticsDoc []byte
		if err := rows.Scan(&uid, &infos, &sponsorship, &modules, &analyticsDoc); err != nil {
			log.Printf("Error scanning learner row: %v", err)
			continue
		}
		rec, err := scanUserRecord(infos, sponsorship, modules, analyticsDoc)
		if err != nil {
			log.Printf("Error decoding learner document %s: %v", uid, err)
			continue
		}
		page.Items[uid] = rec
		lastUID = uid
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during learner listing: %w", err)
	}

	if filter.Limit > 0 && len(page.Items) == filter.Limit {
		page.NextLastID = lastUID
	}
	return page, nil
}

// GetUserByID fetches one learner document.
func (s *UserStore) GetUserByID(ctx context.Context, uid string) (*models.UserRecord, error) {
	query := `
		SELECT infos, sponsorship, modules, analytics
		FROM learners
		WHERE uid = $1;
	`
	var infos, sponsorship, modules, analyticsDoc []byte
	err := s.db.QueryRowContext(ctx, query, uid).Scan(&infos, &sponsorship, &modules, &analyticsDoc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user '%s' not found", uid)
		}
		return nil, fmt.Errorf("failed to get user %s: %w", uid, err)
	}
	rec, err := scanUserRecord(infos, sponsorship, modules, analyticsDoc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", uid, err)
	}
	return &rec, nil
}

// UpdateUserAnalytics writes the denormalized analytics counters onto a
// learner document.
func (s *UserStore) UpdateUserAnalytics(ctx context.Context, uid string, fields models.UserAnalyticsFields) error {
	doc, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode analytics for user %s: %w", uid, err)
	}
	result, err := s.db.ExecContext(ctx, `UPDATE learners SET analytics = $2 WHERE uid = $1`, uid, doc)
	if err != nil {
		return fmt.Errorf("failed to update analytics for user %s: %w", uid, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("user '%s' not found", uid)
	}
	return nil
}

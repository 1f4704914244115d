package models

import "time"

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Admin is a back-office account (the people looking at the analytics, not the
// learners being analyzed).
type Admin struct {
	ID             int       `json:"id"`
	Email          string    `json:"email"`
	HashedPassword []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserInfo is the identity block of a learner document.
type UserInfo struct {
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Email     string `json:"email,omitempty"`
	Lang      string `json:"lang,omitempty"`
	Group     string `json:"group,omitempty"`
}

// Sponsorship is present on a learner document when the learner was referred.
// Its presence alone is the cohort key; the fields are informational.
type Sponsorship struct {
	SponsorUID string `json:"sponsorUid,omitempty"`
	Code       string `json:"code,omitempty"`
}

// UserAnalyticsFields are the denormalized counters written back onto a
// learner document by the analytics refresh.
type UserAnalyticsFields struct {
	NbConnections int   `json:"nbConnections"`
	NavDuration   int64 `json:"navDuration"`
}

// UserRecord is a learner document as fetched from the document store.
type UserRecord struct {
	Infos       UserInfo                `json:"infos"`
	Sponsorship *Sponsorship            `json:"sponsorship,omitempty"`
	Modules     map[string]ModuleRecord `json:"modules,omitempty"`
	Analytics   *UserAnalyticsFields    `json:"analytics,omitempty"`
}

// UserPage is one page of a learner listing with the cursor for the next page.
type UserPage struct {
	Items      map[string]UserRecord `json:"items"`
	NextLastID string                `json:"nextLastId,omitempty"`
}

// UserAnalytic is a learner's identity and cohort projection used in analytics
// reports: merged infos, sponsorship, uid and whether the learner has at least
// one module.
type UserAnalytic struct {
	UserInfo
	UID         string       `json:"uid"`
	Sponsorship *Sponsorship `json:"sponsorship,omitempty"`
	Active      bool         `json:"active"`
}

// Sponsored reports whether the learner belongs to the sponsorised cohort.
func (u UserAnalytic) Sponsored() bool {
	return u.Sponsorship != nil
}

// UserSessionAnalytic is a learner paired with their reconstructed sessions.
type UserSessionAnalytic struct {
	User     UserAnalytic `json:"user"`
	Sessions []Session    `json:"sessions"`
}

// UserModuleAnalytic is a learner paired with their per-course breakdown.
type UserModuleAnalytic struct {
	User    UserAnalytic   `json:"user"`
	Modules []ModuleReport `json:"modules"`
}

// CohortBuckets splits a set of learners along the sponsorship axis.
type CohortBuckets struct {
	Sponsorised   []UserAnalytic `json:"sponsorised"`
	Unsponsorised []UserAnalytic `json:"unsponsorised"`
}

// CohortReport is the active/inactive x sponsorised/unsponsorised split of a
// learner population.
type CohortReport struct {
	Total    int           `json:"total"`
	Active   CohortBuckets `json:"active"`
	Inactive CohortBuckets `json:"inactive"`
}

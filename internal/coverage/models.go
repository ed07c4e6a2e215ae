package coverage

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Shift publication statuses. Only PUBLISHED shifts participate in the grid.
const (
	ShiftPublished = "PUBLISHED"
	ShiftDraft     = "DRAFT"
	ShiftCancelled = "CANCELLED"
)

// Signup confirmation statuses. Anything other than CONFIRMED/PENDING
// (declined, waitlisted, ...) is excluded from zone aggregates.
const (
	SignupConfirmed = "CONFIRMED"
	SignupPending   = "PENDING"
)

// Dispatcher assignment scopes. A scope is either a county name, ScopeAll for
// the region-wide primary rotation, or ScopeRegional for region-wide backups.
const (
	ScopeAll      = "ALL"
	ScopeRegional = "REGIONAL"
)

type Zone struct {
	ID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID   string         `gorm:"index" json:"-"`
	Name    string         `json:"name"`
	County  string         `gorm:"index" json:"county"`
	Aliases pq.StringArray `gorm:"type:text[]" json:"aliases,omitempty"`
	Active  bool           `gorm:"default:true" json:"-"`
}

type Shift struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID     string        `gorm:"index" json:"-"`
	ZoneID    uuid.UUID     `gorm:"type:uuid;index" json:"zone_id"`
	Date      time.Time     `json:"date"`       // UTC-midnight anchored calendar date as stored
	StartTime time.Time     `json:"start_time"` // UTC
	EndTime   time.Time     `json:"end_time"`   // UTC
	Status    string        `gorm:"default:'DRAFT'" json:"status"`
	Signups   []ShiftSignup `gorm:"foreignKey:ShiftID" json:"signups"`
}

type ShiftSignup struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShiftID     uuid.UUID `gorm:"type:uuid;index" json:"shift_id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Status      string    `gorm:"default:'PENDING'" json:"status"`
	IsZoneLead  bool      `json:"is_zone_lead"`
}

type DispatcherAssignment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID       string    `gorm:"index" json:"-"`
	Scope       string    `gorm:"index" json:"scope"` // county name, "ALL", or "REGIONAL"
	Date        time.Time `json:"date"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	IsBackup    bool      `json:"is_backup"`
	Notes       string    `json:"notes,omitempty"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"-"`
}

// RegionalLeadAssignment is a whole-day leadership role; it carries no
// time-of-day and is not scoped to a zone or county.
type RegionalLeadAssignment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID       string    `gorm:"index" json:"-"`
	Date        time.Time `json:"date"`
	IsPrimary   bool      `json:"is_primary"`
	Notes       string    `json:"notes,omitempty"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
}

type OrgSettings struct {
	OrgID                    string `gorm:"primaryKey" json:"org_id"`
	Timezone                 string `json:"timezone"`
	DispatcherSchedulingMode string `json:"dispatcher_scheduling_mode"`
	SchedulingMode           string `json:"scheduling_mode"`
}

func (Zone) TableName() string                   { return "coverage.zones" }
func (Shift) TableName() string                  { return "coverage.shifts" }
func (ShiftSignup) TableName() string            { return "coverage.shift_signups" }
func (DispatcherAssignment) TableName() string   { return "coverage.dispatcher_assignments" }
func (RegionalLeadAssignment) TableName() string { return "coverage.regional_lead_assignments" }
func (OrgSettings) TableName() string            { return "coverage.org_settings" }

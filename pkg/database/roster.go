package database

import "time"

// Assignment and rule values
const (
	AssignmentActive = "active"
	RulePreferred    = "preferred"
	RuleExcluded     = "excluded"
)

// Caregiver represents the caregivers table
type Caregiver struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	TargetHours float64   `gorm:"not null" json:"target_hours"`
	MaxHours    float64   `gorm:"not null" json:"max_hours"`
	Active      bool      `gorm:"not null;index" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Client represents the clients table
type Client struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	ServiceType string    `json:"service_type"`
	Active      bool      `gorm:"not null;index" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CaregiverAssignment links a caregiver to a client with the contracted weekly hours
type CaregiverAssignment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ClientID     string    `gorm:"type:varchar(36);index;not null" json:"client_id"`
	CaregiverID  string    `gorm:"type:varchar(36);index;not null" json:"caregiver_id"`
	HoursPerWeek float64   `json:"hours_per_week"`
	Status       string    `gorm:"type:varchar(16);index;not null" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// ClientCaregiverRule marks a caregiver as preferred or excluded for a client
type ClientCaregiverRule struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ClientID    string `gorm:"type:varchar(36);uniqueIndex:idx_client_caregiver_rule;not null" json:"client_id"`
	CaregiverID string `gorm:"type:varchar(36);uniqueIndex:idx_client_caregiver_rule;not null" json:"caregiver_id"`
	Kind        string `gorm:"type:varchar(16);not null" json:"kind"`
}

// CaregiverSchedule represents the caregiver_schedules table of live bookings
type CaregiverSchedule struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CaregiverID  string    `gorm:"type:varchar(36);index;not null" json:"caregiver_id"`
	ClientID     string    `gorm:"type:varchar(36);index;not null" json:"client_id"`
	ScheduleType string    `gorm:"type:varchar(16);not null" json:"schedule_type"`
	DayOfWeek    *int      `gorm:"index" json:"day_of_week,omitempty"` // 0=Sunday, 6=Saturday
	StartTime    string    `gorm:"type:varchar(8);not null" json:"start_time"`
	EndTime      string    `gorm:"type:varchar(8);not null" json:"end_time"`
	IsActive     bool      `gorm:"not null;index" json:"is_active"`
	Notes        string    `gorm:"type:text" json:"notes,omitempty"`
	ProposalKey  string    `gorm:"type:varchar(64);index" json:"proposal_key,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the table name for GORM
func (CaregiverSchedule) TableName() string {
	return "caregiver_schedules"
}

package models

// Caregiver is a staff member the optimizer can place visits with
type Caregiver struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	TargetHours float64 `json:"targetHours"`
}

// Client is a person who needs a number of visits per week
type Client struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	HoursPerWeek        float64  `json:"hoursPerWeek"`
	VisitsPerWeek       int      `json:"visitsPerWeek"`
	PreferredCaregivers []string `json:"preferredCaregivers,omitempty"`
	ExcludedCaregivers  []string `json:"excludedCaregivers,omitempty"`
}

// ScheduleEntry is a weekly recurring booking. Existing entries come from the
// store; proposed ones only live inside a run until they are applied.
type ScheduleEntry struct {
	ID          string `json:"id,omitempty"`
	CaregiverID string `json:"caregiverId"`
	ClientID    string `json:"clientId"`
	ClientName  string `json:"clientName,omitempty"`
	DayOfWeek   int    `json:"dayOfWeek"` // 0=Sunday, 6=Saturday
	StartTime   string `json:"startTime"` // HH:MM
	EndTime     string `json:"endTime"`   // HH:MM
	IsExisting  bool   `json:"isExisting"`
}

// Window is a booked time range on one day of a caregiver's week
type Window struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName,omitempty"`
	IsExisting bool   `json:"isExisting"`
}

// Proposal is one generated assignment that has not been persisted
type Proposal struct {
	Key           string   `json:"key"`
	CaregiverID   string   `json:"caregiverId"`
	CaregiverName string   `json:"caregiverName"`
	ClientID      string   `json:"clientId"`
	ClientName    string   `json:"clientName"`
	DayOfWeek     int      `json:"dayOfWeek"`
	DayName       string   `json:"dayName"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	Hours         float64  `json:"hours"`
	HasConflict   bool     `json:"hasConflict"`
	ConflictsWith []Window `json:"conflictsWith"`
}

// Unscheduled records a visit the engine could not place
type Unscheduled struct {
	ClientID      string  `json:"clientId"`
	ClientName    string  `json:"clientName"`
	VisitNumber   int     `json:"visitNumber"`
	HoursPerVisit float64 `json:"hoursPerVisit"`
	Reason        string  `json:"reason"`
}

// CaregiverSummary reports hours for one caregiver after a run
type CaregiverSummary struct {
	CaregiverID    string  `json:"caregiverId"`
	Name           string  `json:"name"`
	TargetHours    float64 `json:"targetHours"`
	ExistingHours  float64 `json:"existingHours"`
	ProposedHours  float64 `json:"proposedHours"`
	TotalHours     float64 `json:"totalHours"`
	UtilizationPct float64 `json:"utilizationPct"`
}

// ClientSummary reports placement progress for one client after a run
type ClientSummary struct {
	ClientID       string  `json:"clientId"`
	Name           string  `json:"name"`
	VisitsNeeded   int     `json:"visitsNeeded"`
	VisitsPlaced   int     `json:"visitsPlaced"`
	HoursPerVisit  float64 `json:"hoursPerVisit"`
	FullyScheduled bool    `json:"fullyScheduled"`
}

// RunSummary is the aggregate view of a run
type RunSummary struct {
	Caregivers       []CaregiverSummary `json:"caregivers"`
	Clients          []ClientSummary    `json:"clients"`
	TotalProposals   int                `json:"totalProposals"`
	TotalConflicts   int                `json:"totalConflicts"`
	TotalUnscheduled int                `json:"totalUnscheduled"`
}

// RunResult is what a dry run returns
type RunResult struct {
	Proposals         []Proposal      `json:"proposals"`
	ExistingSchedules []ScheduleEntry `json:"existingSchedules"`
	Unscheduled       []Unscheduled   `json:"unscheduled"`
	Summary           RunSummary      `json:"summary"`
}

// CaregiverTarget is a caregiver line in a run request
type CaregiverTarget struct {
	ID          string  `json:"id"`
	TargetHours float64 `json:"targetHours"`
}

// ClientDemand is a client line in a run request
type ClientDemand struct {
	ID            string  `json:"id"`
	HoursPerWeek  float64 `json:"hoursPerWeek"`
	VisitsPerWeek int     `json:"visitsPerWeek"`
}

// RunRequest is the input of the run operation
type RunRequest struct {
	Caregivers []CaregiverTarget `json:"caregivers"`
	Clients    []ClientDemand    `json:"clients"`
}

// ApplyRequest carries the proposals an operator accepted
type ApplyRequest struct {
	Proposals []Proposal `json:"proposals"`
}

// ApplyError pairs a proposal with the reason it was not persisted
type ApplyError struct {
	Proposal Proposal `json:"proposal"`
	Error    string   `json:"error"`
}

// ApplyResult reports partial success of an apply
type ApplyResult struct {
	Success      bool         `json:"success"`
	Created      int          `json:"created"`
	Errors       int          `json:"errors"`
	ErrorDetails []ApplyError `json:"errorDetails"`
}

// RosterCaregiver is the read-only caregiver projection of the roster snapshot
type RosterCaregiver struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	TargetHours       float64 `json:"targetHours"`
	MaxHours          float64 `json:"maxHours"`
	CurrentWeekHours  float64 `json:"currentWeekHours"`
	ActiveClientCount int     `json:"activeClientCount"`
}

// RosterClient is the read-only client projection of the roster snapshot
type RosterClient struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	ServiceType         string   `json:"serviceType"`
	HoursPerWeek        float64  `json:"hoursPerWeek"`
	ScheduledDays       []int    `json:"scheduledDays"`
	PreferredCaregivers []string `json:"preferredCaregivers"`
	ExcludedCaregivers  []string `json:"excludedCaregivers"`
	AssignedCaregivers  []string `json:"assignedCaregivers"`
}

// Roster is the combined set of active caregivers and clients
type Roster struct {
	Caregivers []RosterCaregiver `json:"caregivers"`
	Clients    []RosterClient    `json:"clients"`
}

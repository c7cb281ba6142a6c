package database

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/arnavshah/roster-optimizer/pkg/models"
	"github.com/arnavshah/roster-optimizer/pkg/optimizer"
	"github.com/arnavshah/roster-optimizer/pkg/scheduler"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Store is the gorm-backed roster repository
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

var _ optimizer.Repository = (*Store)(nil)

// NewStore creates a store over an open database
func NewStore(db *gorm.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "roster_store").Logger(),
	}
}

func (s *Store) activeRecurring(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("schedule_type = ?", optimizer.ScheduleTypeRecurring).
		Where("day_of_week IS NOT NULL")
}

// LoadRoster builds the read-only snapshot of active caregivers and clients
func (s *Store) LoadRoster(ctx context.Context) (*models.Roster, error) {
	var caregivers []Caregiver
	if err := s.db.WithContext(ctx).Where("active = ?", true).Order("name, id").Find(&caregivers).Error; err != nil {
		return nil, fmt.Errorf("load caregivers: %w", err)
	}

	var clients []Client
	if err := s.db.WithContext(ctx).Where("active = ?", true).Order("name, id").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}

	var schedules []CaregiverSchedule
	if err := s.activeRecurring(ctx).Order("id").Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}

	var assignments []CaregiverAssignment
	if err := s.db.WithContext(ctx).Where("status = ?", AssignmentActive).Order("created_at desc, id desc").Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}

	var rules []ClientCaregiverRule
	if err := s.db.WithContext(ctx).Order("id").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("load caregiver rules: %w", err)
	}

	bookedHours := make(map[string]float64)
	scheduledDays := make(map[string]map[int]bool)
	for _, sch := range schedules {
		bookedHours[sch.CaregiverID] += scheduler.DurationHours(sch.StartTime, sch.EndTime)
		if scheduledDays[sch.ClientID] == nil {
			scheduledDays[sch.ClientID] = make(map[int]bool)
		}
		scheduledDays[sch.ClientID][*sch.DayOfWeek] = true
	}

	// assignments are newest first, so the first one seen per client wins
	clientHours := make(map[string]float64)
	assigned := make(map[string][]string)
	caregiverClients := make(map[string]map[string]bool)
	for _, a := range assignments {
		if _, ok := clientHours[a.ClientID]; !ok {
			clientHours[a.ClientID] = a.HoursPerWeek
		}
		if !contains(assigned[a.ClientID], a.CaregiverID) {
			assigned[a.ClientID] = append(assigned[a.ClientID], a.CaregiverID)
		}
		if caregiverClients[a.CaregiverID] == nil {
			caregiverClients[a.CaregiverID] = make(map[string]bool)
		}
		caregiverClients[a.CaregiverID][a.ClientID] = true
	}

	preferred := make(map[string][]string)
	excluded := make(map[string][]string)
	for _, r := range rules {
		switch r.Kind {
		case RulePreferred:
			preferred[r.ClientID] = append(preferred[r.ClientID], r.CaregiverID)
		case RuleExcluded:
			excluded[r.ClientID] = append(excluded[r.ClientID], r.CaregiverID)
		}
	}

	roster := &models.Roster{
		Caregivers: make([]models.RosterCaregiver, 0, len(caregivers)),
		Clients:    make([]models.RosterClient, 0, len(clients)),
	}
	for _, cg := range caregivers {
		roster.Caregivers = append(roster.Caregivers, models.RosterCaregiver{
			ID:                cg.ID,
			Name:              cg.Name,
			TargetHours:       cg.TargetHours,
			MaxHours:          cg.MaxHours,
			CurrentWeekHours:  bookedHours[cg.ID],
			ActiveClientCount: len(caregiverClients[cg.ID]),
		})
	}
	for _, cl := range clients {
		days := make([]int, 0, len(scheduledDays[cl.ID]))
		for d := range scheduledDays[cl.ID] {
			days = append(days, d)
		}
		sort.Ints(days)

		roster.Clients = append(roster.Clients, models.RosterClient{
			ID:                  cl.ID,
			Name:                cl.Name,
			ServiceType:         cl.ServiceType,
			HoursPerWeek:        clientHours[cl.ID],
			ScheduledDays:       days,
			PreferredCaregivers: nonNil(preferred[cl.ID]),
			ExcludedCaregivers:  nonNil(excluded[cl.ID]),
			AssignedCaregivers:  nonNil(assigned[cl.ID]),
		})
	}

	return roster, nil
}

// LoadExistingSchedules returns active recurring entries touching any of the
// caregivers or clients, ordered for deterministic runs.
func (s *Store) LoadExistingSchedules(ctx context.Context, caregiverIDs, clientIDs []string) ([]models.ScheduleEntry, error) {
	var rows []CaregiverSchedule
	err := s.activeRecurring(ctx).
		Where(s.db.Where("caregiver_id IN ?", caregiverIDs).Or("client_id IN ?", clientIDs)).
		Order("caregiver_id, day_of_week, start_time, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}

	clientIDSet := make(map[string]bool)
	var ids []string
	for _, r := range rows {
		if !clientIDSet[r.ClientID] {
			clientIDSet[r.ClientID] = true
			ids = append(ids, r.ClientID)
		}
	}
	names := make(map[string]string, len(ids))
	if len(ids) > 0 {
		var clients []Client
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&clients).Error; err != nil {
			return nil, fmt.Errorf("load client names: %w", err)
		}
		for _, c := range clients {
			names[c.ID] = c.Name
		}
	}

	entries := make([]models.ScheduleEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, models.ScheduleEntry{
			ID:          r.ID,
			CaregiverID: r.CaregiverID,
			ClientID:    r.ClientID,
			ClientName:  names[r.ClientID],
			DayOfWeek:   *r.DayOfWeek,
			StartTime:   scheduler.NormalizeTime(r.StartTime),
			EndTime:     scheduler.NormalizeTime(r.EndTime),
			IsExisting:  true,
		})
	}
	return entries, nil
}

// InsertSchedule persists one applied proposal after checking that both
// sides of the booking still exist.
func (s *Store) InsertSchedule(ctx context.Context, entry optimizer.NewSchedule) error {
	db := s.db.WithContext(ctx)

	if err := db.Where("id = ? AND active = ?", entry.CaregiverID, true).First(&Caregiver{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("caregiver %s not found", entry.CaregiverID)
		}
		return fmt.Errorf("lookup caregiver: %w", err)
	}
	if err := db.Where("id = ? AND active = ?", entry.ClientID, true).First(&Client{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("client %s not found", entry.ClientID)
		}
		return fmt.Errorf("lookup client: %w", err)
	}

	day := entry.DayOfWeek
	row := CaregiverSchedule{
		ID:           entry.ID,
		CaregiverID:  entry.CaregiverID,
		ClientID:     entry.ClientID,
		ScheduleType: entry.ScheduleType,
		DayOfWeek:    &day,
		StartTime:    entry.StartTime,
		EndTime:      entry.EndTime,
		IsActive:     entry.IsActive,
		Notes:        entry.Notes,
		ProposalKey:  entry.ProposalKey,
	}
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}

	s.logger.Debug().Str("schedule_id", row.ID).Str("proposal_key", row.ProposalKey).Msg("schedule created")
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

package database

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/arnavshah/roster-optimizer/pkg/models"
	"github.com/arnavshah/roster-optimizer/pkg/optimizer"
	"github.com/arnavshah/roster-optimizer/pkg/scheduler"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func intPtr(v int) *int { return &v }

func seedRoster(t *testing.T, db *gorm.DB) {
	t.Helper()
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	records := []any{
		&Caregiver{ID: "cg1", Name: "Alice", TargetHours: 30, MaxHours: 40, Active: true},
		&Caregiver{ID: "cg2", Name: "Bob", TargetHours: 20, MaxHours: 25, Active: true},
		&Caregiver{ID: "cg3", Name: "Zed", TargetHours: 20, MaxHours: 25, Active: false},
		&Client{ID: "c1", Name: "Mr. Park", ServiceType: "companion", Active: true},
		&Client{ID: "c2", Name: "Ms. Diaz", ServiceType: "personal_care", Active: true},
		&Client{ID: "c3", Name: "Gone", Active: false},
		&CaregiverAssignment{ClientID: "c1", CaregiverID: "cg1", HoursPerWeek: 6, Status: AssignmentActive, CreatedAt: now.Add(-48 * time.Hour)},
		&CaregiverAssignment{ClientID: "c1", CaregiverID: "cg2", HoursPerWeek: 8, Status: AssignmentActive, CreatedAt: now},
		&CaregiverAssignment{ClientID: "c2", CaregiverID: "cg1", HoursPerWeek: 4, Status: "ended", CreatedAt: now},
		&ClientCaregiverRule{ClientID: "c1", CaregiverID: "cg2", Kind: RulePreferred},
		&ClientCaregiverRule{ClientID: "c2", CaregiverID: "cg2", Kind: RuleExcluded},
		&CaregiverSchedule{ID: "s1", CaregiverID: "cg1", ClientID: "c1", ScheduleType: optimizer.ScheduleTypeRecurring, DayOfWeek: intPtr(1), StartTime: "08:00:00", EndTime: "12:00:00", IsActive: true},
		&CaregiverSchedule{ID: "s2", CaregiverID: "cg1", ClientID: "c1", ScheduleType: optimizer.ScheduleTypeRecurring, DayOfWeek: intPtr(4), StartTime: "13:00", EndTime: "14:30", IsActive: true},
		&CaregiverSchedule{ID: "s3", CaregiverID: "cg1", ClientID: "c2", ScheduleType: optimizer.ScheduleTypeRecurring, DayOfWeek: intPtr(2), StartTime: "08:00", EndTime: "10:00", IsActive: false},
		&CaregiverSchedule{ID: "s4", CaregiverID: "cg2", ClientID: "c2", ScheduleType: "one_time", StartTime: "08:00", EndTime: "10:00", IsActive: true},
	}
	for _, r := range records {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("seed %T: %v", r, err)
		}
	}
}

func TestLoadRoster(t *testing.T) {
	db := setupTestDB(t)
	seedRoster(t, db)
	store := NewStore(db, zerolog.Nop())

	roster, err := store.LoadRoster(context.Background())
	if err != nil {
		t.Fatalf("load roster: %v", err)
	}

	if len(roster.Caregivers) != 2 || roster.Caregivers[0].ID != "cg1" || roster.Caregivers[1].ID != "cg2" {
		t.Fatalf("unexpected caregivers %+v", roster.Caregivers)
	}
	alice := roster.Caregivers[0]
	if alice.CurrentWeekHours != 5.5 || alice.ActiveClientCount != 1 || alice.MaxHours != 40 {
		t.Errorf("unexpected caregiver projection %+v", alice)
	}

	if len(roster.Clients) != 2 {
		t.Fatalf("expected 2 active clients, got %d", len(roster.Clients))
	}
	var park, diaz models.RosterClient
	for _, c := range roster.Clients {
		switch c.ID {
		case "c1":
			park = c
		case "c2":
			diaz = c
		}
	}
	if park.HoursPerWeek != 8 {
		t.Errorf("hours should come from the most recent active assignment, got %v", park.HoursPerWeek)
	}
	if !reflect.DeepEqual(park.ScheduledDays, []int{1, 4}) {
		t.Errorf("unexpected scheduled days %v", park.ScheduledDays)
	}
	if !reflect.DeepEqual(park.PreferredCaregivers, []string{"cg2"}) || len(park.ExcludedCaregivers) != 0 {
		t.Errorf("unexpected preferences %+v", park)
	}
	if len(park.AssignedCaregivers) != 2 {
		t.Errorf("unexpected assigned caregivers %v", park.AssignedCaregivers)
	}
	if !reflect.DeepEqual(diaz.ExcludedCaregivers, []string{"cg2"}) || diaz.HoursPerWeek != 0 || len(diaz.ScheduledDays) != 0 {
		t.Errorf("unexpected client projection %+v", diaz)
	}
}

func TestLoadExistingSchedules(t *testing.T) {
	db := setupTestDB(t)
	seedRoster(t, db)
	store := NewStore(db, zerolog.Nop())

	entries, err := store.LoadExistingSchedules(context.Background(), []string{"cg2"}, []string{"c1"})
	if err != nil {
		t.Fatalf("load schedules: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected the two active recurring entries of c1, got %+v", entries)
	}
	first := entries[0]
	if first.ID != "s1" || first.StartTime != "08:00" || first.EndTime != "12:00" || !first.IsExisting || first.ClientName != "Mr. Park" {
		t.Errorf("unexpected entry %+v", first)
	}

	none, err := store.LoadExistingSchedules(context.Background(), []string{"cg2"}, nil)
	if err != nil {
		t.Fatalf("load schedules: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("inactive and one-time entries must be ignored, got %+v", none)
	}
}

func TestInsertScheduleChecksReferences(t *testing.T) {
	db := setupTestDB(t)
	seedRoster(t, db)
	store := NewStore(db, zerolog.Nop())
	ctx := context.Background()

	entry := optimizer.NewSchedule{
		ID:           "new-1",
		CaregiverID:  "cg2",
		ClientID:     "c1",
		ScheduleType: optimizer.ScheduleTypeRecurring,
		DayOfWeek:    3,
		StartTime:    "08:00",
		EndTime:      "10:00",
		IsActive:     true,
		Notes:        optimizer.AppliedNote,
		ProposalKey:  scheduler.ProposalKey("cg2", "c1", 3, "08:00", "10:00"),
	}
	if err := store.InsertSchedule(ctx, entry); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var row CaregiverSchedule
	if err := db.First(&row, "id = ?", "new-1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if row.DayOfWeek == nil || *row.DayOfWeek != 3 || !row.IsActive || row.Notes != optimizer.AppliedNote {
		t.Errorf("unexpected row %+v", row)
	}

	entry.ID = "new-2"
	entry.ClientID = "c3"
	err := store.InsertSchedule(ctx, entry)
	if err == nil || !strings.Contains(err.Error(), "client c3 not found") {
		t.Errorf("expected missing client error, got %v", err)
	}
}

func TestServiceRunAndApplyAgainstStore(t *testing.T) {
	db := setupTestDB(t)
	seedRoster(t, db)
	svc := optimizer.New(NewStore(db, zerolog.Nop()), scheduler.Options{}, zerolog.Nop())
	ctx := context.Background()

	req := models.RunRequest{
		Caregivers: []models.CaregiverTarget{{ID: "cg1", TargetHours: 10}},
		Clients:    []models.ClientDemand{{ID: "c2", HoursPerWeek: 5, VisitsPerWeek: 2}},
	}

	var before int64
	db.Model(&CaregiverSchedule{}).Count(&before)

	res, err := svc.Run(ctx, req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var after int64
	db.Model(&CaregiverSchedule{}).Count(&after)
	if before != after {
		t.Fatalf("run wrote to the store: %d -> %d rows", before, after)
	}

	// cg1 already works Monday 08:00-12:00 for c1
	if len(res.Proposals) != 1 {
		t.Fatalf("expected one proposal within the remaining 4.5 hours, got %d", len(res.Proposals))
	}
	if p := res.Proposals[0]; p.DayOfWeek != 1 || p.StartTime != "12:00" || p.EndTime != "14:30" {
		t.Errorf("unexpected proposal %+v", p)
	}
	if len(res.Unscheduled) != 1 || res.Unscheduled[0].Reason != scheduler.ReasonAtCapacity {
		t.Errorf("unexpected unscheduled %+v", res.Unscheduled)
	}

	applied := svc.Apply(ctx, res.Proposals)
	if !applied.Success || applied.Created != 1 {
		t.Fatalf("unexpected apply result %+v", applied)
	}

	var created CaregiverSchedule
	if err := db.Where("proposal_key = ?", res.Proposals[0].Key).First(&created).Error; err != nil {
		t.Fatalf("applied row not found: %v", err)
	}
	if created.ScheduleType != optimizer.ScheduleTypeRecurring || created.CaregiverID != "cg1" || created.ClientID != "c2" {
		t.Errorf("unexpected applied row %+v", created)
	}
}

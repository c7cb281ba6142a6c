package scheduler

import (
	"testing"

	"github.com/arnavshah/roster-optimizer/pkg/models"
)

func TestBuildSlotMapInitializesEveryDay(t *testing.T) {
	existing := []models.ScheduleEntry{
		{CaregiverID: "cg1", ClientID: "c1", DayOfWeek: 1, StartTime: "13:00:00", EndTime: "15:00:00"},
		{CaregiverID: "cg1", ClientID: "c2", DayOfWeek: 1, StartTime: "08:00", EndTime: "10:00"},
		{CaregiverID: "other", ClientID: "c1", DayOfWeek: 2, StartTime: "08:00", EndTime: "10:00"},
		{CaregiverID: "cg1", ClientID: "c1", DayOfWeek: 9, StartTime: "08:00", EndTime: "10:00"},
	}

	slots := BuildSlotMap([]string{"cg1", "cg2"}, existing)

	if len(slots) != 2 {
		t.Fatalf("expected 2 caregivers in slot map, got %d", len(slots))
	}
	if _, ok := slots["other"]; ok {
		t.Error("caregiver outside the input list should not be keyed")
	}
	for _, id := range []string{"cg1", "cg2"} {
		for d := 0; d < DaysPerWeek; d++ {
			if slots.Windows(id, d) == nil {
				t.Errorf("%s day %d not initialized", id, d)
			}
		}
	}

	monday := slots.Windows("cg1", 1)
	if len(monday) != 2 {
		t.Fatalf("expected 2 Monday windows, got %d", len(monday))
	}
	if monday[0].Start != "08:00" || monday[1].Start != "13:00" || monday[1].End != "15:00" {
		t.Errorf("windows not normalized and ordered: %+v", monday)
	}
	if !monday[0].IsExisting {
		t.Error("existing windows must be flagged as existing")
	}
}

func TestSlotMapReserveKeepsOrder(t *testing.T) {
	slots := BuildSlotMap([]string{"cg1"}, nil)
	slots.Reserve("cg1", 3, models.Window{Start: "12:00", End: "13:00"})
	slots.Reserve("cg1", 3, models.Window{Start: "08:00", End: "09:00"})
	slots.Reserve("missing", 3, models.Window{Start: "08:00", End: "09:00"})

	ws := slots.Windows("cg1", 3)
	if len(ws) != 2 || ws[0].Start != "08:00" {
		t.Errorf("unexpected windows after reserve: %+v", ws)
	}
}

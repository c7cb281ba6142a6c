package scheduler

import (
	"sort"

	"github.com/arnavshah/roster-optimizer/pkg/models"
)

// DaysPerWeek is the number of day-of-week buckets, 0=Sunday through 6=Saturday
const DaysPerWeek = 7

// SlotMap indexes booked windows by caregiver and day of week
type SlotMap map[string]*[DaysPerWeek][]models.Window

// BuildSlotMap seeds every caregiver with seven empty days and then files the
// existing entries that belong to those caregivers. Entries for other
// caregivers or with an out-of-range day are ignored.
func BuildSlotMap(caregiverIDs []string, existing []models.ScheduleEntry) SlotMap {
	slots := make(SlotMap, len(caregiverIDs))
	for _, id := range caregiverIDs {
		var days [DaysPerWeek][]models.Window
		for d := range days {
			days[d] = []models.Window{}
		}
		slots[id] = &days
	}

	for _, e := range existing {
		days, ok := slots[e.CaregiverID]
		if !ok || e.DayOfWeek < 0 || e.DayOfWeek >= DaysPerWeek {
			continue
		}
		days[e.DayOfWeek] = append(days[e.DayOfWeek], models.Window{
			Start:      NormalizeTime(e.StartTime),
			End:        NormalizeTime(e.EndTime),
			ClientID:   e.ClientID,
			ClientName: e.ClientName,
			IsExisting: true,
		})
	}

	for _, days := range slots {
		for d := range days {
			sortWindows(days[d])
		}
	}
	return slots
}

// Windows returns the booked windows for a caregiver on a day
func (m SlotMap) Windows(caregiverID string, day int) []models.Window {
	days, ok := m[caregiverID]
	if !ok || day < 0 || day >= DaysPerWeek {
		return nil
	}
	return days[day]
}

// Reserve books a window, keeping the day ordered by start time
func (m SlotMap) Reserve(caregiverID string, day int, w models.Window) {
	days, ok := m[caregiverID]
	if !ok || day < 0 || day >= DaysPerWeek {
		return
	}
	days[day] = append(days[day], w)
	sortWindows(days[day])
}

func sortWindows(ws []models.Window) {
	sort.SliceStable(ws, func(i, j int) bool {
		return ToMinutes(ws[i].Start) < ToMinutes(ws[j].Start)
	})
}

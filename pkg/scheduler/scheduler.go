package scheduler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/arnavshah/roster-optimizer/pkg/models"
)

// CapacityEpsilon absorbs floating-point slack when comparing hours
const CapacityEpsilon = 0.01

// Unscheduled reasons
const (
	ReasonAtCapacity = "All caregivers at hour capacity."
	ReasonNoSlot     = "No available time slot found for any caregiver."
)

// DefaultDayOrder spreads visits over mid-week days before weekends
var DefaultDayOrder = []time.Weekday{
	time.Monday,
	time.Wednesday,
	time.Tuesday,
	time.Thursday,
	time.Friday,
	time.Sunday,
	time.Saturday,
}

// Options tunes a run. Zero values fall back to the defaults.
type Options struct {
	DayOrder    []time.Weekday
	WindowStart string
	WindowEnd   string
}

func (o Options) withDefaults() Options {
	if len(o.DayOrder) == 0 {
		o.DayOrder = DefaultDayOrder
	}
	if o.WindowStart == "" {
		o.WindowStart = DefaultWindowStart
	}
	if o.WindowEnd == "" {
		o.WindowEnd = DefaultWindowEnd
	}
	o.WindowStart = NormalizeTime(o.WindowStart)
	o.WindowEnd = NormalizeTime(o.WindowEnd)
	return o
}

// Scheduler places client visits with caregivers on a working copy of the
// roster. Inputs are copied, so callers' slices are never touched.
type Scheduler struct {
	Caregivers []*models.Caregiver
	Clients    []*models.Client
	Existing   []models.ScheduleEntry
	Options    Options

	Slots       SlotMap
	Proposals   []models.Proposal
	Unscheduled []models.Unscheduled

	existingHours map[string]float64
	proposedHours map[string]float64
	remaining     map[string]float64
	served        map[string]map[string]bool // clientID -> caregiverIDs with an existing entry
	clientDays    map[string]map[int]bool    // clientID -> days with an existing entry
	placed        map[string]int
}

// NewScheduler creates a new scheduler instance
func NewScheduler(caregivers []models.Caregiver, clients []models.Client, existing []models.ScheduleEntry, opts Options) *Scheduler {
	s := &Scheduler{
		Caregivers:    make([]*models.Caregiver, len(caregivers)),
		Clients:       make([]*models.Client, len(clients)),
		Existing:      make([]models.ScheduleEntry, len(existing)),
		Options:       opts.withDefaults(),
		Proposals:     []models.Proposal{},
		Unscheduled:   []models.Unscheduled{},
		existingHours: make(map[string]float64, len(caregivers)),
		proposedHours: make(map[string]float64, len(caregivers)),
		remaining:     make(map[string]float64, len(caregivers)),
		served:        make(map[string]map[string]bool),
		clientDays:    make(map[string]map[int]bool),
		placed:        make(map[string]int, len(clients)),
	}
	for i := range caregivers {
		cg := caregivers[i]
		s.Caregivers[i] = &cg
	}
	for i := range clients {
		cl := clients[i]
		s.Clients[i] = &cl
	}
	copy(s.Existing, existing)
	return s
}

// Prefill records existing bookings: the slot map baseline, booked hours,
// remaining capacity, continuity and days each client is already seen on.
func (s *Scheduler) Prefill() {
	ids := make([]string, len(s.Caregivers))
	for i, cg := range s.Caregivers {
		ids[i] = cg.ID
	}
	s.Slots = BuildSlotMap(ids, s.Existing)

	for id, days := range s.Slots {
		for _, windows := range days {
			for _, w := range windows {
				s.existingHours[id] += DurationHours(w.Start, w.End)
			}
		}
	}
	for _, cg := range s.Caregivers {
		s.remaining[cg.ID] = math.Max(0, cg.TargetHours-s.existingHours[cg.ID])
	}

	for _, e := range s.Existing {
		if e.DayOfWeek < 0 || e.DayOfWeek >= DaysPerWeek {
			continue
		}
		if s.served[e.ClientID] == nil {
			s.served[e.ClientID] = make(map[string]bool)
		}
		s.served[e.ClientID][e.CaregiverID] = true
		if s.clientDays[e.ClientID] == nil {
			s.clientDays[e.ClientID] = make(map[int]bool)
		}
		s.clientDays[e.ClientID][e.DayOfWeek] = true
	}
}

// Remaining returns the open hours a caregiver has left in this run
func (s *Scheduler) Remaining(caregiverID string) float64 {
	return s.remaining[caregiverID]
}

func (s *Scheduler) hasCapacity(caregiverID string, hours float64) bool {
	return s.remaining[caregiverID] >= hours-CapacityEpsilon
}

// ExistingConflicts lists existing bookings that overlap a window
func (s *Scheduler) ExistingConflicts(caregiverID string, day int, start, end string) []models.Window {
	conflicts := []models.Window{}
	for _, w := range s.Slots.Windows(caregiverID, day) {
		if w.IsExisting && Overlaps(start, end, w.Start, w.End) {
			conflicts = append(conflicts, w)
		}
	}
	return conflicts
}

// AssignGreedy walks clients in input order and places each required visit
// with the best-ranked caregiver that has capacity and an open slot, trying
// days in the configured priority order.
func (s *Scheduler) AssignGreedy() {
	if s.Slots == nil {
		s.Prefill()
	}

	for _, client := range s.Clients {
		if client.VisitsPerWeek <= 0 {
			continue
		}
		hoursPerVisit := client.HoursPerWeek / float64(client.VisitsPerWeek)
		durationMinutes := int(math.Round(hoursPerVisit * 60))
		// capacity is charged for the booked slot, not the requested fraction
		slotHours := float64(durationMinutes) / 60

		placedDays := make(map[int]bool, DaysPerWeek)
		for d := range s.clientDays[client.ID] {
			placedDays[d] = true
		}

		ranked := RankCandidates(client, s.Caregivers,
			func(id string) bool { return s.served[client.ID][id] },
			s.Remaining,
		)

		for visit := 0; visit < client.VisitsPerWeek; visit++ {
			if s.placeVisit(client, ranked, placedDays, slotHours, durationMinutes) {
				s.placed[client.ID]++
				continue
			}

			reason := ReasonNoSlot
			if len(ranked) > 0 && !s.hasCapacity(ranked[0].Caregiver.ID, slotHours) {
				reason = ReasonAtCapacity
			}
			s.Unscheduled = append(s.Unscheduled, models.Unscheduled{
				ClientID:      client.ID,
				ClientName:    client.Name,
				VisitNumber:   visit + 1,
				HoursPerVisit: round2(hoursPerVisit),
				Reason:        reason,
			})
		}
	}
}

func (s *Scheduler) placeVisit(client *models.Client, ranked []Candidate, placedDays map[int]bool, hours float64, durationMinutes int) bool {
	for _, weekday := range s.Options.DayOrder {
		day := int(weekday)
		if placedDays[day] {
			continue
		}
		for _, cand := range ranked {
			cg := cand.Caregiver
			if !s.hasCapacity(cg.ID, hours) {
				continue
			}
			start, ok := FindSlot(s.Slots.Windows(cg.ID, day), durationMinutes, s.Options.WindowStart, s.Options.WindowEnd)
			if !ok {
				continue
			}
			end := AddMinutes(start, durationMinutes)
			conflicts := s.ExistingConflicts(cg.ID, day, start, end)

			s.Proposals = append(s.Proposals, models.Proposal{
				Key:           ProposalKey(cg.ID, client.ID, day, start, end),
				CaregiverID:   cg.ID,
				CaregiverName: cg.Name,
				ClientID:      client.ID,
				ClientName:    client.Name,
				DayOfWeek:     day,
				DayName:       weekday.String(),
				StartTime:     start,
				EndTime:       end,
				Hours:         round2(hours),
				HasConflict:   len(conflicts) > 0,
				ConflictsWith: conflicts,
			})
			s.Slots.Reserve(cg.ID, day, models.Window{
				Start:      start,
				End:        end,
				ClientID:   client.ID,
				ClientName: client.Name,
			})
			s.remaining[cg.ID] -= hours
			s.proposedHours[cg.ID] += hours
			placedDays[day] = true
			return true
		}
	}
	return false
}

// ProposalKey is a stable content hash identifying an assignment
func ProposalKey(caregiverID, clientID string, day int, start, end string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%s|%s", caregiverID, clientID, day, NormalizeTime(start), NormalizeTime(end))))
	return hex.EncodeToString(sum[:])
}

// Optimize runs the whole pipeline on plain data and returns the result
func Optimize(caregivers []models.Caregiver, clients []models.Client, existing []models.ScheduleEntry, opts Options) *models.RunResult {
	s := NewScheduler(caregivers, clients, existing, opts)
	s.Prefill()
	s.AssignGreedy()

	return &models.RunResult{
		Proposals:         s.Proposals,
		ExistingSchedules: s.Existing,
		Unscheduled:       s.Unscheduled,
		Summary:           s.Summary(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package scheduler

import (
	"math"

	"github.com/arnavshah/roster-optimizer/pkg/models"
)

// Summary aggregates hours per caregiver, placements per client and global counts
func (s *Scheduler) Summary() models.RunSummary {
	summary := models.RunSummary{
		Caregivers:       make([]models.CaregiverSummary, 0, len(s.Caregivers)),
		Clients:          make([]models.ClientSummary, 0, len(s.Clients)),
		TotalProposals:   len(s.Proposals),
		TotalUnscheduled: len(s.Unscheduled),
	}

	for _, p := range s.Proposals {
		if p.HasConflict {
			summary.TotalConflicts++
		}
	}

	for _, cg := range s.Caregivers {
		existing := s.existingHours[cg.ID]
		proposed := s.proposedHours[cg.ID]
		total := existing + proposed
		utilization := 0.0
		if cg.TargetHours > 0 {
			utilization = math.Round(total / cg.TargetHours * 100)
		}
		summary.Caregivers = append(summary.Caregivers, models.CaregiverSummary{
			CaregiverID:    cg.ID,
			Name:           cg.Name,
			TargetHours:    cg.TargetHours,
			ExistingHours:  round2(existing),
			ProposedHours:  round2(proposed),
			TotalHours:     round2(total),
			UtilizationPct: utilization,
		})
	}

	for _, cl := range s.Clients {
		hoursPerVisit := 0.0
		if cl.VisitsPerWeek > 0 {
			hoursPerVisit = round2(cl.HoursPerWeek / float64(cl.VisitsPerWeek))
		}
		placed := s.placed[cl.ID]
		summary.Clients = append(summary.Clients, models.ClientSummary{
			ClientID:       cl.ID,
			Name:           cl.Name,
			VisitsNeeded:   cl.VisitsPerWeek,
			VisitsPlaced:   placed,
			HoursPerVisit:  hoursPerVisit,
			FullyScheduled: placed >= cl.VisitsPerWeek,
		})
	}

	return summary
}

package optimizer

import (
	"errors"
	"fmt"

	"github.com/arnavshah/roster-optimizer/pkg/models"
	"github.com/arnavshah/roster-optimizer/pkg/scheduler"
)

// ValidateRunRequest rejects requests the engine cannot run on
func ValidateRunRequest(req models.RunRequest) error {
	if len(req.Caregivers) == 0 {
		return fmt.Errorf("%w: at least one caregiver is required", ErrInvalidInput)
	}
	if len(req.Clients) == 0 {
		return fmt.Errorf("%w: at least one client is required", ErrInvalidInput)
	}

	seen := make(map[string]bool, len(req.Caregivers))
	for _, cg := range req.Caregivers {
		if cg.ID == "" {
			return fmt.Errorf("%w: caregiver id is required", ErrInvalidInput)
		}
		if seen[cg.ID] {
			return fmt.Errorf("%w: duplicate caregiver id %s", ErrInvalidInput, cg.ID)
		}
		seen[cg.ID] = true
		if cg.TargetHours < 0 {
			return fmt.Errorf("%w: caregiver %s has negative targetHours", ErrInvalidInput, cg.ID)
		}
	}

	seen = make(map[string]bool, len(req.Clients))
	for _, cl := range req.Clients {
		if cl.ID == "" {
			return fmt.Errorf("%w: client id is required", ErrInvalidInput)
		}
		if seen[cl.ID] {
			return fmt.Errorf("%w: duplicate client id %s", ErrInvalidInput, cl.ID)
		}
		seen[cl.ID] = true
		if cl.HoursPerWeek <= 0 {
			return fmt.Errorf("%w: client %s needs positive hoursPerWeek", ErrInvalidInput, cl.ID)
		}
		if cl.VisitsPerWeek <= 0 {
			return fmt.Errorf("%w: client %s needs positive visitsPerWeek", ErrInvalidInput, cl.ID)
		}
	}
	return nil
}

func validateProposal(p models.Proposal) error {
	if p.CaregiverID == "" || p.ClientID == "" {
		return errors.New("proposal is missing caregiverId or clientId")
	}
	if p.DayOfWeek < 0 || p.DayOfWeek >= scheduler.DaysPerWeek {
		return fmt.Errorf("dayOfWeek %d out of range", p.DayOfWeek)
	}
	if p.StartTime == "" || p.EndTime == "" {
		return errors.New("proposal is missing startTime or endTime")
	}
	if scheduler.ToMinutes(p.StartTime) >= scheduler.ToMinutes(p.EndTime) {
		return fmt.Errorf("startTime %s is not before endTime %s", p.StartTime, p.EndTime)
	}
	return nil
}

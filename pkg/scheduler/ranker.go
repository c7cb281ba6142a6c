package scheduler

import (
	"sort"

	"github.com/arnavshah/roster-optimizer/pkg/models"
)

// Ranking weights
const (
	PreferredBonus  = 20
	ContinuityBonus = 10
	CapacityBonus   = 5
)

// Candidate is a caregiver scored for one client
type Candidate struct {
	Caregiver *models.Caregiver
	Score     int
}

// Allows reports whether the client accepts the caregiver at all
func Allows(client *models.Client, caregiverID string) bool {
	for _, id := range client.ExcludedCaregivers {
		if id == caregiverID {
			return false
		}
	}
	return true
}

func prefers(client *models.Client, caregiverID string) bool {
	for _, id := range client.PreferredCaregivers {
		if id == caregiverID {
			return true
		}
	}
	return false
}

// RankCandidates scores caregivers for a client and orders them best first.
// Excluded caregivers never appear. Equal scores keep the input order.
// served tells whether a caregiver already has an existing entry with the
// client; remaining is the caregiver's open hours.
func RankCandidates(client *models.Client, caregivers []*models.Caregiver, served func(caregiverID string) bool, remaining func(caregiverID string) float64) []Candidate {
	ranked := make([]Candidate, 0, len(caregivers))
	for _, cg := range caregivers {
		if !Allows(client, cg.ID) {
			continue
		}
		score := 0
		if prefers(client, cg.ID) {
			score += PreferredBonus
		}
		if served != nil && served(cg.ID) {
			score += ContinuityBonus
		}
		if remaining != nil && remaining(cg.ID) > 0 {
			score += CapacityBonus
		}
		ranked = append(ranked, Candidate{Caregiver: cg, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

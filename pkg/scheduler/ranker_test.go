package scheduler

import (
	"testing"

	"github.com/arnavshah/roster-optimizer/pkg/models"
)

func TestRankCandidates(t *testing.T) {
	caregivers := []*models.Caregiver{
		{ID: "a", Name: "Ana"},
		{ID: "b", Name: "Ben"},
		{ID: "c", Name: "Cleo"},
		{ID: "d", Name: "Dev"},
		{ID: "e", Name: "Eve"},
	}
	client := &models.Client{
		ID:                  "c1",
		PreferredCaregivers: []string{"c"},
		ExcludedCaregivers:  []string{"b"},
	}
	served := func(id string) bool { return id == "d" }
	remaining := func(id string) float64 {
		if id == "a" {
			return 0
		}
		return 5
	}

	ranked := RankCandidates(client, caregivers, served, remaining)

	want := []struct {
		id    string
		score int
	}{
		{"c", PreferredBonus + CapacityBonus},
		{"d", ContinuityBonus + CapacityBonus},
		{"e", CapacityBonus},
		{"a", 0},
	}
	if len(ranked) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(ranked))
	}
	for i, w := range want {
		if ranked[i].Caregiver.ID != w.id || ranked[i].Score != w.score {
			t.Errorf("rank %d = %s/%d, want %s/%d", i, ranked[i].Caregiver.ID, ranked[i].Score, w.id, w.score)
		}
	}
}

func TestRankCandidatesStableOnTies(t *testing.T) {
	caregivers := []*models.Caregiver{{ID: "z"}, {ID: "y"}, {ID: "x"}}
	ranked := RankCandidates(&models.Client{ID: "c1"}, caregivers, nil, nil)
	for i, id := range []string{"z", "y", "x"} {
		if ranked[i].Caregiver.ID != id {
			t.Errorf("tie order changed at %d: got %s, want %s", i, ranked[i].Caregiver.ID, id)
		}
	}
}

func TestRankCandidatesAllExcluded(t *testing.T) {
	caregivers := []*models.Caregiver{{ID: "a"}}
	client := &models.Client{ID: "c1", ExcludedCaregivers: []string{"a"}}
	if ranked := RankCandidates(client, caregivers, nil, nil); len(ranked) != 0 {
		t.Errorf("expected no candidates, got %d", len(ranked))
	}
}
